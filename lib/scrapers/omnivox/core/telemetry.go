package core

import (
	"omnivox-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("omnivox.lib.scrapers.omnivox.core")

const (
	report_client_login = "client.login"
	report_client_get   = "client.get"
)
