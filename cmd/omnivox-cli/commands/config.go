package commands

import (
	"omnivox-backend/lib/configutil"
	"omnivox-backend/lib/telemetry"
)

type Config struct {
	Institution string `json:"institution"`
	// LoginUrl overrides the institution's default login url.
	LoginUrl          string           `json:"login_url"`
	Username          string           `json:"username"`
	Password          string           `json:"password"`
	TimeoutSeconds    int              `json:"timeout_seconds"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	DumpHttp          string           `json:"dump_http"`
	Ics               string           `json:"ics"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

// environment variables (a .env file is loaded into them) override the
// configuration file.
const (
	envInstitution = "OMNIVOX_INSTITUTION"
	envUsername    = "OMNIVOX_USERNAME"
	envPassword    = "OMNIVOX_PASSWORD"
)

func envConfig(getenv func(string) string) Config {
	return Config{
		Institution: getenv(envInstitution),
		Username:    getenv(envUsername),
		Password:    getenv(envPassword),
	}
}

func argsConfig(args []string) Config {
	var cfg Config
	if len(args) > 0 {
		cfg.Institution = args[0]
	}
	if len(args) > 1 {
		cfg.Username = args[1]
	}
	if len(args) > 2 {
		cfg.Password = args[2]
	}
	cfg.DumpHttp = dumpHttp
	cfg.TimeoutSeconds = timeout
	cfg.Ics = icsPath
	return cfg
}

// readConfig layers the configuration file, the environment and the command
// line, in increasing order of priority.
func readConfig(path string, args []string, getenv func(string) string) (Config, error) {
	return configutil.Load(path, envConfig(getenv), argsConfig(args))
}
