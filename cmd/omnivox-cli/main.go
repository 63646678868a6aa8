package main

import (
	"context"
	"omnivox-backend/cmd/omnivox-cli/commands"
	"omnivox-backend/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
