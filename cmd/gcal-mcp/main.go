package main

import (
	"fmt"
	"os"

	"github.com/satchelhq/satchel/internal/cli"
	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/credstore"
	"github.com/satchelhq/satchel/pkg/gcal"
	"github.com/satchelhq/satchel/pkg/logger"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/session"
)

var version = "dev"

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(env.Debug)

	integ := config.Calendar(env)
	store := credstore.New(integ)
	provider := session.NewProvider(integ, store, &session.BrowserFlow{Timeout: env.OAuthTimeout})

	registry := ops.NewRegistry()
	gcal.New(integ, provider).Register(registry)

	cli.Execute(cli.App{
		Name:        "gcal-mcp",
		DisplayName: "Google Calendar",
		Version:     version,
		Integration: integ,
		Registry:    registry,
		Provider:    provider,
		Store:       store,
	})
}
