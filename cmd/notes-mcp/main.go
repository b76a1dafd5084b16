package main

import (
	"fmt"
	"os"

	"github.com/satchelhq/satchel/internal/cli"
	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/logger"
	"github.com/satchelhq/satchel/pkg/notes"
	"github.com/satchelhq/satchel/pkg/ops"
)

var version = "dev"

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(env.Debug)

	registry := ops.NewRegistry()
	notes.New(nil).Register(registry)

	cli.Execute(cli.App{
		Name:        "notes-mcp",
		DisplayName: "Apple Notes",
		Version:     version,
		Integration: config.Notes(env),
		Registry:    registry,
	})
}
