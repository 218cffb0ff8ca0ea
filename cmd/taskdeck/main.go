package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/taskdeck/cmd/taskdeck/secret"
	"github.com/andrebq/taskdeck/cmd/taskdeck/seed"
	"github.com/andrebq/taskdeck/cmd/taskdeck/serve"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "taskdeck",
		Usage: "Track your projects and tasks behind a tiny JSON API",
		Commands: []*cli.Command{
			serve.Cmd(),
			seed.Cmd(),
			secret.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
