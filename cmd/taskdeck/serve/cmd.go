package serve

import (
	"context"
	"fmt"

	"github.com/andrebq/taskdeck/internal/cmdflags"
	"github.com/andrebq/taskdeck/internal/config"
	"github.com/andrebq/taskdeck/internal/httpserver"
	"github.com/andrebq/taskdeck/internal/logutil"
	"github.com/andrebq/taskdeck/tracker/api"
	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/andrebq/taskdeck/tracker/store"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	cfg, err := config.FromEnv()
	secretEnvVar := auth.SecretEnvVar
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the taskdeck API server",
		Flags: []cli.Flag{
			cmdflags.Bind(&cfg.Bind),
			cmdflags.StoreBackend(&cfg.Backend),
			cmdflags.DBPath(&cfg.DBPath),
			cmdflags.SecretEnvVar(&secretEnvVar),
		},
		Action: func(ctx *cli.Context) error {
			if err != nil {
				return err
			}
			st, err := openStore(ctx.Context, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			secret, err := auth.SecretFromEnv(secretEnvVar, nil, nil)
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(secret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			svc := api.NewService(st, auth.DefaultHasher(), tokens)
			handler := logutil.RequestLogger(log.Logger, api.AsHandler(svc))
			return httpserver.Serve(ctx.Context, cfg.Bind, handler)
		},
	}
}

func openStore(ctx context.Context, cfg config.Server) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.OpenSqlite(ctx, cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown store backend %v", cfg.Backend)
}
