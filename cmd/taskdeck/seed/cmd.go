package seed

import (
	"errors"

	"github.com/andrebq/taskdeck/internal/cmdflags"
	"github.com/andrebq/taskdeck/internal/seedscript"
	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/andrebq/taskdeck/tracker/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	dbPath := "taskdeck.db"
	script := ""
	return &cli.Command{
		Name:  "seed",
		Usage: "Load fixture users, projects and tasks from a Lua script into a sqlite store",
		Flags: []cli.Flag{
			cmdflags.DBPath(&dbPath),
			&cli.StringFlag{
				Name:        "script",
				Aliases:     []string{"s"},
				Usage:       "Path to the Lua seed script",
				Destination: &script,
			},
		},
		Action: func(ctx *cli.Context) error {
			if script == "" {
				return errors.New("missing path to the seed script")
			}
			users, err := seedscript.LoadFile(script)
			if err != nil {
				return err
			}
			st, err := store.OpenSqlite(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return seedscript.Apply(ctx.Context, st, auth.DefaultHasher(), users)
		},
	}
}
