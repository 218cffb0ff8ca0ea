package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Generate a fresh token signing secret, ready to be exported as " + auth.SecretEnvVar,
		Action: func(ctx *cli.Context) error {
			buf := make([]byte, auth.MinSecretLen)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("cannot read random bytes, cause %w", err)
			}
			fmt.Fprintln(ctx.App.Writer, base64.StdEncoding.EncodeToString(buf))
			return nil
		},
	}
}
