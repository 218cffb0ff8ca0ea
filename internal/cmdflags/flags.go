package cmdflags

import (
	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/urfave/cli/v2"
)

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind the API server",
		Destination: out,
		Value:       *out,
	}
}

func DBPath(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Aliases:     []string{"d"},
		Usage:       "Path to the sqlite database file",
		Destination: out,
		Value:       *out,
	}
}

func StoreBackend(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "store",
		Usage:       "Storage backend (memory or sqlite)",
		Destination: out,
		Value:       *out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "secret-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
