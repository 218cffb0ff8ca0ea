package auth

import (
	"encoding/base64"
	"fmt"
	"os"
)

const (
	SecretEnvVar = "TASKDECK_TOKEN_SECRET"

	// MinSecretLen keeps HMAC keys at least as wide as the SHA-256 block
	// they feed.
	MinSecretLen = 32
)

// SecretFromEnv reads the base64-encoded signing secret from the given
// environment variable and clears the variable afterwards, so the secret
// does not linger in the process environment for child processes to read.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) ([]byte, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	secret, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("auth: cannot decode string to valid secret, cause %v", err)
	} else if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("auth: decoded secret too short got %v expecting at least %v bytes", len(secret), MinSecretLen)
	}
	return secret, nil
}
