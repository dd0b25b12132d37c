// Package config loads object store settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gnitoahc/go-dotenv"
	"golang.org/x/term"

	"github.com/naomijub/s3ql/pkg/s3store"
)

// Environment keys.
const (
	EnvEndpoint        = "S3QL_ENDPOINT"
	EnvRegion          = "S3QL_REGION"
	EnvAccessKey       = "S3QL_ACCESS_KEY"
	EnvSecretAccessKey = "S3QL_SECRET_ACCESS_KEY"
	EnvSessionToken    = "S3QL_SESSION_TOKEN"
	EnvPathStyle       = "S3QL_PATH_STYLE"
)

// Load reads path into the environment. A missing file is not an error.
func Load(path string) {
	dotenv.Load(path)
}

// Storage builds the store configuration from the environment. When an access
// key is set without a secret and stdin is a terminal, the secret is prompted for.
func Storage() (s3store.Config, error) {
	cfg := s3store.Config{
		Endpoint:        env(EnvEndpoint, ""),
		Region:          env(EnvRegion, s3store.DefaultRegion),
		AccessKey:       env(EnvAccessKey, ""),
		SecretAccessKey: env(EnvSecretAccessKey, ""),
		SessionToken:    env(EnvSessionToken, ""),
	}

	pathStyle, err := parseBool(env(EnvPathStyle, ""), cfg.Endpoint != "")
	if err != nil {
		return s3store.Config{}, fmt.Errorf("config: %s: %w", EnvPathStyle, err)
	}
	cfg.UsePathStyle = pathStyle

	if cfg.AccessKey != "" && cfg.SecretAccessKey == "" {
		secret, err := promptSecret()
		if err != nil {
			return s3store.Config{}, err
		}
		cfg.SecretAccessKey = secret
	}
	return cfg, nil
}

// env returns the value of key, or def when it is unset or empty.
func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBool returns def for an empty value.
func parseBool(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func promptSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("config: %s is set but %s is not", EnvAccessKey, EnvSecretAccessKey)
	}

	fmt.Fprint(os.Stderr, "Secret access key: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // move to next line after input
	if err != nil {
		return "", fmt.Errorf("config: read secret: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("config: empty secret access key")
	}
	return string(b), nil
}
