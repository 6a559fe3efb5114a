package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
)

// Load parses environment variables into the provided struct using `env` tags.
// A missing `required` variable is reported as ErrMissingConfiguration.
//
//	type Config struct {
//	    Port       int    `env:"HTTP_PORT" envDefault:"8080"`
//	    CatalogURL string `env:"GUIDE_CATALOG_URL,required"`
//	}
func Load(cfg any) error {
	return LoadWithPrefix(cfg, "")
}

// LoadWithPrefix is Load with every variable name prefixed, e.g. "PRIVACY_".
func LoadWithPrefix(cfg any, prefix string) error {
	err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix})
	if err == nil {
		return nil
	}
	if errors.Is(err, env.EnvVarIsNotSetError{}) || errors.Is(err, env.EmptyEnvVarError{}) {
		return fmt.Errorf("parse config: %w: %w", apperrors.ErrMissingConfiguration, err)
	}
	return fmt.Errorf("parse config: %w", err)
}
