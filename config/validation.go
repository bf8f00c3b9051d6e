package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// minProductionSecretLength is the shortest HS256 key accepted in production.
const minProductionSecretLength = 32

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.Environment != Test {
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{"JWT_SECRET", "required (env or jwt_secret secret)"})
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "required (env or db_password secret)"})
		}
	}
	if cfg.Environment == Production && len(cfg.JWTSecret) < minProductionSecretLength {
		errs = append(errs, ValidationError{"JWT_SECRET", fmt.Sprintf("must be at least %d bytes in production", minProductionSecretLength)})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"TOKEN_TTL", "must be positive"})
	}
	if cfg.RecipeCreationLimit < 1 {
		errs = append(errs, ValidationError{"RECIPE_CREATION_LIMIT", "must be at least 1"})
	}
	if cfg.RecipeCreationWindow <= 0 {
		errs = append(errs, ValidationError{"RECIPE_CREATION_WINDOW", "must be positive"})
	}

	return errors.Join(errs...)
}
