package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirements lists the settings that must be non-empty per environment.
var requirements = map[Environment][]string{
	Development: {"JWT_SECRET"},
	Test:        {"JWT_SECRET"},
	CI:          {"JWT_SECRET", "DB_PASSWORD"},
	Production:  {"JWT_SECRET", "DB_PASSWORD"},
}

const insecureSecret = "change-me"

// ValidateConfig checks if the configuration meets the requirements for its environment.
// All problems are reported at once.
func ValidateConfig(cfg *Config) error {
	var errs []string

	for _, name := range requirements[cfg.Env] {
		if value(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required"}.Error())
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"}.Error())
	}

	switch cfg.MediaDriver {
	case "disk":
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "is required when MEDIA_DRIVER=s3"}.Error())
		}
	default:
		errs = append(errs, ValidationError{Field: "MEDIA_DRIVER", Message: "must be disk or s3"}.Error())
	}

	if cfg.Env == Production && cfg.JWTSecret == insecureSecret {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must not use the example value in production"}.Error())
	}
	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be positive"}.Error())
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func value(cfg *Config, name string) string {
	switch name {
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "DB_PASSWORD":
		return cfg.DBPassword
	}
	return ""
}
