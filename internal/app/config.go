package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by NewConfig to unset fields.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "auto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are declarative source files or directories.
	Paths []string `validate:"required,min=1,dive,required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json auto"`

	// Strict turns warnings into a failed check.
	Strict bool
	// Output is where exports are written; empty means the app's writer.
	Output string
}

// NewConfig fills defaults into cfg and validates it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", describe(err))
	}
	return &cfg, nil
}

// describe turns validator errors into one readable error per field.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "min":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got '%v'", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed the '%s' check", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
