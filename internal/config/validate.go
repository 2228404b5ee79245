package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	return v
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Validate checks field rules and the cross-field constraints between them.
func Validate(cfg Config) error {
	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == "" {
		return fmt.Errorf("%w: metrics.port is required when metrics are enabled", ErrInvalid)
	}
	if cfg.FetchTimeout > cfg.PollInterval {
		return fmt.Errorf("%w: fetch_timeout %s exceeds poll_interval %s", ErrInvalid, cfg.FetchTimeout, cfg.PollInterval)
	}
	if _, err := cfg.Registry(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
