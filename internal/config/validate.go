package config

import (
	"fmt"
	"regexp"
	"strings"
)

// envVarPattern restricts search_path_var to portable variable names.
var envVarPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks semantic rules the schema cannot express.
// It expects defaults to have been applied.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Python) == "" {
		return &ValidationError{Field: "python", Message: "is required"}
	}
	if strings.TrimSpace(cfg.Requirements) == "" {
		return &ValidationError{Field: "requirements", Message: "is required"}
	}
	if err := validateSearchPathVar(cfg.SearchPathVar); err != nil {
		return err
	}
	for i, flag := range cfg.PipFlags {
		if !strings.HasPrefix(flag, "-") {
			return &ValidationError{
				Field:   fmt.Sprintf("pip_flags[%d]", i),
				Message: fmt.Sprintf("%q is not a flag (must start with '-')", flag),
			}
		}
	}
	return nil
}

func validateSearchPathVar(name string) error {
	if !envVarPattern.MatchString(name) {
		return &ValidationError{
			Field:   "search_path_var",
			Message: "must match pattern ^[A-Za-z_][A-Za-z0-9_]*$",
		}
	}
	// PATH is already rebuilt from the execution paths; reusing it would
	// interleave module directories into the executable search path.
	if name == "PATH" {
		return &ValidationError{Field: "search_path_var", Message: `must not be "PATH"`}
	}
	return nil
}
