package config

import (
	"errors"
	"testing"
)

func asValidationError(err error, target **ValidationError) bool {
	return errors.As(err, target)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"custom search var", func(c *Config) { c.SearchPathVar = "MY_PATH_2" }, ""},
		{"no pip flags", func(c *Config) { c.PipFlags = []string{} }, ""},
		{"blank python", func(c *Config) { c.Python = "  " }, "python"},
		{"blank requirements", func(c *Config) { c.Requirements = " " }, "requirements"},
		{"search var with space", func(c *Config) { c.SearchPathVar = "A B" }, "search_path_var"},
		{"search var starting with digit", func(c *Config) { c.SearchPathVar = "1PATH" }, "search_path_var"},
		{"search var PATH", func(c *Config) { c.SearchPathVar = "PATH" }, "search_path_var"},
		{"pip flag without dash", func(c *Config) { c.PipFlags = []string{"-q", "upgrade"} }, "pip_flags[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var verr *ValidationError
			if !asValidationError(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Python != DefaultPython || cfg.InstallDir != DefaultInstallDir {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.Docs == nil || cfg.Docs.Requirements != DefaultDocsRequirements || cfg.Docs.Directory != DefaultDocsDirectory {
		t.Errorf("Docs = %+v", cfg.Docs)
	}

	cfg.PipFlags[0] = "mutated"
	if DefaultPipFlags[0] == "mutated" {
		t.Error("Default() aliases DefaultPipFlags")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "python", Message: "is required"}
	if err.Error() != "python: is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
