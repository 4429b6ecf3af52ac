package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/bootstrap/internal/schema"
)

// FileNames are the config files looked up in the working directory, in order.
var FileNames = []string{"bootstrap.json", "bootstrap.yaml", "bootstrap.yml"}

// Find returns the path of the first config file present in dir, or "" if none.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("%s is a directory", path)
			}
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", nil
}

// Load reads and parses a configuration file without applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes YAML or JSON config data, validates it against the embedded
// schema and maps it onto Config. JSON is accepted because it is valid YAML.
func Parse(data []byte) (*Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		// Empty file.
		raw = map[string]interface{}{}
	}

	if err := schema.ValidateValue(raw); err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(withoutSchemaKey(raw)); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate finds the config in dir, applies defaults and validates it.
// It returns the path that was loaded ("" when running on defaults).
func LoadAndValidate(dir string) (*Config, string, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, "", err
	}

	cfg := &Config{}
	if path != "" {
		cfg, err = Load(path)
		if err != nil {
			return nil, path, err
		}
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// String renders the config as JSON for verbose output.
func (c *Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(data)
}

// withoutSchemaKey drops the editor-only "$schema" key before decoding.
func withoutSchemaKey(raw interface{}) interface{} {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return raw
	}
	if _, has := m["$schema"]; !has {
		return m
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k != "$schema" {
			out[k] = v
		}
	}
	return out
}
