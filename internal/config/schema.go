// Package config provides loading and validation for bootstrap.json / bootstrap.yaml.
package config

// Config represents the complete bootstrap configuration.
// Every field is optional in the file; applyDefaults fills the gaps.
type Config struct {
	Python        string      `json:"python,omitempty" yaml:"python,omitempty" mapstructure:"python"`
	InstallDir    string      `json:"install_dir,omitempty" yaml:"install_dir,omitempty" mapstructure:"install_dir"`
	Requirements  string      `json:"requirements,omitempty" yaml:"requirements,omitempty" mapstructure:"requirements"`
	PipFlags      []string    `json:"pip_flags,omitempty" yaml:"pip_flags,omitempty" mapstructure:"pip_flags"`
	SearchPathVar string      `json:"search_path_var,omitempty" yaml:"search_path_var,omitempty" mapstructure:"search_path_var"`
	Docs          *DocsConfig `json:"docs,omitempty" yaml:"docs,omitempty" mapstructure:"docs"`
}

// DocsConfig configures the optional documentation step.
type DocsConfig struct {
	Requirements string `json:"requirements,omitempty" yaml:"requirements,omitempty" mapstructure:"requirements"`
	Directory    string `json:"directory,omitempty" yaml:"directory,omitempty" mapstructure:"directory"`
}
