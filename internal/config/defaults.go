package config

// Default configuration values.
const (
	DefaultPython           = "python3"
	DefaultInstallDir       = "external"
	DefaultRequirements     = "requirements.txt"
	DefaultDocsRequirements = "docs/requirements.txt"
	DefaultDocsDirectory    = "docs"
	DefaultSearchPathVar    = "PYTHONPATH"
)

// DefaultPipFlags are passed to every pip install step unless overridden.
var DefaultPipFlags = []string{"--no-cache-dir", "-q"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Python == "" {
		cfg.Python = DefaultPython
	}
	if cfg.InstallDir == "" {
		cfg.InstallDir = DefaultInstallDir
	}
	if cfg.Requirements == "" {
		cfg.Requirements = DefaultRequirements
	}
	// nil means "not configured"; an explicit empty list disables the flags.
	if cfg.PipFlags == nil {
		cfg.PipFlags = append([]string(nil), DefaultPipFlags...)
	}
	if cfg.SearchPathVar == "" {
		cfg.SearchPathVar = DefaultSearchPathVar
	}
	applyDocsDefaults(cfg)
}

func applyDocsDefaults(cfg *Config) {
	if cfg.Docs == nil {
		cfg.Docs = &DocsConfig{}
	}
	if cfg.Docs.Requirements == "" {
		cfg.Docs.Requirements = DefaultDocsRequirements
	}
	if cfg.Docs.Directory == "" {
		cfg.Docs.Directory = DefaultDocsDirectory
	}
}
