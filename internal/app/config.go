package app

// Config is the set of process-level flags the CLI collects before
// handing off to NewApplication. It is distinct from config.Config (the
// on-disk static configuration loaded once Config.ConfigPath is known).
type Config struct {
	// Debug enables debug-level logging.
	Debug bool
	// Silent discards all log output.
	Silent bool
	// ConfigPath points at a YAML file to overlay onto config.Default().
	// Empty means defaults only.
	ConfigPath string
}

// NewConfig builds an app.Config from the flags the serve command
// collects.
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{Debug: debug, Silent: silent, ConfigPath: configPath}
}
