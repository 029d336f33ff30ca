package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestsPath string // hcl node type manifests
	WorkflowPath  string // optional workflow document to import
	UpdatesPath   string // optional scripted field updates to apply
	ExportPath    string // optional path to write the final document

	LogFormat string
	LogLevel  string

	HTTPPort int // inspection API port, 0 is disabled

	EventBusURL       string // socket.io event bus, empty is disabled
	EventBusNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestsPath == "" {
		return nil, errors.New("ManifestsPath is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}

// Serves reports whether the configuration keeps the app alive after the
// batch phase: an inspection API or an event bridge means serve mode.
func (c *Config) Serves() bool {
	return c.HTTPPort > 0 || c.EventBusURL != ""
}
