package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	HealthExportPath      string `envconfig:"GLUCOLOG_HEALTH_EXPORT_PATH" default:"data/raw/export.xml"`
	GlucoseExportPath     string `envconfig:"GLUCOLOG_GLUCOSE_EXPORT_PATH" default:"data/raw/libre_export.csv"`
	MergeToleranceMinutes int    `envconfig:"GLUCOLOG_MERGE_TOLERANCE_MINUTES" default:"0"`
	ResampleMinutes       int    `envconfig:"GLUCOLOG_RESAMPLE_MINUTES" default:"15"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}
