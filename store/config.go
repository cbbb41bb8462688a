package store

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	DatabaseName string `envconfig:"GLUCOLOG_DATABASE_NAME" default:"glucolog"`
	Host         string `envconfig:"GLUCOLOG_STORE_HOST" default:"localhost"`
	Port         uint16 `envconfig:"GLUCOLOG_STORE_PORT" default:"5432"`
	User         string `envconfig:"GLUCOLOG_STORE_USERNAME" default:"postgres"`
	Password     string `envconfig:"GLUCOLOG_STORE_PASSWORD"`
	SslMode      string `envconfig:"GLUCOLOG_STORE_SSL_MODE" default:"disable"`
}

func (c *Config) GetConnectionString() (string, error) {
	cs := fmt.Sprintf("postgres://%s", c.User)
	if c.Password != "" {
		cs += ":" + c.Password
	}
	cs += fmt.Sprintf("@%s:%d/%s", c.Host, c.Port, c.DatabaseName)
	if c.SslMode != "" {
		cs += "?sslmode=" + c.SslMode
	}

	return cs, nil
}
