package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:"0.0.0.0:8080"`
	JWTSecret   string `env:"JWT_SECRET,notEmpty"`
	DB          DB
}

type DB struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER,notEmpty"`
	Password string `env:"POSTGRES_PASSWORD,notEmpty"`
	Name     string `env:"POSTGRES_DB,notEmpty"`
}

func (c Config) IsDevEnvironment() bool {
	return c.Environment == "dev"
}

func (d DB) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

func Load() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// LoadDB parses only the database settings, for tooling that never
// touches the HTTP or token layers.
func LoadDB() (DB, error) {
	var db DB
	if err := env.Parse(&db); err != nil {
		return DB{}, fmt.Errorf("failed to parse db config: %w", err)
	}
	return db, nil
}
