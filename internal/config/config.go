package config

import (
	"fmt"
	"net/url"
	"os"
)

// Default values for the database connection, used when the corresponding
// environment variable is unset. They match a stock local Postgres.
const (
	defaultDBHost = "localhost"
	defaultDBPort = "5432"
	defaultDBName = "hailstack"
	defaultDBUser = "postgres"
	defaultDBPass = "postgres"

	// defaultOrchestratorURL is where the stack's orchestrator API listens
	// after `hailstack up` (first manifest service, port 8000).
	defaultOrchestratorURL = "http://127.0.0.1:8000"
)

// DB holds the PostgreSQL connection settings shared by every subcommand
// and exported to every launched stack process.
type DB struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// LoadDB resolves the database settings from the environment,
// falling back to local-dev defaults for anything unset.
func LoadDB() DB {
	return DB{
		Host:     getEnvOrDefault("DB_HOST", defaultDBHost),
		Port:     getEnvOrDefault("DB_PORT", defaultDBPort),
		Name:     getEnvOrDefault("DB_NAME", defaultDBName),
		User:     getEnvOrDefault("DB_USER", defaultDBUser),
		Password: getEnvOrDefault("DB_PASS", defaultDBPass),
	}
}

// Env returns the five DB_* variables in KEY=value form, ready to append
// to a child process environment. This is the launcher's half of the
// contract with the launched services: the names are fixed, the values
// come from the resolved configuration.
func (d DB) Env() []string {
	return []string{
		"DB_HOST=" + d.Host,
		"DB_PORT=" + d.Port,
		"DB_NAME=" + d.Name,
		"DB_USER=" + d.User,
		"DB_PASS=" + d.Password,
	}
}

// DSN returns a postgres:// connection URL for pgx.
// The password is URL-escaped so that punctuation survives.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
	)
}

// OrchestratorURL resolves the base URL of the orchestrator API, from the
// HAILSTACK_API environment variable or the default local address.
func OrchestratorURL() string {
	return getEnvOrDefault("HAILSTACK_API", defaultOrchestratorURL)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
