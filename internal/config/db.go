package config

import (
	"fmt"
	"os"
)

// DatabaseConfig enables the MySQL snapshot table when DSN is set
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

func (d *DatabaseConfig) applyEnv() {
	if dsn := GetDatabaseDSN(); dsn != "" {
		d.DSN = dsn
	}
}

func (d DatabaseConfig) Enabled() bool {
	return d.DSN != ""
}

// Returns the database connection string from the environment, or "" when unset.
// The DB_* variables take precedence over DATABASE_DSN.
func GetDatabaseDSN() string {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_NAME")

	if user != "" && password != "" && host != "" && port != "" && database != "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port, database)
	}

	return os.Getenv("DATABASE_DSN")
}
