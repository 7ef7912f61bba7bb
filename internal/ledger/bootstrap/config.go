package bootstrap

import (
	"github.com/joneireis/cidacake-program/internal/pkg/database"
	"github.com/joneireis/cidacake-program/internal/pkg/env"
)

type LedgerConfig struct {
	DbSettings database.PostgresSettings
	RedisAddr  string
	JwtSecret  string
	HttpPort   string
}

// LoadLedgerConfig starts from local-development defaults and overrides from
// the environment.
func LoadLedgerConfig() LedgerConfig {
	cfg := LedgerConfig{
		DbSettings: database.PostgresSettings{
			User:       "admin",
			Password:   "password",
			Host:       "localhost",
			Port:       "5432",
			DBName:     "cidacake_db",
			SSlEnabled: false,
		},
		RedisAddr: "localhost:6379",
		JwtSecret: "test-secret",
		HttpPort:  ":8080",
	}

	env.TrySetFromEnv(env.EnvDatabaseUser, &cfg.DbSettings.User)
	env.TrySetFromEnv(env.EnvDatabasePassword, &cfg.DbSettings.Password)
	env.TrySetFromEnv(env.EnvDatabaseHost, &cfg.DbSettings.Host)
	env.TrySetFromEnv(env.EnvDatabasePort, &cfg.DbSettings.Port)
	env.TrySetFromEnv(env.EnvDatabaseName, &cfg.DbSettings.DBName)
	env.TrySetFromEnv(env.EnvRedisAddr, &cfg.RedisAddr)
	env.TrySetFromEnv(env.EnvJwtSecret, &cfg.JwtSecret)
	env.TrySetFromEnv(env.EnvHttpPort, &cfg.HttpPort)

	return cfg
}
