package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"
)

type Config struct {
	BaseConfig
	SQLite     SQLite
	ClickHouse ClickHouse
}

type BaseConfig struct {
	IsProduction bool        `env:"PRODUCTION"`
	DB           SupportedDB `env:"DATABASE"`
	API          API
	Gemini       Gemini
}

type API struct {
	Port string `env:"API_PORT"`
}

// Gemini is fully optional: a blank API key makes the service fall back to the
// keyword interpreter for prompt-based reports.
type Gemini struct {
	APIKey         string `env:"GEMINI_API_KEY" envDefault:""`
	Model          string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	TimeoutSeconds int    `env:"GEMINI_TIMEOUT_SECONDS" envDefault:"10"`
}

type SQLite struct {
	Path          string `env:"SQLITE_PATH"`
	SeedOnStartup bool   `env:"DEBUG_SEED_ON_STARTUP" envDefault:"false"`
}

type ClickHouse struct {
	Address      string `env:"CLICKHOUSE_ADDRESS"`
	DatabaseName string `env:"CLICKHOUSE_DB_NAME"`
	Username     string `env:"CLICKHOUSE_USERNAME"`
	Password     string `env:"CLICKHOUSE_PASSWORD"`
	Debug        bool   `env:"CLICKHOUSE_DEBUG_ENABLED"`
}

type SupportedDB string

const (
	DBSQLite     SupportedDB = "sqlite"
	DBClickHouse SupportedDB = "clickhouse"
)

func ReadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config

	if err := env.ParseWithOptions(&config.BaseConfig, parseOptions); err != nil {
		return Config{}, err
	}

	switch config.DB {
	case DBSQLite:
		if err := env.ParseWithOptions(&config.SQLite, parseOptions); err != nil {
			return Config{}, err
		}
	case DBClickHouse:
		if err := env.ParseWithOptions(&config.ClickHouse, parseOptions); err != nil {
			return Config{}, err
		}
	default:
		err := fmt.Errorf("must be one of: '%s', '%s'", DBSQLite, DBClickHouse)
		return Config{}, wrap.Errorf(err, "unsupported value '%s' for DATABASE in env", config.DB)
	}

	return config, nil
}
