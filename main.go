package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"

	"ecomreports/api"
	"ecomreports/config"
	"ecomreports/interpret"
	"ecomreports/reports"
	"ecomreports/reports/clickhouse"
	"ecomreports/reports/sqlite"
	"ecomreports/schema"
	"ecomreports/seed"
)

func main() {
	conf, err := config.ReadFromEnv()
	if err != nil {
		log.ErrorCause(err, "failed to read config from env")
		os.Exit(1)
	}

	logLevel := slog.LevelDebug
	if conf.IsProduction {
		logLevel = slog.LevelInfo
	}
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: logLevel})
	slog.SetDefault(slog.New(logHandler))

	reportSchema := schema.Ecommerce()

	db, err := initializeDatabase(conf, reportSchema)
	if err != nil {
		log.ErrorCause(err, "failed to initialize database")
		os.Exit(1)
	}

	interpreter := interpret.New(conf.Gemini, reportSchema)
	if conf.Gemini.APIKey == "" {
		log.Info("no Gemini API key configured, using keyword interpretation only")
	}

	reportAPI := api.NewReportAPI(db, interpreter, reportSchema, http.DefaultServeMux, conf.API)

	log.Infof("Listening on port %s...", conf.API.Port)
	if err := reportAPI.ListenAndServe(); err != nil {
		log.ErrorCause(err, "server stopped")
		os.Exit(1)
	}
}

func initializeDatabase(
	conf config.Config,
	reportSchema *schema.Schema,
) (reports.ReportDatabase, error) {
	switch conf.DB {
	case config.DBSQLite:
		db, err := sqlite.NewSQLiteDB(conf.SQLite.Path, reportSchema)
		if err != nil {
			return nil, err
		}

		if conf.SQLite.SeedOnStartup {
			log.Info("seeding SQLite database from embedded fixtures")
			if err := seed.Database(context.Background(), db, reportSchema); err != nil {
				return nil, err
			}
		} else if err := db.CreateTables(context.Background()); err != nil {
			return nil, err
		}

		return db, nil
	case config.DBClickHouse:
		return clickhouse.NewClickHouseDB(conf.ClickHouse, reportSchema)
	default:
		return nil, fmt.Errorf("unsupported database '%s' in config", conf.DB)
	}
}
