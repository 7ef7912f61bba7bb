package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joneireis/cidacake-program/internal/ledger/bootstrap"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
	"github.com/joneireis/cidacake-program/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	mainCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultLogger := logging.StdoutLogger

	cfg := bootstrap.LoadLedgerConfig()

	err := database.MigrateDatabase(cfg.DbSettings.GetUrl(), migrations.FS, ".", "pgx", "postgres")
	if err != nil {
		defaultLogger.Error("failed to migrate database", "error", err.Error())
		return
	}

	app := bootstrap.NewLedgerApp(cfg, defaultLogger)

	if err := app.Run(mainCtx); err != nil {
		defaultLogger.Error("ledger app stopped with error", "error", err.Error())
	}
}
