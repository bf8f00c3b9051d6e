package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the *.sql migration files")
	flag.Parse()

	appLog, err := logger.New(config.GetEnvironment().LogMode(), os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			appLog.Fatal("DATABASE_URL is not set and configuration failed to load", "error", err)
		}
		dsn = cfg.DatabaseDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		appLog.Fatal("failed to reach database", "error", err)
	}

	if *rollback {
		name, err := database.RollbackLastMigration(ctx, db, *dir, appLog)
		if errors.Is(err, database.ErrNoMigrations) {
			appLog.Info("no migrations to roll back")
			return
		}
		if err != nil {
			appLog.Fatal("rollback failed", "error", err)
		}
		appLog.Info("successfully rolled back migration", "name", name)
		return
	}

	if err := database.RunSQLMigrations(ctx, db, *dir, appLog); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}
	appLog.Info("all migrations applied successfully")
}
