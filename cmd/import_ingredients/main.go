package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file of name,measurement_unit rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment.LogMode(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()
	db, err := database.New(ctx, cfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		appLog.Fatal("failed to open ingredients file", "path", *path, "error", err)
	}
	defer file.Close()

	result, err := service.NewCatalogService(db, appLog).ImportIngredients(ctx, file)
	if err != nil {
		appLog.Fatal("ingredient import failed", "created", result.Created, "error", err)
	}
	appLog.Info("ingredient import finished", "file", *path, "created", result.Created, "skipped", result.Skipped)
}
