package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/erpbridge/xml-erp-bridge/internal/database"
	"github.com/erpbridge/xml-erp-bridge/internal/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment variables.")
	}

	// Get database URL
	dbURL := os.Getenv("POSTGRES_DB_URL")
	if dbURL == "" {
		log.Fatalf("POSTGRES_DB_URL environment variable not set")
	}

	dir := "scripts/migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	logger := logging.New("pretty", os.Getenv("LOG_LEVEL"))
	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, dbURL)
	if err != nil {
		logger.WithError(err).Fatal("Unable to connect to database")
	}
	defer db.Close()

	migrations, err := database.LoadMigrations(dir)
	if err != nil {
		logger.WithError(err).Fatal("Unable to load migrations")
	}

	applied, err := db.Migrate(ctx, migrations, logger)
	if err != nil {
		logger.WithError(err).Fatal("Migration failed")
	}
	logger.WithField("applied", applied).Info("Migrations successfully executed")
}
