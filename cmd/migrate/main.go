package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/repository/sqlite"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if cfg.Storage.Backend != "sqlite" {
		fmt.Printf("Storage backend is %q, nothing to migrate\n", cfg.Storage.Backend)
		return
	}

	fmt.Printf("Applying migrations to %s...\n", cfg.Storage.SQLite.Path)

	if err := sqlite.RunMigrations(cfg.Storage.SQLite.Path); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	fmt.Println("Migrations applied successfully")
}
