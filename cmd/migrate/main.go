// Command migrate applies the embedded schema to the database named by
// DATABASE_URL.  Every statement is idempotent, so it is safe to rerun.
package main

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/game-topup-store/internal/config"
	"github.com/iliyamo/game-topup-store/internal/database"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrate: applied %d statements", len(database.Statements()))
}
