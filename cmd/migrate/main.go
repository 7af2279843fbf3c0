package main

// Run database migrations:
//   go run ./cmd/migrate                 # postgres, DATABASE_URL
//   go run ./cmd/migrate -dialect sqlite # SQLITE_PATH

import (
	"context"
	"flag"
	"log"
	"os"

	"toolfinder-backend/internal/shared/config"
	"toolfinder-backend/internal/shared/storage/db"
)

func main() {
	dialect := flag.String("dialect", string(db.DialectPostgres), "postgres or sqlite")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	switch db.Dialect(*dialect) {
	case db.DialectSQLite:
		sdb, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			log.Printf("failed to open sqlite: %v", err)
			os.Exit(1)
		}
		defer sdb.Close()
		if err := db.RunMigrations(ctx, sdb.DB, db.DialectSQLite); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	default:
		opts := db.OptionsFromEnv(db.DefaultCLIOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database: %v", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		if err := db.RunMigrations(ctx, sqlDB, db.Dialect(*dialect)); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	}
	log.Printf("migrations applied (%s)", *dialect)
}
