//go:build ignore

// Standalone migration runner:
//
//	go run scripts/migrate.go up
//	go run scripts/migrate.go down
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/insightcrew/relata/pkg/config"
)

func main() {
	direction := migrate.Up
	if len(os.Args) > 1 && os.Args[1] == "down" {
		direction = migrate.Down
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	migrations := &migrate.FileMigrationSource{Dir: "migrations"}
	applied, err := migrate.Exec(db, "postgres", migrations, direction)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	fmt.Printf("Applied %d migrations\n", applied)
}
