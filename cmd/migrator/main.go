package main

import (
	"flag"
	"log"

	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with goose migrations")
	command := flag.String("command", "up", "goose command: up, down, status")
	flag.Parse()

	cfg := config.MustLoad()
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Migrations only apply to the postgres driver, configured driver is %q", cfg.Storage.Driver)
	}

	dbpool, dbErr := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	if migrationErr := goose.Run(*command, dtb, *dir); migrationErr != nil {
		log.Fatal(migrationErr) //nolint:gocritic // pool is released by process exit
	}

	log.Printf("Migrations %q applied successfully", *command)
}
