package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"medifinder/internal/config"
	"medifinder/internal/seed"
	"medifinder/migrations"
)

// Loads the Kigali pharmacy catalog into an empty or already-seeded store
// and provisions one dashboard login per pharmacy.
func main() {
	driver := config.Getenv("DB_DRIVER", "mysql")

	var db *sql.DB
	var err error
	if driver == "sqlite" {
		db, err = sql.Open("sqlite", config.Getenv("DB_PATH", "medifinder.db"))
	} else {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			config.Getenv("DB_USER", "root"),
			config.Getenv("DB_PASS", ""),
			config.Getenv("DB_HOST", "localhost"),
			config.Getenv("DB_PORT", "3306"),
			config.Getenv("DB_NAME", "medifinder"))
		db, err = sql.Open("mysql", dsn)
	}
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := migrations.AutoMigrate(driver, 3, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := seed.New(db, rng).Run(ctx); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	if err := seed.ProvisionPharmacyUsers(ctx, db, config.Getenv("SEED_PASSWORD", "pharmacy123")); err != nil {
		log.Fatalf("Failed to provision pharmacy users: %v", err)
	}

	log.Println("Seed complete")
}
