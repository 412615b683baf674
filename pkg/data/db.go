package data

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Viewer holds one visitor's saved display preferences. MinDepth is the
// minimum navigable depth in meters that switches the graph into its
// depth-relative mode; nil leaves the plain curve.
type Viewer struct {
	gorm.Model
	Name     string
	Harbor   string
	Lang     string
	MinDepth *float64
	LastSeen time.Time
}

func PostgresFromEnv() (*gorm.DB, error) {
	pw := os.Getenv("PGPASSWORD")
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=tidegraph port=%s sslmode=disable TimeZone=Europe/Paris",
		host,
		pw,
		port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.AutoMigrate(&Viewer{})
	return db, nil
}

func PostgresFromEnvOrDie() *gorm.DB {
	db, err := PostgresFromEnv()
	if err != nil {
		panic(err)
	}
	return db
}
