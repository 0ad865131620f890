package db

import (
	"database/sql"
	"fmt"
	"log"

	"wavebox/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// DB is the raw database handle. It shares the schema managed through GORM
// and is used by the aggregation queries, which are plain SQL.
var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// CloseDB closes the raw database handle.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
