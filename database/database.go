package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cargo/config"
)

var DB *gorm.DB

// sqlDB is the underlying database/sql handle; kept for Close.
var sqlDB *sql.DB

// InitDB initializes the database connection using environment/config.
// For postgres the database/sql connection is opened through lib/pq and
// handed to GORM, so driver errors surface as *pq.Error (the booking
// package inspects serialization-failure codes on retry).
func InitDB() error {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if config.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	switch config.AppConfig.DBDriver {
	case "postgres":
		connStr := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBUser,
			config.AppConfig.DBPassword,
			config.AppConfig.DBName,
		)

		log.Printf("Connecting to PostgreSQL at host=%s port=%s db=%s...",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBName,
		)

		conn, err := sql.Open("postgres", connStr)
		if err != nil {
			return err
		}
		if err := conn.Ping(); err != nil {
			log.Printf("Failed to ping PostgreSQL: %v", err)
			return err
		}

		DB, err = gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig)
		if err != nil {
			log.Printf("Failed to connect to DB: %v", err)
			return err
		}
		sqlDB = conn

		log.Println("PostgreSQL connection successful")
		return nil

	case "sqlite", "sqlite3":
		dbDir := filepath.Dir(config.AppConfig.DBPath)
		if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
			return err
		}

		var err error
		DB, err = gorm.Open(sqlite.Open(config.AppConfig.DBPath), gormConfig)
		if err != nil {
			log.Printf("Failed to connect to SQLite: %v", err)
			return err
		}
		if conn, err := DB.DB(); err == nil {
			sqlDB = conn
			if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
				return err
			}
		}

		log.Printf("SQLite connection successful at %s", config.AppConfig.DBPath)
		return nil
	}

	return fmt.Errorf("unsupported DB driver: %s", config.AppConfig.DBDriver)
}

// CloseDB closes the database connection
func CloseDB() error {
	if sqlDB != nil {
		return sqlDB.Close()
	}
	return nil
}
