package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize opens the sqlite database backing the ingredient lookup cache
// and creates its tables.
func Initialize(dbPath string) (*sql.DB, error) {
	// Validate and sanitize database path
	cleanPath := filepath.Clean(dbPath)
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid database path: path traversal detected")
	}

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cleanPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite single-writer optimization
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(5)

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Failed to close database connection: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

const createNutrientCacheTable = `
CREATE TABLE IF NOT EXISTS nutrient_cache (
	canonical_name TEXT PRIMARY KEY,
	fdc_id INTEGER NOT NULL,
	description TEXT NOT NULL,
	data_type TEXT NOT NULL,
	nutrition_json TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createNutrientCacheIndex = `
CREATE INDEX IF NOT EXISTS idx_nutrient_cache_fdc ON nutrient_cache(fdc_id)`

func createTables(db *sql.DB) error {
	queries := []string{
		createNutrientCacheTable,
		createNutrientCacheIndex,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}
