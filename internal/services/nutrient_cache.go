package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meal-plan-engine/internal/models"
)

// CachedLookup is one persisted food-data lookup, keyed by canonical
// ingredient name.
type CachedLookup struct {
	CanonicalName string                  `json:"canonical_name"`
	FdcID         int64                   `json:"fdc_id"`
	Description   string                  `json:"description"`
	DataType      string                  `json:"data_type"`
	Nutrition     models.NutritionProfile `json:"nutrition"`
}

// NutrientCache persists resolved ingredient lookups in sqlite so repeated
// plan builds avoid re-querying the food-data API.
type NutrientCache struct {
	db *sql.DB
}

// NewNutrientCache creates a cache over an initialized database.
func NewNutrientCache(db *sql.DB) *NutrientCache {
	return &NutrientCache{db: db}
}

// Get returns the cached lookup for a canonical name, or (nil, nil) on miss.
func (c *NutrientCache) Get(ctx context.Context, canonicalName string) (*CachedLookup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT canonical_name, fdc_id, description, data_type, nutrition_json
		 FROM nutrient_cache WHERE canonical_name = ?`, canonicalName)

	var entry CachedLookup
	var nutritionJSON string
	err := row.Scan(&entry.CanonicalName, &entry.FdcID, &entry.Description, &entry.DataType, &nutritionJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrient cache: %w", err)
	}
	if err := json.Unmarshal([]byte(nutritionJSON), &entry.Nutrition); err != nil {
		return nil, fmt.Errorf("corrupt nutrient cache entry for %q: %w", canonicalName, err)
	}
	return &entry, nil
}

// Put stores or replaces a lookup.
func (c *NutrientCache) Put(ctx context.Context, entry *CachedLookup) error {
	nutritionJSON, err := json.Marshal(entry.Nutrition)
	if err != nil {
		return fmt.Errorf("failed to encode nutrition for %q: %w", entry.CanonicalName, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO nutrient_cache
		 (canonical_name, fdc_id, description, data_type, nutrition_json)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.CanonicalName, entry.FdcID, entry.Description, entry.DataType, string(nutritionJSON))
	if err != nil {
		return fmt.Errorf("failed to write nutrient cache: %w", err)
	}
	return nil
}

// Size returns the number of cached lookups.
func (c *NutrientCache) Size(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nutrient_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count nutrient cache: %w", err)
	}
	return count, nil
}
