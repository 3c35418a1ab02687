package services

import (
	"encoding/json"
	"fmt"
	"os"

	"meal-plan-engine/internal/planner"
)

// DefaultCarbSourcesPath is the bundled scalable carb source reference file.
const DefaultCarbSourcesPath = "data/reference/scalable_carb_sources.json"

// LoadScalableCarbSources reads the rice and potato variant lists used by
// primary-carb downscaling. Malformed data fails fast.
func LoadScalableCarbSources(path string) (*planner.ScalableCarbSources, error) {
	if path == "" {
		path = DefaultCarbSourcesPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scalable carb sources: %w", err)
	}
	var sources planner.ScalableCarbSources
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse scalable carb sources %s: %w", path, err)
	}
	if sources.RiceVariants == nil {
		return nil, fmt.Errorf("scalable carb sources %s: rice_variants must be a list of strings", path)
	}
	if sources.PotatoVariants == nil {
		return nil, fmt.Errorf("scalable carb sources %s: potato_variants must be a list of strings", path)
	}
	return &sources, nil
}
