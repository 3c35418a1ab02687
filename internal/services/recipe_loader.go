package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"meal-plan-engine/internal/models"
)

// RecipeLoader loads pre-computed planning recipes from JSON files. The
// listing order of the pool is fixed before any search runs: files are read
// in sorted order and recipes keep their in-file order.
type RecipeLoader struct {
	dataPath string
}

// NewRecipeLoader creates a loader rooted at dataPath.
func NewRecipeLoader(dataPath string) *RecipeLoader {
	return &RecipeLoader{dataPath: dataPath}
}

// LoadAll reads every recipes_*.json file under the data path.
func (l *RecipeLoader) LoadAll() ([]models.PlanningRecipe, error) {
	pattern := filepath.Join(l.dataPath, "recipes_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe files: %w", err)
	}
	sort.Strings(files)

	var pool []models.PlanningRecipe
	seen := make(map[string]bool)
	for _, file := range files {
		recipes, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(file), err)
		}
		for _, r := range recipes {
			if seen[r.ID] {
				return nil, fmt.Errorf("duplicate recipe id %q in %s", r.ID, filepath.Base(file))
			}
			seen[r.ID] = true
			pool = append(pool, r)
		}
	}
	return pool, nil
}

func (l *RecipeLoader) loadFile(filename string) ([]models.PlanningRecipe, error) {
	data, err := os.ReadFile(filename) // #nosec G304 - filename comes from controlled glob pattern
	if err != nil {
		return nil, err
	}
	var recipes []models.PlanningRecipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, err
	}
	for i := range recipes {
		if err := validateRecipe(&recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func validateRecipe(r *models.PlanningRecipe) error {
	if r.ID == "" {
		return fmt.Errorf("recipe with empty id")
	}
	if r.CookingTimeMinutes <= 0 {
		return fmt.Errorf("recipe %s: cooking_time_minutes must be positive", r.ID)
	}
	n := r.Nutrition
	if n.Calories < 0 || n.ProteinG < 0 || n.FatG < 0 || n.CarbsG < 0 {
		return fmt.Errorf("recipe %s: nutrition values must be non-negative", r.ID)
	}
	return nil
}
