package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"meal-plan-engine/internal/models"
)

// DefaultULReferencePath is the bundled UL reference data file.
const DefaultULReferencePath = "data/reference/ul_by_demographic.json"

// ulReferenceFile mirrors the ul_by_demographic.json schema. Nutrient field
// names match MicronutrientProfile exactly; JSON null means no UL.
type ulReferenceFile struct {
	Source       string                         `json:"source"`
	Note         string                         `json:"note"`
	Demographics map[string]map[string]*float64 `json:"demographics"`
}

// UpperLimitsLoader loads tolerable upper intake limits from reference JSON,
// keyed by demographic.
type UpperLimitsLoader struct {
	path string
	data *ulReferenceFile
}

// NewUpperLimitsLoader creates a loader for the given reference file.
func NewUpperLimitsLoader(path string) *UpperLimitsLoader {
	if path == "" {
		path = DefaultULReferencePath
	}
	return &UpperLimitsLoader{path: path}
}

func (l *UpperLimitsLoader) load() (*ulReferenceFile, error) {
	if l.data != nil {
		return l.data, nil
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read UL reference file: %w", err)
	}
	var parsed ulReferenceFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse UL reference file %s: %w", l.path, err)
	}
	l.data = &parsed
	return l.data, nil
}

// LoadForDemographic returns the upper limits for one demographic key.
// Missing nutrient fields default to no limit; unknown field names in the
// reference data are ignored.
func (l *UpperLimitsLoader) LoadForDemographic(demographic string) (*models.UpperLimits, error) {
	data, err := l.load()
	if err != nil {
		return nil, err
	}
	values, ok := data.Demographics[demographic]
	if !ok {
		available, _ := l.AvailableDemographics()
		return nil, fmt.Errorf("demographic %q not found in UL reference; available: %v", demographic, available)
	}
	ul := &models.UpperLimits{}
	for name, value := range values {
		if value == nil || !models.IsNutrientName(name) {
			continue
		}
		v := *value
		ul.SetLimit(name, &v)
	}
	return ul, nil
}

// AvailableDemographics lists the demographic keys in the reference data.
func (l *UpperLimitsLoader) AvailableDemographics() ([]string, error) {
	data, err := l.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data.Demographics))
	for k := range data.Demographics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ResolveUpperLimits merges the reference limits for a demographic with user
// overrides: nil overrides are ignored, unknown field names are ignored, and
// non-nil overrides replace reference values.
func ResolveUpperLimits(loader *UpperLimitsLoader, demographic string, overrides map[string]*float64) (*models.UpperLimits, error) {
	reference, err := loader.LoadForDemographic(demographic)
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return reference, nil
	}
	return reference.MergeOverrides(overrides), nil
}
