package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScalableCarbSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scalable_carb_sources.json")
	data := `{"rice_variants": ["white rice"], "potato_variants": ["potato", "sweet potato"]}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sources, err := LoadScalableCarbSources(path)
	if err != nil {
		t.Fatalf("LoadScalableCarbSources: %v", err)
	}
	if len(sources.RiceVariants) != 1 || len(sources.PotatoVariants) != 2 {
		t.Errorf("sources = %+v", sources)
	}
}

func TestLoadScalableCarbSources_Malformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{"missing rice", `{"potato_variants": []}`},
		{"missing potato", `{"rice_variants": []}`},
		{"not json", `rice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := LoadScalableCarbSources(path); err == nil {
				t.Error("malformed reference data accepted")
			}
		})
	}
}
