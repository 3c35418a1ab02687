package services

import (
	"testing"
)

func TestIngredientNormalizer_Normalize(t *testing.T) {
	n := NewIngredientNormalizer()

	tests := []struct {
		name          string
		input         string
		wantCanonical string
		wantRemoved   int
	}{
		{"lowercase trim", "  Chicken Breast  ", "chicken breast", 0},
		{"single descriptor", "Large Egg", "egg", 1},
		{"multiple descriptors", "Large Boneless Chicken Breast", "chicken breast", 2},
		{"multi-word before single", "Extra Large Eggs", "eggs", 1},
		{"comma format", "chicken, diced", "chicken", 1},
		{"descriptor not removed as substring", "Largemouth Bass", "largemouth bass", 0},
		{"all-descriptor name keeps folded original", "Raw", "raw", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got.CanonicalName != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q", got.CanonicalName, tt.wantCanonical)
			}
			if len(got.RemovedDescriptors) != tt.wantRemoved {
				t.Errorf("removed = %v, want %d entries", got.RemovedDescriptors, tt.wantRemoved)
			}
			if got.OriginalName != tt.input {
				t.Errorf("original not preserved: %q", got.OriginalName)
			}
		})
	}
}

func TestIngredientNormalizer_Deterministic(t *testing.T) {
	n := NewIngredientNormalizer()
	first := n.Normalize("Fresh Organic Boneless Skinless Chicken Thigh")
	for i := 0; i < 3; i++ {
		if got := n.Normalize("Fresh Organic Boneless Skinless Chicken Thigh"); got.CanonicalName != first.CanonicalName {
			t.Fatalf("normalization not deterministic: %q vs %q", got.CanonicalName, first.CanonicalName)
		}
	}
}

func TestIngredientNormalizer_AdditionalDescriptors(t *testing.T) {
	n := NewIngredientNormalizer("homemade")
	got := n.Normalize("Homemade Bread")
	if got.CanonicalName != "bread" {
		t.Errorf("canonical = %q, want %q", got.CanonicalName, "bread")
	}
}
