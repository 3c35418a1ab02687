package services

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Controlled descriptors removed from ingredient names before lookup. These
// modifiers do not change the core ingredient identity for food-data search.
var (
	sizeDescriptors = []string{
		"small", "medium", "large", "extra large", "jumbo",
		"mini", "tiny", "xl", "xs",
	}
	preparationDescriptors = []string{
		"raw", "cooked", "uncooked",
		"fresh", "frozen", "canned", "dried",
		"roasted", "grilled", "baked", "fried", "steamed", "boiled",
		"smoked", "cured",
	}
	cutDescriptors = []string{
		"boneless", "skinless", "bone-in", "skin-on",
		"diced", "sliced", "chopped", "minced", "shredded", "cubed",
		"whole", "halved", "quartered",
		"fillet", "filet", "steak", "ground",
	}
	qualityDescriptors = []string{
		"organic", "conventional",
		"grass-fed", "pasture-raised", "free-range", "cage-free",
		"wild-caught", "farm-raised",
		"lean", "extra lean",
	}
)

// NormalizationResult holds a normalized ingredient name alongside the
// original and the descriptors that were stripped.
type NormalizationResult struct {
	OriginalName       string
	CanonicalName      string
	RemovedDescriptors []string
}

// IngredientNormalizer produces deterministic canonical ingredient names for
// food-data lookup: case-folded, whitespace-normalized, with controlled
// descriptors removed as whole words.
type IngredientNormalizer struct {
	descriptors []string // sorted longest-first so multi-word descriptors match before their parts
	folder      cases.Caser
}

// NewIngredientNormalizer creates a normalizer, optionally extending the
// controlled descriptor set.
func NewIngredientNormalizer(additionalDescriptors ...string) *IngredientNormalizer {
	all := make([]string, 0, 64)
	all = append(all, sizeDescriptors...)
	all = append(all, preparationDescriptors...)
	all = append(all, cutDescriptors...)
	all = append(all, qualityDescriptors...)
	all = append(all, additionalDescriptors...)
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})
	return &IngredientNormalizer{
		descriptors: all,
		folder:      cases.Fold(),
	}
}

// Normalize returns the canonical name for one ingredient.
func (n *IngredientNormalizer) Normalize(ingredientName string) NormalizationResult {
	original := ingredientName

	name := n.folder.String(strings.TrimSpace(ingredientName))
	name = strings.ReplaceAll(name, ",", " ")
	name = strings.Join(strings.Fields(name), " ")

	var removed []string
	for _, descriptor := range n.descriptors {
		next, found := removeWholeWord(name, descriptor)
		if found {
			removed = append(removed, descriptor)
			name = next
		}
	}
	name = strings.Join(strings.Fields(name), " ")

	// Stripping everything leaves the original folded name as canonical.
	if name == "" {
		name = n.folder.String(strings.TrimSpace(original))
		name = strings.Join(strings.Fields(strings.ReplaceAll(name, ",", " ")), " ")
	}

	return NormalizationResult{
		OriginalName:       original,
		CanonicalName:      name,
		RemovedDescriptors: removed,
	}
}

// removeWholeWord removes descriptor from name as a whole-word (possibly
// multi-word) match and reports whether it was present.
func removeWholeWord(name, descriptor string) (string, bool) {
	words := strings.Fields(name)
	descWords := strings.Fields(descriptor)
	if len(descWords) == 0 || len(words) < len(descWords) {
		return name, false
	}
	for i := 0; i+len(descWords) <= len(words); i++ {
		match := true
		for j, dw := range descWords {
			if words[i+j] != dw {
				match = false
				break
			}
		}
		if match {
			out := append(append([]string{}, words[:i]...), words[i+len(descWords):]...)
			return strings.Join(out, " "), true
		}
	}
	return name, false
}
