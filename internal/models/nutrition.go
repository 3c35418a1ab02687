package models

// MicronutrientProfile represents micronutrient amounts (vitamins, minerals, etc.).
//
// All values default to 0. Units follow standard conventions:
// _ug micrograms, _mg milligrams, _g grams, _iu international units.
type MicronutrientProfile struct {
	// Vitamins
	VitaminAUg          float64 `json:"vitamin_a_ug"`
	VitaminCMg          float64 `json:"vitamin_c_mg"`
	VitaminDIU          float64 `json:"vitamin_d_iu"`
	VitaminEMg          float64 `json:"vitamin_e_mg"`
	VitaminKUg          float64 `json:"vitamin_k_ug"`
	B1ThiamineMg        float64 `json:"b1_thiamine_mg"`
	B2RiboflavinMg      float64 `json:"b2_riboflavin_mg"`
	B3NiacinMg          float64 `json:"b3_niacin_mg"`
	B5PantothenicAcidMg float64 `json:"b5_pantothenic_acid_mg"`
	B6PyridoxineMg      float64 `json:"b6_pyridoxine_mg"`
	B12CobalaminUg      float64 `json:"b12_cobalamin_ug"`
	FolateUg            float64 `json:"folate_ug"`

	// Minerals
	CalciumMg    float64 `json:"calcium_mg"`
	CopperMg     float64 `json:"copper_mg"`
	IronMg       float64 `json:"iron_mg"`
	MagnesiumMg  float64 `json:"magnesium_mg"`
	ManganeseMg  float64 `json:"manganese_mg"`
	PhosphorusMg float64 `json:"phosphorus_mg"`
	PotassiumMg  float64 `json:"potassium_mg"`
	SeleniumUg   float64 `json:"selenium_ug"`
	SodiumMg     float64 `json:"sodium_mg"`
	ZincMg       float64 `json:"zinc_mg"`

	// Other
	FiberG  float64 `json:"fiber_g"`
	Omega3G float64 `json:"omega_3_g"`
	Omega6G float64 `json:"omega_6_g"`
}

// nutrientField binds a nutrient name to its accessors so callers can iterate
// the fixed schema without reflection.
type nutrientField struct {
	name string
	get  func(*MicronutrientProfile) float64
	set  func(*MicronutrientProfile, float64)
	ulGet func(*UpperLimits) *float64
	ulSet func(*UpperLimits, *float64)
}

var nutrientFields = []nutrientField{
	{"vitamin_a_ug", func(m *MicronutrientProfile) float64 { return m.VitaminAUg }, func(m *MicronutrientProfile, v float64) { m.VitaminAUg = v }, func(u *UpperLimits) *float64 { return u.VitaminAUg }, func(u *UpperLimits, v *float64) { u.VitaminAUg = v }},
	{"vitamin_c_mg", func(m *MicronutrientProfile) float64 { return m.VitaminCMg }, func(m *MicronutrientProfile, v float64) { m.VitaminCMg = v }, func(u *UpperLimits) *float64 { return u.VitaminCMg }, func(u *UpperLimits, v *float64) { u.VitaminCMg = v }},
	{"vitamin_d_iu", func(m *MicronutrientProfile) float64 { return m.VitaminDIU }, func(m *MicronutrientProfile, v float64) { m.VitaminDIU = v }, func(u *UpperLimits) *float64 { return u.VitaminDIU }, func(u *UpperLimits, v *float64) { u.VitaminDIU = v }},
	{"vitamin_e_mg", func(m *MicronutrientProfile) float64 { return m.VitaminEMg }, func(m *MicronutrientProfile, v float64) { m.VitaminEMg = v }, func(u *UpperLimits) *float64 { return u.VitaminEMg }, func(u *UpperLimits, v *float64) { u.VitaminEMg = v }},
	{"vitamin_k_ug", func(m *MicronutrientProfile) float64 { return m.VitaminKUg }, func(m *MicronutrientProfile, v float64) { m.VitaminKUg = v }, func(u *UpperLimits) *float64 { return u.VitaminKUg }, func(u *UpperLimits, v *float64) { u.VitaminKUg = v }},
	{"b1_thiamine_mg", func(m *MicronutrientProfile) float64 { return m.B1ThiamineMg }, func(m *MicronutrientProfile, v float64) { m.B1ThiamineMg = v }, func(u *UpperLimits) *float64 { return u.B1ThiamineMg }, func(u *UpperLimits, v *float64) { u.B1ThiamineMg = v }},
	{"b2_riboflavin_mg", func(m *MicronutrientProfile) float64 { return m.B2RiboflavinMg }, func(m *MicronutrientProfile, v float64) { m.B2RiboflavinMg = v }, func(u *UpperLimits) *float64 { return u.B2RiboflavinMg }, func(u *UpperLimits, v *float64) { u.B2RiboflavinMg = v }},
	{"b3_niacin_mg", func(m *MicronutrientProfile) float64 { return m.B3NiacinMg }, func(m *MicronutrientProfile, v float64) { m.B3NiacinMg = v }, func(u *UpperLimits) *float64 { return u.B3NiacinMg }, func(u *UpperLimits, v *float64) { u.B3NiacinMg = v }},
	{"b5_pantothenic_acid_mg", func(m *MicronutrientProfile) float64 { return m.B5PantothenicAcidMg }, func(m *MicronutrientProfile, v float64) { m.B5PantothenicAcidMg = v }, func(u *UpperLimits) *float64 { return u.B5PantothenicAcidMg }, func(u *UpperLimits, v *float64) { u.B5PantothenicAcidMg = v }},
	{"b6_pyridoxine_mg", func(m *MicronutrientProfile) float64 { return m.B6PyridoxineMg }, func(m *MicronutrientProfile, v float64) { m.B6PyridoxineMg = v }, func(u *UpperLimits) *float64 { return u.B6PyridoxineMg }, func(u *UpperLimits, v *float64) { u.B6PyridoxineMg = v }},
	{"b12_cobalamin_ug", func(m *MicronutrientProfile) float64 { return m.B12CobalaminUg }, func(m *MicronutrientProfile, v float64) { m.B12CobalaminUg = v }, func(u *UpperLimits) *float64 { return u.B12CobalaminUg }, func(u *UpperLimits, v *float64) { u.B12CobalaminUg = v }},
	{"folate_ug", func(m *MicronutrientProfile) float64 { return m.FolateUg }, func(m *MicronutrientProfile, v float64) { m.FolateUg = v }, func(u *UpperLimits) *float64 { return u.FolateUg }, func(u *UpperLimits, v *float64) { u.FolateUg = v }},
	{"calcium_mg", func(m *MicronutrientProfile) float64 { return m.CalciumMg }, func(m *MicronutrientProfile, v float64) { m.CalciumMg = v }, func(u *UpperLimits) *float64 { return u.CalciumMg }, func(u *UpperLimits, v *float64) { u.CalciumMg = v }},
	{"copper_mg", func(m *MicronutrientProfile) float64 { return m.CopperMg }, func(m *MicronutrientProfile, v float64) { m.CopperMg = v }, func(u *UpperLimits) *float64 { return u.CopperMg }, func(u *UpperLimits, v *float64) { u.CopperMg = v }},
	{"iron_mg", func(m *MicronutrientProfile) float64 { return m.IronMg }, func(m *MicronutrientProfile, v float64) { m.IronMg = v }, func(u *UpperLimits) *float64 { return u.IronMg }, func(u *UpperLimits, v *float64) { u.IronMg = v }},
	{"magnesium_mg", func(m *MicronutrientProfile) float64 { return m.MagnesiumMg }, func(m *MicronutrientProfile, v float64) { m.MagnesiumMg = v }, func(u *UpperLimits) *float64 { return u.MagnesiumMg }, func(u *UpperLimits, v *float64) { u.MagnesiumMg = v }},
	{"manganese_mg", func(m *MicronutrientProfile) float64 { return m.ManganeseMg }, func(m *MicronutrientProfile, v float64) { m.ManganeseMg = v }, func(u *UpperLimits) *float64 { return u.ManganeseMg }, func(u *UpperLimits, v *float64) { u.ManganeseMg = v }},
	{"phosphorus_mg", func(m *MicronutrientProfile) float64 { return m.PhosphorusMg }, func(m *MicronutrientProfile, v float64) { m.PhosphorusMg = v }, func(u *UpperLimits) *float64 { return u.PhosphorusMg }, func(u *UpperLimits, v *float64) { u.PhosphorusMg = v }},
	{"potassium_mg", func(m *MicronutrientProfile) float64 { return m.PotassiumMg }, func(m *MicronutrientProfile, v float64) { m.PotassiumMg = v }, func(u *UpperLimits) *float64 { return u.PotassiumMg }, func(u *UpperLimits, v *float64) { u.PotassiumMg = v }},
	{"selenium_ug", func(m *MicronutrientProfile) float64 { return m.SeleniumUg }, func(m *MicronutrientProfile, v float64) { m.SeleniumUg = v }, func(u *UpperLimits) *float64 { return u.SeleniumUg }, func(u *UpperLimits, v *float64) { u.SeleniumUg = v }},
	{"sodium_mg", func(m *MicronutrientProfile) float64 { return m.SodiumMg }, func(m *MicronutrientProfile, v float64) { m.SodiumMg = v }, func(u *UpperLimits) *float64 { return u.SodiumMg }, func(u *UpperLimits, v *float64) { u.SodiumMg = v }},
	{"zinc_mg", func(m *MicronutrientProfile) float64 { return m.ZincMg }, func(m *MicronutrientProfile, v float64) { m.ZincMg = v }, func(u *UpperLimits) *float64 { return u.ZincMg }, func(u *UpperLimits, v *float64) { u.ZincMg = v }},
	{"fiber_g", func(m *MicronutrientProfile) float64 { return m.FiberG }, func(m *MicronutrientProfile, v float64) { m.FiberG = v }, func(u *UpperLimits) *float64 { return u.FiberG }, func(u *UpperLimits, v *float64) { u.FiberG = v }},
	{"omega_3_g", func(m *MicronutrientProfile) float64 { return m.Omega3G }, func(m *MicronutrientProfile, v float64) { m.Omega3G = v }, func(u *UpperLimits) *float64 { return u.Omega3G }, func(u *UpperLimits, v *float64) { u.Omega3G = v }},
	{"omega_6_g", func(m *MicronutrientProfile) float64 { return m.Omega6G }, func(m *MicronutrientProfile, v float64) { m.Omega6G = v }, func(u *UpperLimits) *float64 { return u.Omega6G }, func(u *UpperLimits, v *float64) { u.Omega6G = v }},
}

// NutrientNames returns the fixed nutrient schema in declaration order.
func NutrientNames() []string {
	out := make([]string, len(nutrientFields))
	for i, f := range nutrientFields {
		out[i] = f.name
	}
	return out
}

// IsNutrientName reports whether name is part of the fixed nutrient schema.
func IsNutrientName(name string) bool {
	for _, f := range nutrientFields {
		if f.name == name {
			return true
		}
	}
	return false
}

// Nutrient returns the amount for a nutrient name, or 0 for unknown names.
func (m *MicronutrientProfile) Nutrient(name string) float64 {
	if m == nil {
		return 0
	}
	for _, f := range nutrientFields {
		if f.name == name {
			return f.get(m)
		}
	}
	return 0
}

// SetNutrient sets the amount for a nutrient name. Unknown names are ignored.
func (m *MicronutrientProfile) SetNutrient(name string, value float64) {
	for _, f := range nutrientFields {
		if f.name == name {
			f.set(m, value)
			return
		}
	}
}

// ToMap converts the profile to a name-keyed map covering the full schema.
func (m *MicronutrientProfile) ToMap() map[string]float64 {
	out := make(map[string]float64, len(nutrientFields))
	if m == nil {
		return out
	}
	for _, f := range nutrientFields {
		out[f.name] = f.get(m)
	}
	return out
}

// MicronutrientsFromMap builds a profile from a name-keyed map.
// Unknown keys are ignored; missing keys default to zero.
func MicronutrientsFromMap(values map[string]float64) *MicronutrientProfile {
	m := &MicronutrientProfile{}
	for _, f := range nutrientFields {
		if v, ok := values[f.name]; ok {
			f.set(m, v)
		}
	}
	return m
}

// NutritionProfile represents nutrition information: macros, calories, and
// optional micronutrients.
type NutritionProfile struct {
	Calories       float64               `json:"calories" validate:"gte=0"`
	ProteinG       float64               `json:"protein_g" validate:"gte=0"`
	FatG           float64               `json:"fat_g" validate:"gte=0"`
	CarbsG         float64               `json:"carbs_g" validate:"gte=0"`
	Micronutrients *MicronutrientProfile `json:"micronutrients,omitempty"`
}

// Add returns the pointwise sum of two nutrition profiles.
func (n NutritionProfile) Add(o NutritionProfile) NutritionProfile {
	out := NutritionProfile{
		Calories: n.Calories + o.Calories,
		ProteinG: n.ProteinG + o.ProteinG,
		FatG:     n.FatG + o.FatG,
		CarbsG:   n.CarbsG + o.CarbsG,
	}
	if n.Micronutrients != nil || o.Micronutrients != nil {
		m := &MicronutrientProfile{}
		for _, f := range nutrientFields {
			var a, b float64
			if n.Micronutrients != nil {
				a = f.get(n.Micronutrients)
			}
			if o.Micronutrients != nil {
				b = f.get(o.Micronutrients)
			}
			f.set(m, a+b)
		}
		out.Micronutrients = m
	}
	return out
}

// Sub returns the pointwise difference of two nutrition profiles.
func (n NutritionProfile) Sub(o NutritionProfile) NutritionProfile {
	out := NutritionProfile{
		Calories: n.Calories - o.Calories,
		ProteinG: n.ProteinG - o.ProteinG,
		FatG:     n.FatG - o.FatG,
		CarbsG:   n.CarbsG - o.CarbsG,
	}
	if n.Micronutrients != nil || o.Micronutrients != nil {
		m := &MicronutrientProfile{}
		for _, f := range nutrientFields {
			var a, b float64
			if n.Micronutrients != nil {
				a = f.get(n.Micronutrients)
			}
			if o.Micronutrients != nil {
				b = f.get(o.Micronutrients)
			}
			f.set(m, a-b)
		}
		out.Micronutrients = m
	}
	return out
}

// UpperLimits represents daily tolerable upper intake limits per nutrient.
//
// Field names match MicronutrientProfile exactly. A nil value means no UL is
// established for that nutrient (validation skipped). Values are daily limits.
type UpperLimits struct {
	VitaminAUg          *float64 `json:"vitamin_a_ug"`
	VitaminCMg          *float64 `json:"vitamin_c_mg"`
	VitaminDIU          *float64 `json:"vitamin_d_iu"`
	VitaminEMg          *float64 `json:"vitamin_e_mg"`
	VitaminKUg          *float64 `json:"vitamin_k_ug"`
	B1ThiamineMg        *float64 `json:"b1_thiamine_mg"`
	B2RiboflavinMg      *float64 `json:"b2_riboflavin_mg"`
	B3NiacinMg          *float64 `json:"b3_niacin_mg"`
	B5PantothenicAcidMg *float64 `json:"b5_pantothenic_acid_mg"`
	B6PyridoxineMg      *float64 `json:"b6_pyridoxine_mg"`
	B12CobalaminUg      *float64 `json:"b12_cobalamin_ug"`
	FolateUg            *float64 `json:"folate_ug"`
	CalciumMg           *float64 `json:"calcium_mg"`
	CopperMg            *float64 `json:"copper_mg"`
	IronMg              *float64 `json:"iron_mg"`
	MagnesiumMg         *float64 `json:"magnesium_mg"`
	ManganeseMg         *float64 `json:"manganese_mg"`
	PhosphorusMg        *float64 `json:"phosphorus_mg"`
	PotassiumMg         *float64 `json:"potassium_mg"`
	SeleniumUg          *float64 `json:"selenium_ug"`
	SodiumMg            *float64 `json:"sodium_mg"`
	ZincMg              *float64 `json:"zinc_mg"`
	FiberG              *float64 `json:"fiber_g"`
	Omega3G             *float64 `json:"omega_3_g"`
	Omega6G             *float64 `json:"omega_6_g"`
}

// Limit returns the UL for a nutrient name, or nil when no limit is established.
func (u *UpperLimits) Limit(name string) *float64 {
	if u == nil {
		return nil
	}
	for _, f := range nutrientFields {
		if f.name == name {
			return f.ulGet(u)
		}
	}
	return nil
}

// SetLimit sets the UL for a nutrient name. Unknown names are ignored.
func (u *UpperLimits) SetLimit(name string, value *float64) {
	for _, f := range nutrientFields {
		if f.name == name {
			f.ulSet(u, value)
			return
		}
	}
}

// MergeOverrides returns a copy of u with non-nil overrides applied.
//
// Nil override values are ignored (the reference value stays), unknown field
// names are ignored, and non-nil overrides replace reference values.
func (u *UpperLimits) MergeOverrides(overrides map[string]*float64) *UpperLimits {
	out := &UpperLimits{}
	for _, f := range nutrientFields {
		var ref *float64
		if u != nil {
			ref = f.ulGet(u)
		}
		if ov, ok := overrides[f.name]; ok && ov != nil {
			v := *ov
			f.ulSet(out, &v)
			continue
		}
		if ref != nil {
			v := *ref
			f.ulSet(out, &v)
		}
	}
	return out
}

// ULViolation represents a single upper-limit violation for a nutrient.
type ULViolation struct {
	Nutrient string  `json:"nutrient"`
	Actual   float64 `json:"actual"`
	Limit    float64 `json:"limit"`
	Excess   float64 `json:"excess"`
}

// ValidateDailyUpperLimits checks daily micronutrient totals against resolved
// upper limits. Intake exactly at a limit is valid; only strict excess is a
// violation. Nutrients without an established UL are skipped.
func ValidateDailyUpperLimits(daily *MicronutrientProfile, limits *UpperLimits) []ULViolation {
	if limits == nil {
		return nil
	}
	var violations []ULViolation
	for _, f := range nutrientFields {
		ul := f.ulGet(limits)
		if ul == nil {
			continue
		}
		var actual float64
		if daily != nil {
			actual = f.get(daily)
		}
		if actual > *ul {
			violations = append(violations, ULViolation{
				Nutrient: f.name,
				Actual:   actual,
				Limit:    *ul,
				Excess:   actual - *ul,
			})
		}
	}
	return violations
}
