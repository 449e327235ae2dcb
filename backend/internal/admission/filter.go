package admission

import (
	"strings"
)

// ============================================================================
// Quality Admission Filter
// ============================================================================
//
// Admit gates raw ingested entities before they become POIs. It is a pure
// function of its lexicons and input text: no I/O, fully deterministic, safe
// to run over large batches in parallel.

// Candidate is a raw ingested entity, pre-admission
type Candidate struct {
	Name         string   `json:"name"`
	Tags         []string `json:"tags,omitempty"`
	CategoryHint string   `json:"category_hint,omitempty"`
}

// Decision is the admission outcome. Reason is machine-readable for audit
// logs: "unnamed", "junk_keyword:<kw>", "category_not_allowed:<cat>",
// "experience_relevant".
type Decision struct {
	Relevant bool   `json:"relevant"`
	Reason   string `json:"reason"`
}

const (
	ReasonUnnamed            = "unnamed"
	ReasonExperienceRelevant = "experience_relevant"
	reasonJunkKeywordPrefix  = "junk_keyword:"
	reasonCategoryPrefix     = "category_not_allowed:"

	// CategoryOther is the fallback when no keyword group matches
	CategoryOther = "other"
)

// RejectKeywords are terms that mark an entity as outside the product's
// world regardless of anything else in its text: government/administrative,
// industrial/utility, healthcare, education, and generic retail/services.
var RejectKeywords = []string{
	// government / administrative
	"embassy", "consulate", "ministry", "municipality", "city hall",
	"courthouse", "police", "prison", "tax office", "town council",
	// industrial / utility
	"factory", "warehouse", "power plant", "substation", "sewage",
	"landfill", "recycling", "water treatment", "logistics",
	// healthcare
	"hospital", "clinic", "pharmacy", "dentist", "dental", "veterinary",
	// education
	"school", "university", "college", "kindergarten", "campus",
	// generic retail / services
	"supermarket", "laundromat", "gas station", "petrol station",
	"car wash", "hardware store", "post office", "car rental",
	"parking",
}

// categoryKeywords maps each allowed category to the keyword group that
// infers it. Matching is ordered by categoryOrder so inference is
// deterministic when text matches several groups.
var categoryKeywords = map[string][]string{
	"hotel":      {"hotel", "resort", "villa", "palace", "lodge", "riad", "chateau", "suites"},
	"restaurant": {"restaurant", "bistro", "brasserie", "trattoria", "osteria", "steakhouse", "fine dining"},
	"cafe":       {"cafe", "coffee", "patisserie", "bakery", "tearoom"},
	"bar":        {"cocktail bar", "wine bar", "rooftop bar", "lounge", "speakeasy", "nightclub"},
	"spa":        {"spa", "wellness", "hammam", "thermal", "bathhouse"},
	"beach":      {"beach", "plage", "lido", "beach club"},
	"activity":   {"marina", "yacht", "sailing", "golf", "diving", "ski", "safari", "helicopter", "polo"},
	"attraction": {"museum", "gallery", "landmark", "cathedral", "castle", "garden", "vineyard", "winery", "opera"},
	"shopping":   {"boutique", "atelier", "jeweler", "jewellery", "flagship store"},
	"experience": {"tour", "tasting", "excursion", "cruise", "experience", "workshop", "masterclass"},
}

var categoryOrder = []string{
	"hotel", "restaurant", "cafe", "bar", "spa", "beach",
	"activity", "attraction", "shopping", "experience",
}

// allowedCategories gates inferred categories; everything in categoryOrder
// is currently allowed, "other" is not.
var allowedCategories = map[string]bool{
	"hotel": true, "restaurant": true, "cafe": true, "bar": true,
	"spa": true, "beach": true, "activity": true, "attraction": true,
	"shopping": true, "experience": true,
}

// LuxuryIndicators override an unmatched category: text this explicit about
// positioning is worth keeping even when we cannot classify it. The override
// itself is an inherited business heuristic, kept as data rather than logic.
var LuxuryIndicators = []string{
	"five-star", "5-star", "five star", "exclusive", "concierge",
	"michelin", "bespoke", "private island", "butler",
}

// Admit decides whether a raw candidate entity is relevant to the catalog.
func Admit(c Candidate) Decision {
	name := strings.TrimSpace(c.Name)
	if len(name) < 2 {
		return Decision{Relevant: false, Reason: ReasonUnnamed}
	}

	text := searchableText(c)

	for _, kw := range RejectKeywords {
		if strings.Contains(text, kw) {
			return Decision{Relevant: false, Reason: reasonJunkKeywordPrefix + kw}
		}
	}

	category := InferCategory(text)
	if !allowedCategories[category] {
		if !containsAny(text, LuxuryIndicators) {
			return Decision{Relevant: false, Reason: reasonCategoryPrefix + category}
		}
	}

	return Decision{Relevant: true, Reason: ReasonExperienceRelevant}
}

// InferCategory returns the first category whose keyword group matches the
// searchable text, or CategoryOther.
func InferCategory(text string) string {
	for _, cat := range categoryOrder {
		if containsAny(text, categoryKeywords[cat]) {
			return cat
		}
	}
	return CategoryOther
}

func searchableText(c Candidate) string {
	parts := make([]string, 0, len(c.Tags)+2)
	parts = append(parts, c.Name)
	parts = append(parts, c.Tags...)
	if c.CategoryHint != "" {
		parts = append(parts, c.CategoryHint)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
