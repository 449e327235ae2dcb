package graph

// ============================================================================
// Graph Result Types
// ============================================================================

// RetrievalResult is one row of a destination/theme scoring query. Component
// scores are included so consumers can explain the ranking.
type RetrievalResult struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	LuxuryScoreBase float64  `json:"luxury_score_base"`
	ConfidenceScore float64  `json:"confidence_score"`
	ThemeFit        *float64 `json:"theme_fit,omitempty"`
	ThemeEvidence   string   `json:"theme_evidence,omitempty"`
	Score           float64  `json:"score"`
}

// SearchResult is one row of a fuzzy name search
type SearchResult struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category,omitempty"`
	Destination     string   `json:"destination,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	LuxuryScoreBase float64  `json:"luxury_score_base"`
	LuxuryScoreVerified float64 `json:"luxury_score_verified"`
	ConfidenceScore float64  `json:"confidence_score"`
	RankScore       float64  `json:"rank_score"`
}

// searchCandidate is the raw material the ranking runs over
type searchCandidate struct {
	ID            string
	Name          string
	Category      string
	Destination   string
	Latitude      *float64
	Longitude     *float64
	ScoreBase     float64
	ScoreVerified float64
	Confidence    float64
}

// PassSummary reports a canonicalization pass. Skipped counts nodes whose
// precondition (e.g. existing human evidence) refused the write.
type PassSummary struct {
	Attempted int `json:"attempted"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// JobSummary reports a consistency maintenance job
type JobSummary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// CoexistingPairs counts (source, target) pairs where a legacy and a
	// canonical edge both exist; reported, never auto-merged.
	CoexistingPairs int `json:"coexisting_pairs,omitempty"`
}
