package catalog

import "time"

// ============================================================================
// Catalog Domain Types
// ============================================================================

// Draft is an incoming POI record from an ingestion adapter, before it has
// been admitted and written to the graph.
type Draft struct {
	Name        string            `json:"name"`
	Category    string            `json:"category,omitempty"`
	Latitude    *float64          `json:"latitude,omitempty"`
	Longitude   *float64          `json:"longitude,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Description string            `json:"description,omitempty"`
	Website     string            `json:"website,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Provenance  []ProvenanceRef   `json:"provenance"`
	Signals     []EmotionalSignal `json:"signals,omitempty"`
	Archetypes  []ArchetypeMatch  `json:"archetypes,omitempty"`
	PriceBand   string            `json:"price_band,omitempty"`
}

// ProvenanceRef records where a piece of POI data came from
type ProvenanceRef struct {
	SourceKind  string            `json:"source_kind"` // scrape, upload, manual
	SourceID    string            `json:"source_id"`
	CapturedAt  time.Time         `json:"captured_at"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
	License     string            `json:"license,omitempty"`
}

// EmotionalSignal is an emotion/desire/fear signal attached to a POI
type EmotionalSignal struct {
	Kind       string   `json:"kind"` // Emotion, EmotionalTag, Desire, Fear
	Code       string   `json:"code,omitempty"`
	Name       string   `json:"name"`
	Intensity  int      `json:"intensity"` // 1-10
	Evidence   string   `json:"evidence,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"` // defaulted to 0.5 when absent
	Citations  []string `json:"citations,omitempty"`
}

// ArchetypeMatch scores a POI against a client archetype
type ArchetypeMatch struct {
	Archetype string  `json:"archetype"`
	Fit       float64 `json:"fit"`
}

// POI is a validated catalog record as stored on the graph node
type POI struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Category            string     `json:"category,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	Destination         string     `json:"destination,omitempty"`
	Description         string     `json:"description,omitempty"`
	Website             string     `json:"website,omitempty"`
	Rating              *float64   `json:"rating,omitempty"`
	PhotoCount          int        `json:"photo_count"`
	LuxuryScoreBase     *float64   `json:"luxury_score_base,omitempty"`     // 0-10
	LuxuryScoreVerified *float64   `json:"luxury_score_verified,omitempty"` // 0-10
	ConfidenceScore     *float64   `json:"confidence_score,omitempty"`      // 0-1
	ScoreEvidence       string     `json:"score_evidence,omitempty"`        // serialized JSON envelope
	LastEnrichedAt      *time.Time `json:"last_enriched_at,omitempty"`
	EnrichmentSource    string     `json:"enrichment_source,omitempty"`
}
