package graph

import (
	"context"
	"fmt"

	"luxatlas/backend/internal/constants"
)

// ============================================================================
// Ranked Retrieval
// ============================================================================

const (
	// MaxRetrievalLimit caps a destination/theme query
	MaxRetrievalLimit = 50
	minRetrievalLimit = 1
)

// clampLimit bounds a caller-supplied result count to [1, 50], defaulting
// out-of-range values to the nearest bound.
func clampLimit(limit int) int {
	if limit < minRetrievalLimit {
		return minRetrievalLimit
	}
	if limit > MaxRetrievalLimit {
		return MaxRetrievalLimit
	}
	return limit
}

// RetrieveByDestination scores POIs in a destination, optionally scoped to a
// theme. Themed: score = base x confidence x theme_fit, and each row carries
// the theme edge's evidence. Unthemed: score = base x confidence. Missing
// numeric inputs coalesce to 0.0 so incomplete records sink, never raise.
func (r *Repository) RetrieveByDestination(ctx context.Context, destination, theme string, limit int) ([]RetrievalResult, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	limit = clampLimit(limit)

	var query string
	params := map[string]interface{}{
		"destination": destination,
		"limit":       limit,
	}

	if theme != "" {
		query = fmt.Sprintf(`
			MATCH (d:%s {name: $destination})<-[:%s]-(p:%s)-[t:%s]->(th:%s {name: $theme})
			WITH p, t,
			     coalesce(p.luxury_score_base, 0.0) as base,
			     coalesce(p.confidence_score, 0.0) as confidence,
			     coalesce(t.theme_fit, 0.0) as theme_fit
			RETURN p.id as id, p.name as name, p.lat as lat, p.lon as lon,
			       base, confidence, theme_fit,
			       t.evidence as theme_evidence,
			       base * confidence * theme_fit as score
			ORDER BY score DESC
			LIMIT $limit
		`, constants.LabelDestination, constants.RelLocatedIn, constants.LabelPOI,
			constants.RelHasTheme, constants.LabelThemeCategory)
		params["theme"] = theme
	} else {
		query = fmt.Sprintf(`
			MATCH (d:%s {name: $destination})<-[:%s]-(p:%s)
			WITH p,
			     coalesce(p.luxury_score_base, 0.0) as base,
			     coalesce(p.confidence_score, 0.0) as confidence
			RETURN p.id as id, p.name as name, p.lat as lat, p.lon as lon,
			       base, confidence,
			       base * confidence as score
			ORDER BY score DESC
			LIMIT $limit
		`, constants.LabelDestination, constants.RelLocatedIn, constants.LabelPOI)
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute retrieval query: %w", err)
	}

	var results []RetrievalResult
	for result.Next(ctx) {
		record := result.Record()
		row := RetrievalResult{
			ID:              getStringFromRecord(record, "id"),
			Name:            getStringFromRecord(record, "name"),
			Latitude:        getFloatPtrFromRecord(record, "lat"),
			Longitude:       getFloatPtrFromRecord(record, "lon"),
			LuxuryScoreBase: getFloat64FromRecord(record, "base"),
			ConfidenceScore: getFloat64FromRecord(record, "confidence"),
			Score:           getFloat64FromRecord(record, "score"),
		}
		if theme != "" {
			fit := getFloat64FromRecord(record, "theme_fit")
			row.ThemeFit = &fit
			row.ThemeEvidence = getStringFromRecord(record, "theme_evidence")
		}
		results = append(results, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate retrieval results: %w", err)
	}
	return results, nil
}
