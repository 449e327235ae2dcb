package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"luxatlas/backend/internal/constants"
)

// ============================================================================
// Fuzzy Name Search
// ============================================================================
//
// The rank score is intentionally multi-tiered rather than a single string
// metric; reimplementations must preserve the tier boundaries and tie-break
// order exactly. Lower is better:
//
//	0                          normalized exact match
//	1 + min(5, lenDiff)/100    query is a substring of the name
//	3                          query matches the destination text
//	4                          query matches the category text
//	10 + levenshtein           everything else
//
// Ties break by the higher of verified/base luxury score, then
// alphabetically by name.

const (
	// DefaultSearchLimit applies when the caller passes no limit
	DefaultSearchLimit = 20
	// MaxSearchLimit is the hard cap on search results
	MaxSearchLimit = 50
)

// SearchByName ranks catalog POIs against a free-text name query.
func (r *Repository) SearchByName(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	candidates, err := r.loadSearchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	return rankCandidates(query, candidates, limit), nil
}

func (r *Repository) loadSearchCandidates(ctx context.Context) ([]searchCandidate, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (p:%s)
		OPTIONAL MATCH (p)-[:%s]->(d:%s)
		RETURN p.id as id, p.name as name, p.category as category,
		       d.name as destination, p.lat as lat, p.lon as lon,
		       coalesce(p.luxury_score_base, 0.0) as score_base,
		       coalesce(p.luxury_score_verified, 0.0) as score_verified,
		       coalesce(p.confidence_score, 0.0) as confidence
	`, constants.LabelPOI, constants.RelLocatedIn, constants.LabelDestination)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load search candidates: %w", err)
	}

	var candidates []searchCandidate
	for result.Next(ctx) {
		record := result.Record()
		candidates = append(candidates, searchCandidate{
			ID:            getStringFromRecord(record, "id"),
			Name:          getStringFromRecord(record, "name"),
			Category:      getStringFromRecord(record, "category"),
			Destination:   getStringFromRecord(record, "destination"),
			Latitude:      getFloatPtrFromRecord(record, "lat"),
			Longitude:     getFloatPtrFromRecord(record, "lon"),
			ScoreBase:     getFloat64FromRecord(record, "score_base"),
			ScoreVerified: getFloat64FromRecord(record, "score_verified"),
			Confidence:    getFloat64FromRecord(record, "confidence"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search candidates: %w", err)
	}
	return candidates, nil
}

// rankCandidates applies the tiered heuristic and tie-breaks, truncating to
// limit. Pure; the store never influences ordering beyond the fields fetched.
func rankCandidates(query string, candidates []searchCandidate, limit int) []SearchResult {
	normQuery := normalizeName(query)

	results := make([]SearchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, SearchResult{
			ID:                  c.ID,
			Name:                c.Name,
			Category:            c.Category,
			Destination:         c.Destination,
			Latitude:            c.Latitude,
			Longitude:           c.Longitude,
			LuxuryScoreBase:     c.ScoreBase,
			LuxuryScoreVerified: c.ScoreVerified,
			ConfidenceScore:     c.Confidence,
			RankScore:           rankScore(normQuery, c),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RankScore != results[j].RankScore {
			return results[i].RankScore < results[j].RankScore
		}
		li, lj := bestLuxuryScore(results[i]), bestLuxuryScore(results[j])
		if li != lj {
			return li > lj
		}
		return results[i].Name < results[j].Name
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func rankScore(normQuery string, c searchCandidate) float64 {
	normName := normalizeName(c.Name)

	if normQuery == normName {
		return 0
	}
	if normQuery != "" && strings.Contains(normName, normQuery) {
		diff := len(normName) - len(normQuery)
		if diff > 5 {
			diff = 5
		}
		return 1 + float64(diff)/100
	}
	if normQuery != "" && strings.Contains(normalizeName(c.Destination), normQuery) {
		return 3
	}
	if normQuery != "" && strings.Contains(normalizeName(c.Category), normQuery) {
		return 4
	}
	return 10 + float64(levenshtein(normQuery, normName))
}

func bestLuxuryScore(r SearchResult) float64 {
	if r.LuxuryScoreVerified > r.LuxuryScoreBase {
		return r.LuxuryScoreVerified
	}
	return r.LuxuryScoreBase
}

// normalizeName lowercases and strips everything non-alphanumeric, so
// "Club 55" and "club55" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := 0; j <= len(br); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = minInt(del, minInt(ins, sub))
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
