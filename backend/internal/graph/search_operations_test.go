package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "club55", normalizeName("Club 55"))
	assert.Equal(t, "club55", normalizeName("club55"))
	assert.Equal(t, "hotelducapedenroc", normalizeName("Hotel du Cap-Eden-Roc")) // keeps letters, drops punctuation
	assert.Equal(t, "", normalizeName("!!! ---"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("abc", ""))
	assert.Equal(t, 1, levenshtein("club55", "club5"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

func TestRankScore_Tiers(t *testing.T) {
	c := searchCandidate{Name: "Club 55", Category: "beach", Destination: "Saint-Tropez"}

	// exact normalized match
	assert.Equal(t, 0.0, rankScore(normalizeName("club55"), c))
	assert.Equal(t, 0.0, rankScore(normalizeName("Club 55"), c))

	// substring of name: 1 + min(5, lenDiff)/100
	long := searchCandidate{Name: "Cheval Blanc Paris"}
	assert.Equal(t, 1.05, rankScore(normalizeName("cheval"), long)) // diff 10, capped at 5
	short := searchCandidate{Name: "Club 555"}
	assert.Equal(t, 1.01, rankScore(normalizeName("club55"), short)) // diff 1

	// destination tier
	assert.Equal(t, 3.0, rankScore(normalizeName("tropez"), c))

	// category tier
	assert.Equal(t, 4.0, rankScore(normalizeName("beach"), c))

	// fallback: 10 + edit distance
	far := searchCandidate{Name: "La Vague d'Or"}
	score := rankScore(normalizeName("club55"), far)
	assert.GreaterOrEqual(t, score, 10.0)
}

func TestRankCandidates_ExactMatchFirst(t *testing.T) {
	candidates := []searchCandidate{
		{ID: "sub", Name: "Club 55 Beach Restaurant"}, // substring tier
		{ID: "exact", Name: "Club 55"},                // exact tier
		{ID: "far", Name: "Byblos"},                   // fallback tier
	}

	results := rankCandidates("club55", candidates, 20)
	assert.Equal(t, "exact", results[0].ID)
	assert.Equal(t, 0.0, results[0].RankScore)
	assert.Equal(t, "sub", results[1].ID)

	// non-decreasing rank scores
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].RankScore, results[i-1].RankScore)
	}
}

func TestRankCandidates_TieBreaks(t *testing.T) {
	// same tier and rank score; the higher of verified/base wins
	candidates := []searchCandidate{
		{ID: "low", Name: "Aurora Spa", ScoreBase: 4.0},
		{ID: "high", Name: "Aurora Bar", ScoreBase: 5.0, ScoreVerified: 9.0},
	}
	results := rankCandidates("aurora", candidates, 20)
	assert.Equal(t, results[0].RankScore, results[1].RankScore)
	assert.Equal(t, "high", results[0].ID)

	// equal scores fall through to alphabetical order
	candidates = []searchCandidate{
		{ID: "b", Name: "Aurora Beta", ScoreBase: 5.0},
		{ID: "a", Name: "Aurora Alpha", ScoreBase: 5.0},
	}
	results = rankCandidates("aurora", candidates, 20)
	assert.Equal(t, "a", results[0].ID)
}

func TestRankCandidates_Truncates(t *testing.T) {
	var candidates []searchCandidate
	for i := 0; i < 30; i++ {
		candidates = append(candidates, searchCandidate{ID: string(rune('a' + i)), Name: "Aurora"})
	}
	assert.Len(t, rankCandidates("aurora", candidates, 20), 20)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-5))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, 50, clampLimit(200))
}
