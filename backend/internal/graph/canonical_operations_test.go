package graph

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalFieldRules_Precedence(t *testing.T) {
	// the precedence order is data, and auditable as data: canonical field
	// first (implicitly, via the null guard), then legacy aliases in order
	var base *coalesceRule
	for i := range canonicalFieldRules {
		if canonicalFieldRules[i].Canonical == "luxury_score_base" {
			base = &canonicalFieldRules[i]
		}
	}
	if assert.NotNil(t, base) {
		assert.Equal(t, []string{"luxuryScore", "luxury_score"}, base.Sources)
	}
}

func TestBuildReconcileQuery(t *testing.T) {
	q := buildReconcileQuery(coalesceRule{
		Canonical: "confidence_score",
		Sources:   []string{"scoreConfidence"},
	})

	// writes only when the canonical field is absent
	assert.Contains(t, q, "p.`confidence_score` IS NULL")
	// reads, never writes, the legacy alias
	assert.Contains(t, q, "coalesce(p.`scoreConfidence`)")
	assert.NotContains(t, q, "SET p.`scoreConfidence`")
	// bounded batches
	assert.Contains(t, q, "LIMIT $batch")
}

func TestBuildReconcileQuery_MultipleSourcesKeepOrder(t *testing.T) {
	q := buildReconcileQuery(coalesceRule{
		Canonical: "luxury_score_base",
		Sources:   []string{"luxuryScore", "luxury_score"},
	})
	assert.Contains(t, q, "coalesce(p.`luxuryScore`, p.`luxury_score`)")

	// first source must be tried first
	first := strings.Index(q, "p.`luxuryScore`")
	second := strings.Index(q, "p.`luxury_score`")
	assert.Less(t, first, second)
}

func TestBuildEvidenceEnvelope_EmbedsTextVerbatim(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	out, err := BuildEvidenceEnvelope("Recommended by the GM himself", now)
	assert.NoError(t, err)

	var env EvidenceEnvelope
	assert.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "Recommended by the GM himself", env.Text)
	assert.Equal(t, "legacy_backfill", env.Source)
	assert.Equal(t, "2025-03-01T09:00:00Z", env.MigratedAt)
}

func TestBuildEvidenceEnvelope_EscapesUnsafeText(t *testing.T) {
	hostile := `He said "unmissable", then left.` + "\nSecond line \\ backslash"
	out, err := BuildEvidenceEnvelope(hostile, time.Now())
	assert.NoError(t, err)

	// the serialized form must survive a round trip with the text intact
	var env EvidenceEnvelope
	assert.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, hostile, env.Text)
}

func TestPromoteVerifiedQuery_GuardsExistingValues(t *testing.T) {
	// verified is only ever backfilled, never recomputed over an existing value
	assert.Contains(t, promoteVerifiedQuery, "p.luxury_score_verified IS NULL")
	assert.Contains(t, promoteVerifiedQuery, ">= $threshold")
}
