package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validDraft() *Draft {
	lat := 43.2727
	lon := 6.5806
	return &Draft{
		Name:        "Club 55",
		Category:    "beach",
		Latitude:    &lat,
		Longitude:   &lon,
		Destination: "Saint-Tropez",
		Provenance: []ProvenanceRef{
			{SourceKind: "scrape", SourceID: "pampelonne-guide", CapturedAt: time.Now()},
		},
	}
}

func TestValidate_AcceptsCompleteDraft(t *testing.T) {
	d := validDraft()
	errs := Validate(d)
	assert.Empty(t, errs)
	// arrays default to empty, never nil
	assert.NotNil(t, d.Tags)
	assert.NotNil(t, d.Signals)
	assert.NotNil(t, d.Archetypes)
}

func TestValidate_RequiresName(t *testing.T) {
	d := validDraft()
	d.Name = "   "
	errs := Validate(d)
	assert.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidate_RequiresProvenance(t *testing.T) {
	d := validDraft()
	d.Provenance = nil
	errs := Validate(d)
	assert.Len(t, errs, 1)
	assert.Equal(t, "provenance", errs[0].Field)
}

func TestValidate_RejectsMalformedProvenance(t *testing.T) {
	d := validDraft()
	d.Provenance = []ProvenanceRef{{SourceKind: "", SourceID: ""}}
	errs := Validate(d)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "provenance[0].source_kind")
	assert.Contains(t, fields, "provenance[0].source_id")
}

func TestValidate_CoordinateBounds(t *testing.T) {
	d := validDraft()
	badLat := 91.0
	badLon := -181.0
	d.Latitude = &badLat
	d.Longitude = &badLon
	errs := Validate(d)
	assert.Len(t, errs, 2)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	badLat := 123.4
	d := &Draft{Name: "", Latitude: &badLat}
	errs := Validate(d)
	// callers must see the full list, not the first failure
	assert.GreaterOrEqual(t, len(errs), 3) // name, latitude, provenance
}

func TestValidate_SignalDefaultsAndRanges(t *testing.T) {
	d := validDraft()
	d.Signals = []EmotionalSignal{
		{Kind: "Emotion", Name: "Joy", Intensity: 7},
		{Kind: "Unknown", Name: "", Intensity: 11},
	}
	errs := Validate(d)

	// first signal is fine and gets the midpoint confidence
	if assert.NotNil(t, d.Signals[0].Confidence) {
		assert.Equal(t, DefaultSignalConfidence, *d.Signals[0].Confidence)
	}
	assert.NotNil(t, d.Signals[0].Citations)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "signals[1].kind")
	assert.Contains(t, fields, "signals[1].name")
	assert.Contains(t, fields, "signals[1].intensity")
}

func TestValidate_ArchetypeFitRange(t *testing.T) {
	d := validDraft()
	d.Archetypes = []ArchetypeMatch{{Archetype: "connoisseur", Fit: 1.5}}
	errs := Validate(d)
	assert.Len(t, errs, 1)
	assert.Equal(t, "archetypes[0].fit", errs[0].Field)
}
