package catalog

import (
	"fmt"
	"strings"

	"luxatlas/backend/internal/constants"
	"luxatlas/backend/pkg/errors"
)

// DefaultSignalConfidence is used when a signal arrives without a confidence.
const DefaultSignalConfidence = 0.5

var validSignalKinds = map[string]bool{
	constants.SignalKindEmotion:      true,
	constants.SignalKindEmotionalTag: true,
	constants.SignalKindDesire:       true,
	constants.SignalKindFear:         true,
}

// Validate checks a draft against the POI contract and returns the full
// field-keyed problem list. An empty result means the draft is acceptable;
// Validate also normalizes the draft in place (nil slices become empty,
// absent signal confidences get the midpoint default).
func Validate(d *Draft) []errors.FieldError {
	var errs []errors.FieldError

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.FieldError{Field: "name", Message: "name is required"})
	}

	if d.Latitude != nil && (*d.Latitude < -90 || *d.Latitude > 90) {
		errs = append(errs, errors.FieldError{Field: "latitude", Message: fmt.Sprintf("latitude %v out of range [-90, 90]", *d.Latitude)})
	}
	if d.Longitude != nil && (*d.Longitude < -180 || *d.Longitude > 180) {
		errs = append(errs, errors.FieldError{Field: "longitude", Message: fmt.Sprintf("longitude %v out of range [-180, 180]", *d.Longitude)})
	}

	if len(d.Provenance) == 0 {
		errs = append(errs, errors.FieldError{Field: "provenance", Message: "at least one provenance reference is required"})
	}
	for i, ref := range d.Provenance {
		if strings.TrimSpace(ref.SourceKind) == "" {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("provenance[%d].source_kind", i), Message: "source kind is required"})
		}
		if strings.TrimSpace(ref.SourceID) == "" {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("provenance[%d].source_id", i), Message: "source id is required"})
		}
	}

	for i := range d.Signals {
		sig := &d.Signals[i]
		if !validSignalKinds[sig.Kind] {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("signals[%d].kind", i), Message: fmt.Sprintf("unknown signal kind %q", sig.Kind)})
		}
		if strings.TrimSpace(sig.Name) == "" {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("signals[%d].name", i), Message: "signal name is required"})
		}
		if sig.Intensity < 1 || sig.Intensity > 10 {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("signals[%d].intensity", i), Message: fmt.Sprintf("intensity %d out of range [1, 10]", sig.Intensity)})
		}
		if sig.Confidence == nil {
			def := DefaultSignalConfidence
			sig.Confidence = &def
		} else if *sig.Confidence < 0 || *sig.Confidence > 1 {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("signals[%d].confidence", i), Message: fmt.Sprintf("confidence %v out of range [0, 1]", *sig.Confidence)})
		}
		if sig.Citations == nil {
			sig.Citations = []string{}
		}
	}

	for i, am := range d.Archetypes {
		if am.Fit < 0 || am.Fit > 1 {
			errs = append(errs, errors.FieldError{Field: fmt.Sprintf("archetypes[%d].fit", i), Message: fmt.Sprintf("fit %v out of range [0, 1]", am.Fit)})
		}
	}

	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Signals == nil {
		d.Signals = []EmotionalSignal{}
	}
	if d.Archetypes == nil {
		d.Archetypes = []ArchetypeMatch{}
	}

	return errs
}
