package constants

// Node labels
const (
	LabelPOI           = "POI"
	LabelActivityType  = "ActivityType"
	LabelThemeCategory = "ThemeCategory"
	LabelDestination   = "Destination"
	LabelEmotion       = "Emotion"
	LabelDesire        = "Desire"
	LabelFear          = "Fear"
)

// Relationship types form a single closed vocabulary. Every writer must use
// these constants, never free-form strings, so case/underscore drift between
// writers cannot recur. The standardization job repairs data written before
// this discipline existed.
const (
	RelLocatedIn        = "LOCATED_IN"
	RelSupportsActivity = "SUPPORTS_ACTIVITY"
	RelEvokes           = "EVOKES"
	RelAmplifiesDesire  = "AMPLIFIES_DESIRE"
	RelMitigatesFear    = "MITIGATES_FEAR"
	RelHasTheme         = "HAS_THEME"
	RelFeaturedIn       = "FEATURED_IN"
	RelHasSignal        = "HAS_SIGNAL"
)

// CanonicalRelationships lists every relationship type new code may write.
var CanonicalRelationships = []string{
	RelLocatedIn,
	RelSupportsActivity,
	RelEvokes,
	RelAmplifiesDesire,
	RelMitigatesFear,
	RelHasTheme,
	RelFeaturedIn,
	RelHasSignal,
}

// LegacyRelationshipNames maps relationship-type spellings found in data
// written before the closed vocabulary existed to their canonical form.
// Keys are the exact legacy spellings observed in the store.
var LegacyRelationshipNames = map[string]string{
	"located_in":        RelLocatedIn,
	"LocatedIn":         RelLocatedIn,
	"supports_activity": RelSupportsActivity,
	"Evokes":            RelEvokes,
	"evokes":            RelEvokes,
	"amplifies_desire":  RelAmplifiesDesire,
	"mitigates_fear":    RelMitigatesFear,
	"hasTheme":          RelHasTheme,
	"has_theme":         RelHasTheme,
}

// SignalRelationships are the emotional-signal edge types propagated from
// activities to the POIs that support them.
var SignalRelationships = []string{
	RelEvokes,
	RelAmplifiesDesire,
	RelMitigatesFear,
}

// Emotional signal kinds accepted on a POI draft
const (
	SignalKindEmotion      = "Emotion"
	SignalKindEmotionalTag = "EmotionalTag"
	SignalKindDesire       = "Desire"
	SignalKindFear         = "Fear"
)

// Edge provenance markers
const (
	// EdgeProvenanceInherited marks edges created by signal propagation
	// rather than authored directly against the POI.
	EdgeProvenanceInherited = "inherited"
)

// IsCanonicalRelationship reports whether name belongs to the closed vocabulary.
func IsCanonicalRelationship(name string) bool {
	for _, rel := range CanonicalRelationships {
		if rel == name {
			return true
		}
	}
	return false
}
