package scheduler

import (
	"sort"
	"time"
)

// ============================================================================
// Enrichment Priority Scheduler
// ============================================================================
//
// Pure scoring over in-memory snapshots; the external enrichment worker asks
// for the next batch, nothing here touches a store.

// Snapshot is the slice of POI state the scheduler scores on
type Snapshot struct {
	ID             string
	Name           string
	Score          float64 // current score on a 0-100 scale, 0 when unknown
	HasDescription bool
	HasWebsite     bool
	HasRating      bool
	PhotoCount     int
	Destination    string
	LastEnrichedAt *time.Time
}

// Scoring weights. The destination bonus and recency penalty are inherited
// business heuristics; treat the values as data, not derivations.
const (
	MissingDescriptionBonus = 50
	MissingWebsiteBonus     = 30
	MissingRatingBonus      = 40
	MissingPhotosBonus      = 20
	PopularDestinationBonus = 30
	RecentEnrichmentPenalty = 100

	// RecentEnrichmentWindow is how long an enrichment keeps a POI out of
	// the queue.
	RecentEnrichmentWindow = 30 * 24 * time.Hour

	// DefaultMinPriority is the threshold below which a POI is not worth an
	// enrichment slot.
	DefaultMinPriority = 50
)

// PopularDestinations get a boost because gaps there are the most visible.
var PopularDestinations = []string{
	"Saint-Tropez", "Monaco", "Paris", "Courchevel", "Dubai",
	"Maldives", "Aspen", "Lake Como", "Santorini", "Kyoto",
}

// Priority scores how urgently a POI needs enrichment. Higher is sooner;
// never negative.
func Priority(s Snapshot, now time.Time) float64 {
	p := s.Score

	if !s.HasDescription {
		p += MissingDescriptionBonus
	}
	if !s.HasWebsite {
		p += MissingWebsiteBonus
	}
	if !s.HasRating {
		p += MissingRatingBonus
	}
	if s.PhotoCount == 0 {
		p += MissingPhotosBonus
	}
	if isPopularDestination(s.Destination) {
		p += PopularDestinationBonus
	}
	if s.LastEnrichedAt != nil && now.Sub(*s.LastEnrichedAt) < RecentEnrichmentWindow {
		p -= RecentEnrichmentPenalty
	}

	if p < 0 {
		return 0
	}
	return p
}

// SortByPriority orders snapshots by descending priority. Ties keep their
// relative input order so the output is deterministic.
func SortByPriority(snapshots []Snapshot, now time.Time) []Snapshot {
	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Priority(sorted[i], now) > Priority(sorted[j], now)
	})
	return sorted
}

// FilterNeedsEnrichment keeps snapshots at or above the minimum priority.
// A min of 0 or less falls back to DefaultMinPriority.
func FilterNeedsEnrichment(snapshots []Snapshot, min float64, now time.Time) []Snapshot {
	if min <= 0 {
		min = DefaultMinPriority
	}
	out := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if Priority(s, now) >= min {
			out = append(out, s)
		}
	}
	return out
}

// TopPriority returns the n highest-priority snapshots.
func TopPriority(snapshots []Snapshot, n int, now time.Time) []Snapshot {
	sorted := SortByPriority(snapshots, now)
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func isPopularDestination(destination string) bool {
	for _, d := range PopularDestinations {
		if d == destination {
			return true
		}
	}
	return false
}
