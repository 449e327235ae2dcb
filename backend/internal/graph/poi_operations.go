package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"luxatlas/backend/internal/catalog"
	"luxatlas/backend/internal/constants"
	"luxatlas/backend/internal/scheduler"
	"luxatlas/backend/pkg/errors"
)

// ============================================================================
// POI Node Operations
// ============================================================================

// UpsertPOI writes an admitted, validated draft to the graph under the given
// id. The POI node is merged by id; its destination is merged by name and
// linked LOCATED_IN; emotional signals become direct authored edges to
// merge-by-name signal nodes.
func (r *Repository) UpsertPOI(ctx context.Context, id string, d *catalog.Draft) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (p:POI {id: $id})
		ON CREATE SET p.created_at = datetime()
		SET p.name = $name,
		    p.category = $category,
		    p.lat = $lat,
		    p.lon = $lon,
		    p.description = CASE WHEN $description = '' THEN p.description ELSE $description END,
		    p.website = CASE WHEN $website = '' THEN p.website ELSE $website END,
		    p.updated_at = datetime()
		RETURN p.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":          id,
		"name":        d.Name,
		"category":    d.Category,
		"lat":         floatOrNil(d.Latitude),
		"lon":         floatOrNil(d.Longitude),
		"description": d.Description,
		"website":     d.Website,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert POI: %w", err)
	}
	if _, err := result.Single(ctx); err != nil {
		return fmt.Errorf("failed to verify POI upsert: %w", err)
	}

	if d.Destination != "" {
		if err := r.linkDestination(ctx, session, id, d.Destination); err != nil {
			return err
		}
	}

	for _, sig := range d.Signals {
		if err := r.writeAuthoredSignal(ctx, session, id, sig); err != nil {
			return err
		}
	}

	r.logger.Info("POI upserted",
		zap.String("poi_id", id),
		zap.String("name", d.Name),
		zap.Int("signals", len(d.Signals)),
	)
	return nil
}

func (r *Repository) linkDestination(ctx context.Context, session neo4j.SessionWithContext, poiID, destination string) error {
	query := fmt.Sprintf(`
		MATCH (p:POI {id: $poiID})
		MERGE (d:Destination {name: $destination})
		MERGE (p)-[:%s]->(d)
	`, constants.RelLocatedIn)

	_, err := session.Run(ctx, query, map[string]interface{}{
		"poiID":       poiID,
		"destination": destination,
	})
	if err != nil {
		return fmt.Errorf("failed to link destination: %w", err)
	}
	return nil
}

// signalTarget maps a draft signal kind to its node label and edge type.
func signalTarget(kind string) (label, relType string, ok bool) {
	switch kind {
	case constants.SignalKindEmotion, constants.SignalKindEmotionalTag:
		return constants.LabelEmotion, constants.RelEvokes, true
	case constants.SignalKindDesire:
		return constants.LabelDesire, constants.RelAmplifiesDesire, true
	case constants.SignalKindFear:
		return constants.LabelFear, constants.RelMitigatesFear, true
	}
	return "", "", false
}

func (r *Repository) writeAuthoredSignal(ctx context.Context, session neo4j.SessionWithContext, poiID string, sig catalog.EmotionalSignal) error {
	label, relType, ok := signalTarget(sig.Kind)
	if !ok {
		return fmt.Errorf("unknown signal kind: %s", sig.Kind)
	}

	confidence := catalog.DefaultSignalConfidence
	if sig.Confidence != nil {
		confidence = *sig.Confidence
	}

	query := fmt.Sprintf(`
		MATCH (p:POI {id: $poiID})
		MERGE (t:%s {name: $name})
		ON CREATE SET t.code = $code
		MERGE (p)-[s:%s]->(t)
		SET s.intensity = $intensity,
		    s.evidence = $evidence,
		    s.confidence = $confidence,
		    s.citations = $citations
	`, label, relType)

	_, err := session.Run(ctx, query, map[string]interface{}{
		"poiID":      poiID,
		"name":       sig.Name,
		"code":       sig.Code,
		"intensity":  sig.Intensity,
		"evidence":   sig.Evidence,
		"confidence": confidence,
		"citations":  sig.Citations,
	})
	if err != nil {
		return fmt.Errorf("failed to write signal edge: %w", err)
	}
	return nil
}

// LinkSupportsActivity merges the activity type by name and links the POI.
func (r *Repository) LinkSupportsActivity(ctx context.Context, poiID, activityName string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (p:POI {id: $poiID})
		MERGE (a:%s {name: $activityName})
		MERGE (p)-[:%s]->(a)
	`, constants.LabelActivityType, constants.RelSupportsActivity)

	_, err := session.Run(ctx, query, map[string]interface{}{
		"poiID":        poiID,
		"activityName": activityName,
	})
	if err != nil {
		return fmt.Errorf("failed to link activity: %w", err)
	}
	return nil
}

// LinkTheme merges the theme category by name and links the POI with a
// theme_fit score and supporting evidence on the edge.
func (r *Repository) LinkTheme(ctx context.Context, poiID, themeName string, themeFit float64, evidence string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (p:POI {id: $poiID})
		MERGE (t:%s {name: $themeName})
		MERGE (p)-[h:%s]->(t)
		SET h.theme_fit = $themeFit,
		    h.evidence = $evidence
	`, constants.LabelThemeCategory, constants.RelHasTheme)

	_, err := session.Run(ctx, query, map[string]interface{}{
		"poiID":     poiID,
		"themeName": themeName,
		"themeFit":  themeFit,
		"evidence":  evidence,
	})
	if err != nil {
		return fmt.Errorf("failed to link theme: %w", err)
	}
	return nil
}

// EnrichmentSnapshots reads the fields the scheduler scores on for every POI.
func (r *Repository) EnrichmentSnapshots(ctx context.Context) ([]scheduler.Snapshot, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (p:POI)
		OPTIONAL MATCH (p)-[:%s]->(d:Destination)
		RETURN p.id as id,
		       p.name as name,
		       coalesce(p.luxury_score_base, 0.0) * 10 as score,
		       p.description IS NOT NULL AND p.description <> '' as has_description,
		       p.website IS NOT NULL AND p.website <> '' as has_website,
		       p.rating IS NOT NULL as has_rating,
		       coalesce(p.photo_count, 0) as photo_count,
		       d.name as destination,
		       p.last_enriched_at as last_enriched_at
	`, constants.RelLocatedIn)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read enrichment snapshots: %w", err)
	}

	var snapshots []scheduler.Snapshot
	for result.Next(ctx) {
		record := result.Record()
		s := scheduler.Snapshot{
			ID:          getStringFromRecord(record, "id"),
			Name:        getStringFromRecord(record, "name"),
			Score:       getFloat64FromRecord(record, "score"),
			Destination: getStringFromRecord(record, "destination"),
		}
		if v, ok := record.Get("has_description"); ok {
			s.HasDescription, _ = v.(bool)
		}
		if v, ok := record.Get("has_website"); ok {
			s.HasWebsite, _ = v.(bool)
		}
		if v, ok := record.Get("has_rating"); ok {
			s.HasRating, _ = v.(bool)
		}
		if v, ok := record.Get("photo_count"); ok {
			if n, ok := v.(int64); ok {
				s.PhotoCount = int(n)
			}
		}
		if v, ok := record.Get("last_enriched_at"); ok && v != nil {
			if t, ok := v.(time.Time); ok {
				s.LastEnrichedAt = &t
			}
		}
		snapshots = append(snapshots, s)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// RecordEnrichment writes an enrichment result back to the POI.
func (r *Repository) RecordEnrichment(ctx context.Context, poiID, description, source string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:POI {id: $poiID})
		SET p.description = $description,
		    p.last_enriched_at = datetime(),
		    p.enrichment_source = $source
		RETURN p.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"poiID":       poiID,
		"description": description,
		"source":      source,
	})
	if err != nil {
		return fmt.Errorf("failed to record enrichment: %w", err)
	}
	if _, err := result.Single(ctx); err != nil {
		// MATCH produced no row: the POI does not exist
		return errors.NewPOINotFound(poiID)
	}
	return nil
}

// DeletePOIs removes the given POIs and all their edges. Only reachable from
// explicitly authorized bulk-delete callers; no batch pass deletes nodes.
func (r *Repository) DeletePOIs(ctx context.Context, ids []string) (int, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:POI)
		WHERE p.id IN $ids
		DETACH DELETE p
		RETURN count(p) as deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"ids": ids})
	if err != nil {
		return 0, fmt.Errorf("failed to delete POIs: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch delete count: %w", err)
	}
	deleted := 0
	if n, ok := record.Values[0].(int64); ok {
		deleted = int(n)
	}
	r.logger.Info("POIs deleted", zap.Int("count", deleted))
	return deleted, nil
}

func floatOrNil(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
