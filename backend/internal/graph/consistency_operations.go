package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"luxatlas/backend/internal/constants"
)

// ============================================================================
// Relationship Consistency Maintainer
// ============================================================================
//
// Three repair jobs over the edge set, each in bounded batches. Every unit
// is one combined create/merge-and-delete or one merge, so an interrupted
// run leaves the store valid and a rerun resumes or finds nothing to do.

// StandardizeRelationshipNames migrates edges written under legacy
// relationship-type spellings to the canonical vocabulary. Each edge is
// recreated under the canonical type with identical properties and the
// legacy edge deleted in the same unit. Node pairs where a canonical edge
// already coexists with the legacy one are reported via CoexistingPairs and
// left untouched; merging differing properties is a human decision.
func (r *Repository) StandardizeRelationshipNames(ctx context.Context) (*JobSummary, error) {
	summary := &JobSummary{}

	for legacy, canonical := range constants.LegacyRelationshipNames {
		migrateQuery := fmt.Sprintf(`
			MATCH (a)-[old:`+"`%s`"+`]->(b)
			WHERE NOT (a)-[:`+"`%s`"+`]->(b)
			WITH a, old, b LIMIT $batch
			CREATE (a)-[n:`+"`%s`"+`]->(b)
			SET n = properties(old)
			DELETE old
			RETURN count(old) as migrated
		`, legacy, canonical, canonical)

		for {
			migrated, err := r.runCount(ctx, migrateQuery, map[string]interface{}{"batch": r.batchSize})
			if err != nil {
				// keep repairing the remaining mappings
				summary.Failed++
				r.logger.Warn("relationship retype batch failed",
					zap.String("legacy", legacy),
					zap.String("canonical", canonical),
					zap.Error(err),
				)
				break
			}
			summary.Attempted += migrated
			summary.Succeeded += migrated
			if migrated < r.batchSize {
				break
			}
		}

		coexistQuery := fmt.Sprintf(`
			MATCH (a)-[old:`+"`%s`"+`]->(b)
			WHERE (a)-[:`+"`%s`"+`]->(b)
			RETURN count(old) as coexisting
		`, legacy, canonical)

		coexisting, err := r.readCount(ctx, coexistQuery, nil)
		if err != nil {
			r.logger.Warn("coexistence check failed",
				zap.String("legacy", legacy), zap.Error(err))
			continue
		}
		summary.CoexistingPairs += coexisting
	}

	r.logger.Info("relationship name standardization finished",
		zap.Int("migrated", summary.Succeeded),
		zap.Int("coexisting_pairs", summary.CoexistingPairs),
		zap.Int("failed_batches", summary.Failed),
	)
	return summary, nil
}

// CollapseDuplicateEdges enforces the single-edge invariant: for every
// canonical relationship type and (source, target) pair, exactly one edge
// survives. Which edge survives is arbitrary; duplicates with differing
// properties lose those properties, a known inherited risk.
func (r *Repository) CollapseDuplicateEdges(ctx context.Context) (*JobSummary, error) {
	summary := &JobSummary{}

	for _, relType := range constants.CanonicalRelationships {
		collapseQuery := fmt.Sprintf(`
			MATCH (a)-[e:`+"`%s`"+`]->(b)
			WITH a, b, collect(e) as edges
			WHERE size(edges) > 1
			WITH edges LIMIT $batch
			FOREACH (dup IN edges[1..] | DELETE dup)
			RETURN count(edges) as pairs, sum(size(edges) - 1) as removed
		`, relType)

		for {
			pairs, removed, err := r.readPairCount(ctx, collapseQuery, map[string]interface{}{"batch": r.batchSize})
			if err != nil {
				summary.Failed++
				r.logger.Warn("duplicate collapse batch failed",
					zap.String("type", relType), zap.Error(err))
				break
			}
			summary.Attempted += pairs
			summary.Succeeded += removed
			if pairs < r.batchSize {
				break
			}
		}
	}

	r.logger.Info("duplicate edge collapse finished",
		zap.Int("pairs_processed", summary.Attempted),
		zap.Int("edges_removed", summary.Succeeded),
	)
	return summary, nil
}

// PropagateActivitySignals derives emotional-signal edges on POIs from the
// activities they support. For POI -> SUPPORTS_ACTIVITY -> activity -> T ->
// target, an edge of type T is merged from the POI straight to that specific
// target unless one already exists, with confidence decayed and provenance
// marking it as inherited from the activity. MERGE semantics make the job
// safe to rerun and safe against concurrent runs.
func (r *Repository) PropagateActivitySignals(ctx context.Context) (*JobSummary, error) {
	summary := &JobSummary{}

	for _, relType := range constants.SignalRelationships {
		propagateQuery := fmt.Sprintf(`
			MATCH (p:%s)-[:%s]->(a:%s)-[src:`+"`%s`"+`]->(x)
			WHERE NOT (p)-[:`+"`%s`"+`]->(x)
			WITH p, a, src, x LIMIT $batch
			MERGE (p)-[n:`+"`%s`"+`]->(x)
			ON CREATE SET
				n.confidence = coalesce(src.confidence, $defaultConfidence) * $decay,
				n.evidence = src.evidence,
				n.provenance = $provenance,
				n.inherited_from = a.name,
				n.created_at = datetime()
			RETURN count(*) as propagated
		`, constants.LabelPOI, constants.RelSupportsActivity, constants.LabelActivityType,
			relType, relType, relType)

		for {
			propagated, err := r.runCount(ctx, propagateQuery, map[string]interface{}{
				"batch":             r.batchSize,
				"decay":             r.decayFactor,
				"defaultConfidence": 0.5,
				"provenance":        constants.EdgeProvenanceInherited,
			})
			if err != nil {
				summary.Failed++
				r.logger.Warn("signal propagation batch failed",
					zap.String("type", relType), zap.Error(err))
				break
			}
			summary.Attempted += propagated
			summary.Succeeded += propagated
			if propagated < r.batchSize {
				break
			}
		}
	}

	r.logger.Info("signal propagation finished",
		zap.Int("propagated", summary.Succeeded),
		zap.Int("failed_batches", summary.Failed),
	)
	return summary, nil
}

// readCount executes a read query returning a single integer column.
func (r *Repository) readCount(ctx context.Context, query string, params map[string]interface{}) (int, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch count: %w", err)
	}
	if n, ok := record.Values[0].(int64); ok {
		return int(n), nil
	}
	return 0, nil
}

// readPairCount executes a write query returning two integer columns.
func (r *Repository) readPairCount(ctx context.Context, query string, params map[string]interface{}) (int, int, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch counts: %w", err)
	}
	first, second := 0, 0
	if len(record.Values) > 0 {
		if n, ok := record.Values[0].(int64); ok {
			first = int(n)
		}
	}
	if len(record.Values) > 1 {
		if n, ok := record.Values[1].(int64); ok {
			second = int(n)
		}
	}
	return first, second, nil
}
