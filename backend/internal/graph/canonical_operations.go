package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// Canonicalization & Backfill Engine
// ============================================================================
//
// Both passes are idempotent: their match predicates only select nodes still
// needing work, so a second run with no intervening writes is a no-op.

// coalesceRule declares the ordered precedence for one canonical field. The
// canonical property always wins; legacy sources follow in order. New legacy
// aliases are added here, never in reconciliation logic.
type coalesceRule struct {
	Canonical string
	Sources   []string
}

var canonicalFieldRules = []coalesceRule{
	{Canonical: "luxury_score_base", Sources: []string{"luxuryScore", "luxury_score"}},
	{Canonical: "confidence_score", Sources: []string{"scoreConfidence"}},
}

// legacyEvidenceProperty is the free-text predecessor of score_evidence.
const legacyEvidenceProperty = "luxury_evidence"

// EvidenceEnvelope is the minimal structured form score_evidence takes when
// backfilled from legacy free text. The store cannot nest structured
// properties, so it is serialized to JSON.
type EvidenceEnvelope struct {
	Source     string `json:"source"`
	MigratedAt string `json:"migrated_at"`
	Text       string `json:"text"`
}

// BuildEvidenceEnvelope wraps legacy free-text evidence verbatim in the
// structured envelope. json.Marshal escapes the text for safe serialization.
func BuildEvidenceEnvelope(legacyText string, now time.Time) (string, error) {
	env := EvidenceEnvelope{
		Source:     "legacy_backfill",
		MigratedAt: now.UTC().Format(time.RFC3339),
		Text:       legacyText,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to serialize evidence envelope: %w", err)
	}
	return string(data), nil
}

// buildReconcileQuery generates the batched Pass A query for one rule. Only
// nodes where the canonical field is null and at least one source is present
// match, which is what makes the pass idempotent.
func buildReconcileQuery(rule coalesceRule) string {
	canonical := "p.`" + rule.Canonical + "`"
	srcRefs := make([]string, len(rule.Sources))
	for i, s := range rule.Sources {
		srcRefs[i] = "p.`" + s + "`"
	}
	coalesceArgs := strings.Join(srcRefs, ", ")
	anyPresent := strings.Join(srcRefs, " IS NOT NULL OR ") + " IS NOT NULL"

	return `
		MATCH (p:POI)
		WHERE ` + canonical + ` IS NULL AND (` + anyPresent + `)
		WITH p LIMIT $batch
		SET ` + canonical + ` = coalesce(` + coalesceArgs + `)
		RETURN count(p) as updated
	`
}

const promoteVerifiedQuery = `
	MATCH (p:POI)
	WHERE p.luxury_score_verified IS NULL
	  AND p.luxury_score_base IS NOT NULL
	  AND coalesce(p.confidence_score, 0.0) >= $threshold
	WITH p LIMIT $batch
	SET p.luxury_score_verified = p.luxury_score_base
	RETURN count(p) as updated
`

// ReconcileScoreFields runs Pass A: coalesce legacy scoring fields into the
// canonical ones, then promote base to verified where confidence clears the
// threshold. Legacy properties are never written or removed.
func (r *Repository) ReconcileScoreFields(ctx context.Context) (*PassSummary, error) {
	summary := &PassSummary{}

	for _, rule := range canonicalFieldRules {
		query := buildReconcileQuery(rule)
		updated, err := r.drainBatches(ctx, query, map[string]interface{}{"batch": r.batchSize})
		if err != nil {
			return summary, fmt.Errorf("field reconciliation for %s: %w", rule.Canonical, err)
		}
		summary.Attempted += updated
		summary.Updated += updated
	}

	promoted, err := r.drainBatches(ctx, promoteVerifiedQuery, map[string]interface{}{
		"batch":     r.batchSize,
		"threshold": r.verifiedThreshold,
	})
	if err != nil {
		return summary, fmt.Errorf("verified promotion: %w", err)
	}
	summary.Attempted += promoted
	summary.Updated += promoted

	r.logger.Info("score field reconciliation finished",
		zap.Int("updated", summary.Updated),
	)
	return summary, nil
}

// BackfillScoreEvidence runs Pass B: wrap legacy free-text evidence into the
// structured envelope, but only where score_evidence is currently null. The
// null check is repeated inside the write as a hard precondition so evidence
// entered by a human between read and write is never clobbered; such nodes
// count as skipped, not failed.
func (r *Repository) BackfillScoreEvidence(ctx context.Context) (*PassSummary, error) {
	summary := &PassSummary{}
	handled := make(map[string]bool)

	readQuery := fmt.Sprintf(`
		MATCH (p:POI)
		WHERE p.score_evidence IS NULL AND p.`+"`%s`"+` IS NOT NULL
		RETURN p.id as id, p.`+"`%s`"+` as legacy_text
		LIMIT $batch
	`, legacyEvidenceProperty, legacyEvidenceProperty)

	for {
		rows, err := r.readEvidenceBatch(ctx, readQuery)
		if err != nil {
			return summary, err
		}

		progress := 0
		for _, row := range rows {
			if handled[row.id] {
				continue
			}
			handled[row.id] = true
			progress++
			summary.Attempted++

			envelope, err := BuildEvidenceEnvelope(row.legacyText, time.Now())
			if err != nil {
				summary.Failed++
				r.logger.Warn("evidence envelope build failed",
					zap.String("poi_id", row.id), zap.Error(err))
				continue
			}

			updated, err := r.runCount(ctx, `
				MATCH (p:POI {id: $id})
				WHERE p.score_evidence IS NULL
				SET p.score_evidence = $envelope
				RETURN count(p) as updated
			`, map[string]interface{}{"id": row.id, "envelope": envelope})
			if err != nil {
				// one bad node must not abort the batch
				summary.Failed++
				r.logger.Warn("evidence backfill failed",
					zap.String("poi_id", row.id), zap.Error(err))
				continue
			}
			if updated == 0 {
				summary.Skipped++
				continue
			}
			summary.Updated++
		}

		if len(rows) < r.batchSize || progress == 0 {
			break
		}
	}

	r.logger.Info("score evidence backfill finished",
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

type evidenceRow struct {
	id         string
	legacyText string
}

func (r *Repository) readEvidenceBatch(ctx context.Context, query string) ([]evidenceRow, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"batch": r.batchSize})
	if err != nil {
		return nil, fmt.Errorf("failed to read evidence batch: %w", err)
	}

	var rows []evidenceRow
	for result.Next(ctx) {
		record := result.Record()
		rows = append(rows, evidenceRow{
			id:         getStringFromRecord(record, "id"),
			legacyText: getStringFromRecord(record, "legacy_text"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evidence batch: %w", err)
	}
	return rows, nil
}

// drainBatches re-runs a LIMIT $batch write until it reports fewer updates
// than the batch size.
func (r *Repository) drainBatches(ctx context.Context, query string, params map[string]interface{}) (int, error) {
	total := 0
	for {
		updated, err := r.runCount(ctx, query, params)
		if err != nil {
			return total, err
		}
		total += updated
		if updated < r.batchSize {
			return total, nil
		}
	}
}
