package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"luxatlas/backend/internal/scheduler"
	"luxatlas/backend/pkg/logger"
)

// ============================================================================
// Enrichment Worker
// ============================================================================
//
// Pulls the highest-priority POIs from the scheduler and fills their missing
// descriptions via the LLM client. One failed POI never aborts the batch.

// SourceLLM marks graph records written by this worker
const SourceLLM = "llm"

// Store is the slice of the graph repository the worker needs
type Store interface {
	EnrichmentSnapshots(ctx context.Context) ([]scheduler.Snapshot, error)
	RecordEnrichment(ctx context.Context, poiID, description, source string) error
}

// Describer generates POI descriptions
type Describer interface {
	GeneratePOIDescription(ctx context.Context, p POIContext) (string, error)
}

// Worker runs enrichment batches
type Worker struct {
	store       Store
	llm         Describer
	minPriority float64
	logger      *zap.Logger
}

// Summary reports one batch run
type Summary struct {
	Considered int `json:"considered"`
	Eligible   int `json:"eligible"`
	Enriched   int `json:"enriched"`
	Failed     int `json:"failed"`
}

// NewWorker creates an enrichment worker. minPriority of 0 or less falls back
// to the scheduler default.
func NewWorker(store Store, llm Describer, minPriority float64) *Worker {
	return &Worker{
		store:       store,
		llm:         llm,
		minPriority: minPriority,
		logger:      logger.Get(),
	}
}

// RunOnce enriches up to batchSize POIs, highest priority first.
func (w *Worker) RunOnce(ctx context.Context, batchSize int) (Summary, error) {
	snapshots, err := w.store.EnrichmentSnapshots(ctx)
	if err != nil {
		return Summary{}, err
	}

	now := time.Now()
	eligible := scheduler.FilterNeedsEnrichment(snapshots, w.minPriority, now)
	batch := scheduler.TopPriority(eligible, batchSize, now)

	summary := Summary{Considered: len(snapshots), Eligible: len(eligible)}
	for _, s := range batch {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		description, err := w.llm.GeneratePOIDescription(ctx, POIContext{
			ID:          s.ID,
			Name:        s.Name,
			Destination: s.Destination,
		})
		if err != nil {
			summary.Failed++
			w.logger.Warn("Enrichment failed",
				zap.String("poi_id", s.ID),
				zap.String("name", s.Name),
				zap.Error(err),
			)
			continue
		}

		if err := w.store.RecordEnrichment(ctx, s.ID, description, SourceLLM); err != nil {
			summary.Failed++
			w.logger.Warn("Failed to record enrichment",
				zap.String("poi_id", s.ID),
				zap.Error(err),
			)
			continue
		}
		summary.Enriched++
	}

	w.logger.Info("Enrichment batch complete",
		zap.Int("considered", summary.Considered),
		zap.Int("eligible", summary.Eligible),
		zap.Int("enriched", summary.Enriched),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}
