package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"luxatlas/backend/internal/graph"
	"luxatlas/backend/pkg/config"
	"luxatlas/backend/pkg/logger"
)

// Maintenance runner for the graph catalog. Jobs are idempotent batch passes;
// rerunning a job against a converged graph is a no-op.
//
// Usage:
//
//	maintenance -jobs reconcile,backfill
//	maintenance -jobs all

var jobOrder = []string{"reconcile", "backfill", "retype", "collapse", "propagate"}

func main() {
	jobsFlag := flag.String("jobs", "all", "Comma-separated jobs to run: reconcile, backfill, retype, collapse, propagate, all")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting catalog maintenance...")

	jobs, err := parseJobs(*jobsFlag)
	if err != nil {
		log.Fatal("Invalid -jobs flag", zap.Error(err))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver,
		graph.WithBatchSize(cfg.MaintenanceBatchSize),
		graph.WithSignalDecay(cfg.SignalDecayFactor),
		graph.WithVerifiedThreshold(cfg.VerifiedThreshold),
	)

	for _, job := range jobs {
		log.Info("Running job", zap.String("job", job))
		if err := runJob(ctx, repo, log, job); err != nil {
			log.Fatal("Job failed", zap.String("job", job), zap.Error(err))
		}
	}

	log.Info("Maintenance completed successfully!")
}

func runJob(ctx context.Context, repo *graph.Repository, log *zap.Logger, job string) error {
	switch job {
	case "reconcile":
		summary, err := repo.ReconcileScoreFields(ctx)
		if err != nil {
			return err
		}
		logPassSummary(log, job, summary)
	case "backfill":
		summary, err := repo.BackfillScoreEvidence(ctx)
		if err != nil {
			return err
		}
		logPassSummary(log, job, summary)
	case "retype":
		summary, err := repo.StandardizeRelationshipNames(ctx)
		if err != nil {
			return err
		}
		logJobSummary(log, job, summary)
	case "collapse":
		summary, err := repo.CollapseDuplicateEdges(ctx)
		if err != nil {
			return err
		}
		logJobSummary(log, job, summary)
	case "propagate":
		summary, err := repo.PropagateActivitySignals(ctx)
		if err != nil {
			return err
		}
		logJobSummary(log, job, summary)
	default:
		return fmt.Errorf("unknown job: %s", job)
	}
	return nil
}

func logPassSummary(log *zap.Logger, job string, s *graph.PassSummary) {
	log.Info("Job completed",
		zap.String("job", job),
		zap.Int("attempted", s.Attempted),
		zap.Int("updated", s.Updated),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed),
	)
}

func logJobSummary(log *zap.Logger, job string, s *graph.JobSummary) {
	log.Info("Job completed",
		zap.String("job", job),
		zap.Int("attempted", s.Attempted),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("coexisting_pairs", s.CoexistingPairs),
	)
}

// parseJobs expands and validates the -jobs flag, keeping the canonical run
// order regardless of how the flag orders them.
func parseJobs(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) == "all" {
		return jobOrder, nil
	}

	requested := map[string]bool{}
	for _, j := range strings.Split(flagValue, ",") {
		j = strings.TrimSpace(j)
		if j == "" {
			continue
		}
		if !isKnownJob(j) {
			return nil, fmt.Errorf("unknown job: %s", j)
		}
		requested[j] = true
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("no jobs requested")
	}

	var jobs []string
	for _, j := range jobOrder {
		if requested[j] {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func isKnownJob(job string) bool {
	for _, j := range jobOrder {
		if j == job {
			return true
		}
	}
	return false
}
