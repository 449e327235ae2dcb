package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"luxatlas/backend/pkg/logger"
)

// Repository handles all Neo4j catalog operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger

	batchSize         int
	decayFactor       float64
	verifiedThreshold float64
}

// Option configures a Repository
type Option func(*Repository)

// WithBatchSize bounds how many units a maintenance batch processes per
// transaction.
func WithBatchSize(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithSignalDecay sets the confidence decay applied to propagated signals.
func WithSignalDecay(f float64) Option {
	return func(r *Repository) {
		if f > 0 && f <= 1 {
			r.decayFactor = f
		}
	}
}

// WithVerifiedThreshold sets the confidence at or above which a base score
// is promoted to verified during reconciliation.
func WithVerifiedThreshold(f float64) Option {
	return func(r *Repository) {
		if f >= 0 && f <= 1 {
			r.verifiedThreshold = f
		}
	}
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext, opts ...Option) *Repository {
	r := &Repository{
		driver:            driver,
		logger:            logger.Get(),
		batchSize:         1000,
		decayFactor:       0.8,
		verifiedThreshold: 0.99,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// runCount executes a write query and returns the integer in the first
// column of its single result row. Batch loops use this for drain detection.
func (r *Repository) runCount(ctx context.Context, query string, params map[string]interface{}) (int, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch count: %w", err)
	}
	if len(record.Values) == 0 {
		return 0, nil
	}
	if n, ok := record.Values[0].(int64); ok {
		return int(n), nil
	}
	return 0, nil
}
