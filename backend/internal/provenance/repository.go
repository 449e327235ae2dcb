package provenance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"luxatlas/backend/internal/catalog"
	apperrors "luxatlas/backend/pkg/errors"
)

// Repository stores provenance records in the relational store
type Repository interface {
	RecordRefs(ctx context.Context, poiID string, refs []catalog.ProvenanceRef) error
	ListByPOI(ctx context.Context, poiID string) ([]SourceRecord, error)
	DeleteByPOI(ctx context.Context, poiID string) error
}

type repository struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the provenance schema
func Open(dsn string) (Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&SourceRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate provenance schema: %w", err)
	}
	return &repository{db: db}, nil
}

// NewRepository wraps an existing gorm handle (used by tests)
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RecordRefs(ctx context.Context, poiID string, refs []catalog.ProvenanceRef) error {
	if len(refs) == 0 {
		return nil
	}

	records := make([]SourceRecord, 0, len(refs))
	for _, ref := range refs {
		records = append(records, SourceRecord{
			POIID:       poiID,
			SourceKind:  ref.SourceKind,
			SourceID:    ref.SourceID,
			CapturedAt:  ref.CapturedAt,
			ExternalIDs: flattenExternalIDs(ref.ExternalIDs),
			License:     ref.License,
		})
	}

	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return apperrors.NewProvenanceWriteFailed(poiID, err)
	}
	return nil
}

func (r *repository) ListByPOI(ctx context.Context, poiID string) ([]SourceRecord, error) {
	var records []SourceRecord
	err := r.db.WithContext(ctx).
		Where("poi_id = ?", poiID).
		Order("captured_at asc").
		Find(&records).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []SourceRecord{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *repository) DeleteByPOI(ctx context.Context, poiID string) error {
	err := r.db.WithContext(ctx).Delete(&SourceRecord{}, "poi_id = ?", poiID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// flattenExternalIDs serializes the map deterministically so records compare
// stably in audits.
func flattenExternalIDs(ids map[string]string) string {
	if len(ids) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+ids[k])
	}
	return strings.Join(parts, ";")
}
