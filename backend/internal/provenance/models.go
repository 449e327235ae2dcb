package provenance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourceRecord is the relational side of POI provenance: one row per
// (POI, source) capture. The graph keeps scores and relationships; licensing
// and external-id bookkeeping live here where they can be audited and joined
// against business records.
type SourceRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	POIID       string    `gorm:"index;not null" json:"poi_id"`
	SourceKind  string    `gorm:"not null" json:"source_kind"` // scrape, upload, manual
	SourceID    string    `gorm:"not null" json:"source_id"`
	CapturedAt  time.Time `json:"captured_at"`
	ExternalIDs string    `json:"external_ids,omitempty"` // serialized key=value pairs
	License     string    `json:"license,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns the record id
func (s *SourceRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
