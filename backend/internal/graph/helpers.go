package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getFloat64FromRecord(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0.0
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return 0.0
}

// getFloatPtrFromRecord distinguishes absent/null from zero
func getFloatPtrFromRecord(record *neo4j.Record, key string) *float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if f, ok := val.(float64); ok {
		return &f
	}
	if i, ok := val.(int64); ok {
		f := float64(i)
		return &f
	}
	return nil
}
