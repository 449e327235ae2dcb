package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanupTag(ctx context.Context, driver neo4j.DriverWithContext, tag string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (n {test_tag: $tag}) DETACH DELETE n", map[string]interface{}{"tag": tag})
}

func runWrite(t *testing.T, ctx context.Context, driver neo4j.DriverWithContext, query string, params map[string]interface{}) {
	t.Helper()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	if _, err := session.Run(ctx, query, params); err != nil {
		t.Fatalf("setup query failed: %v", err)
	}
}

func countRows(t *testing.T, ctx context.Context, driver neo4j.DriverWithContext, query string, params map[string]interface{}) int {
	t.Helper()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, params)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("count fetch failed: %v", err)
	}
	n, _ := record.Values[0].(int64)
	return int(n)
}

func TestPropagateActivitySignals_InheritsAndConverges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "propagation-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	// Activity evokes Joy at 0.9; the POI supports the activity and has no
	// direct edge to Joy
	runWrite(t, ctx, driver, `
		CREATE (p:POI {id: $poiID, name: 'Test Beach Club', test_tag: $tag})
		CREATE (a:ActivityType {name: $activity, test_tag: $tag})
		CREATE (j:Emotion {name: $emotion, test_tag: $tag})
		CREATE (p)-[:SUPPORTS_ACTIVITY]->(a)
		CREATE (a)-[:EVOKES {confidence: 0.9, evidence: 'guests glow'}]->(j)
	`, map[string]interface{}{
		"poiID":    "poi-" + tag,
		"activity": "activity-" + tag,
		"emotion":  "emotion-" + tag,
		"tag":      tag,
	})

	repo := NewRepository(driver, WithBatchSize(10), WithSignalDecay(0.8))

	summary, err := repo.PropagateActivitySignals(ctx)
	if err != nil {
		t.Fatalf("PropagateActivitySignals failed: %v", err)
	}
	if summary.Succeeded < 1 {
		t.Fatalf("expected at least one propagated edge, got %d", summary.Succeeded)
	}

	// exactly one direct edge, confidence decayed, provenance marked
	edges := countRows(t, ctx, driver, `
		MATCH (p:POI {id: $poiID})-[e:EVOKES]->(j:Emotion {name: $emotion})
		WHERE e.provenance = 'inherited'
		  AND e.inherited_from = $activity
		  AND abs(e.confidence - 0.72) < 0.0001
		RETURN count(e)
	`, map[string]interface{}{
		"poiID":    "poi-" + tag,
		"emotion":  "emotion-" + tag,
		"activity": "activity-" + tag,
	})
	if edges != 1 {
		t.Fatalf("expected exactly 1 inherited EVOKES edge, got %d", edges)
	}

	// converged: rerun adds nothing
	again, err := repo.PropagateActivitySignals(ctx)
	if err != nil {
		t.Fatalf("second PropagateActivitySignals failed: %v", err)
	}
	total := countRows(t, ctx, driver, `
		MATCH (p:POI {id: $poiID})-[e:EVOKES]->() RETURN count(e)
	`, map[string]interface{}{"poiID": "poi-" + tag})
	if total != 1 {
		t.Errorf("propagation created duplicates on rerun: %d edges (summary: %+v)", total, again)
	}
}

func TestPropagateActivitySignals_RespectsAuthoredEdges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "authored-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	// POI already has a human-authored EVOKES edge to the same target
	runWrite(t, ctx, driver, `
		CREATE (p:POI {id: $poiID, name: 'Test Lodge', test_tag: $tag})
		CREATE (a:ActivityType {name: $activity, test_tag: $tag})
		CREATE (j:Emotion {name: $emotion, test_tag: $tag})
		CREATE (p)-[:SUPPORTS_ACTIVITY]->(a)
		CREATE (a)-[:EVOKES {confidence: 0.9}]->(j)
		CREATE (p)-[:EVOKES {confidence: 1.0, evidence: 'editor visit'}]->(j)
	`, map[string]interface{}{
		"poiID":    "poi-" + tag,
		"activity": "activity-" + tag,
		"emotion":  "emotion-" + tag,
		"tag":      tag,
	})

	repo := NewRepository(driver, WithBatchSize(10))
	if _, err := repo.PropagateActivitySignals(ctx); err != nil {
		t.Fatalf("PropagateActivitySignals failed: %v", err)
	}

	// the authored edge must be the only one, untouched
	authored := countRows(t, ctx, driver, `
		MATCH (p:POI {id: $poiID})-[e:EVOKES]->(:Emotion {name: $emotion})
		WHERE e.confidence = 1.0
		RETURN count(e)
	`, map[string]interface{}{"poiID": "poi-" + tag, "emotion": "emotion-" + tag})
	total := countRows(t, ctx, driver, `
		MATCH (p:POI {id: $poiID})-[e:EVOKES]->(:Emotion {name: $emotion})
		RETURN count(e)
	`, map[string]interface{}{"poiID": "poi-" + tag, "emotion": "emotion-" + tag})
	if authored != 1 || total != 1 {
		t.Errorf("expected the single authored edge to survive untouched, got authored=%d total=%d", authored, total)
	}
}

func TestCollapseDuplicateEdges_Postcondition(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "collapse-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	runWrite(t, ctx, driver, `
		CREATE (p:POI {id: $poiID, test_tag: $tag})
		CREATE (d:Destination {name: $dest, test_tag: $tag})
		CREATE (p)-[:LOCATED_IN]->(d)
		CREATE (p)-[:LOCATED_IN]->(d)
		CREATE (p)-[:LOCATED_IN]->(d)
	`, map[string]interface{}{"poiID": "poi-" + tag, "dest": "dest-" + tag, "tag": tag})

	repo := NewRepository(driver, WithBatchSize(10))
	summary, err := repo.CollapseDuplicateEdges(ctx)
	if err != nil {
		t.Fatalf("CollapseDuplicateEdges failed: %v", err)
	}
	if summary.Succeeded < 2 {
		t.Errorf("expected at least 2 removed edges, got %d", summary.Succeeded)
	}

	// postcondition only: exactly one edge survives; which one is unspecified
	remaining := countRows(t, ctx, driver, `
		MATCH (:POI {id: $poiID})-[e:LOCATED_IN]->(:Destination {name: $dest})
		RETURN count(e)
	`, map[string]interface{}{"poiID": "poi-" + tag, "dest": "dest-" + tag})
	if remaining != 1 {
		t.Fatalf("expected exactly 1 surviving edge, got %d", remaining)
	}

	// idempotent
	if _, err := repo.CollapseDuplicateEdges(ctx); err != nil {
		t.Fatalf("second CollapseDuplicateEdges failed: %v", err)
	}
	remaining = countRows(t, ctx, driver, `
		MATCH (:POI {id: $poiID})-[e:LOCATED_IN]->(:Destination {name: $dest})
		RETURN count(e)
	`, map[string]interface{}{"poiID": "poi-" + tag, "dest": "dest-" + tag})
	if remaining != 1 {
		t.Fatalf("collapse not idempotent: %d edges after rerun", remaining)
	}
}

func TestStandardizeRelationshipNames_MigratesAndReportsCoexistence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "retype-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	// one plain legacy edge and one coexisting pair
	runWrite(t, ctx, driver, `
		CREATE (p1:POI {id: $poi1, test_tag: $tag})
		CREATE (p2:POI {id: $poi2, test_tag: $tag})
		CREATE (e:Emotion {name: $emotion, test_tag: $tag})
		CREATE (p1)-[:Evokes {confidence: 0.7, evidence: 'legacy writer'}]->(e)
		CREATE (p2)-[:Evokes {confidence: 0.4}]->(e)
		CREATE (p2)-[:EVOKES {confidence: 0.8}]->(e)
	`, map[string]interface{}{"poi1": "poi1-" + tag, "poi2": "poi2-" + tag, "emotion": "emotion-" + tag, "tag": tag})

	repo := NewRepository(driver, WithBatchSize(10))
	summary, err := repo.StandardizeRelationshipNames(ctx)
	if err != nil {
		t.Fatalf("StandardizeRelationshipNames failed: %v", err)
	}

	// p1's legacy edge became canonical with identical properties
	migrated := countRows(t, ctx, driver, `
		MATCH (:POI {id: $poi1})-[e:EVOKES]->(:Emotion {name: $emotion})
		WHERE e.confidence = 0.7 AND e.evidence = 'legacy writer'
		RETURN count(e)
	`, map[string]interface{}{"poi1": "poi1-" + tag, "emotion": "emotion-" + tag})
	legacyLeft := countRows(t, ctx, driver, `
		MATCH (:POI {id: $poi1})-[e:Evokes]->(:Emotion {name: $emotion})
		RETURN count(e)
	`, map[string]interface{}{"poi1": "poi1-" + tag, "emotion": "emotion-" + tag})
	if migrated != 1 || legacyLeft != 0 {
		t.Errorf("expected migrated=1 legacyLeft=0, got migrated=%d legacyLeft=%d", migrated, legacyLeft)
	}

	// p2's coexisting pair is reported but untouched
	if summary.CoexistingPairs < 1 {
		t.Errorf("expected coexisting pair to be reported, summary: %+v", summary)
	}
	coexistLegacy := countRows(t, ctx, driver, `
		MATCH (:POI {id: $poi2})-[e:Evokes]->(:Emotion {name: $emotion})
		RETURN count(e)
	`, map[string]interface{}{"poi2": "poi2-" + tag, "emotion": "emotion-" + tag})
	if coexistLegacy != 1 {
		t.Errorf("coexisting legacy edge must not be auto-merged, got %d", coexistLegacy)
	}
}

func TestReconcileScoreFields_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "reconcile-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	// legacy-only, canonical-present, and high-confidence nodes
	runWrite(t, ctx, driver, `
		CREATE (:POI {id: $a, test_tag: $tag, luxuryScore: 8.5, scoreConfidence: 0.6})
		CREATE (:POI {id: $b, test_tag: $tag, luxury_score_base: 7.0, luxuryScore: 3.0})
		CREATE (:POI {id: $c, test_tag: $tag, luxury_score_base: 9.0, confidence_score: 0.995})
	`, map[string]interface{}{"a": "a-" + tag, "b": "b-" + tag, "c": "c-" + tag, "tag": tag})

	repo := NewRepository(driver, WithBatchSize(10))

	if _, err := repo.ReconcileScoreFields(ctx); err != nil {
		t.Fatalf("ReconcileScoreFields failed: %v", err)
	}

	checks := []struct {
		query string
		want  int
		desc  string
	}{
		{
			// legacy promoted into canonical, legacy kept
			query: fmt.Sprintf(`MATCH (p:POI {id: 'a-%s'}) WHERE p.luxury_score_base = 8.5 AND p.confidence_score = 0.6 AND p.luxuryScore = 8.5 RETURN count(p)`, tag),
			want:  1, desc: "legacy-only node reconciled",
		},
		{
			// existing canonical value wins over legacy
			query: fmt.Sprintf(`MATCH (p:POI {id: 'b-%s'}) WHERE p.luxury_score_base = 7.0 RETURN count(p)`, tag),
			want:  1, desc: "canonical value preserved",
		},
		{
			// high confidence promotes base to verified
			query: fmt.Sprintf(`MATCH (p:POI {id: 'c-%s'}) WHERE p.luxury_score_verified = 9.0 RETURN count(p)`, tag),
			want:  1, desc: "verified promotion",
		},
	}
	for _, c := range checks {
		if got := countRows(t, ctx, driver, c.query, nil); got != c.want {
			t.Errorf("%s: got %d want %d", c.desc, got, c.want)
		}
	}

	// second run is a no-op
	summary, err := repo.ReconcileScoreFields(ctx)
	if err != nil {
		t.Fatalf("second ReconcileScoreFields failed: %v", err)
	}
	if summary.Updated != 0 {
		t.Errorf("expected zero updates on second run, got %d", summary.Updated)
	}
}

func TestBackfillScoreEvidence_NeverClobbersHumanEvidence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	tag := "evidence-" + time.Now().Format("20060102150405")
	defer cleanupTag(ctx, driver, tag)

	runWrite(t, ctx, driver, `
		CREATE (:POI {id: $a, test_tag: $tag, luxury_evidence: 'legacy reviewer notes'})
		CREATE (:POI {id: $b, test_tag: $tag, luxury_evidence: 'stale notes', score_evidence: '{"source":"human"}'})
	`, map[string]interface{}{"a": "a-" + tag, "b": "b-" + tag, "tag": tag})

	repo := NewRepository(driver, WithBatchSize(10))
	summary, err := repo.BackfillScoreEvidence(ctx)
	if err != nil {
		t.Fatalf("BackfillScoreEvidence failed: %v", err)
	}
	if summary.Updated < 1 {
		t.Errorf("expected at least one backfill, got %+v", summary)
	}

	// human-entered evidence untouched
	kept := countRows(t, ctx, driver, `
		MATCH (p:POI {id: $b}) WHERE p.score_evidence = '{"source":"human"}' RETURN count(p)
	`, map[string]interface{}{"b": "b-" + tag})
	if kept != 1 {
		t.Fatal("human-entered score evidence was overwritten")
	}

	// rerun is a no-op
	again, err := repo.BackfillScoreEvidence(ctx)
	if err != nil {
		t.Fatalf("second BackfillScoreEvidence failed: %v", err)
	}
	if again.Updated != 0 {
		t.Errorf("expected zero updates on rerun, got %d", again.Updated)
	}
}
