package main

import (
	"context"
	"flag"
	"fmt"

	"luxatlas/backend/internal/catalog"
	"luxatlas/backend/internal/constants"
	"luxatlas/backend/internal/graph"
	"luxatlas/backend/pkg/config"
	"luxatlas/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	withSamples := flag.Bool("samples", false, "Also seed sample POIs")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting catalog seeding...")

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

	// Create constraints
	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	// Create indexes
	log.Info("Creating indexes...")
	if err := createIndexes(ctx, driver); err != nil {
		log.Warn("Failed to create some indexes (may already exist)", zap.Error(err))
	}

	// Seed taxonomy nodes
	log.Info("Seeding taxonomy...")
	if err := seedTaxonomy(ctx, driver); err != nil {
		log.Fatal("Failed to seed taxonomy", zap.Error(err))
	}

	if *withSamples {
		log.Info("Seeding sample POIs...")
		repo := graph.NewRepository(driver)
		if err := seedSamplePOIs(ctx, repo); err != nil {
			log.Fatal("Failed to seed sample POIs", zap.Error(err))
		}
	}

	log.Info("Seeding completed successfully!")
}

func createConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT poi_id_unique IF NOT EXISTS FOR (p:POI) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT destination_name_unique IF NOT EXISTS FOR (d:Destination) REQUIRE d.name IS UNIQUE",
		"CREATE CONSTRAINT activity_name_unique IF NOT EXISTS FOR (a:ActivityType) REQUIRE a.name IS UNIQUE",
		"CREATE CONSTRAINT theme_name_unique IF NOT EXISTS FOR (t:ThemeCategory) REQUIRE t.name IS UNIQUE",
		"CREATE CONSTRAINT emotion_name_unique IF NOT EXISTS FOR (e:Emotion) REQUIRE e.name IS UNIQUE",
		"CREATE CONSTRAINT desire_name_unique IF NOT EXISTS FOR (d:Desire) REQUIRE d.name IS UNIQUE",
		"CREATE CONSTRAINT fear_name_unique IF NOT EXISTS FOR (f:Fear) REQUIRE f.name IS UNIQUE",
	}

	for _, stmt := range constraints {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	indexes := []string{
		"CREATE INDEX poi_name IF NOT EXISTS FOR (p:POI) ON (p.name)",
		"CREATE INDEX poi_category IF NOT EXISTS FOR (p:POI) ON (p.category)",
		"CREATE INDEX poi_score_base IF NOT EXISTS FOR (p:POI) ON (p.luxury_score_base)",
	}

	for _, stmt := range indexes {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

// seedTaxonomy merges the fixed vocabulary nodes by name so reseeding never
// duplicates them.
func seedTaxonomy(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	taxonomy := map[string][]string{
		constants.LabelActivityType: {
			"Beach Day", "Fine Dining", "Wellness", "Sailing", "Skiing",
			"Wine Tasting", "Golf", "Private Touring", "Nightlife", "Shopping",
		},
		constants.LabelThemeCategory: {
			"Romantic Escape", "Family Adventure", "Culinary Journey",
			"Wellness Retreat", "Celebration", "Cultural Immersion",
		},
		constants.LabelEmotion: {
			"Awe", "Serenity", "Exhilaration", "Indulgence", "Belonging",
		},
		constants.LabelDesire: {
			"Exclusivity", "Recognition", "Discovery", "Connection", "Renewal",
		},
		constants.LabelFear: {
			"Crowds", "Inauthenticity", "Poor Service", "Wasted Time",
		},
	}

	for label, names := range taxonomy {
		query := fmt.Sprintf("UNWIND $names AS name MERGE (:%s {name: name})", label)
		if _, err := session.Run(ctx, query, map[string]interface{}{"names": names}); err != nil {
			return fmt.Errorf("failed to seed %s nodes: %w", label, err)
		}
	}
	return nil
}

func seedSamplePOIs(ctx context.Context, repo *graph.Repository) error {
	confidence := 0.9
	samples := []struct {
		draft    catalog.Draft
		activity string
		theme    string
		themeFit float64
	}{
		{
			draft: catalog.Draft{
				Name:        "Club 55",
				Category:    "beach",
				Destination: "Saint-Tropez",
				Description: "Pampelonne beach institution, lunch on the sand since 1955.",
				Signals: []catalog.EmotionalSignal{
					{Kind: constants.SignalKindEmotion, Name: "Belonging", Intensity: 7, Confidence: &confidence},
				},
			},
			activity: "Beach Day",
			theme:    "Celebration",
			themeFit: 0.8,
		},
		{
			draft: catalog.Draft{
				Name:        "Aman Venice",
				Category:    "hotel",
				Destination: "Venice",
				Description: "Palazzo hotel on the Grand Canal.",
				Signals: []catalog.EmotionalSignal{
					{Kind: constants.SignalKindEmotion, Name: "Serenity", Intensity: 9, Confidence: &confidence},
					{Kind: constants.SignalKindDesire, Name: "Exclusivity", Intensity: 8, Confidence: &confidence},
				},
			},
			activity: "Private Touring",
			theme:    "Romantic Escape",
			themeFit: 0.95,
		},
	}

	for _, s := range samples {
		id := uuid.New().String()
		if err := repo.UpsertPOI(ctx, id, &s.draft); err != nil {
			return err
		}
		if err := repo.LinkSupportsActivity(ctx, id, s.activity); err != nil {
			return err
		}
		if err := repo.LinkTheme(ctx, id, s.theme, s.themeFit, "seed"); err != nil {
			return err
		}
	}
	return nil
}
