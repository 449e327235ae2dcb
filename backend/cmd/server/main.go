package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"luxatlas/backend/internal/admission"
	"luxatlas/backend/internal/catalog"
	"luxatlas/backend/internal/enrich"
	"luxatlas/backend/internal/graph"
	"luxatlas/backend/internal/provenance"
	"luxatlas/backend/pkg/config"
	"luxatlas/backend/pkg/logger"
)

type server struct {
	log        *zap.Logger
	cfg        *config.Config
	graph      *graph.Repository
	provenance provenance.Repository
	enricher   *enrich.Worker
}

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting catalog API server...")

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

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Initialize dependencies
	graphRepo := graph.NewRepository(driver,
		graph.WithBatchSize(cfg.MaintenanceBatchSize),
		graph.WithSignalDecay(cfg.SignalDecayFactor),
		graph.WithVerifiedThreshold(cfg.VerifiedThreshold),
	)

	// Provenance store is optional; graph-only deployments run without it
	provRepo, err := provenance.Open(cfg.PostgresDSN)
	if err != nil {
		log.Warn("Provenance store unavailable, continuing without it", zap.Error(err))
		provRepo = nil
	}

	llm := enrich.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelID)
	enricher := enrich.NewWorker(graphRepo, llm, 0)

	s := &server{
		log:        log,
		cfg:        cfg,
		graph:      graphRepo,
		provenance: provRepo,
		enricher:   enricher,
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(s)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func newRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/pois", s.handleCreatePOI)
		api.GET("/pois/:id/provenance", s.handleListProvenance)
		api.GET("/retrieve", s.handleRetrieve)
		api.GET("/search", s.handleSearch)
		api.POST("/admission/check", s.handleAdmissionCheck)
		api.POST("/enrich/run", s.handleRunEnrichment)
	}

	return router
}

// handleCreatePOI admits, validates and writes a POI draft.
func (s *server) handleCreatePOI(c *gin.Context) {
	ctx := c.Request.Context()

	var draft catalog.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := admission.Admit(admission.Candidate{
		Name:         draft.Name,
		Tags:         draft.Tags,
		CategoryHint: draft.Category,
	})
	if !decision.Relevant {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "not admitted",
			"reason": decision.Reason,
		})
		return
	}

	if catalog.LooksLikeBadName(draft.Name) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "not admitted",
			"reason": "bad_name",
		})
		return
	}

	if fieldErrors := catalog.Validate(&draft); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	id := uuid.New().String()
	if err := s.graph.UpsertPOI(ctx, id, &draft); err != nil {
		s.log.Error("Failed to write POI", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write POI"})
		return
	}

	if s.provenance != nil {
		if err := s.provenance.RecordRefs(ctx, id, draft.Provenance); err != nil {
			// POI is already on the graph; record the gap rather than failing the request
			s.log.Warn("Failed to record provenance", zap.String("poi_id", id), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *server) handleListProvenance(c *gin.Context) {
	if s.provenance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "provenance store not configured"})
		return
	}

	records, err := s.provenance.ListByPOI(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.log.Error("Failed to list provenance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list provenance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *server) handleRetrieve(c *gin.Context) {
	destination := c.Query("destination")
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := s.graph.RetrieveByDestination(c.Request.Context(), destination, c.Query("theme"), limit)
	if err != nil {
		s.log.Error("Failed to retrieve POIs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve POIs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := s.graph.SearchByName(c.Request.Context(), query, limit)
	if err != nil {
		s.log.Error("Search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleAdmissionCheck runs the admission filter over a candidate batch
// without writing anything.
func (s *server) handleAdmissionCheck(c *gin.Context) {
	var req struct {
		Candidates []admission.Candidate `json:"candidates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := admission.AdmitBatch(c.Request.Context(), req.Candidates, s.cfg.AdmissionWorkers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admission check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *server) handleRunEnrichment(c *gin.Context) {
	var req struct {
		BatchSize int `json:"batch_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 10
	}

	summary, err := s.enricher.RunOnce(c.Request.Context(), req.BatchSize)
	if err != nil {
		s.log.Error("Enrichment run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Enrichment run failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
