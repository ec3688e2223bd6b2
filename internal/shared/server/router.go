package server

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/analyses"
	"resumatch-backend/internal/convert"
	"resumatch-backend/internal/llm"
	"resumatch-backend/internal/llm/openai"
	"resumatch-backend/internal/services/health"
	"resumatch-backend/internal/shared/config"
	"resumatch-backend/internal/shared/metrics"
	"resumatch-backend/internal/shared/server/middleware"
	"resumatch-backend/internal/shared/server/respond"
	"resumatch-backend/internal/shared/storage/db"
	"resumatch-backend/internal/shared/storage/object"
	localstore "resumatch-backend/internal/shared/storage/object/local"
	s3store "resumatch-backend/internal/shared/storage/object/s3"
	"resumatch-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	ctx := context.Background()

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		} else if err := db.RunMigrations(ctx, conn); err != nil {
			telemetry.Warn("db.migrations_failed", map[string]any{"error": err.Error()})
			_ = conn.Close()
		} else {
			sqlDB = conn
		}
	}
	if sqlDB == nil {
		telemetry.Warn("db.memory_fallback", nil)
	}

	var store object.ObjectStore
	if cfg.ObjectStoreType == "s3" {
		s3, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			telemetry.Warn("object_store.s3_unavailable", map[string]any{"error": err.Error()})
		} else {
			store = s3
		}
	}
	if store == nil {
		baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
		if baseURL == "" {
			baseURL = "http://localhost:" + cfg.Port
		}
		store = localstore.New(cfg.LocalStoreDir, baseURL+"/files")
		r.Static("/files", cfg.LocalStoreDir)
	}

	converter := convert.NewConverter(convert.NewClient(cfg.ConvertAPIKey, cfg.ConvertBaseURL, cfg.OCRLanguage))

	var llmClient llm.Client = llm.PlaceholderClient{}
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			telemetry.Warn("llm.not_configured", map[string]any{"error": err.Error()})
		} else {
			llmClient = client
		}
	default:
		telemetry.Warn("llm.unknown_provider", map[string]any{"provider": cfg.LLMProvider})
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	analysisSvc := analyses.NewService(repo, store, converter, llmClient)
	analysisHandler := analyses.NewHandler(analysisSvc)
	healthSvc := health.NewService(sqlDB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	analysisHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
