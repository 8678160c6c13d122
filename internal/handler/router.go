package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paiban/schichtplan/internal/metrics"
	"github.com/paiban/schichtplan/internal/middleware"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// Pinger 健康检查依赖
type Pinger interface {
	Health(ctx context.Context) error
}

// RouterConfig 路由配置
type RouterConfig struct {
	Build       BuildInfo
	DB          Pinger // 为 nil 时不检查数据库
	CORSOrigins []string
	APIKeys     []string
	RateLimit   float64
	MetricsPath string // 为空时不暴露指标
}

// NewRouter 注册系统端点与 /api/v1/schichtplan 路由
func NewRouter(h *SchichtplanHandler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", health(cfg.DB))
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, cfg.Build)
	})
	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, metrics.Handler())
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}

	r.Route("/api/v1/schichtplan", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.APIKeys))
		r.Get("/rules", h.Rules)
		r.With(middleware.RateLimit(limiter)).Post("/generate", h.Generate)
		r.Post("/validate", h.Validate)
		r.Post("/swap", h.Swap)
		r.Post("/swap/recommend", h.Recommend)
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		status := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Health(ctx); err != nil {
				body["status"] = "unhealthy"
				body["database"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				body["database"] = "ok"
			}
		}
		respondJSON(w, status, body)
	}
}
