package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/auth"
	"github.com/clipcutter/clipcutter/internal/config"
	"github.com/clipcutter/clipcutter/internal/ffmpeg"
	"github.com/clipcutter/clipcutter/internal/httputil"
	"github.com/clipcutter/clipcutter/internal/jobs"
	"github.com/clipcutter/clipcutter/internal/repository"
	"github.com/clipcutter/clipcutter/internal/storage"
	"github.com/clipcutter/clipcutter/internal/version"
)

type Server struct {
	config       *config.Config
	userRepo     *repository.UserRepository
	videoRepo    *repository.VideoRepository
	analysisRepo *repository.AnalysisRepository
	settingsRepo *repository.SettingsRepository
	manager      *jobs.Manager
	prober       *ffmpeg.FFprobe
	store        storage.Store
	authMW       *auth.Middleware
	log          *logrus.Entry
}

func NewServer(cfg *config.Config, userRepo *repository.UserRepository, videoRepo *repository.VideoRepository,
	analysisRepo *repository.AnalysisRepository, settingsRepo *repository.SettingsRepository,
	manager *jobs.Manager, prober *ffmpeg.FFprobe, store storage.Store, log *logrus.Logger) *Server {
	return &Server{
		config:       cfg,
		userRepo:     userRepo,
		videoRepo:    videoRepo,
		analysisRepo: analysisRepo,
		settingsRepo: settingsRepo,
		manager:      manager,
		prober:       prober,
		store:        store,
		authMW:       auth.NewMiddleware(cfg.JWTSecret),
		log:          log.WithField("component", "api"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMW.RequireAuth)

		r.Post("/api/videos", s.handleUploadVideo)
		r.Get("/api/videos", s.handleListVideos)
		r.Get("/api/videos/{id}", s.handleGetVideo)
		r.Delete("/api/videos/{id}", s.handleDeleteVideo)
		r.Post("/api/videos/{id}/analyze", s.handleAnalyze)

		r.Get("/api/jobs", s.handleListJobs)
		r.Get("/api/jobs/{id}", s.handleGetJob)
		r.Post("/api/jobs/{id}/cancel", s.handleCancelJob)
		r.Delete("/api/jobs/{id}", s.handleDeleteJob)
		r.Get("/api/jobs/{id}/download", s.handleDownload)
		r.Get("/api/jobs/{id}/ws", s.handleJobSocket)

		r.Get("/api/history", s.handleHistory)
		r.Get("/api/history/{id}/detections", s.handleDetections)

		r.Group(func(r chi.Router) {
			r.Use(s.authMW.RequireAdmin)
			r.Get("/api/settings", s.handleGetSettings)
			r.Put("/api/settings", s.handlePutSettings)
		})
	})

	return r
}

// canAccess reports whether the request's user may touch a resource owned
// by ownerID. Admins see everything; unowned resources (inbox files and
// anything created while auth was off) stay visible to all users.
func (s *Server) canAccess(r *http.Request, ownerID uuid.UUID) bool {
	if !s.config.AuthEnabled() {
		return true
	}
	user := auth.UserFromContext(r.Context())
	if user == nil {
		return false
	}
	return user.IsAdmin || ownerID == uuid.Nil || user.UserID == ownerID.String()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"version":           version.Version,
		"gemini_configured": s.config.GeminiConfigured(),
		"auth_enabled":      s.config.AuthEnabled(),
		"storage_enabled":   s.config.StorageEnabled(),
	})
}
