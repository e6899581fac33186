package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clipcutter/clipcutter/internal/auth"
	"github.com/clipcutter/clipcutter/internal/httputil"
	"github.com/clipcutter/clipcutter/internal/models"
)

// handleUploadVideo accepts a multipart upload, probes it, and registers
// it for analysis.
func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("video")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "missing video file field")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !isSupportedVideo(filename) {
		httputil.WriteError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported video format")
		return
	}

	id := uuid.New()
	dir := filepath.Join(s.config.DataDir, "uploads", id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not create upload directory")
		return
	}
	dst := filepath.Join(dir, filename)

	out, err := os.Create(dst)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not store upload")
		return
	}
	size, err := io.Copy(out, file)
	out.Close()
	if err != nil {
		os.RemoveAll(dir)
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "upload interrupted")
		return
	}

	video, err := s.registerVideo(r, id, dst, filename, size)
	if err != nil {
		os.RemoveAll(dir)
		httputil.WriteError(w, http.StatusBadRequest, "PROBE_FAILED", "file is not a readable video: "+err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, video)
}

// registerVideo probes the file and persists its metadata.
func (s *Server) registerVideo(r *http.Request, id uuid.UUID, path, filename string, size int64) (*models.Video, error) {
	probe, err := s.prober.Probe(path)
	if err != nil {
		return nil, err
	}
	width, height := probe.GetDimensions()

	video := &models.Video{
		ID:        id,
		Filename:  filename,
		Path:      path,
		SizeBytes: size,
		Duration:  probe.GetDurationSeconds(),
		Codec:     probe.GetVideoCodec(),
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}
	if r != nil {
		if user := auth.UserFromContext(r.Context()); user != nil {
			if uid, err := uuid.Parse(user.UserID); err == nil {
				video.UserID = uid
			}
		}
	}
	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}
	return video, nil
}

// RegisterLocalVideo registers a video already on disk, used by the inbox
// watcher. Re-registration of a known path is a no-op.
func (s *Server) RegisterLocalVideo(path string) (*models.Video, error) {
	existing, err := s.videoRepo.GetByPath(path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return s.registerVideo(nil, uuid.New(), path, filepath.Base(path), info.Size())
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videoRepo.List(100)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not list videos")
		return
	}
	visible := videos[:0]
	for _, v := range videos {
		if s.canAccess(r, v.UserID) {
			visible = append(visible, v)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, visible)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video := s.videoFromRequest(w, r)
	if video == nil {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, video)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	video := s.videoFromRequest(w, r)
	if video == nil {
		return
	}
	if err := s.videoRepo.Delete(video.ID); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not delete video")
		return
	}
	// Only uploads we manage are removed from disk; inbox files stay.
	if strings.HasPrefix(video.Path, filepath.Join(s.config.DataDir, "uploads")) {
		if err := os.RemoveAll(filepath.Dir(video.Path)); err != nil {
			s.log.WithError(err).Warn("could not remove upload directory")
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": video.ID.String()})
}

type analyzeRequest struct {
	Query   string   `json:"query"`
	Padding *float64 `json:"padding,omitempty"`
}

// handleAnalyze starts an analysis job for a registered video.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.config.GeminiConfigured() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "GOOGLE_API_KEY is not configured")
		return
	}

	video := s.videoFromRequest(w, r)
	if video == nil {
		return
	}

	var req analyzeRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "query is required")
		return
	}

	padding := -1.0
	if req.Padding != nil {
		padding = *req.Padding
	}

	job := s.manager.Start(video, req.Query, padding)
	httputil.WriteJSON(w, http.StatusAccepted, job)
}

func (s *Server) videoFromRequest(w http.ResponseWriter, r *http.Request) *models.Video {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid video id")
		return nil
	}
	video, err := s.videoRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not load video")
		return nil
	}
	if video == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "video not found")
		return nil
	}
	if !s.canAccess(r, video.UserID) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "video belongs to another user")
		return nil
	}
	return video
}

func isSupportedVideo(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".m4v", ".ts", ".m2ts", ".mpg", ".mpeg", ".webm":
		return true
	}
	return false
}
