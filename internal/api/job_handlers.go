package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clipcutter/clipcutter/internal/httputil"
	"github.com/clipcutter/clipcutter/internal/jobs"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	all := s.manager.List()
	visible := all[:0]
	for _, job := range all {
		if s.canAccess(r, job.UserID) {
			visible = append(visible, job)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, visible)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	if !s.manager.Cancel(job.ID) {
		httputil.WriteError(w, http.StatusConflict, "NOT_CANCELLABLE", "job is unknown or already finished")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"cancelled": job.ID.String()})
}

// handleDeleteJob drops a finished job and removes its highlight file.
// Running jobs must be cancelled first.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	switch job.Status {
	case jobs.StatusComplete, jobs.StatusError, jobs.StatusCancelled:
	default:
		httputil.WriteError(w, http.StatusConflict, "STILL_RUNNING", "cancel the job before deleting it")
		return
	}

	if job.OutputPath != "" {
		if err := os.Remove(job.OutputPath); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).Warn("could not remove highlight file")
		}
	}
	s.manager.Remove(job.ID)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": job.ID.String()})
}

// handleDownload serves the finished highlight file. When object storage is
// configured the client is redirected to a signed URL instead.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	if job.Status != jobs.StatusComplete || job.OutputPath == "" {
		httputil.WriteError(w, http.StatusConflict, "NOT_READY", "job has no downloadable output")
		return
	}

	if s.store != nil {
		remotePath := job.ID.String() + "/" + filepath.Base(job.OutputPath)
		url, err := s.store.SignedURL(remotePath, 3600)
		if err == nil {
			http.Redirect(w, r, url, http.StatusTemporaryRedirect)
			return
		}
		s.log.WithError(err).Warn("signed URL failed, serving from disk")
	}

	if _, err := os.Stat(job.OutputPath); err != nil {
		httputil.WriteError(w, http.StatusGone, "EXPIRED", "highlight file is no longer on disk")
		return
	}
	httputil.ServeAttachment(w, r, job.OutputPath, filepath.Base(job.OutputPath))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.analysisRepo.List(100)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not list analyses")
		return
	}
	visible := analyses[:0]
	for _, a := range analyses {
		if s.canAccess(r, a.UserID) {
			visible = append(visible, a)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, visible)
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid analysis id")
		return
	}
	analysis, err := s.analysisRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not load analysis")
		return
	}
	if analysis == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "analysis not found")
		return
	}
	if !s.canAccess(r, analysis.UserID) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "analysis belongs to another user")
		return
	}
	detections, err := s.analysisRepo.GetDetections(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not load detections")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detections)
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *jobs.Job {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid job id")
		return nil
	}
	job := s.manager.Get(id)
	if job == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "job not found")
		return nil
	}
	if !s.canAccess(r, job.UserID) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "job belongs to another user")
		return nil
	}
	return job
}
