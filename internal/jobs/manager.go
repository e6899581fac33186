package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/analysis"
	"github.com/clipcutter/clipcutter/internal/models"
	"github.com/clipcutter/clipcutter/internal/repository"
	"github.com/clipcutter/clipcutter/internal/storage"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusUploading  Status = "uploading"
	StatusAnalyzing  Status = "analyzing"
	StatusExtracting Status = "extracting"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
	StatusCancelled  Status = "cancelled"
)

// Job is the in-memory record of one analysis run. Reads go through
// Manager.Get which returns a snapshot copy.
type Job struct {
	ID         uuid.UUID            `json:"id"`
	VideoID    uuid.UUID            `json:"video_id"`
	UserID     uuid.UUID            `json:"user_id,omitempty"`
	Query      string               `json:"query"`
	Status     Status               `json:"status"`
	Progress   int                  `json:"progress"`
	Message    string               `json:"message"`
	OutputPath string               `json:"output_path,omitempty"`
	ClipCount  int                  `json:"clip_count"`
	Detections []analysis.Detection `json:"detections,omitempty"`
	Error      string               `json:"error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`

	cancel context.CancelFunc
}

// Update is pushed to subscribers on every state change.
type Update struct {
	JobID    uuid.UUID `json:"job_id"`
	Status   Status    `json:"status"`
	Progress int       `json:"progress"`
	Message  string    `json:"message"`
}

// Manager runs analysis jobs as in-process goroutines and tracks their
// state in memory. Finished runs are additionally persisted through the
// analysis repository so history survives restarts; live progress does not.
type Manager struct {
	mu          sync.RWMutex
	jobs        map[uuid.UUID]*Job
	subscribers map[uuid.UUID]map[chan Update]struct{}

	pipeline *analysis.Pipeline
	repo     *repository.AnalysisRepository
	store    storage.Store
	log      *logrus.Entry
}

func NewManager(pipeline *analysis.Pipeline, repo *repository.AnalysisRepository, log *logrus.Logger) *Manager {
	return &Manager{
		jobs:        make(map[uuid.UUID]*Job),
		subscribers: make(map[uuid.UUID]map[chan Update]struct{}),
		pipeline:    pipeline,
		repo:        repo,
		log:         log.WithField("component", "jobs"),
	}
}

// SetStore enables publication of finished highlight files to object
// storage. Must be called before Start.
func (m *Manager) SetStore(store storage.Store) {
	m.store = store
}

// Start launches an analysis run for the given video and returns the job
// record immediately.
func (m *Manager) Start(video *models.Video, query string, padding float64) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:        uuid.New(),
		VideoID:   video.ID,
		UserID:    video.UserID,
		Query:     query,
		Status:    StatusPending,
		Message:   "Queued",
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	if m.repo != nil {
		rec := &models.Analysis{
			ID:        job.ID,
			VideoID:   video.ID,
			UserID:    video.UserID,
			Query:     query,
			Status:    string(StatusPending),
			CreatedAt: job.CreatedAt,
		}
		if err := m.repo.Create(rec); err != nil {
			m.log.WithError(err).Warn("could not persist analysis record")
		}
	}

	go m.run(ctx, job, video, padding)
	return m.snapshot(job.ID)
}

func (m *Manager) run(ctx context.Context, job *Job, video *models.Video, padding float64) {
	log := m.log.WithField("job", job.ID)
	m.setProgress(job.ID, StatusUploading, 0, "Starting analysis...")

	progress := func(fraction float64, message string) {
		status := StatusAnalyzing
		if fraction >= 0.6 {
			status = StatusExtracting
		}
		m.setProgress(job.ID, status, int(fraction*100), message)
	}

	outputPath, detections, err := m.pipeline.AnalyzeAndExtract(ctx, video.Path, "", job.Query, padding, progress)

	switch {
	case err == nil:
		m.finish(job.ID, StatusComplete, outputPath, detections, "")
		log.WithField("clips", len(detections)).Info("job complete")
		m.publish(job.ID, outputPath)
	case errors.Is(err, analysis.ErrNoMatches):
		m.finish(job.ID, StatusComplete, "", nil, "")
		log.Info("job complete, no matches")
	case errors.Is(err, analysis.ErrCancelled):
		m.finish(job.ID, StatusCancelled, "", nil, "cancelled")
		log.Info("job cancelled")
	default:
		m.finish(job.ID, StatusError, "", nil, err.Error())
		log.WithError(err).Error("job failed")
	}
}

func (m *Manager) setProgress(id uuid.UUID, status Status, progress int, message string) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	// Terminal states are never overwritten by late progress reports.
	if job.Status == StatusComplete || job.Status == StatusError || job.Status == StatusCancelled {
		m.mu.Unlock()
		return
	}
	job.Status = status
	job.Progress = progress
	job.Message = message
	update := Update{JobID: id, Status: status, Progress: progress, Message: message}
	m.mu.Unlock()

	m.broadcast(id, update)

	if m.repo != nil {
		if err := m.repo.UpdateProgress(id, string(status), progress, message); err != nil {
			m.log.WithError(err).Debug("could not persist progress")
		}
	}
}

func (m *Manager) finish(id uuid.UUID, status Status, outputPath string, detections []analysis.Detection, errMsg string) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	job.Status = status
	job.Progress = 100
	job.OutputPath = outputPath
	job.Detections = detections
	job.ClipCount = len(detections)
	job.Error = errMsg
	switch status {
	case StatusComplete:
		if job.ClipCount > 0 {
			job.Message = "Complete"
		} else {
			job.Message = "No matching clips found"
		}
	case StatusCancelled:
		job.Message = "Cancelled"
	case StatusError:
		job.Message = "Failed"
	}
	update := Update{JobID: id, Status: status, Progress: 100, Message: job.Message}
	m.mu.Unlock()

	m.broadcast(id, update)
	m.closeSubscribers(id)

	if m.repo != nil {
		if err := m.repo.Complete(id, string(status), outputPath, len(detections), errMsg); err != nil {
			m.log.WithError(err).Warn("could not persist completion")
		}
		if len(detections) > 0 {
			records := make([]*models.DetectionRecord, len(detections))
			for i, d := range detections {
				records[i] = &models.DetectionRecord{
					ID:              uuid.New(),
					AnalysisID:      id,
					StartTime:       d.StartTime,
					EndTime:         d.EndTime,
					Confidence:      d.ConfidenceScore,
					CameraAngle:     d.CameraAngle,
					Description:     d.PlayDescription,
					PlayerJersey:    d.PlayerJersey,
					ActionType:      d.ActionType,
					Verification:    string(d.VerificationStatus),
					RejectionReason: d.RejectionReason,
				}
			}
			if err := m.repo.SaveDetections(id, records); err != nil {
				m.log.WithError(err).Warn("could not persist detections")
			}
		}
	}
}

// publish copies the finished highlight file to object storage so it
// outlives local retention cleanup. Best-effort: downloads fall back to
// the local file when the upload fails.
func (m *Manager) publish(id uuid.UUID, outputPath string) {
	if m.store == nil || outputPath == "" {
		return
	}
	remotePath := id.String() + "/" + filepath.Base(outputPath)
	if err := m.store.Upload(outputPath, remotePath); err != nil {
		m.log.WithError(err).WithField("job", id).Warn("could not publish highlight file")
	}
}

// Get returns a snapshot of the job, or nil if unknown.
func (m *Manager) Get(id uuid.UUID) *Job {
	return m.snapshot(id)
}

func (m *Manager) snapshot(id uuid.UUID) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	copy := *job
	copy.cancel = nil
	return &copy
}

// List returns snapshots of all in-memory jobs, newest first.
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		copy := *job
		copy.cancel = nil
		jobs = append(jobs, &copy)
	}
	for i := 0; i < len(jobs); i++ {
		for j := i + 1; j < len(jobs); j++ {
			if jobs[j].CreatedAt.After(jobs[i].CreatedAt) {
				jobs[i], jobs[j] = jobs[j], jobs[i]
			}
		}
	}
	return jobs
}

// Cancel requests cooperative cancellation of a running job. Returns false
// if the job is unknown or already finished.
func (m *Manager) Cancel(id uuid.UUID) bool {
	m.mu.RLock()
	job, ok := m.jobs[id]
	var cancel context.CancelFunc
	if ok {
		switch job.Status {
		case StatusComplete, StatusError, StatusCancelled:
			ok = false
		default:
			cancel = job.cancel
		}
	}
	m.mu.RUnlock()

	if !ok || cancel == nil {
		return false
	}
	cancel()
	return true
}

// Remove drops a finished job from the registry.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.jobs, id)
	m.mu.Unlock()
	m.closeSubscribers(id)
}

// ──────────────────── Subscriptions ────────────────────

// Subscribe returns a channel of updates for a job plus an unsubscribe
// function. The channel is closed when the job reaches a terminal state;
// subscribing to an already-finished job yields a closed channel.
func (m *Manager) Subscribe(id uuid.UUID) (<-chan Update, func()) {
	ch := make(chan Update, 16)

	m.mu.Lock()
	if job, ok := m.jobs[id]; ok {
		switch job.Status {
		case StatusComplete, StatusError, StatusCancelled:
			m.mu.Unlock()
			close(ch)
			return ch, func() {}
		}
	}
	subs, ok := m.subscribers[id]
	if !ok {
		subs = make(map[chan Update]struct{})
		m.subscribers[id] = subs
	}
	subs[ch] = struct{}{}
	m.mu.Unlock()

	unsubscribe := func() {
		m.mu.Lock()
		if subs, ok := m.subscribers[id]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(m.subscribers, id)
			}
		}
		m.mu.Unlock()
	}
	return ch, unsubscribe
}

func (m *Manager) broadcast(id uuid.UUID, update Update) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subscribers[id] {
		select {
		case ch <- update:
		default: // slow subscriber, drop
		}
	}
}

func (m *Manager) closeSubscribers(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subscribers[id] {
		close(ch)
	}
	delete(m.subscribers, id)
}
