package scheduler

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/repository"
)

// Scheduler runs periodic maintenance: expired analyses are dropped from
// the database and their highlight files removed from disk.
type Scheduler struct {
	cron      *cron.Cron
	analyses  *repository.AnalysisRepository
	retention time.Duration
	log       *logrus.Entry
}

func New(analyses *repository.AnalysisRepository, retentionHours int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		analyses:  analyses,
		retention: time.Duration(retentionHours) * time.Hour,
		log:       log.WithField("component", "scheduler"),
	}
}

func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.cleanup); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("schedule", schedule).Info("cleanup scheduled")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) cleanup() {
	cutoff := time.Now().Add(-s.retention)
	paths, err := s.analyses.DeleteOlderThan(cutoff)
	if err != nil {
		s.log.WithError(err).Error("cleanup failed")
		return
	}
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).WithField("path", p).Warn("could not remove highlight file")
			continue
		}
		removed++
	}
	if len(paths) > 0 {
		s.log.WithFields(logrus.Fields{"analyses": len(paths), "files": removed}).Info("cleanup complete")
	}
}
