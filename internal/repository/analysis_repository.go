package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/clipcutter/clipcutter/internal/models"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(a *models.Analysis) error {
	query := `INSERT INTO analyses (id, video_id, user_id, query, status, progress, message, output_path, clip_count, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(query, a.ID, a.VideoID, nullUUID(a.UserID), a.Query, a.Status, a.Progress,
		a.Message, a.OutputPath, a.ClipCount, a.Error, a.CreatedAt)
	return err
}

// UpdateProgress records the latest status, progress percentage and message.
func (r *AnalysisRepository) UpdateProgress(id uuid.UUID, status string, progress int, message string) error {
	query := `UPDATE analyses SET status = $2, progress = $3, message = $4 WHERE id = $1`
	_, err := r.db.Exec(query, id, status, progress, message)
	return err
}

// Complete marks the analysis finished with its output artifact.
func (r *AnalysisRepository) Complete(id uuid.UUID, status, outputPath string, clipCount int, errMsg string) error {
	query := `UPDATE analyses SET status = $2, progress = 100, output_path = $3,
		clip_count = $4, error = $5, completed_at = $6 WHERE id = $1`
	_, err := r.db.Exec(query, id, status, outputPath, clipCount, errMsg, time.Now())
	return err
}

func (r *AnalysisRepository) GetByID(id uuid.UUID) (*models.Analysis, error) {
	a := &models.Analysis{}
	var userID uuid.NullUUID
	query := `SELECT id, video_id, user_id, query, status, progress, message, output_path, clip_count, error, created_at, completed_at
		FROM analyses WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.VideoID, &userID, &a.Query, &a.Status, &a.Progress,
		&a.Message, &a.OutputPath, &a.ClipCount, &a.Error, &a.CreatedAt, &a.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.UserID = userID.UUID
	return a, nil
}

func (r *AnalysisRepository) List(limit int) ([]*models.Analysis, error) {
	query := `SELECT id, video_id, user_id, query, status, progress, message, output_path, clip_count, error, created_at, completed_at
		FROM analyses ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		a := &models.Analysis{}
		var userID uuid.NullUUID
		if err := rows.Scan(&a.ID, &a.VideoID, &userID, &a.Query, &a.Status, &a.Progress,
			&a.Message, &a.OutputPath, &a.ClipCount, &a.Error, &a.CreatedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		a.UserID = userID.UUID
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// SaveDetections replaces the stored detections for an analysis.
func (r *AnalysisRepository) SaveDetections(analysisID uuid.UUID, detections []*models.DetectionRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM detections WHERE analysis_id = $1`, analysisID); err != nil {
		return err
	}
	query := `INSERT INTO detections (id, analysis_id, start_time, end_time, confidence, camera_angle,
		description, player_jersey, action_type, verification, rejection_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, d := range detections {
		if _, err := tx.Exec(query, d.ID, analysisID, d.StartTime, d.EndTime, d.Confidence,
			d.CameraAngle, d.Description, d.PlayerJersey, d.ActionType, d.Verification, d.RejectionReason); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *AnalysisRepository) GetDetections(analysisID uuid.UUID) ([]*models.DetectionRecord, error) {
	query := `SELECT id, analysis_id, start_time, end_time, confidence, camera_angle,
		description, player_jersey, action_type, verification, rejection_reason
		FROM detections WHERE analysis_id = $1 ORDER BY start_time`
	rows, err := r.db.Query(query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*models.DetectionRecord
	for rows.Next() {
		d := &models.DetectionRecord{}
		if err := rows.Scan(&d.ID, &d.AnalysisID, &d.StartTime, &d.EndTime, &d.Confidence,
			&d.CameraAngle, &d.Description, &d.PlayerJersey, &d.ActionType, &d.Verification, &d.RejectionReason); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}
	return detections, rows.Err()
}

// DeleteOlderThan removes finished analyses past the retention window and
// returns their output paths so the caller can remove the files.
func (r *AnalysisRepository) DeleteOlderThan(cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(`SELECT output_path FROM analyses
		WHERE completed_at IS NOT NULL AND completed_at < $1 AND output_path <> ''`, cutoff)
	if err != nil {
		return nil, err
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, err
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = r.db.Exec(`DELETE FROM analyses WHERE completed_at IS NOT NULL AND completed_at < $1`, cutoff)
	return paths, err
}
