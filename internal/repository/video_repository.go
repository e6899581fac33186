package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/clipcutter/clipcutter/internal/models"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(v *models.Video) error {
	query := `INSERT INTO videos (id, user_id, filename, path, size_bytes, duration, codec, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(query, v.ID, nullUUID(v.UserID), v.Filename, v.Path,
		v.SizeBytes, v.Duration, v.Codec, v.Width, v.Height, v.CreatedAt)
	return err
}

func (r *VideoRepository) GetByID(id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	var userID uuid.NullUUID
	query := `SELECT id, user_id, filename, path, size_bytes, duration, codec, width, height, created_at
		FROM videos WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&v.ID, &userID, &v.Filename, &v.Path,
		&v.SizeBytes, &v.Duration, &v.Codec, &v.Width, &v.Height, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.UserID = userID.UUID
	return v, nil
}

func (r *VideoRepository) GetByPath(path string) (*models.Video, error) {
	v := &models.Video{}
	var userID uuid.NullUUID
	query := `SELECT id, user_id, filename, path, size_bytes, duration, codec, width, height, created_at
		FROM videos WHERE path = $1`
	err := r.db.QueryRow(query, path).Scan(&v.ID, &userID, &v.Filename, &v.Path,
		&v.SizeBytes, &v.Duration, &v.Codec, &v.Width, &v.Height, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.UserID = userID.UUID
	return v, nil
}

func (r *VideoRepository) List(limit int) ([]*models.Video, error) {
	query := `SELECT id, user_id, filename, path, size_bytes, duration, codec, width, height, created_at
		FROM videos ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v := &models.Video{}
		var userID uuid.NullUUID
		if err := rows.Scan(&v.ID, &userID, &v.Filename, &v.Path,
			&v.SizeBytes, &v.Duration, &v.Codec, &v.Width, &v.Height, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.UserID = userID.UUID
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM videos WHERE id = $1`, id)
	return err
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
