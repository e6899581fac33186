package repository

import (
	"database/sql"

	"github.com/spf13/cast"
)

// Admin-tunable keys stored in the settings table. The config overlay and
// the settings API both speak in these.
const (
	SettingGeminiAPIKey   = "gemini_api_key"
	SettingGeminiModel    = "gemini_model"
	SettingMinConfidence  = "min_confidence"
	SettingEnableVerify   = "enable_verification"
	SettingDefaultPadding = "default_padding"
	SettingRetentionHours = "job_retention_hours"
)

// SettingValues is a snapshot of the settings table. Accessors coerce
// through cast; a missing or unparseable value yields the fallback.
type SettingValues map[string]string

func (v SettingValues) String(key, fallback string) string {
	if s, ok := v[key]; ok && s != "" {
		return s
	}
	return fallback
}

func (v SettingValues) Int(key string, fallback int) int {
	if s, ok := v[key]; ok {
		if n, err := cast.ToIntE(s); err == nil {
			return n
		}
	}
	return fallback
}

func (v SettingValues) Bool(key string, fallback bool) bool {
	if s, ok := v[key]; ok {
		if b, err := cast.ToBoolE(s); err == nil {
			return b
		}
	}
	return fallback
}

func (v SettingValues) Float64(key string, fallback float64) float64 {
	if s, ok := v[key]; ok {
		if f, err := cast.ToFloat64E(s); err == nil {
			return f
		}
	}
	return fallback
}

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// SetMany upserts several keys in one transaction so a partial admin
// update never lands.
func (r *SettingsRepository) SetMany(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2`
	for key, value := range values {
		if _, err := tx.Exec(query, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Snapshot loads the whole table.
func (r *SettingsRepository) Snapshot() (SettingValues, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(SettingValues)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}
