package config

import (
	"os"
	"strconv"

	"github.com/clipcutter/clipcutter/internal/repository"
)

type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
	DataDir     string

	FFmpegPath  string
	FFprobePath string

	GeminiAPIKey   string
	GeminiModel    string
	GeminiRPM      float64
	MinConfidence  int
	AcceptedAngle  string
	EnableVerify   bool
	MaxUploadBytes int64
	TargetSegBytes int64
	DefaultPadding float64
	MaxPadding     float64

	InboxDir        string
	RetentionHours  int
	CleanupSchedule string

	StorageURL    string
	StorageKey    string
	StorageBucket string

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:        envInt("PORT", 8080),
		DatabaseURL: env("DATABASE_URL", "postgres://clipcutter:clipcutter@db:5432/clipcutter?sslmode=disable"),
		JWTSecret:   env("JWT_SECRET", ""),
		DataDir:     env("DATA_DIR", "/data"),

		FFmpegPath:  env("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: env("FFPROBE_PATH", "ffprobe"),

		GeminiAPIKey:   env("GOOGLE_API_KEY", ""),
		GeminiModel:    env("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiRPM:      envFloat("GEMINI_RPM", 10),
		MinConfidence:  envInt("MIN_CONFIDENCE", 70),
		AcceptedAngle:  env("ACCEPTED_ANGLE", "sideline"),
		EnableVerify:   envBool("ENABLE_VERIFICATION", true),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 1800*1024*1024),
		TargetSegBytes: envInt64("TARGET_SEGMENT_BYTES", 1500*1024*1024),
		DefaultPadding: envFloat("DEFAULT_PADDING", 2.0),
		MaxPadding:     envFloat("MAX_PADDING", 10.0),

		InboxDir:        env("INBOX_DIR", ""),
		RetentionHours:  envInt("JOB_RETENTION_HOURS", 24),
		CleanupSchedule: env("CLEANUP_SCHEDULE", "@hourly"),

		StorageURL:    env("STORAGE_URL", ""),
		StorageKey:    env("STORAGE_API_KEY", ""),
		StorageBucket: env("STORAGE_BUCKET", "highlights"),

		LogLevel: env("LOG_LEVEL", "info"),
	}
}

// ApplyOverrides overlays admin-tunable settings from the settings table.
// Unparseable values keep the env/default value.
func (c *Config) ApplyOverrides(v repository.SettingValues) {
	c.GeminiAPIKey = v.String(repository.SettingGeminiAPIKey, c.GeminiAPIKey)
	c.GeminiModel = v.String(repository.SettingGeminiModel, c.GeminiModel)
	c.MinConfidence = v.Int(repository.SettingMinConfidence, c.MinConfidence)
	c.EnableVerify = v.Bool(repository.SettingEnableVerify, c.EnableVerify)
	c.DefaultPadding = v.Float64(repository.SettingDefaultPadding, c.DefaultPadding)
	c.RetentionHours = v.Int(repository.SettingRetentionHours, c.RetentionHours)
}

func (c *Config) GeminiConfigured() bool { return c.GeminiAPIKey != "" }
func (c *Config) StorageEnabled() bool   { return c.StorageURL != "" && c.StorageKey != "" }
func (c *Config) AuthEnabled() bool      { return c.JWTSecret != "" }

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
