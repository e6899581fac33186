package api

import (
	"net/http"

	"github.com/clipcutter/clipcutter/internal/httputil"
	"github.com/clipcutter/clipcutter/internal/repository"
)

// Admin-tunable keys. Anything else in a PUT body is rejected so typos
// don't silently create dead settings.
var allowedSettings = map[string]bool{
	repository.SettingGeminiAPIKey:   true,
	repository.SettingGeminiModel:    true,
	repository.SettingMinConfidence:  true,
	repository.SettingEnableVerify:   true,
	repository.SettingDefaultPadding: true,
	repository.SettingRetentionHours: true,
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsRepo.Snapshot()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not load settings")
		return
	}
	// The API key is write-only.
	if _, ok := settings[repository.SettingGeminiAPIKey]; ok {
		settings[repository.SettingGeminiAPIKey] = "********"
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := httputil.ReadJSON(w, r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	for key := range body {
		if !allowedSettings[key] {
			httputil.WriteError(w, http.StatusBadRequest, "UNKNOWN_SETTING", "unknown setting: "+key)
			return
		}
	}
	if err := s.settingsRepo.SetMany(body); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not save settings")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"updated": len(body)})
}
