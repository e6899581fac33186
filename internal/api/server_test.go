package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clipcutter/clipcutter/internal/analysis"
	"github.com/clipcutter/clipcutter/internal/auth"
	"github.com/clipcutter/clipcutter/internal/clipper"
	"github.com/clipcutter/clipcutter/internal/config"
	"github.com/clipcutter/clipcutter/internal/jobs"
	"github.com/clipcutter/clipcutter/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(cfg *config.Config) *Server {
	manager := jobs.NewManager(nil, nil, testLogger())
	return NewServer(cfg, nil, nil, nil, nil, manager, nil, nil, testLogger())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Status           string `json:"status"`
			GeminiConfigured bool   `json:"gemini_configured"`
			AuthEnabled      bool   `json:"auth_enabled"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Status != "ok" {
		t.Errorf("health status = %q, want ok", body.Data.Status)
	}
	if body.Data.GeminiConfigured {
		t.Error("gemini_configured = true without a key")
	}
}

func TestRegisterDisabledWithoutSecret(t *testing.T) {
	srv := newTestServer(&config.Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username": "coach", "password": "longenough1"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when auth is disabled", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("passthrough when disabled", func(t *testing.T) {
		srv := newTestServer(&config.Config{})
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 with auth disabled", rec.Code)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		srv := newTestServer(&config.Config{JWTSecret: "test-secret"})
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 without token", rec.Code)
		}
	})

	t.Run("accepts valid token", func(t *testing.T) {
		srv := newTestServer(&config.Config{JWTSecret: "test-secret"})
		token, err := auth.GenerateToken("test-secret", uuid.NewString(), false)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 with valid token", rec.Code)
		}
	})

	t.Run("rejects forged token", func(t *testing.T) {
		srv := newTestServer(&config.Config{JWTSecret: "test-secret"})
		token, err := auth.GenerateToken("other-secret", uuid.NewString(), false)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 with forged token", rec.Code)
		}
	})
}

func TestAnalyzeRequiresGeminiKey(t *testing.T) {
	srv := newTestServer(&config.Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/videos/"+uuid.NewString()+"/analyze",
		strings.NewReader(`{"query": "runs"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without a configured key", rec.Code)
	}
}

func TestJobEndpointsValidateIDs(t *testing.T) {
	srv := newTestServer(&config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed id", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/jobs/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown job", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/jobs/"+uuid.NewString()+"/cancel", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 cancelling an unknown job", rec.Code)
	}
}

// ──────────────────── Ownership ────────────────────

type stubProber struct{}

func (stubProber) DurationAndSize(path string) (float64, int64, error) {
	return 600, 1 << 20, nil
}

type stubMedia struct{}

func (stubMedia) CutCopy(ctx context.Context, input string, start, duration float64, output string) error {
	return os.WriteFile(output, []byte("clip"), 0o644)
}

func (stubMedia) ConcatCopy(ctx context.Context, clips []string, output string) error {
	return os.WriteFile(output, []byte("joined"), 0o644)
}

type stubRemote struct{}

func (stubRemote) Upload(ctx context.Context, path string) (*analysis.Artifact, error) {
	return &analysis.Artifact{Name: "files/stub", State: analysis.ArtifactReady}, nil
}

func (stubRemote) Poll(ctx context.Context, a *analysis.Artifact) (*analysis.Artifact, error) {
	return a, nil
}

func (stubRemote) Generate(ctx context.Context, a *analysis.Artifact, prompt string) (string, error) {
	return "[]", nil
}

func (stubRemote) Delete(ctx context.Context, a *analysis.Artifact) error {
	return nil
}

func TestJobAccessScopedToOwner(t *testing.T) {
	pcfg := analysis.DefaultConfig()
	pcfg.WorkDir = t.TempDir()
	pcfg.Verify = false
	extractor := clipper.NewExtractor(stubMedia{}, pcfg.WorkDir, testLogger())
	pipeline := analysis.NewPipeline(stubProber{}, stubMedia{}, stubRemote{}, extractor, pcfg, testLogger())
	manager := jobs.NewManager(pipeline, nil, testLogger())
	srv := NewServer(&config.Config{JWTSecret: "test-secret"}, nil, nil, nil, nil, manager, nil, nil, testLogger())
	router := srv.Router()

	owner := uuid.New()
	job := manager.Start(&models.Video{ID: uuid.New(), UserID: owner, Path: "game.mp4"}, "runs", -1)

	mustToken := func(userID string, admin bool) string {
		token, err := auth.GenerateToken("test-secret", userID, admin)
		if err != nil {
			t.Fatal(err)
		}
		return token
	}
	ownerToken := mustToken(owner.String(), false)
	strangerToken := mustToken(uuid.NewString(), false)
	adminToken := mustToken(uuid.NewString(), true)

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get(ownerToken); code != http.StatusOK {
		t.Errorf("owner GET status = %d, want 200", code)
	}
	if code := get(strangerToken); code != http.StatusForbidden {
		t.Errorf("stranger GET status = %d, want 403", code)
	}
	if code := get(adminToken); code != http.StatusOK {
		t.Errorf("admin GET status = %d, want 200", code)
	}

	// Cancellation is scoped the same way.
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+job.ID.String()+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+strangerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger cancel status = %d, want 403", rec.Code)
	}

	// Listing only shows a user their own jobs.
	listCount := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d, want 200", rec.Code)
		}
		var body struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return len(body.Data)
	}

	if n := listCount(ownerToken); n != 1 {
		t.Errorf("owner list count = %d, want 1", n)
	}
	if n := listCount(strangerToken); n != 0 {
		t.Errorf("stranger list count = %d, want 0", n)
	}
	if n := listCount(adminToken); n != 1 {
		t.Errorf("admin list count = %d, want 1", n)
	}
}
