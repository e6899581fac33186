// Package gemini implements the remote analysis protocol against the
// Gemini API: file upload, readiness polling, prompt generation and
// best-effort artifact deletion.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/clipcutter/clipcutter/internal/analysis"
)

const videoMIMEType = "video/mp4"

type Client struct {
	genai   *genai.Client
	model   string
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewClient creates a Gemini-backed remote client. The limiter spaces out
// generate calls client-side so bursts of verification prompts do not trip
// the service quota immediately.
func NewClient(ctx context.Context, apiKey, model string, requestsPerMinute float64, log *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), 1)
	}
	return &Client{
		genai:   gc,
		model:   model,
		limiter: limiter,
		log:     log.WithField("component", "gemini"),
	}, nil
}

func (c *Client) Upload(ctx context.Context, path string) (*analysis.Artifact, error) {
	file, err := c.genai.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: videoMIMEType})
	if err != nil {
		return nil, classify(err)
	}
	return toArtifact(file), nil
}

func (c *Client) Poll(ctx context.Context, a *analysis.Artifact) (*analysis.Artifact, error) {
	file, err := c.genai.Files.Get(ctx, a.Name, nil)
	if err != nil {
		return nil, classify(err)
	}
	return toArtifact(file), nil
}

func (c *Client) Generate(ctx context.Context, a *analysis.Artifact, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	parts := []*genai.Part{
		genai.NewPartFromURI(a.URI, a.MIMEType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	// Low temperature keeps the JSON output deterministic enough to parse.
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		TopP:        genai.Ptr[float32](0.8),
		TopK:        genai.Ptr[float32](40),
		SystemInstruction: genai.NewContentFromText(
			analysis.SystemInstructions(), genai.RoleUser),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (c *Client) Delete(ctx context.Context, a *analysis.Artifact) error {
	_, err := c.genai.Files.Delete(ctx, a.Name, nil)
	if err != nil {
		return classify(err)
	}
	return nil
}

func toArtifact(file *genai.File) *analysis.Artifact {
	state := analysis.ArtifactProcessing
	switch file.State {
	case genai.FileStateActive:
		state = analysis.ArtifactReady
	case genai.FileStateFailed:
		state = analysis.ArtifactFailed
	}
	return &analysis.Artifact{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
		State:    state,
	}
}

// classify tags rate-limit responses with the sentinel the pipeline's retry
// loop keys off; everything else passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return fmt.Errorf("%w: %v", analysis.ErrRateLimited, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %v", analysis.ErrRateLimited, err)
	}
	return err
}
