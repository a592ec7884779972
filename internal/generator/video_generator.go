package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/models"
)

const replicateEndpoint = "https://api.replicate.com/v1/predictions"

// VideoGenerator synthesizes background footage through a Replicate
// prediction: create, poll until terminal, download the output.
type VideoGenerator struct {
	cfg        config.Replicate
	endpoint   string
	httpClient *http.Client
}

func NewVideoGenerator(cfg config.Replicate) *VideoGenerator {
	return &VideoGenerator{
		cfg:      cfg,
		endpoint: replicateEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (g *VideoGenerator) Stage() string {
	return models.StageVideo
}

type predictionRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
	Output any    `json:"output"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (g *VideoGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	if g.cfg.APIToken == "" || g.cfg.Version == "" {
		return nil, errors.New("video generator misconfigured: missing replicate credentials")
	}

	pred, err := g.createPrediction(ctx, job)
	if err != nil {
		return nil, err
	}

	pred, err = g.waitForPrediction(ctx, pred)
	if err != nil {
		return nil, err
	}

	outputURL := firstOutputURL(pred.Output)
	if outputURL == "" {
		return nil, errors.New("prediction succeeded without output")
	}

	outFile := filepath.Join(job.Dir, "footage.mp4")
	if err := g.download(ctx, outputURL, outFile); err != nil {
		return nil, fmt.Errorf("download prediction output: %w", err)
	}

	job.VideoPath = outFile
	return &models.Artifact{Path: outFile}, nil
}

func (g *VideoGenerator) createPrediction(ctx context.Context, job *Job) (*prediction, error) {
	body, err := json.Marshal(predictionRequest{
		Version: g.cfg.Version,
		Input: map[string]any{
			"prompt": fmt.Sprintf("cinematic b-roll footage for a video about %s", job.Topic),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal prediction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+g.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("create prediction %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var pred prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return &pred, nil
}

func (g *VideoGenerator) waitForPrediction(ctx context.Context, pred *prediction) (*prediction, error) {
	for {
		switch pred.Status {
		case "succeeded":
			return pred, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("prediction %s: %s", pred.Status, pred.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pred.URLs.Get, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token "+g.cfg.APIToken)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("poll prediction: %w", err)
		}

		var next prediction
		err = json.NewDecoder(resp.Body).Decode(&next)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode prediction poll: %w", err)
		}
		pred = &next
	}
}

func (g *VideoGenerator) download(ctx context.Context, fileURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}

// Replicate models return either a single URL or a list of them.
func firstOutputURL(output any) string {
	switch v := output.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
