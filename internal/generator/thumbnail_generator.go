package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

// ThumbnailGenerator fetches an AI-generated thumbnail image from a
// prompt-in-URL image endpoint.
type ThumbnailGenerator struct {
	endpoint   string
	httpClient *http.Client
}

func NewThumbnailGenerator(endpoint string) *ThumbnailGenerator {
	return &ThumbnailGenerator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (g *ThumbnailGenerator) Stage() string {
	return models.StageThumbnail
}

func (g *ThumbnailGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	prompt := fmt.Sprintf("youtube thumbnail, bold, high contrast, %s", job.Title)
	imageURL := fmt.Sprintf("%s/%s?width=1280&height=720&nologo=true&seed=%d",
		g.endpoint, url.PathEscape(prompt), job.ProductionID)

	outFile := filepath.Join(job.Dir, "thumbnail.jpg")

	// The endpoint occasionally times out; retry a few times before
	// giving up.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = g.download(ctx, imageURL, outFile)
		if err == nil {
			job.ThumbnailPath = outFile
			return &models.Artifact{Path: outFile}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}

	return nil, fmt.Errorf("thumbnail fetch failed after 3 attempts: %w", err)
}

func (g *ThumbnailGenerator) download(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
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

	if _, err := io.Copy(file, resp.Body); err != nil {
		return err
	}
	return nil
}
