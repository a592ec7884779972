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

const scriptSystemPrompt = `You are a YouTube scriptwriter. Write a narration script for the given topic.
Open with a hook, build the body in short spoken sentences, close with a question to the viewer.
Respond with the narration text only, one sentence per line. No markdown, no stage directions.`

// ScriptGenerator formats the content brief into a narration script via
// an OpenAI-compatible chat completions endpoint.
type ScriptGenerator struct {
	cfg        config.OpenAI
	httpClient *http.Client
}

func NewScriptGenerator(cfg config.OpenAI) *ScriptGenerator {
	return &ScriptGenerator{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (g *ScriptGenerator) Stage() string {
	return models.StageScript
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *ScriptGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	if g.cfg.APIKey == "" {
		return nil, errors.New("script generator misconfigured: missing api key")
	}

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: scriptSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Topic: %s\nTitle: %s", job.Topic, job.Title)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chat completion %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	script := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if script == "" {
		return nil, errors.New("chat completion returned empty script")
	}

	outFile := filepath.Join(job.Dir, "script.txt")
	if err := os.WriteFile(outFile, []byte(script), 0644); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}

	job.ScriptText = script
	job.ScriptPath = outFile

	return &models.Artifact{Path: outFile}, nil
}
