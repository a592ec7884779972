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

const elevenLabsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"

// AudioGenerator narrates the script through the ElevenLabs TTS API.
type AudioGenerator struct {
	cfg        config.ElevenLabs
	endpoint   string
	httpClient *http.Client
}

func NewAudioGenerator(cfg config.ElevenLabs) *AudioGenerator {
	return &AudioGenerator{
		cfg:      cfg,
		endpoint: elevenLabsEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (g *AudioGenerator) Stage() string {
	return models.StageAudio
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (g *AudioGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	if g.cfg.APIKey == "" {
		return nil, errors.New("audio generator misconfigured: missing api key")
	}
	if job.ScriptText == "" {
		return nil, errors.New("no script text to narrate")
	}

	body, err := json.Marshal(ttsRequest{
		Text:    job.ScriptText,
		ModelID: "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s", g.endpoint, g.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("text to speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("text to speech %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	outFile := filepath.Join(job.Dir, "narration.mp3")
	file, err := os.Create(outFile)
	if err != nil {
		return nil, fmt.Errorf("create audio file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}

	job.AudioPath = outFile
	return &models.Artifact{Path: outFile}, nil
}
