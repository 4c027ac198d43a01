// Package advice asks a generative language model for fire safety advice.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// Preamble is prepended to every question.
	Preamble = "És um especialista em segurança contra incêndios em Portugal. Responde brevemente à seguinte questão em Português de Portugal: "

	// SystemInstruction sets the persona of the model.
	SystemInstruction = "Age como um consultor de segurança industrial especializado em equipamentos de extinção de incêndios e normas portuguesas (NP 4413)."

	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

// Config configures the generateContent client.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	cfg Config
}

// NewClient fills in defaults for anything cfg leaves empty. Temperature is
// sent as given, zero included.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{cfg: cfg}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends question with the fixed preamble and returns the model's
// text. An empty answer is returned as is.
func (c *Client) Generate(ctx context.Context, question string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("advice api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body generateRequest
	body.Contents = []content{{Role: "user", Parts: []part{{Text: Preamble + question}}}}
	body.SystemInstruction = content{Parts: []part{{Text: SystemInstruction}}}
	body.GenerationConfig.Temperature = c.cfg.Temperature

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := c.cfg.BaseURL + "/models/" + c.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("generate request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload generateResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	var sb strings.Builder
	if len(payload.Candidates) > 0 {
		for _, p := range payload.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
