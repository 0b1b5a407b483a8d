package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Part is one piece of a content turn: text or inline binary data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded media for multimodal requests.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content is a single chat turn. Role is "user" or "model".
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig bounds the model output.
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

// Client calls the hosted generative-model API over REST. A missing API key
// is logged at startup but does not prevent request attempts; those fail at
// call time with the upstream error.
type Client struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type generateRequest struct {
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	Contents          []Content        `json:"contents"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent submits a sanitized history plus configuration and returns
// the model's single text block.
func (c *Client) GenerateContent(ctx context.Context, systemInstruction string, contents []Content, cfg GenerationConfig) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	model := c.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	req := generateRequest{
		Contents:         contents,
		GenerationConfig: cfg,
	}
	if systemInstruction != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: systemInstruction}}}
	}

	b, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(base, "/"), model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("model request timed out")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("model request timed out")
		}
		return "", err
	}
	defer resp.Body.Close()

	var res generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&res)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if res.Error.Message != "" {
			return "", errors.New(res.Error.Message)
		}
		return "", fmt.Errorf("model http error: %s", resp.Status)
	}
	if decodeErr != nil {
		return "", decodeErr
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty model response")
	}

	var sb strings.Builder
	for _, p := range res.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
