package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Result is the uniform return shape of the relay. Calling code never
// handles thrown errors for business calls: transport and configuration
// problems are folded into Success=false results.
type Result struct {
	Success bool   `json:"success"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	// Body is the decoded JSON response (object or array — the shape
	// ambiguity is the automation backend's, not this layer's). Nil when
	// the response did not declare a JSON content type.
	Body any `json:"-"`
}

// Relay forwards JSON payloads to configured automation-backend endpoints.
// It has no retry, no backoff and no timeout of its own; the caller's
// context governs the request lifetime.
type Relay struct {
	Client *http.Client
	Logger zerolog.Logger
}

// Post sends payload to url as an application/json POST and normalizes the
// response. An empty url returns a configuration failure synchronously.
func (r *Relay) Post(ctx context.Context, url string, payload any) Result {
	if url == "" {
		r.Logger.Error().Msg("webhook url is not defined")
		return Result{Success: false, Error: "Configuration missing"}
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Error: "Network or Server error", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return Result{Success: false, Error: "Network or Server error", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		r.Logger.Error().Err(err).Str("url", url).Msg("webhook call failed")
		return Result{
			Success: false,
			Error:   "Network or Server error",
			Message: "서버와 연결할 수 없습니다. n8n 설정을 확인해 주세요.",
		}
	}
	defer resp.Body.Close()

	var body any
	if isJSONContentType(resp.Header.Get("Content-Type")) {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			body = nil
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend may embed success indicators in the body despite a
		// non-2xx status code; only a bare 500 is a hard upstream failure.
		if resp.StatusCode == http.StatusInternalServerError && !bodyHasSuccessMarker(body) {
			r.Logger.Error().Str("url", url).Msg("automation backend workflow error")
		}
		res := Result{Success: false, Status: resp.StatusCode, Body: body}
		if m, ok := body.(map[string]any); ok {
			res.Message, _ = m["message"].(string)
			res.Error, _ = m["error"].(string)
		}
		return res
	}

	return Result{Success: true, Status: resp.StatusCode, Body: body}
}

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "application/json")
}

func bodyHasSuccessMarker(body any) bool {
	m, ok := Unwrap(body).(map[string]any)
	if !ok {
		return false
	}
	if s, ok := m["status"].(string); ok && s == "success" {
		return true
	}
	_, hasCode := m["code"]
	return hasCode
}
