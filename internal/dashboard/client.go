// Package dashboard aggregates automation-backend data for the client and
// manager views. Client history degrades to an empty list on any upstream
// problem; the history page must never error-block.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/cache"
	"github.com/opcl/backend/internal/webhook"
)

// applicationsTTL bounds how long a client's application list is served
// from cache before re-fetching.
const applicationsTTL = 5 * time.Minute

// Applications is the client history response shape. Error is set when the
// list was degraded to empty instead of fetched.
type Applications struct {
	Applications []any  `json:"applications"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

// DetailError carries the HTTP status the detail proxy reports upstream
// problems with.
type DetailError struct {
	Status  int
	Message string
}

func (e *DetailError) Error() string {
	return fmt.Sprintf("application detail: %d %s", e.Status, e.Message)
}

type ClientService struct {
	Relay           *webhook.Relay
	ApplicationsURL string
	DetailURL       string
	Cache           cache.Store
	Logger          zerolog.Logger
}

func applicationsKey(email string) string {
	return "dashboard:applications:" + email
}

// Applications returns the client's submitted applications, served from a
// short-lived per-email cache. Every upstream failure degrades to an empty
// list with an explanatory error string; the result is always renderable.
func (s *ClientService) Applications(ctx context.Context, email string, forceRefresh bool) Applications {
	if !forceRefresh && s.Cache != nil {
		if b, err := s.Cache.Get(ctx, applicationsKey(email)); err == nil {
			var cached Applications
			if json.Unmarshal(b, &cached) == nil {
				return cached
			}
		}
	}

	if s.ApplicationsURL == "" {
		return Applications{
			Applications: []any{},
			Error:        "n8n 웹훅이 설정되지 않았습니다. 관리자에게 문의하세요.",
		}
	}

	res := s.Relay.Post(ctx, s.ApplicationsURL, map[string]any{"email": email})
	if !res.Success {
		s.Logger.Warn().Str("email", email).Int("status", res.Status).Msg("applications fetch degraded")
		return Applications{
			Applications: []any{},
			Error:        "n8n 워크플로우가 활성화되지 않았습니다. 관리자에게 문의하세요.",
		}
	}

	result := extractApplications(res.Body)
	if s.Cache != nil {
		if b, err := json.Marshal(result); err == nil {
			_ = s.Cache.Set(ctx, applicationsKey(email), b, applicationsTTL)
		}
	}
	return result
}

// InvalidateApplications drops the cached list, used on force refresh.
func (s *ClientService) InvalidateApplications(ctx context.Context, email string) {
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, applicationsKey(email))
	}
}

func extractApplications(body any) Applications {
	switch v := body.(type) {
	case nil:
		return Applications{
			Applications: []any{},
			Message:      "n8n 워크플로우가 데이터를 반환하지 않았습니다.",
		}
	case map[string]any:
		if apps, ok := v["applications"].([]any); ok {
			return Applications{Applications: apps}
		}
		return Applications{Applications: []any{}}
	case []any:
		return Applications{Applications: v}
	default:
		return Applications{Applications: []any{}}
	}
}

// Detail fetches one application's full record for the edit flow. Unlike
// the list, a broken upstream here is a real error: 503 when the webhook
// is unconfigured or down, otherwise the unwrapped detail object.
func (s *ClientService) Detail(ctx context.Context, requestID string) (any, error) {
	if s.DetailURL == "" {
		return nil, &DetailError{http.StatusServiceUnavailable, "n8n 웹훅이 설정되지 않았습니다. 관리자에게 문의하세요."}
	}

	res := s.Relay.Post(ctx, s.DetailURL, map[string]any{"request_id": requestID})
	if !res.Success {
		return nil, &DetailError{http.StatusServiceUnavailable, "n8n 워크플로우가 활성화되지 않았습니다. 관리자에게 문의하세요."}
	}

	raw := webhook.Unwrap(res.Body)
	if m, ok := raw.(map[string]any); ok {
		if m["status"] == "success" && m["data"] != nil {
			return m["data"], nil
		}
	}
	if raw == nil {
		return nil, &DetailError{http.StatusInternalServerError, "데이터를 불러오는 중 오류가 발생했습니다."}
	}
	return raw, nil
}

// AsDetailError is a convenience for handlers.
func AsDetailError(err error) (*DetailError, bool) {
	var de *DetailError
	ok := errors.As(err, &de)
	return de, ok
}
