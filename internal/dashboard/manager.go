package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/models"
	"github.com/opcl/backend/internal/webhook"
)

// Overview is the assembled manager dashboard view: the pending-work
// summary plus the confirmed consultations, fetched from two webhooks in
// parallel.
type Overview struct {
	Summary        models.DashboardSummary  `json:"summary"`
	CalendarEvents []models.CalendarEvent   `json:"calendar_events"`
	AnalyzedList   []models.AnalyzedRequest `json:"analyzed_list"`
	Confirmed      []map[string]any         `json:"confirmed_appointments"`
}

type ManagerService struct {
	Relay        *webhook.Relay
	DashboardURL string
	PreviewURL   string
	StartURL     string
	SummaryURL   string
	Logger       zerolog.Logger
}

// Overview issues the main-dashboard and confirmed-preview calls
// concurrently and joins both before assembling the view. Neither call
// failing blocks the other's data from rendering.
func (s *ManagerService) Overview(ctx context.Context, managerEmail string, now time.Time) Overview {
	payload := map[string]any{
		"manager_email": managerEmail,
		"timestamp":     now.Format(time.RFC3339),
	}

	mainCh := make(chan webhook.Result, 1)
	previewCh := make(chan webhook.Result, 1)
	go func() { mainCh <- s.Relay.Post(ctx, s.DashboardURL, payload) }()
	go func() { previewCh <- s.Relay.Post(ctx, s.PreviewURL, payload) }()
	mainRes, previewRes := <-mainCh, <-previewCh

	var ov Overview
	if m, ok := webhook.Unwrap(mainRes.Body).(map[string]any); ok {
		decodeInto(m["summary"], &ov.Summary)
		decodeInto(m["calendar_events"], &ov.CalendarEvents)
		decodeInto(m["analyzed_list"], &ov.AnalyzedList)
	} else if !mainRes.Success {
		s.Logger.Warn().Str("error", mainRes.Error).Msg("manager dashboard main fetch failed")
	}
	if ov.CalendarEvents == nil {
		ov.CalendarEvents = []models.CalendarEvent{}
	}
	if ov.AnalyzedList == nil {
		ov.AnalyzedList = []models.AnalyzedRequest{}
	}

	ov.Confirmed = FilterTodayOnward(ExtractConfirmed(previewRes.Body), now)
	return ov
}

// ExtractConfirmed pulls the confirmed-consultation list out of any of the
// response shapes the preview webhook is known to produce: an array whose
// first element holds confirmed_list, a nested array, a plain array, or an
// object with confirmed_appointments / confirmed_list.
func ExtractConfirmed(body any) []map[string]any {
	var raw []any
	switch v := body.(type) {
	case []any:
		if len(v) > 0 {
			switch first := v[0].(type) {
			case map[string]any:
				if list, ok := first["confirmed_list"].([]any); ok {
					raw = list
				} else {
					raw = v
				}
			case []any:
				raw = first
			default:
				raw = v
			}
		}
	case map[string]any:
		if list, ok := v["confirmed_appointments"].([]any); ok {
			raw = list
		} else if list, ok := v["confirmed_list"].([]any); ok {
			raw = list
		}
	}

	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// FilterTodayOnward drops confirmed entries dated before today. Entries
// without any parseable date field are dropped too.
func FilterTodayOnward(confirmed []map[string]any, now time.Time) []map[string]any {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]map[string]any, 0, len(confirmed))
	for _, apt := range confirmed {
		d, ok := ConfirmedDate(apt, now.Location())
		if !ok || d.Before(today) {
			continue
		}
		out = append(out, apt)
	}
	return out
}

// ConfirmedDate probes the date fields a confirmed entry may carry, in
// precedence order, and parses the date part.
func ConfirmedDate(apt map[string]any, loc *time.Location) (time.Time, bool) {
	candidates := []any{
		apt["confirmed_datetime"],
		apt["assigned_time"],
	}
	if conf, ok := apt["confirmed"].(map[string]any); ok {
		candidates = append(candidates, conf["datetime"])
	}
	candidates = append(candidates, apt["datetime"])

	for _, c := range candidates {
		s, ok := c.(string)
		if !ok || s == "" {
			continue
		}
		if len(s) > 10 {
			s = s[:10]
		}
		if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// StartConsultation fetches the full consultation detail (AI insights,
// schedule, confirmation info) when a manager opens a session.
func (s *ManagerService) StartConsultation(ctx context.Context, requestID, email string, now time.Time) (map[string]any, error) {
	res := s.Relay.Post(ctx, s.StartURL, map[string]any{
		"request_id": requestID,
		"email":      email,
		"timestamp":  now.Format(time.RFC3339),
	})
	if !res.Success {
		return nil, &DetailError{Status: 502, Message: messageOr(res, "상담 데이터를 불러오지 못했습니다.")}
	}
	m, _ := webhook.Unwrap(res.Body).(map[string]any)
	return m, nil
}

// SummaryInput is the end-of-consultation report payload.
type SummaryInput struct {
	RequestID    string
	Email        string
	UserName     string
	FullText     string
	ManagerNotes string
}

// SubmitSummary sends the corrected transcript and manager notes for
// report generation.
func (s *ManagerService) SubmitSummary(ctx context.Context, in SummaryInput, now time.Time) error {
	res := s.Relay.Post(ctx, s.SummaryURL, map[string]any{
		"request_id":    in.RequestID,
		"email":         in.Email,
		"user_name":     in.UserName,
		"full_text":     in.FullText,
		"manager_notes": in.ManagerNotes,
		"timestamp":     now.Format(time.RFC3339),
	})
	if !res.Success {
		return &DetailError{Status: 502, Message: messageOr(res, "상담 요약 전송에 실패했습니다.")}
	}
	return nil
}

func decodeInto(v any, dst any) {
	if v == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, dst)
}

func messageOr(res webhook.Result, fallback string) string {
	if res.Message != "" {
		return res.Message
	}
	return fallback
}
