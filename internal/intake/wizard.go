// Package intake drives the applicant-facing multi-step wizard: basic
// profile, schedule preferences, AI pre-counseling chat, then review and
// final submission. Every step's business effect happens in the automation
// backend; this layer shapes payloads and classifies responses.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/models"
	"github.com/opcl/backend/internal/webhook"
)

// Wizard step identifiers, in order.
const (
	StepBasicInfo = "basic_info"
	StepSchedule  = "schedule"
	StepAIChat    = "ai_chat"
	StepReview    = "review"
)

// kst is fixed UTC+9; Korea has no daylight saving.
var kst = time.FixedZone("KST", 9*60*60)

// KSTTimestamp formats t the way the automation backend expects intake
// timestamps: "YYYY-MM-DD HH:MM:SS" in Korean local time.
func KSTTimestamp(t time.Time) string {
	return t.In(kst).Format("2006-01-02 15:04:05")
}

type Service struct {
	Relay       *webhook.Relay
	SubmitURL   string // step-1 basic info
	ScheduleURL string // ranked schedule preferences
	AnalyzeURL  string // final submission with chat transcript
	Logger      zerolog.Logger
}

// StepError is a step failure with the message shown to the applicant.
type StepError struct {
	Step    string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("intake %s: %s", e.Step, e.Message)
}

// SubmitBasicInfo relays the completed first section. On success the
// backend may return a data patch (a generated request_id, normalized
// fields); the patch comes back with unexpanded template placeholders
// already filtered out, and the caller merges it into the draft.
func (s *Service) SubmitBasicInfo(ctx context.Context, rec models.IntakeRecord, user models.User, now time.Time) (map[string]any, error) {
	payload := recordPayload(rec, user)
	payload["time"] = KSTTimestamp(now)
	payload["step"] = StepBasicInfo

	res := s.Relay.Post(ctx, s.SubmitURL, payload)
	out := webhook.Decode(res)

	if out.Status == "success" || out.Code == "STEP1_COMPLETE" {
		return out.Data, nil
	}
	s.Logger.Warn().Str("step", StepBasicInfo).Str("code", out.Code).Msg("basic info rejected")
	return nil, &StepError{StepBasicInfo, messageOr(out, "데이터 전송에 실패했습니다. 잠시 후 다시 시도해 주세요.")}
}

// ChooseSchedule relays the three ranked time preferences. Any response
// the relay itself did not fail counts as acceptance.
func (s *Service) ChooseSchedule(ctx context.Context, rec models.IntakeRecord) error {
	res := s.Relay.Post(ctx, s.ScheduleURL, map[string]any{
		"request_id":         rec.RequestID,
		"email":              rec.Email,
		"request_time_1":     rec.RequestTime1,
		"request_time_2":     rec.RequestTime2,
		"request_time_3":     rec.RequestTime3,
		"preferred_method":   rec.PreferredMethod,
		"preferred_location": rec.PreferredLocation,
	})
	if !res.Success {
		return &StepError{StepSchedule, "일정 저장에 실패했습니다. 다시 시도해 주세요."}
	}
	return nil
}

// FinalSubmit relays the full intake plus the AI chat transcript for
// analysis and report generation. The backend acknowledges with
// status:"success" or any completion code.
func (s *Service) FinalSubmit(ctx context.Context, rec models.IntakeRecord, user models.User, history []models.ChatMessage, now time.Time) error {
	payload := recordPayload(rec, user)
	ts := KSTTimestamp(now)
	payload["conversation_scrips"] = formatHistory(history)
	payload["completed_at"] = ts
	payload["time"] = ts
	payload["status"] = "final_submitted"

	res := s.Relay.Post(ctx, s.AnalyzeURL, payload)
	out := webhook.Decode(res)
	if out.Status == "success" || out.Code != "" {
		return nil
	}
	s.Logger.Warn().Str("step", StepReview).Msg("final submission rejected")
	return &StepError{StepReview, messageOr(out, "최종 제출에 실패했습니다. 다시 시도해 주세요.")}
}

// formatHistory maps the chat-proxy roles onto the analysis contract:
// "ai" turns become "assistant", everything else "user".
func formatHistory(history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(history))
	for i, m := range history {
		role := "user"
		if m.Role == "ai" || m.Role == "assistant" {
			role = "assistant"
		}
		out[i] = models.ChatMessage{Role: role, Content: m.Content}
	}
	return out
}

// recordPayload flattens the intake record and overlays session identity
// fields, which win over whatever the draft carried.
func recordPayload(rec models.IntakeRecord, user models.User) map[string]any {
	b, _ := json.Marshal(rec)
	payload := map[string]any{}
	_ = json.Unmarshal(b, &payload)
	delete(payload, "chat_history")

	payload["user_id"] = user.ID
	payload["email"] = user.Email
	payload["role"] = user.Role
	payload["password_hash"] = user.PasswordHash
	return payload
}

func messageOr(out webhook.Outcome, fallback string) string {
	if out.Message != "" {
		return out.Message
	}
	return fallback
}
