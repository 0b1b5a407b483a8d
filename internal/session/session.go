// Package session performs authentication against the automation backend.
// The backend owns the account store; this layer relays credentials,
// classifies the response and decides the post-login landing page.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/models"
	"github.com/opcl/backend/internal/utils"
	"github.com/opcl/backend/internal/webhook"
)

// Error codes surfaced to the HTTP layer. They map onto the status codes
// the login webhook itself uses (400 unknown user, 401 bad password).
const (
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeLoginFailed     = "LOGIN_FAILED"
	CodeSignupFailed    = "SIGNUP_FAILED"
	CodeUpdateFailed    = "PASSWORD_UPDATE_FAILED"
)

// AuthError is a classified login/signup failure with a user-facing
// Korean message.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Service struct {
	Relay         *webhook.Relay
	LoginURL      string
	SignupURL     string
	UpdateUserURL string
	Logger        zerolog.Logger
}

// explicitSuccess reports whether the backend marked the response as a
// success. The auth webhooks reuse the code field for failures
// (USER_NOT_FOUND, EMAIL_EXISTS), so only the explicit markers count.
func explicitSuccess(out webhook.Outcome) bool {
	return out.Status == "success" || out.Fields["success"] == true
}

// Login relays credentials to the automation backend and builds the user
// session. When the backend omits password_hash, the hash of the submitted
// password stands in so later steps can still carry one.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	res := s.Relay.Post(ctx, s.LoginURL, map[string]any{
		"email":    email,
		"password": password,
	})
	out := webhook.Decode(res)

	if explicitSuccess(out) {
		u := models.User{
			ID:           stringField(out.Fields, "user_id"),
			Email:        stringField(out.Fields, "email"),
			Role:         stringField(out.Fields, "role"),
			PasswordHash: stringField(out.Fields, "password_hash"),
		}
		if u.ID == "" {
			u.ID = stringField(out.Fields, "id")
		}
		if u.Email == "" {
			u.Email = email
		}
		if u.PasswordHash == "" {
			u.PasswordHash = utils.SHA256Hex(password)
		}
		u.Name = stringField(out.Fields, "name")
		return u, nil
	}

	switch {
	case responseStatus(out) == 400, out.Code == CodeUserNotFound:
		return models.User{}, &AuthError{CodeUserNotFound, messageOr(out, "등록되지 않은 이메일입니다.")}
	case responseStatus(out) == 401, out.Code == CodeInvalidPassword:
		return models.User{}, &AuthError{CodeInvalidPassword, messageOr(out, "비밀번호가 일치하지 않습니다.")}
	default:
		s.Logger.Warn().Str("email", email).Str("error", res.Error).Msg("login failed")
		return models.User{}, &AuthError{CodeLoginFailed, messageOr(out, "로그인에 실패했습니다. 정보를 확인해 주세요.")}
	}
}

// Signup registers a client account. All self-service signups get the
// client role; manager accounts are provisioned in the backend directly.
func (s *Service) Signup(ctx context.Context, email, password string, now time.Time) error {
	res := s.Relay.Post(ctx, s.SignupURL, map[string]any{
		"email":      email,
		"password":   password,
		"role":       "client",
		"created_at": now.Format(time.RFC3339),
	})
	out := webhook.Decode(res)
	if explicitSuccess(out) {
		return nil
	}
	return &AuthError{CodeSignupFailed, messageOr(out, "회원가입에 실패했습니다. 잠시 후 다시 시도해 주세요.")}
}

// ChangePassword relays a password update for a logged-in account. The
// backend verifies the current password itself; this layer only classifies
// the outcome.
func (s *Service) ChangePassword(ctx context.Context, userID, email, currentPassword, newPassword string) error {
	res := s.Relay.Post(ctx, s.UpdateUserURL, map[string]any{
		"user_id":          userID,
		"email":            email,
		"current_password": currentPassword,
		"new_password":     newPassword,
	})
	out := webhook.Decode(res)
	if explicitSuccess(out) {
		return nil
	}
	s.Logger.Warn().Str("email", email).Str("error", res.Error).Msg("password update failed")
	return &AuthError{CodeUpdateFailed, messageOr(out, "비밀번호 변경에 실패했습니다.")}
}

// LandingPath is the role-based page a freshly logged-in user is sent to.
func LandingPath(role string) string {
	if role == "manager" || role == "admin" {
		return "/manager/dashboard"
	}
	return "/client/dashboard"
}

// responseStatus reads a numeric status field in the body (the login
// webhook encodes 400/401 there, not in the HTTP status line).
func responseStatus(out webhook.Outcome) int {
	if f, ok := out.Fields["status"].(float64); ok {
		return int(f)
	}
	return 0
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func messageOr(out webhook.Outcome, fallback string) string {
	if out.Message != "" {
		return out.Message
	}
	return fallback
}
