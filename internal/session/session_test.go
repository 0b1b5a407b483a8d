package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/utils"
	"github.com/opcl/backend/internal/webhook"
)

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Service{
		Relay:         &webhook.Relay{Client: srv.Client(), Logger: zerolog.Nop()},
		LoginURL:      srv.URL + "/login",
		SignupURL:     srv.URL + "/signup",
		UpdateUserURL: srv.URL + "/update-user",
		Logger:        zerolog.Nop(),
	}, srv
}

func TestLoginSuccess(t *testing.T) {
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"status":"success","user_id":"u-1","email":"a@b.c","role":"manager","password_hash":"abc123"}]`))
	})

	u, err := s.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u-1" || u.Role != "manager" || u.PasswordHash != "abc123" {
		t.Errorf("user = %+v", u)
	}
}

func TestLoginFallsBackToIDAndHash(t *testing.T) {
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"id":"u-2","email":"a@b.c","role":"client"}`))
	})

	u, err := s.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u-2" {
		t.Errorf("id = %s, want fallback to id field", u.ID)
	}
	if u.PasswordHash != utils.SHA256Hex("pw") {
		t.Errorf("password_hash = %s, want local SHA-256 of the password", u.PasswordHash)
	}
}

func TestLoginErrorMapping(t *testing.T) {
	cases := []struct {
		body     string
		wantCode string
	}{
		{`{"status":400,"code":"USER_NOT_FOUND"}`, CodeUserNotFound},
		{`{"code":"USER_NOT_FOUND"}`, CodeUserNotFound},
		{`{"status":401,"code":"INVALID_PASSWORD"}`, CodeInvalidPassword},
		{`{"message":"workflow exploded"}`, CodeLoginFailed},
	}
	for _, tc := range cases {
		body := tc.body
		s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
		_, err := s.Login(context.Background(), "a@b.c", "pw")
		var ae *AuthError
		if !errors.As(err, &ae) {
			t.Fatalf("body %s: err = %v, want AuthError", tc.body, err)
		}
		if ae.Code != tc.wantCode {
			t.Errorf("body %s: code = %s, want %s", tc.body, ae.Code, tc.wantCode)
		}
		if ae.Message == "" {
			t.Errorf("body %s: empty user-facing message", tc.body)
		}
	}
}

func TestLoginUnconfigured(t *testing.T) {
	s := &Service{Relay: &webhook.Relay{Logger: zerolog.Nop()}, Logger: zerolog.Nop()}
	_, err := s.Login(context.Background(), "a@b.c", "pw")
	var ae *AuthError
	if !errors.As(err, &ae) || ae.Code != CodeLoginFailed {
		t.Fatalf("err = %v, want generic login failure", err)
	}
}

func TestSignup(t *testing.T) {
	var got map[string]any
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if err := jsonDecode(r, &got); err != nil {
			t.Error(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if err := s.Signup(context.Background(), "new@b.c", "pw", now); err != nil {
		t.Fatal(err)
	}
	if got["role"] != "client" {
		t.Errorf("role = %v, want client", got["role"])
	}
	if got["created_at"] != "2026-09-01T09:00:00Z" {
		t.Errorf("created_at = %v", got["created_at"])
	}
}

func TestSignupFailure(t *testing.T) {
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"이미 가입된 이메일입니다."}`))
	})
	err := s.Signup(context.Background(), "dup@b.c", "pw", time.Now())
	var ae *AuthError
	if !errors.As(err, &ae) || ae.Code != CodeSignupFailed {
		t.Fatalf("err = %v", err)
	}
	if ae.Message != "이미 가입된 이메일입니다." {
		t.Errorf("message = %s, want upstream message", ae.Message)
	}
}

// The signup webhook uses code for failures just like login does, so a
// body carrying only a code must not be read as a registration.
func TestSignupCodeOnlyBodyIsFailure(t *testing.T) {
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"EMAIL_EXISTS","message":"duplicate account"}`))
	})
	err := s.Signup(context.Background(), "dup@b.c", "pw", time.Now())
	var ae *AuthError
	if !errors.As(err, &ae) || ae.Code != CodeSignupFailed {
		t.Fatalf("err = %v, want signup failure", err)
	}
	if ae.Message != "duplicate account" {
		t.Errorf("message = %s, want upstream message", ae.Message)
	}
}

func TestChangePassword(t *testing.T) {
	var got map[string]any
	s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if err := jsonDecode(r, &got); err != nil {
			t.Error(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"status":"success"}]`))
	})

	if err := s.ChangePassword(context.Background(), "u-1", "a@b.c", "old-pw", "new-pw"); err != nil {
		t.Fatal(err)
	}
	if got["user_id"] != "u-1" || got["email"] != "a@b.c" {
		t.Errorf("payload = %v", got)
	}
	if got["current_password"] != "old-pw" || got["new_password"] != "new-pw" {
		t.Errorf("passwords = %v / %v", got["current_password"], got["new_password"])
	}
}

func TestChangePasswordFailure(t *testing.T) {
	cases := []string{
		`{"code":"INVALID_PASSWORD","message":"현재 비밀번호가 올바르지 않습니다."}`,
		`{"success":false}`,
	}
	for _, body := range cases {
		body := body
		s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
		err := s.ChangePassword(context.Background(), "u-1", "a@b.c", "old", "new-pw")
		var ae *AuthError
		if !errors.As(err, &ae) || ae.Code != CodeUpdateFailed {
			t.Fatalf("body %s: err = %v, want update failure", body, err)
		}
	}
}

func TestLandingPath(t *testing.T) {
	if LandingPath("manager") != "/manager/dashboard" {
		t.Error("manager landing")
	}
	if LandingPath("admin") != "/manager/dashboard" {
		t.Error("admin landing")
	}
	if LandingPath("client") != "/client/dashboard" {
		t.Error("client landing")
	}
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
