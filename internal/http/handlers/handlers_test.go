package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/cache"
	"github.com/opcl/backend/internal/dashboard"
	"github.com/opcl/backend/internal/genai"
	"github.com/opcl/backend/internal/intake"
	"github.com/opcl/backend/internal/session"
	"github.com/opcl/backend/internal/webhook"
)

// upstream fakes the n8n automation backend; each path returns a fixed
// JSON body.
func upstream(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, n8n *httptest.Server) *Handler {
	t.Helper()
	relay := &webhook.Relay{Logger: zerolog.Nop()}
	var base string
	if n8n != nil {
		base = n8n.URL
		relay.Client = n8n.Client()
	}
	url := func(path string) string {
		if base == "" {
			return ""
		}
		return base + path
	}
	store := cache.NewMemory()
	return &Handler{
		Sessions: &session.Service{
			Relay: relay, LoginURL: url("/login"), SignupURL: url("/signup"),
			UpdateUserURL: url("/update-user"), Logger: zerolog.Nop(),
		},
		Intake: &intake.Service{
			Relay: relay, SubmitURL: url("/submit"), ScheduleURL: url("/choose"), AnalyzeURL: url("/analyze"),
			Logger: zerolog.Nop(),
		},
		Drafts: intake.NewDraftStore(store),
		Client: &dashboard.ClientService{
			Relay: relay, ApplicationsURL: url("/applications"), DetailURL: url("/detail"),
			Cache: store, Logger: zerolog.Nop(),
		},
		Manager: &dashboard.ManagerService{
			Relay: relay, DashboardURL: url("/dashboard"), PreviewURL: url("/preview"),
			StartURL: url("/start"), SummaryURL: url("/summary"), Logger: zerolog.Nop(),
		},
		Relay:       relay,
		Validator:   validator.New(),
		CalendarURL: url("/calendar"),
		ConfirmURL:  url("/confirm"),
		Logger:      zerolog.Nop(),
		Now:         func() time.Time { return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) },
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return m
}

func TestApplicationDetailMissingID(t *testing.T) {
	h := newTestHandler(t, nil)
	r := gin.New()
	r.GET("/api/application-detail", h.ApplicationDetail)

	w := doJSON(t, r, http.MethodGet, "/api/application-detail", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if decodeBody(t, w)["error"] != "ID required" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestApplicationDetailUnconfiguredIs503(t *testing.T) {
	h := newTestHandler(t, nil)
	r := gin.New()
	r.GET("/api/application-detail", h.ApplicationDetail)

	w := doJSON(t, r, http.MethodGet, "/api/application-detail?id=r1", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestApplicationDetailUnwrapped(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/detail": `[{"status":"success","data":{"request_id":"r1","name":"김하늘"}}]`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.GET("/api/application-detail", h.ApplicationDetail)

	w := doJSON(t, r, http.MethodGet, "/api/application-detail?id=r1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["name"] != "김하늘" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestApplicationsAlways200(t *testing.T) {
	// Unconfigured webhook still renders an empty list.
	h := newTestHandler(t, nil)
	r := gin.New()
	r.GET("/api/applications", h.ApplicationsList)

	w := doJSON(t, r, http.MethodGet, "/api/applications?email=a%40b.c", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] == nil {
		t.Error("expected degraded error string")
	}
	if apps, ok := body["applications"].([]any); !ok || len(apps) != 0 {
		t.Errorf("applications = %v", body["applications"])
	}
}

func TestLoginRouteMapsErrors(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/login": `{"status":401,"code":"INVALID_PASSWORD"}`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"bad"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (%s)", w.Code, w.Body.String())
	}
}

func TestLoginRouteSuccess(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/login": `[{"status":"success","user_id":"u-1","email":"a@b.c","role":"manager"}]`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["landing"] != "/manager/dashboard" {
		t.Errorf("landing = %v", body["landing"])
	}
}

func TestChangePasswordValidation(t *testing.T) {
	h := newTestHandler(t, nil)
	r := gin.New()
	r.POST("/api/profile/password", h.ChangePassword)

	cases := []struct {
		body    string
		wantMsg string
	}{
		{
			`{"user_id":"u-1","email":"a@b.c","current_password":"old","new_password":"new-pw","confirm_password":"other"}`,
			"새 비밀번호가 일치하지 않습니다.",
		},
		{
			`{"user_id":"u-1","email":"a@b.c","current_password":"old","new_password":"abc","confirm_password":"abc"}`,
			"비밀번호는 최소 4자 이상이어야 합니다.",
		},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/profile/password", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
		}
		errObj := decodeBody(t, w)["error"].(map[string]any)
		if errObj["message"] != tc.wantMsg {
			t.Errorf("message = %v, want %s", errObj["message"], tc.wantMsg)
		}
	}
}

func TestChangePasswordRoute(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/update-user": `{"status":"success"}`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/profile/password", h.ChangePassword)

	w := doJSON(t, r, http.MethodPost, "/api/profile/password",
		`{"user_id":"u-1","email":"a@b.c","current_password":"old","new_password":"new-pw","confirm_password":"new-pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if msg := decodeBody(t, w)["message"]; msg != "비밀번호가 성공적으로 변경되었습니다." {
		t.Errorf("message = %v", msg)
	}
}

// The update webhook reports failures through a code field, so the route
// must not treat such a body as a completed change.
func TestChangePasswordUpstreamRejection(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/update-user": `{"code":"INVALID_PASSWORD","message":"현재 비밀번호가 올바르지 않습니다."}`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/profile/password", h.ChangePassword)

	w := doJSON(t, r, http.MethodPost, "/api/profile/password",
		`{"user_id":"u-1","email":"a@b.c","current_password":"bad","new_password":"new-pw","confirm_password":"new-pw"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 (%s)", w.Code, w.Body.String())
	}
	errObj := decodeBody(t, w)["error"].(map[string]any)
	if errObj["message"] != "현재 비밀번호가 올바르지 않습니다." {
		t.Errorf("message = %v, want upstream message", errObj["message"])
	}
}

func TestIntakeBasicInfoMergesPatchAndSavesDraft(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/submit": `{"code":"STEP1_COMPLETE","data":{"request_id":"req-7"}}`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/intake/basic-info", h.IntakeBasicInfo)
	r.GET("/api/intake/draft", h.DraftGet)

	w := doJSON(t, r, http.MethodPost, "/api/intake/basic-info",
		`{"email":"a@b.c","name":"김하늘","user_id":"u-1","role":"client"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	rec := decodeBody(t, w)["record"].(map[string]any)
	if rec["request_id"] != "req-7" {
		t.Errorf("merged record = %v", rec)
	}

	w = doJSON(t, r, http.MethodGet, "/api/intake/draft?email=a%40b.c", "")
	if w.Code != http.StatusOK {
		t.Fatalf("draft status = %d", w.Code)
	}
	draft := decodeBody(t, w)
	if draft["active_step"] != intake.StepSchedule {
		t.Errorf("draft = %v", draft)
	}
}

func TestCalendarRoute(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/calendar": `{"status":"success","work_info":{"start":10,"end":17,"lunch":12},"booked_data":{"2026-09-04":"FULL_BOOKED"}}`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.GET("/api/calendar", h.Calendar)

	w := doJSON(t, r, http.MethodGet, "/api/calendar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	days := body["days"].([]any)
	if len(days)%7 != 0 {
		t.Errorf("days = %d, want full weeks", len(days))
	}
	var fullBooked bool
	for _, d := range days {
		dm := d.(map[string]any)
		if dm["date"] == "2026-09-04" && dm["is_full_booked"] == true {
			fullBooked = true
		}
	}
	if !fullBooked {
		t.Error("FULL_BOOKED day not flagged")
	}
}

func TestChooseScheduleRejectsMalformedSlot(t *testing.T) {
	h := newTestHandler(t, nil)
	r := gin.New()
	r.POST("/api/schedule/choose", h.ChooseSchedule)

	w := doJSON(t, r, http.MethodPost, "/api/schedule/choose",
		`{"request_id":"r1","email":"a@b.c","request_time_1":"sometime tomorrow"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

func TestIntakeSubmitClearsDraft(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/analyze": `[{"code":"ANALYSIS_QUEUED"}]`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/intake/submit", h.IntakeSubmit)
	r.GET("/api/intake/draft", h.DraftGet)

	h.Drafts.Save(context.Background(), "a@b.c", intake.Draft{ActiveStep: intake.StepReview})

	w := doJSON(t, r, http.MethodPost, "/api/intake/submit",
		`{"record":{"email":"a@b.c","request_id":"r1","chat_history":[{"role":"ai","content":"안녕하세요"}]}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/intake/draft?email=a%40b.c", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("draft after submit = %d, want 404", w.Code)
	}
}

func TestConfirmScheduleRejectsLunchDrop(t *testing.T) {
	h := newTestHandler(t, nil)
	r := gin.New()
	r.POST("/api/manager/schedule/confirm", h.ConfirmSchedule)

	w := doJSON(t, r, http.MethodPost, "/api/manager/schedule/confirm",
		`{"manager_email":"m@opcl.kr","requests":[{"request_id":"r1","name":"김하늘"}],"placements":{"r1":"2026-09-07 12:00"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

func TestConfirmScheduleRelaysBatch(t *testing.T) {
	n8n := upstream(t, map[string]string{
		"/confirm": `[{"confirmed_list":[{"request_id":"r1","confirmed_datetime":"2026-09-07 09:00"}]}]`,
	})
	h := newTestHandler(t, n8n)
	r := gin.New()
	r.POST("/api/manager/schedule/confirm", h.ConfirmSchedule)

	w := doJSON(t, r, http.MethodPost, "/api/manager/schedule/confirm",
		`{"manager_email":"m@opcl.kr","requests":[{"request_id":"r1","name":"김하늘"}],"placements":{"r1":"2026-09-07 9:00"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	list := decodeBody(t, w)["confirmed_list"].([]any)
	if len(list) != 1 {
		t.Errorf("confirmed_list = %v", list)
	}
}

func TestSTTMissingFileIs400(t *testing.T) {
	h := newTestHandler(t, nil)
	h.AI = &genai.Client{APIKey: "test", Model: "gemini-2.0-flash"}
	r := gin.New()
	r.POST("/api/stt", h.STT)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()
	req, _ := http.NewRequest(http.MethodPost, "/api/stt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if decodeBody(t, w)["error"] != "오디오 파일이 필요합니다." {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestChatRouteReturnsOutput(t *testing.T) {
	gemini := upstream(t, map[string]string{
		"/models/gemini-2.0-flash:generateContent": `{"candidates":[{"content":{"role":"model","parts":[{"text":"반가워요!"}]}}]}`,
	})
	h := newTestHandler(t, nil)
	h.AI = &genai.Client{
		APIKey:     "test",
		Model:      "gemini-2.0-flash",
		BaseURL:    gemini.URL,
		HTTPClient: gemini.Client(),
	}
	r := gin.New()
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat",
		`{"message":"안녕하세요","history":[],"userProfile":{"name":"김하늘","age":"24"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["output"] != "반가워요!" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestChatRouteFailureIs500WithKoreanMessage(t *testing.T) {
	gemini := upstream(t, map[string]string{}) // every path 404s
	h := newTestHandler(t, nil)
	h.AI = &genai.Client{
		APIKey:     "test",
		Model:      "gemini-2.0-flash",
		BaseURL:    gemini.URL,
		HTTPClient: gemini.Client(),
	}
	r := gin.New()
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"안녕하세요"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	errMsg, _ := decodeBody(t, w)["error"].(string)
	if !strings.HasPrefix(errMsg, "AI 응답을 생성하는 도중 문제가 발생했습니다. (") {
		t.Errorf("error = %q", errMsg)
	}
}
