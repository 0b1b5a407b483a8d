package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/opcl/backend/internal/assign"
	"github.com/opcl/backend/internal/dashboard"
	"github.com/opcl/backend/internal/genai"
	"github.com/opcl/backend/internal/intake"
	"github.com/opcl/backend/internal/models"
	"github.com/opcl/backend/internal/schedule"
	"github.com/opcl/backend/internal/session"
	"github.com/opcl/backend/internal/transcript"
	"github.com/opcl/backend/internal/webhook"
)

type Handler struct {
	Sessions  *session.Service
	Intake    *intake.Service
	Drafts    *intake.DraftStore
	Client    *dashboard.ClientService
	Manager   *dashboard.ManagerService
	Relay     *webhook.Relay
	AI        *genai.Client
	Validator *validator.Validate

	CalendarURL string
	ConfirmURL  string

	Logger zerolog.Logger
	Now    func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required", err.Error())
		return
	}

	user, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var ae *session.AuthError
		if errors.As(err, &ae) {
			switch ae.Code {
			case session.CodeUserNotFound:
				writeError(c, http.StatusBadRequest, ae.Code, ae.Message, nil)
			case session.CodeInvalidPassword:
				writeError(c, http.StatusUnauthorized, ae.Code, ae.Message, nil)
			default:
				writeError(c, http.StatusBadGateway, ae.Code, ae.Message, nil)
			}
			return
		}
		writeError(c, http.StatusBadGateway, session.CodeLoginFailed, "로그인에 실패했습니다.", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"user":    user,
		"landing": session.LandingPath(user.Role),
	})
}

// @Summary Sign up a client account
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required", err.Error())
		return
	}

	if err := h.Sessions.Signup(c.Request.Context(), req.Email, req.Password, h.now()); err != nil {
		var ae *session.AuthError
		if errors.As(err, &ae) {
			writeError(c, http.StatusBadGateway, ae.Code, ae.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, session.CodeSignupFailed, "회원가입에 실패했습니다.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type passwordChangeRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// @Summary Change the account password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/profile/password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", passwordValidationMessage(err), err.Error())
		return
	}

	if err := h.Sessions.ChangePassword(c.Request.Context(), req.UserID, req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		var ae *session.AuthError
		if errors.As(err, &ae) {
			writeError(c, http.StatusBadGateway, ae.Code, ae.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, session.CodeUpdateFailed, "비밀번호 변경에 실패했습니다.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "비밀번호가 성공적으로 변경되었습니다."})
}

func passwordValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch {
			case fe.Tag() == "eqfield":
				return "새 비밀번호가 일치하지 않습니다."
			case fe.Field() == "NewPassword" && fe.Tag() == "min":
				return "비밀번호는 최소 4자 이상이어야 합니다."
			}
		}
	}
	return "Validation failed"
}

// @Summary Submit intake step 1
// @Description Relays the basic profile section and merges the backend's data patch
// @Tags intake
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/intake/basic-info [post]
func (h *Handler) IntakeBasicInfo(c *gin.Context) {
	var rec models.IntakeRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed intake record", err.Error())
		return
	}
	if rec.Email == "" || rec.Name == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email and name are required", nil)
		return
	}

	user := models.User{ID: rec.UserID, Email: rec.Email, Role: rec.Role, PasswordHash: rec.PasswordHash}
	patch, err := h.Intake.SubmitBasicInfo(c.Request.Context(), rec, user, h.now())
	if err != nil {
		var se *intake.StepError
		if errors.As(err, &se) {
			writeError(c, http.StatusBadGateway, "STEP_REJECTED", se.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, "STEP_REJECTED", "데이터 전송에 실패했습니다.", nil)
		return
	}

	merged := intake.MergePatch(rec, patch)
	h.saveDraft(c, rec.Email, intake.Draft{
		Data:       merged,
		ActiveStep: intake.StepSchedule,
		Completed:  []string{intake.StepBasicInfo},
	})
	c.JSON(http.StatusOK, gin.H{"status": "success", "record": merged})
}

// @Summary Restore an intake draft
// @Tags intake
// @Produce json
// @Param email query string true "client email"
// @Success 200 {object} intake.Draft
// @Failure 404 {object} map[string]any
// @Router /api/intake/draft [get]
func (h *Handler) DraftGet(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email is required", nil)
		return
	}
	draft, err := h.Drafts.Load(c.Request.Context(), email)
	if err != nil {
		writeError(c, http.StatusNotFound, "NO_DRAFT", "no restorable draft", nil)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type draftPutRequest struct {
	Email string       `json:"email" binding:"required,email"`
	Draft intake.Draft `json:"draft"`
}

func (h *Handler) DraftPut(c *gin.Context) {
	var req draftPutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed draft", err.Error())
		return
	}
	h.saveDraft(c, req.Email, req.Draft)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DraftDelete(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email is required", nil)
		return
	}
	_ = h.Drafts.Clear(c.Request.Context(), email)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) saveDraft(c *gin.Context, email string, draft intake.Draft) {
	if err := h.Drafts.Save(c.Request.Context(), email, draft); err != nil {
		// Draft loss only costs the applicant re-entry.
		h.Logger.Warn().Err(err).Str("email", email).Msg("draft save failed")
	}
}

// @Summary Booking calendar
// @Description Two-week calendar built from the backend's work-hours and booked-slots snapshot
// @Tags intake
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/calendar [get]
func (h *Handler) Calendar(c *gin.Context) {
	res := h.Relay.Post(c.Request.Context(), h.CalendarURL, map[string]any{})
	out := webhook.Decode(res)
	if out.Kind != webhook.KindSuccess {
		writeError(c, http.StatusBadGateway, "CALENDAR_UNAVAILABLE", "일정 정보를 불러오지 못했습니다.", out.Message)
		return
	}

	work := models.WorkInfo{Start: 9, End: 18, Lunch: 12}
	if w, ok := out.Fields["work_info"].(map[string]any); ok {
		work = models.WorkInfo{
			Start: intField(w, "start", work.Start),
			End:   intField(w, "end", work.End),
			Lunch: intField(w, "lunch", work.Lunch),
		}
	}
	booked := schedule.BookedData{}
	if b, ok := out.Fields["booked_data"].(map[string]any); ok {
		booked = schedule.BookedData(b)
	}

	days := schedule.BuildCalendar(h.now(), work, booked, schedule.Holidays2026)
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"work_info": work,
		"days":      days,
		"weeks":     schedule.Weeks(days),
	})
}

type chooseScheduleRequest struct {
	RequestID         string `json:"request_id" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	RequestTime1      string `json:"request_time_1" binding:"required"`
	RequestTime2      string `json:"request_time_2"`
	RequestTime3      string `json:"request_time_3"`
	PreferredMethod   string `json:"preferred_method"`
	PreferredLocation string `json:"preferred_location"`
}

// @Summary Submit ranked schedule preferences
// @Tags intake
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/schedule/choose [post]
func (h *Handler) ChooseSchedule(c *gin.Context) {
	var req chooseScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "first-choice time is required", err.Error())
		return
	}

	var ranks schedule.RankedSlots
	for _, slot := range []string{req.RequestTime1, req.RequestTime2, req.RequestTime3} {
		if slot != "" {
			ranks.Toggle(slot)
		}
	}
	if _, err := ranks.Slots(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SLOT", "시간 형식이 올바르지 않습니다.", err.Error())
		return
	}

	rec := models.IntakeRecord{
		RequestID:         req.RequestID,
		Email:             req.Email,
		RequestTime1:      req.RequestTime1,
		RequestTime2:      req.RequestTime2,
		RequestTime3:      req.RequestTime3,
		PreferredMethod:   req.PreferredMethod,
		PreferredLocation: req.PreferredLocation,
	}
	if err := h.Intake.ChooseSchedule(c.Request.Context(), rec); err != nil {
		var se *intake.StepError
		if errors.As(err, &se) {
			writeError(c, http.StatusBadGateway, "STEP_REJECTED", se.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, "STEP_REJECTED", "일정 저장에 실패했습니다.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type finalSubmitRequest struct {
	Record models.IntakeRecord `json:"record"`
}

// @Summary Final intake submission
// @Description Sends the full intake plus chat transcript for analysis and clears the draft
// @Tags intake
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/intake/submit [post]
func (h *Handler) IntakeSubmit(c *gin.Context) {
	var req finalSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed submission", err.Error())
		return
	}
	rec := req.Record
	if rec.Email == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email is required", nil)
		return
	}

	user := models.User{ID: rec.UserID, Email: rec.Email, Role: rec.Role, PasswordHash: rec.PasswordHash}
	err := h.Intake.FinalSubmit(c.Request.Context(), rec, user, rec.ChatHistory, h.now())
	if err != nil {
		var se *intake.StepError
		if errors.As(err, &se) {
			writeError(c, http.StatusBadGateway, "SUBMIT_REJECTED", se.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, "SUBMIT_REJECTED", "최종 제출에 실패했습니다.", nil)
		return
	}

	_ = h.Drafts.Clear(c.Request.Context(), rec.Email)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type managerDashboardRequest struct {
	ManagerEmail string `json:"manager_email" binding:"required,email"`
}

// @Summary Manager dashboard overview
// @Tags manager
// @Accept json
// @Produce json
// @Success 200 {object} dashboard.Overview
// @Router /api/manager/dashboard [post]
func (h *Handler) ManagerDashboard(c *gin.Context) {
	var req managerDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "manager_email is required", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Manager.Overview(c.Request.Context(), req.ManagerEmail, h.now()))
}

type confirmRequest struct {
	ManagerEmail   string                   `json:"manager_email" binding:"required,email"`
	CalendarEvents []models.CalendarEvent   `json:"calendar_events"`
	Requests       []models.AnalyzedRequest `json:"requests"`
	// Placements maps request_id to the dropped "YYYY-MM-DD HH:MM" slot.
	Placements map[string]string `json:"placements"`
}

// @Summary Confirm weekly assignments
// @Description Validates the drag-and-drop placements and relays them in one batch
// @Tags manager
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/manager/schedule/confirm [post]
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed confirmation", err.Error())
		return
	}

	board := assign.NewBoard(req.CalendarEvents, time.Local)
	seeded := board.Seed(req.Requests)
	if len(seeded) > 0 {
		h.Logger.Info().Strs("request_ids", seeded).Msg("auto recommendations dropped to unassigned pool")
	}
	byID := make(map[string]models.AnalyzedRequest, len(req.Requests))
	for _, r := range req.Requests {
		byID[r.RequestID] = r
	}
	for id, slot := range req.Placements {
		r, ok := byID[id]
		if !ok {
			writeError(c, http.StatusBadRequest, "UNKNOWN_REQUEST", "unknown request id", id)
			return
		}
		if err := board.Drop(r, slot); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_SLOT", "배정할 수 없는 시간입니다.", err.Error())
			return
		}
	}

	res := h.Relay.Post(c.Request.Context(), h.ConfirmURL, board.ConfirmPayload(req.ManagerEmail, h.now()))
	if !res.Success {
		writeError(c, http.StatusBadGateway, "CONFIRM_FAILED", "일정 확정에 실패했습니다.", res.Message)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"confirmed_list": dashboard.ExtractConfirmed(res.Body),
	})
}

type consultationStartRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Email     string `json:"email"`
}

// @Summary Start a consultation session
// @Tags manager
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/consultation/start [post]
func (h *Handler) ConsultationStart(c *gin.Context) {
	var req consultationStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "request_id is required", err.Error())
		return
	}

	detail, err := h.Manager.StartConsultation(c.Request.Context(), req.RequestID, req.Email, h.now())
	if err != nil {
		if de, ok := dashboard.AsDetailError(err); ok {
			writeError(c, de.Status, "CONSULTATION_UNAVAILABLE", de.Message, nil)
			return
		}
		writeError(c, http.StatusBadGateway, "CONSULTATION_UNAVAILABLE", "상담 데이터를 불러오지 못했습니다.", nil)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type consultationSummaryRequest struct {
	RequestID    string `json:"request_id" binding:"required"`
	Email        string `json:"email"`
	UserName     string `json:"user_name"`
	FullText     string `json:"full_text"`
	ManagerNotes string `json:"manager_notes"`
}

// @Summary Submit the end-of-consultation summary
// @Description An empty transcript falls back to the sample script so the report flow still renders
// @Tags manager
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/consultation/summary [post]
func (h *Handler) ConsultationSummary(c *gin.Context) {
	var req consultationSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "request_id is required", err.Error())
		return
	}

	fullText := req.FullText
	if fullText == "" {
		fullText = transcript.FallbackScript
	}

	err := h.Manager.SubmitSummary(c.Request.Context(), dashboard.SummaryInput{
		RequestID:    req.RequestID,
		Email:        req.Email,
		UserName:     req.UserName,
		FullText:     fullText,
		ManagerNotes: req.ManagerNotes,
	}, h.now())
	if err != nil {
		writeError(c, http.StatusBadGateway, "SUMMARY_FAILED", "상담 요약 전송에 실패했습니다.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func intField(m map[string]any, key string, fallback int) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return fallback
}
