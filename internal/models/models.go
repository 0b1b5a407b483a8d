package models

import "time"

// User is the session identity returned by the login webhook. The
// authoritative record lives behind the automation backend; this is a
// transient mirror.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// ChatMessage is one turn of the intake AI chat. Role is "user" or "ai" on
// the wire to the chat proxy, "user" or "assistant" toward the analysis
// webhook.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IntakeRecord is the applicant-facing multi-step form state. Field names
// match the automation backend contract and must not be renamed.
type IntakeRecord struct {
	RequestID    string `json:"request_id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash,omitempty"`

	Name                    string   `json:"name"`
	Age                     string   `json:"age"`
	Gender                  string   `json:"gender"`
	RegionalLocalGovernment string   `json:"regional_local_government"`
	BasicLocalGovernment    string   `json:"basic_local_government"`
	JobStatus               string   `json:"job_status"`
	IncomeLevel             string   `json:"income_level"`
	InterestAreas           []string `json:"interest_areas"`
	SpecialNotes            []string `json:"special_notes"`
	BenefitedPolicy         string   `json:"benefited_policy"`

	RequestTime1      string `json:"request_time_1"`
	RequestTime2      string `json:"request_time_2"`
	RequestTime3      string `json:"request_time_3"`
	PreferredMethod   string `json:"preferred_method"`
	PreferredLocation string `json:"preferred_location"`

	ChatHistory []ChatMessage `json:"chat_history,omitempty"`
}

// WorkInfo is the counseling center's working-hours snapshot from the
// calendar webhook. Hours are whole-hour values.
type WorkInfo struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Lunch int `json:"lunch"`
}

// DaySlot is one cell of the 2-week booking calendar, recomputed from the
// fetched work-hours/booked-slots snapshot plus the static holiday table.
type DaySlot struct {
	Date         string   `json:"date"`
	DayOfWeek    string   `json:"day_of_week"`
	DayOfWeekNum int      `json:"day_of_week_num"`
	Times        []string `json:"times"`
	IsWeekend    bool     `json:"is_weekend"`
	IsFullBooked bool     `json:"is_full_booked"`
	IsInRange    bool     `json:"is_in_range"`
	IsHoliday    bool     `json:"is_holiday"`
	HolidayName  string   `json:"holiday_name,omitempty"`
}

// TimeOption is one ranked preference attached to an analyzed request.
type TimeOption struct {
	P      int    `json:"p"`
	Time   string `json:"time"`
	IsBusy bool   `json:"is_busy"`
}

// Recommendation is the server-computed placement suggestion for a request.
type Recommendation struct {
	Status            string `json:"status"` // auto_assigned | manual_required
	SuggestedTime     string `json:"suggested_time"`
	SuggestedPriority int    `json:"suggested_priority"`
}

// AnalyzedRequest is a pending applicant on the manager dashboard, with the
// weight score and recommendation computed by the automation backend.
type AnalyzedRequest struct {
	RequestID         string         `json:"request_id"`
	Name              string         `json:"name"`
	WeightScore       float64        `json:"weight_score"`
	PreferredMethod   string         `json:"preferred_method,omitempty"`
	PreferredLocation string         `json:"preferred_location,omitempty"`
	Options           []TimeOption   `json:"options"`
	Recommendation    Recommendation `json:"recommendation"`
}

// CalendarEvent is a pre-existing external calendar entry blocking grid
// cells during manual assignment.
type CalendarEvent struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Assignment is one confirmed drag-and-drop placement, submitted in a single
// batch on confirm.
type Assignment struct {
	RequestID         string `json:"request_id"`
	Name              string `json:"name"`
	AssignedTime      string `json:"assigned_time"`
	Title             string `json:"title"`
	ConfirmedMethod   string `json:"confirmed_method"`
	ConfirmedLocation string `json:"confirmed_location"`
}

// DashboardSummary is the manager dashboard header data.
type DashboardSummary struct {
	TotalPending      int `json:"total_pending"`
	AutoAssignedCount int `json:"auto_assigned_count"`
}
