// Package assign implements the manager's weekly assignment grid: pending
// applicants are dropped onto time slots, with local eligibility checks
// before the whole map is confirmed in one batch.
package assign

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/opcl/backend/internal/models"
)

const (
	slotLayout = "2006-01-02 15:04"
	lunchHour  = 12
)

var (
	ErrLunchHour = errors.New("assign: slot is the lunch hour")
	ErrWeekend   = errors.New("assign: slot falls on a weekend")
	ErrOccupied  = errors.New("assign: slot blocked by an existing calendar event")
)

// Board holds the in-progress assignment map for one confirmation round.
// Placements are keyed by applicant request_id, so an applicant holds at
// most one slot. The keying does not prevent two applicants from resolving
// to the same slot; the automation backend is expected to validate that on
// confirm.
type Board struct {
	loc        *time.Location
	events     map[string]string // "YYYY-MM-DD HH:MM" -> event title
	placements map[string]models.Assignment
}

// NewBoard indexes the pre-existing external calendar events by the hour
// slots they cover.
func NewBoard(events []models.CalendarEvent, loc *time.Location) *Board {
	if loc == nil {
		loc = time.Local
	}
	b := &Board{
		loc:        loc,
		events:     make(map[string]string),
		placements: make(map[string]models.Assignment),
	}
	for _, ev := range events {
		start := ev.Start.In(loc).Truncate(time.Hour)
		for t := start; t.Before(ev.End.In(loc)); t = t.Add(time.Hour) {
			b.events[t.Format(slotLayout)] = ev.Title
		}
	}
	return b
}

// NormalizeSlot zero-pads single-digit hours so "2026-09-03 9:00" and
// "2026-09-03 09:00" key the same cell.
func NormalizeSlot(slot string) string {
	parts := strings.SplitN(slot, " ", 2)
	if len(parts) != 2 {
		return slot
	}
	hm := strings.SplitN(parts[1], ":", 2)
	if len(hm) == 2 && len(hm[0]) == 1 {
		return parts[0] + " 0" + parts[1]
	}
	return slot
}

// checkSlot reports why a cell cannot receive a drop, or nil if eligible.
func (b *Board) checkSlot(slot string) error {
	t, err := time.ParseInLocation(slotLayout, slot, b.loc)
	if err != nil {
		return fmt.Errorf("assign: malformed slot %q: %w", slot, err)
	}
	if t.Hour() == lunchHour {
		return ErrLunchHour
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ErrWeekend
	}
	if _, ok := b.events[slot]; ok {
		return ErrOccupied
	}
	return nil
}

// Drop places an applicant on a slot. An ineligible slot rejects the drop
// and leaves the map unchanged. Re-dropping an already placed applicant
// moves them.
func (b *Board) Drop(req models.AnalyzedRequest, slot string) error {
	slot = NormalizeSlot(slot)
	if err := b.checkSlot(slot); err != nil {
		return err
	}
	b.placements[req.RequestID] = models.Assignment{
		RequestID:         req.RequestID,
		Name:              req.Name,
		AssignedTime:      slot,
		Title:             fmt.Sprintf("%s 상담", req.Name),
		ConfirmedMethod:   req.PreferredMethod,
		ConfirmedLocation: req.PreferredLocation,
	}
	return nil
}

// Seed pre-places every auto_assigned recommendation whose suggested slot
// is eligible. Conflicting recommendations stay in the unassigned pool;
// their ids are returned so the caller can log or surface them.
func (b *Board) Seed(requests []models.AnalyzedRequest) (dropped []string) {
	for _, req := range requests {
		if req.Recommendation.Status != "auto_assigned" || req.Recommendation.SuggestedTime == "" {
			continue
		}
		if err := b.Drop(req, req.Recommendation.SuggestedTime); err != nil {
			dropped = append(dropped, req.RequestID)
		}
	}
	return dropped
}

// Remove returns an applicant to the unassigned pool.
func (b *Board) Remove(requestID string) {
	delete(b.placements, requestID)
}

// Assigned reports the slot an applicant currently holds, if any.
func (b *Board) Assigned(requestID string) (string, bool) {
	a, ok := b.placements[requestID]
	return a.AssignedTime, ok
}

// Assignments returns the current placements ordered by slot then id.
func (b *Board) Assignments() []models.Assignment {
	out := make([]models.Assignment, 0, len(b.placements))
	for _, a := range b.placements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssignedTime != out[j].AssignedTime {
			return out[i].AssignedTime < out[j].AssignedTime
		}
		return out[i].RequestID < out[j].RequestID
	})
	return out
}

// ConfirmPayload is the single batch body posted to the schedule-confirm
// webhook.
func (b *Board) ConfirmPayload(managerEmail string, now time.Time) map[string]any {
	return map[string]any{
		"manager_email": managerEmail,
		"assignments":   b.Assignments(),
		"timestamp":     now.Format(time.RFC3339),
	}
}
