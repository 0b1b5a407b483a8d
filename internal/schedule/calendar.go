package schedule

import (
	"fmt"
	"time"

	"github.com/opcl/backend/internal/models"
)

// FullBooked is the sentinel the automation backend uses to mark a whole
// day as unavailable.
const FullBooked = "FULL_BOOKED"

const bookingWindowDays = 14

var dayNames = []string{"일", "월", "화", "수", "목", "금", "토"}

// BookedData maps "YYYY-MM-DD" to either the FullBooked sentinel or a list
// of already-booked "HH:MM" times. Raw webhook payloads decode into
// map[string]any; Normalize handles that.
type BookedData map[string]any

// BookedTimes returns the per-time bookings for a date, ignoring the
// full-day sentinel.
func (b BookedData) BookedTimes(date string) []string {
	v, ok := b[date]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (b BookedData) isFullBooked(date string) bool {
	s, ok := b[date].(string)
	return ok && s == FullBooked
}

// BuildCalendar produces the 2-week booking calendar as seen from now. The
// bookable range starts tomorrow and spans exactly 14 calendar days; the
// produced grid is padded out to complete Sunday–Saturday weeks. A day is
// marked full-booked when it is a holiday or the backend sent the
// FULL_BOOKED sentinel for it.
func BuildCalendar(now time.Time, work models.WorkInfo, booked BookedData, holidays map[string]string) []models.DaySlot {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	rangeEnd := tomorrow.AddDate(0, 0, bookingWindowDays-1)

	calStart := tomorrow.AddDate(0, 0, -int(tomorrow.Weekday()))
	calEnd := rangeEnd.AddDate(0, 0, int(time.Saturday-rangeEnd.Weekday()))

	times := daySlots(work)

	var days []models.DaySlot
	for d := calStart; !d.After(calEnd); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		dow := int(d.Weekday())
		holidayName, isHoliday := holidays[dateStr]

		days = append(days, models.DaySlot{
			Date:         dateStr,
			DayOfWeek:    dayNames[dow],
			DayOfWeekNum: dow,
			Times:        times,
			IsWeekend:    dow == 0 || dow == 6,
			IsFullBooked: isHoliday || booked.isFullBooked(dateStr),
			IsInRange:    !d.Before(tomorrow) && !d.After(rangeEnd),
			IsHoliday:    isHoliday,
			HolidayName:  holidayName,
		})
	}
	return days
}

// daySlots generates the whole-hour time slots of a working day, skipping
// the lunch hour.
func daySlots(work models.WorkInfo) []string {
	var times []string
	for hour := work.Start; hour < work.End; hour++ {
		if hour == work.Lunch {
			continue
		}
		times = append(times, fmt.Sprintf("%02d:00", hour))
	}
	return times
}

// Weeks groups a calendar into rows of seven days for rendering.
func Weeks(days []models.DaySlot) [][]models.DaySlot {
	var weeks [][]models.DaySlot
	for i := 0; i < len(days); i += 7 {
		end := i + 7
		if end > len(days) {
			end = len(days)
		}
		weeks = append(weeks, days[i:end])
	}
	return weeks
}
