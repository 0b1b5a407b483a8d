package schedule

import (
	"fmt"
	"regexp"
)

// RankCount is the number of preferred time slots an applicant picks.
const RankCount = 3

var slotFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)

// RankedSlots collects up to three preferred "YYYY-MM-DD HH:MM" slots in
// priority order. The zero value is ready to use.
type RankedSlots struct {
	slots [RankCount]string
}

// Toggle records slot at the next free rank, or clears it when the same
// slot is already ranked. Returns false when all ranks are taken or the
// slot is already ranked elsewhere at a different position being re-added.
func (r *RankedSlots) Toggle(slot string) bool {
	for i, s := range r.slots {
		if s == slot {
			// Deselect and shift later picks up a rank.
			copy(r.slots[i:], r.slots[i+1:])
			r.slots[RankCount-1] = ""
			return true
		}
	}
	for i, s := range r.slots {
		if s == "" {
			r.slots[i] = slot
			return true
		}
	}
	return false
}

// Rank returns the 1-based priority of slot, or 0 when unranked.
func (r *RankedSlots) Rank(slot string) int {
	for i, s := range r.slots {
		if s == slot {
			return i + 1
		}
	}
	return 0
}

// Complete reports whether all three ranks are filled.
func (r *RankedSlots) Complete() bool {
	for _, s := range r.slots {
		if s == "" {
			return false
		}
	}
	return true
}

// Slots returns the ranked slots in priority order, validating the slot
// format. Each slot appears at most once by construction.
func (r *RankedSlots) Slots() ([]string, error) {
	out := make([]string, 0, RankCount)
	for i, s := range r.slots {
		if s == "" {
			continue
		}
		if !slotFormat.MatchString(s) {
			return nil, fmt.Errorf("rank %d: malformed slot %q", i+1, s)
		}
		out = append(out, s)
	}
	return out, nil
}
