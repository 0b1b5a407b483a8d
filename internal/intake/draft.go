package intake

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/opcl/backend/internal/cache"
	"github.com/opcl/backend/internal/models"
)

// DraftTTL bounds how long an unfinished intake survives. A stale draft is
// discarded rather than restored.
const DraftTTL = 24 * time.Hour

// ErrNoDraft is returned when no restorable draft exists for the user.
var ErrNoDraft = errors.New("intake: no draft")

// Draft is the resumable wizard state for one applicant.
type Draft struct {
	Data         models.IntakeRecord `json:"data"`
	ActiveStep   string              `json:"active_step"`
	Completed    []string            `json:"completed"`
	ChatFinished bool                `json:"chat_finished"`
	SavedAt      time.Time           `json:"saved_at"`
}

// DraftStore persists wizard drafts in the ephemeral cache, keyed by the
// applicant's email. Losing a draft only costs re-entry; the backend holds
// everything submitted so far.
type DraftStore struct {
	Cache cache.Store
	Now   func() time.Time
}

func NewDraftStore(c cache.Store) *DraftStore {
	return &DraftStore{Cache: c, Now: time.Now}
}

func draftKey(email string) string {
	return "intake:draft:" + email
}

// Save stamps and stores the draft.
func (d *DraftStore) Save(ctx context.Context, email string, draft Draft) error {
	draft.SavedAt = d.Now()
	b, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return d.Cache.Set(ctx, draftKey(email), b, DraftTTL)
}

// Load restores a draft. A draft older than DraftTTL, or one whose chat
// already finished, is discarded instead of restored: a finished chat means
// the applicant was at the review step and should start over rather than
// resume a half-submitted state.
func (d *DraftStore) Load(ctx context.Context, email string) (Draft, error) {
	b, err := d.Cache.Get(ctx, draftKey(email))
	if errors.Is(err, cache.ErrNotFound) {
		return Draft{}, ErrNoDraft
	}
	if err != nil {
		return Draft{}, err
	}

	var draft Draft
	if err := json.Unmarshal(b, &draft); err != nil {
		_ = d.Cache.Del(ctx, draftKey(email))
		return Draft{}, ErrNoDraft
	}
	if d.Now().Sub(draft.SavedAt) > DraftTTL || draft.ChatFinished {
		_ = d.Cache.Del(ctx, draftKey(email))
		return Draft{}, ErrNoDraft
	}
	return draft, nil
}

// Clear drops the draft, called after a successful final submission.
func (d *DraftStore) Clear(ctx context.Context, email string) error {
	return d.Cache.Del(ctx, draftKey(email))
}

// MergePatch overlays a server data patch onto an intake record, matching
// keys by their wire names.
func MergePatch(rec models.IntakeRecord, patch map[string]any) models.IntakeRecord {
	if len(patch) == 0 {
		return rec
	}
	b, _ := json.Marshal(rec)
	m := map[string]any{}
	_ = json.Unmarshal(b, &m)
	for k, v := range patch {
		m[k] = v
	}
	merged, _ := json.Marshal(m)
	_ = json.Unmarshal(merged, &rec)
	return rec
}
