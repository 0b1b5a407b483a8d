package diarize

import "time"

// Speaker is the current attributed role of the voice on the microphone.
type Speaker string

const (
	Counselor Speaker = "counselor"
	Client    Speaker = "client"
)

// Hysteresis thresholds over the mean of the sliding pitch window. Means
// between the two bands are an ambiguous dead zone and never trigger a
// switch.
const (
	clientPitchHz   = 200
	counselorHighHz = 150
	counselorLowHz  = MinVoiceHz
	pitchWindowSize = 10
	minSwitchDwell  = 3000 * time.Millisecond
)

// Tracker estimates whether the current speaker is the counselor or the
// client from a stream of accepted pitch samples. Pitch is only a proxy
// signal; the manual path is the actual correctness guarantee and always
// overrides.
type Tracker struct {
	speaker    Speaker
	auto       bool
	history    []float64
	lastSwitch time.Time

	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		speaker: Counselor,
		now:     time.Now,
	}
}

// Speaker returns the current attributed role.
func (t *Tracker) Speaker() Speaker { return t.speaker }

// AutoEnabled reports whether automatic diarization is active.
func (t *Tracker) AutoEnabled() bool { return t.auto }

// SetAuto enables or disables automatic switching. Enabling starts from a
// clean window.
func (t *Tracker) SetAuto(enabled bool) {
	t.auto = enabled
	if enabled {
		t.history = t.history[:0]
	}
}

// SetSpeaker is a manual selection. It always wins: the pitch window is
// reset so stale samples never influence the next decision, and automatic
// mode is disabled for the session until re-enabled.
func (t *Tracker) SetSpeaker(s Speaker) {
	t.speaker = s
	t.auto = false
	t.history = t.history[:0]
	t.lastSwitch = t.now()
}

// Toggle flips the speaker manually.
func (t *Tracker) Toggle() {
	if t.speaker == Counselor {
		t.SetSpeaker(Client)
	} else {
		t.SetSpeaker(Counselor)
	}
}

// Observe feeds one detected pitch sample (Hz; 0 means unknown) and returns
// the possibly-updated speaker. Switching requires automatic mode, a full
// dwell interval since the last switch, and the window mean landing in one
// of the two decision bands.
func (t *Tracker) Observe(pitch float64) Speaker {
	if !t.auto || pitch <= 0 {
		return t.speaker
	}
	if t.now().Sub(t.lastSwitch) < minSwitchDwell {
		return t.speaker
	}

	t.history = append(t.history, pitch)
	if len(t.history) > pitchWindowSize {
		t.history = t.history[1:]
	}
	var sum float64
	for _, p := range t.history {
		sum += p
	}
	avg := sum / float64(len(t.history))

	switch {
	case avg > clientPitchHz && t.speaker != Client:
		t.switchTo(Client)
	case avg >= counselorLowHz && avg <= counselorHighHz && t.speaker != Counselor:
		t.switchTo(Counselor)
	}
	return t.speaker
}

func (t *Tracker) switchTo(s Speaker) {
	t.speaker = s
	t.lastSwitch = t.now()
	t.history = t.history[:0]
}

// WindowLen reports the number of samples currently in the pitch window.
func (t *Tracker) WindowLen() int { return len(t.history) }
