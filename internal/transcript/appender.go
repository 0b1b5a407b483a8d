package transcript

import (
	"strings"

	"github.com/opcl/backend/internal/diarize"
)

// Speaker labels used in the live transcript and in the STT output format.
const (
	CounselorLabel = "[상담사]"
	ClientLabel    = "[내담자]"
)

func labelFor(s diarize.Speaker) string {
	if s == diarize.Client {
		return ClientLabel
	}
	return CounselorLabel
}

// Appender accumulates finalized speech-recognition text. When labeling is
// enabled, each finalized utterance is prefixed with the current speaker's
// bracketed label; consecutive same-speaker utterances merge onto one
// paragraph and a speaker change starts a new one.
type Appender struct {
	useLabels bool
	text      string
}

func NewAppender(useLabels bool) *Appender {
	return &Appender{useLabels: useLabels}
}

func (a *Appender) SetUseLabels(enabled bool) { a.useLabels = enabled }

// Append adds one finalized utterance attributed to speaker.
func (a *Appender) Append(speaker diarize.Speaker, finalText string) {
	if finalText == "" {
		return
	}
	if !a.useLabels {
		if a.text == "" {
			a.text = finalText
		} else {
			a.text += " " + finalText
		}
		return
	}

	label := labelFor(speaker)
	lines := splitNonEmptyLines(a.text)
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], label) {
		a.text += " " + finalText
		return
	}
	if a.text == "" {
		a.text = label + " " + finalText
	} else {
		a.text += "\n\n" + label + " " + finalText
	}
}

// Text returns the accumulated transcript.
func (a *Appender) Text() string { return a.text }

// Reset discards everything accumulated so far.
func (a *Appender) Reset() { a.text = "" }

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
