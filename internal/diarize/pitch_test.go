package diarize

import (
	"math"
	"testing"
)

const (
	testSampleRate = 48000
	testFFTSize    = 2048
)

// binFor returns the analyser bin whose center frequency is closest to hz.
func binFor(hz float64) int {
	return int(math.Round(hz * testFFTSize / testSampleRate))
}

func frameWithPeak(bin int, energy byte) []byte {
	frame := make([]byte, testFFTSize/2)
	for i := range frame {
		frame[i] = 20 // background noise floor
	}
	frame[bin] = energy
	return frame
}

func TestDetectPitchFindsDominantBin(t *testing.T) {
	bin := binFor(220)
	frame := frameWithPeak(bin, 200)
	pitch := DetectPitch(frame, testSampleRate, testFFTSize)
	want := float64(bin) * testSampleRate / testFFTSize
	if math.Abs(pitch-want) > 0.01 {
		t.Fatalf("expected pitch %.2f, got %.2f", want, pitch)
	}
}

func TestDetectPitchNoiseGate(t *testing.T) {
	bin := binFor(220)
	if p := DetectPitch(frameWithPeak(bin, 85), testSampleRate, testFFTSize); p != 0 {
		t.Fatalf("peak at gate threshold must be rejected, got %.2f", p)
	}
	if p := DetectPitch(frameWithPeak(bin, 86), testSampleRate, testFFTSize); p == 0 {
		t.Fatalf("peak above gate must be accepted")
	}
}

func TestDetectPitchSkipsLowestBins(t *testing.T) {
	frame := frameWithPeak(2, 255) // below the scanned sub-band
	if p := DetectPitch(frame, testSampleRate, testFFTSize); p != 0 {
		t.Fatalf("bins under the sub-band must be ignored, got %.2f", p)
	}
}

func TestDetectPitchRejectsOutOfVoiceBand(t *testing.T) {
	// Bin 100 is inside the scanned sub-band but converts to ~2344 Hz,
	// far above any plausible voice fundamental.
	if p := DetectPitch(frameWithPeak(100, 200), testSampleRate, testFFTSize); p != 0 {
		t.Fatalf("out-of-band result must be discarded as noise, got %.2f", p)
	}
}

func TestDetectPitchEmptyFrame(t *testing.T) {
	if p := DetectPitch(nil, testSampleRate, testFFTSize); p != 0 {
		t.Fatalf("expected 0 for empty frame, got %.2f", p)
	}
}

func TestLevelMeterRMSAndSmoothing(t *testing.T) {
	m := NewLevelMeter()

	silence := make([]byte, 1024)
	for i := range silence {
		silence[i] = 128
	}
	if lvl := m.Update(silence); lvl != 0 {
		t.Fatalf("silence must read 0, got %.2f", lvl)
	}

	loud := make([]byte, 1024)
	for i := range loud {
		if i%2 == 0 {
			loud[i] = 255
		}
	}
	first := m.Update(loud)
	if first <= 0 || first > 100*emaCurrent+0.01 {
		t.Fatalf("first loud frame must be EMA-damped, got %.2f", first)
	}
	second := m.Update(loud)
	if second <= first {
		t.Fatalf("sustained signal must raise the smoothed level: %.2f -> %.2f", first, second)
	}
}

func TestLevelMeterGainClamp(t *testing.T) {
	m := NewLevelMeter()
	m.SetGain(50)
	if m.Gain() != MaxGain {
		t.Fatalf("gain must clamp to %v, got %v", MaxGain, m.Gain())
	}
	m.SetGain(0)
	if m.Gain() != MinGain {
		t.Fatalf("gain must clamp to %v, got %v", MinGain, m.Gain())
	}
}
