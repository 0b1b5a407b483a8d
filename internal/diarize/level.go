package diarize

import "math"

// Level constants for the visual input meter. The meter is independent of
// diarization; it only drives the UI level indicator.
const (
	levelScale  = 500
	levelMax    = 100
	emaPrevious = 0.7
	emaCurrent  = 0.3

	MinGain = 1.0
	MaxGain = 10.0
)

// LevelMeter converts time-domain audio frames into a smoothed 0–100 volume
// level. Frames are unsigned bytes centered on 128, as produced by a
// byte-time-domain analyser. An adjustable linear gain stage is applied
// upstream of the RMS computation.
type LevelMeter struct {
	gain  float64
	level float64
}

func NewLevelMeter() *LevelMeter {
	return &LevelMeter{gain: MinGain}
}

// SetGain clamps gain into [1, 10].
func (m *LevelMeter) SetGain(gain float64) {
	m.gain = math.Min(math.Max(gain, MinGain), MaxGain)
}

func (m *LevelMeter) Gain() float64 { return m.gain }

// Update computes the RMS amplitude of frame, normalized per sample into
// [-1, 1], scales it into [0, 100], and folds it into the exponential
// moving average (0.7 previous / 0.3 new). Returns the smoothed level.
func (m *LevelMeter) Update(frame []byte) float64 {
	if len(frame) == 0 {
		return m.level
	}
	var squares float64
	for _, b := range frame {
		normalized := (float64(b) - 128) / 128 * m.gain
		squares += normalized * normalized
	}
	rms := math.Sqrt(squares / float64(len(frame)))
	level := math.Min(rms*levelScale, levelMax)
	m.level = m.level*emaPrevious + level*emaCurrent
	return m.level
}

// Level returns the current smoothed value without feeding a new frame.
func (m *LevelMeter) Level() float64 { return m.level }
