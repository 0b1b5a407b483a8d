package diarize

// Pitch detection over a byte-frequency analyser frame (0–255 energy per
// bin). The scanned sub-band approximates the human voice fundamental
// range: the lowest 5 bins are skipped and only the first fifth of the
// spectrum is considered (a coarse proxy for 85–800 Hz at typical capture
// rates).
const (
	noiseGate  = 85
	minBin     = 5
	MinVoiceHz = 85
	MaxVoiceHz = 1000
)

// DetectPitch finds the dominant voice-band frequency in a frequency-domain
// frame. Returns 0 when the peak energy does not clear the noise gate or
// the converted frequency falls outside the plausible voice band.
func DetectPitch(freqFrame []byte, sampleRate, fftSize int) float64 {
	if len(freqFrame) == 0 || sampleRate <= 0 || fftSize <= 0 {
		return 0
	}

	maxEnergy := byte(0)
	maxIdx := 0
	for i := minBin; i < len(freqFrame)/5; i++ {
		if freqFrame[i] > maxEnergy {
			maxEnergy = freqFrame[i]
			maxIdx = i
		}
	}
	if maxEnergy <= noiseGate {
		return 0
	}

	pitch := float64(maxIdx) * float64(sampleRate) / float64(fftSize)
	if pitch < MinVoiceHz || pitch > MaxVoiceHz {
		return 0
	}
	return pitch
}
