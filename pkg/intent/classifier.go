// Package intent classifies raw perceptual signals into a situational
// intent category. Classification is a pure, total function: it never
// fails, and malformed inputs (NaN, out-of-range energy) are recovered by
// clamping rather than propagated as errors.
package intent

import (
	"math"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// Classification thresholds. These are behavioral constants: rule order
// and exact values are significant, first matching branch wins.
const (
	HighEnergy = 0.6
	MidEnergy  = 0.4
	LowEnergy  = 0.2

	ShortSilenceMs = 400.0
	LongSilenceMs  = 1500.0

	HighSpikesHz = 4.0
	MidSpikesHz  = 3.0
)

// Classify maps signals to an intent. Every presence branch ends in a
// defined default, so unmapped signal combinations still classify.
func Classify(s contracts.Signals) contracts.Intent {
	energy := clamp01(s.AudioEnergyLevel)
	silence := math.Max(0, math.Floor(s.SilenceDurationMs))
	spikes := math.Max(0, s.SpikeFrequencyHz)

	switch s.Presence {
	case contracts.PresenceResponding:
		if energy >= HighEnergy && silence < ShortSilenceMs {
			return contracts.IntentUserCalling
		}
		if spikes >= HighSpikesHz {
			return contracts.IntentInterruption
		}
		return contracts.IntentUserCalling

	case contracts.PresenceObserving:
		if spikes >= MidSpikesHz && energy >= MidEnergy {
			return contracts.IntentInterruption
		}
		if silence >= LongSilenceMs && energy <= LowEnergy {
			return contracts.IntentUserWaiting
		}
		return contracts.IntentUserWaiting
	}

	// Idle (and any unknown presence, fail-closed to the quietest branch).
	if energy >= HighEnergy || spikes >= HighSpikesHz {
		return contracts.IntentBackgroundNoise
	}
	if silence >= LongSilenceMs && energy <= LowEnergy {
		return contracts.IntentBackgroundNoise
	}
	return contracts.IntentBackgroundNoise
}

// clamp01 clamps x to [0,1]; NaN maps to 0 so adversarial sensor input
// cannot poison threshold comparisons.
func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp01 exposes the classifier's input normalization for callers that
// need to report the observed (normalized) energy level.
func Clamp01(x float64) float64 { return clamp01(x) }
