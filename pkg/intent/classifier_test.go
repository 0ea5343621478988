package intent

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/jeantrail/kernel/pkg/contracts"
)

func sig(p contracts.Presence, energy, silence, spikes float64) contracts.Signals {
	return contracts.Signals{
		Presence:          p,
		AudioEnergyLevel:  energy,
		SilenceDurationMs: silence,
		SpikeFrequencyHz:  spikes,
	}
}

func TestClassifyResponding(t *testing.T) {
	// High energy + short silence wins over everything else.
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, 0.8, 100, 5.0)))

	// High spike rate when the first rule misses.
	assert.Equal(t, contracts.IntentInterruption,
		Classify(sig(contracts.PresenceResponding, 0.3, 900, 4.5)))

	// Default branch.
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, 0.1, 2000, 0.5)))
}

func TestClassifyObserving(t *testing.T) {
	assert.Equal(t, contracts.IntentInterruption,
		Classify(sig(contracts.PresenceObserving, 0.5, 100, 3.2)))

	assert.Equal(t, contracts.IntentUserWaiting,
		Classify(sig(contracts.PresenceObserving, 0.1, 2000, 0.2)))

	// Default branch.
	assert.Equal(t, contracts.IntentUserWaiting,
		Classify(sig(contracts.PresenceObserving, 0.3, 500, 1.0)))
}

func TestClassifyIdle(t *testing.T) {
	assert.Equal(t, contracts.IntentBackgroundNoise,
		Classify(sig(contracts.PresenceIdle, 0.9, 0, 0)))
	assert.Equal(t, contracts.IntentBackgroundNoise,
		Classify(sig(contracts.PresenceIdle, 0.0, 3000, 0)))
	assert.Equal(t, contracts.IntentBackgroundNoise,
		Classify(sig(contracts.PresenceIdle, 0.3, 500, 1.0)))
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	// Exactly at the high-energy threshold counts as high.
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, 0.6, 399, 0)))
	// Silence exactly at the short-silence boundary misses the first rule.
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, 0.6, 400, 0)))
	assert.Equal(t, contracts.IntentInterruption,
		Classify(sig(contracts.PresenceResponding, 0.6, 400, 4.0)))
}

func TestClassifyMalformedSignals(t *testing.T) {
	// NaN energy is observed as 0, never panics.
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, math.NaN(), 100, 0)))
	// Negative silence and spikes floor at zero.
	assert.Equal(t, contracts.IntentBackgroundNoise,
		Classify(sig(contracts.PresenceIdle, -3.0, -500, -1.0)))
	// Energy above 1 clamps to 1 (still high energy).
	assert.Equal(t, contracts.IntentUserCalling,
		Classify(sig(contracts.PresenceResponding, 42.0, 0, 0)))
}

func TestClassifyUnknownPresenceFailsClosed(t *testing.T) {
	assert.Equal(t, contracts.IntentBackgroundNoise,
		Classify(sig(contracts.Presence("asleep"), 0.9, 0, 9)))
}

// Property: the observed energy is always within [0,1], including NaN and
// infinities, and the classifier always yields a member of the closed set.
func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("clamp is total and bounded", prop.ForAll(
		func(x float64) bool {
			c := Clamp01(x)
			return c >= 0 && c <= 1
		},
		gen.Float64(),
	))

	presences := []contracts.Presence{
		contracts.PresenceIdle, contracts.PresenceObserving, contracts.PresenceResponding,
	}
	properties.Property("classification is total over the closed set", prop.ForAll(
		func(pIdx int, energy, silence, spikes float64) bool {
			p := presences[((pIdx%3)+3)%3]
			out := Classify(sig(p, energy, silence, spikes))
			return out.Valid()
		},
		gen.Int(),
		gen.Float64(),
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

func TestClampNaN(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
	assert.Equal(t, 1.0, Clamp01(math.Inf(1)))
	assert.Equal(t, 0.0, Clamp01(math.Inf(-1)))
}
