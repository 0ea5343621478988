// Package contracts defines the shared closed-set types exchanged between
// the governance pipeline stages. Every value type here is a fixed
// enumeration: policies downstream must never see a value outside these
// sets, and no package other than its producing stage may construct an
// Intent or Decision by hand.
package contracts

// Presence is the agent's current attentional mode. Exactly one value is
// active at a time.
type Presence string

const (
	PresenceIdle       Presence = "idle"
	PresenceObserving  Presence = "observing"
	PresenceResponding Presence = "responding"
)

// Valid reports whether p is one of the three known presence modes.
func (p Presence) Valid() bool {
	switch p {
	case PresenceIdle, PresenceObserving, PresenceResponding:
		return true
	}
	return false
}

// Signals is the raw perceptual input fed to the intent classifier.
// AudioEnergyLevel is clamped to [0,1] by the classifier (NaN maps to 0);
// SilenceDurationMs and SpikeFrequencyHz are floored at 0.
type Signals struct {
	Presence          Presence `json:"presence"`
	AudioEnergyLevel  float64  `json:"audioEnergyLevel"`
	SilenceDurationMs float64  `json:"silenceDurationMs"`
	SpikeFrequencyHz  float64  `json:"spikeFrequencyHz"`
}

// Intent is the classified situational category. Produced only by the
// intent classifier, never hand-constructed downstream.
type Intent string

const (
	IntentUserCalling     Intent = "user_calling"
	IntentUserWaiting     Intent = "user_waiting"
	IntentInterruption    Intent = "interruption"
	IntentBackgroundNoise Intent = "background_noise"
)

// Valid reports whether i is a member of the closed intent set.
func (i Intent) Valid() bool {
	switch i {
	case IntentUserCalling, IntentUserWaiting, IntentInterruption, IntentBackgroundNoise:
		return true
	}
	return false
}

// Decision is the outcome of policy evaluation gating whether any action
// may be considered at all.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionHold  Decision = "hold"
	DecisionBlock Decision = "block"
)

// Action is a requested agent behavior. Fixed closed set.
type Action string

const (
	ActionSpeak   Action = "speak"
	ActionListen  Action = "listen"
	ActionAnimate Action = "animate"
	ActionWait    Action = "wait"
	ActionIgnore  Action = "ignore"
)

// Eligibility is the per-action verdict derived from a Decision.
type Eligibility string

const (
	EligibilityAllowed Eligibility = "allowed"
	EligibilityDenied  Eligibility = "denied"
)

// AutonomyMode is the operator-set authority level. Only "bounded" permits
// budgeted automatic execution.
type AutonomyMode string

const (
	AutonomyDisabled AutonomyMode = "disabled"
	AutonomyManual   AutonomyMode = "manual"
	AutonomyBounded  AutonomyMode = "bounded"
)

// AutonomyResult is the terminal outcome of a governed execution attempt.
// These are defined outcomes, not errors (policy denials are values).
type AutonomyResult string

const (
	ResultExecuted         AutonomyResult = "executed"
	ResultRejected         AutonomyResult = "rejected"
	ResultBlocked          AutonomyResult = "blocked"
	ResultQuotaExceeded    AutonomyResult = "quota_exceeded"
	ResultAutonomyDisabled AutonomyResult = "autonomy_disabled"
)

// ExecutionResult is what the controlled executor reports for a single
// action. In this core the executor is symbolic and fail-closed: the only
// value it ever produces is ExecutionBlocked.
type ExecutionResult string

const (
	ExecutionExecuted ExecutionResult = "executed"
	ExecutionBlocked  ExecutionResult = "blocked"
)

// VerificationResult is the outcome of output verification, consumed by
// the wiring readiness gate.
type VerificationResult string

const (
	VerificationPass VerificationResult = "pass"
	VerificationWarn VerificationResult = "warn"
	VerificationFail VerificationResult = "fail"
)
