// Package decision evaluates whether the agent may consider acting at
// all. The policy is a pure ordered-guard function: first matching guard
// wins, no hidden state, no side effects. Thought aggregates are supplied
// by the caller (computed from the thought store), never read here.
package decision

import "github.com/jeantrail/kernel/pkg/contracts"

// MinConfidence is the pending-thought average below which the agent
// holds rather than acts.
const MinConfidence = 0.4

// Input carries everything the policy discriminates on. Intent arrives as
// a plain string on the wire; values outside the closed intent set simply
// fail to match the background-noise guard and fall through to allow or
// an earlier hold.
type Input struct {
	Intent        string             `json:"intent"`
	ThoughtsCount int                `json:"thoughtsCount"`
	AvgConfidence float64            `json:"avgConfidence"`
	Presence      contracts.Presence `json:"presence"`
}

// Evaluate applies the ordered guards.
func Evaluate(in Input) contracts.Decision {
	if in.Presence == contracts.PresenceIdle {
		return contracts.DecisionHold
	}
	if in.ThoughtsCount == 0 {
		return contracts.DecisionHold
	}
	if in.AvgConfidence < MinConfidence {
		return contracts.DecisionHold
	}
	if in.Intent == string(contracts.IntentBackgroundNoise) {
		return contracts.DecisionBlock
	}
	return contracts.DecisionAllow
}
