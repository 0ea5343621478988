// Package action derives per-action eligibility from the upstream
// decision. The fallthrough is denial: a decision value the policy does
// not recognize never proceeds.
package action

import "github.com/jeantrail/kernel/pkg/contracts"

// Eligibility applies the eligibility rules.
//
// hold is asymmetric: while the agent is uncertain it may keep perceiving
// (listen, wait, animate, ignore) but must not address the user (speak).
// Presence is accepted for future discrimination; none of the current
// branches read it (it is already fully captured upstream via Decision).
func Eligibility(action contracts.Action, decision contracts.Decision, presence contracts.Presence) contracts.Eligibility {
	_ = presence

	switch decision {
	case contracts.DecisionBlock:
		return contracts.EligibilityDenied
	case contracts.DecisionHold:
		if action == contracts.ActionSpeak {
			return contracts.EligibilityDenied
		}
		return contracts.EligibilityAllowed
	case contracts.DecisionAllow:
		return contracts.EligibilityAllowed
	}
	return contracts.EligibilityDenied
}
