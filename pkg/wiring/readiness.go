// Package wiring decides whether an execution graph may ever be armed
// with real effectors. Unlike the sequential pipeline policies, the
// readiness gate is conjunctive and order-independent: every predicate
// must pass, and any single failing input blocks wiring.
package wiring

import "github.com/jeantrail/kernel/pkg/contracts"

// ReadinessState is the full set of facts the gate consults. BudgetOK is
// a tri-state: nil (unknown) is acceptable, only an explicit false blocks.
type ReadinessState struct {
	Verification contracts.VerificationResult `json:"verification"`
	Autonomy     contracts.AutonomyMode       `json:"autonomy"`
	Decision     contracts.Decision           `json:"decision"`
	Eligibility  contracts.Eligibility        `json:"eligibility"`
	BudgetOK     *bool                        `json:"budgetOk,omitempty"`
}

// AllowWiring is the verification/autonomy sub-gate: only verified output
// under bounded autonomy may be wired at all.
func AllowWiring(verification contracts.VerificationResult, autonomy contracts.AutonomyMode) bool {
	if verification != contracts.VerificationPass {
		return false
	}
	if autonomy != contracts.AutonomyBounded {
		return false
	}
	return true
}

// IsReadyForExecution reports whether the graph may be wired to real
// effectors.
func IsReadyForExecution(state ReadinessState) bool {
	if !AllowWiring(state.Verification, state.Autonomy) {
		return false
	}
	if state.Decision != contracts.DecisionAllow {
		return false
	}
	if state.Eligibility != contracts.EligibilityAllowed {
		return false
	}
	if state.BudgetOK != nil && !*state.BudgetOK {
		return false
	}
	return true
}
