// Package executor is the terminal stage of the governance pipeline. In
// this core it is deliberately symbolic: no action ever reaches a real
// effect. The unconditional blocked fallthrough is the integration seam
// where a real effector must be inserted behind the wiring readiness
// gate; it is a fail-closed boundary, not a bug.
package executor

import "github.com/jeantrail/kernel/pkg/contracts"

// Execute evaluates whether the action could run, and refuses.
//
// Guards, in order: non-symbolic modes are rejected outright, a blocking
// decision is terminal, anything not explicitly eligible is terminal.
// The final fallthrough is also blocked.
func Execute(
	action contracts.Action,
	decision contracts.Decision,
	eligibility contracts.Eligibility,
	mode contracts.ReceiptMode,
) contracts.ExecutionResult {
	_ = action

	if mode != contracts.ReceiptModeSymbolic {
		return contracts.ExecutionBlocked
	}
	if decision == contracts.DecisionBlock {
		return contracts.ExecutionBlocked
	}
	if eligibility != contracts.EligibilityAllowed {
		return contracts.ExecutionBlocked
	}
	return contracts.ExecutionBlocked
}
