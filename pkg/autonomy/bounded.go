// Package autonomy gates budgeted automatic execution. The gate is
// stateless: the used/limit counters are owned by the caller's session,
// the kernel only evaluates them. No clock, no storage, no hidden state.
package autonomy

import (
	"github.com/jeantrail/kernel/pkg/contracts"
	"github.com/jeantrail/kernel/pkg/executor"
)

// CheckBudget reports whether another automatic execution fits inside the
// session's cap. Limits of zero or less admit nothing.
func CheckBudget(used, limit int) bool {
	return used < limit
}

// Execute runs the autonomy gate and, when it passes, hands the action to
// the controlled executor.
//
// Mode guards come first and short-circuit without consulting eligibility:
// disabled reports autonomy_disabled outright, manual reports rejected
// because a human must act. Bounded mode consumes budget; over budget is
// quota_exceeded, within budget the executor's verdict is surfaced as-is,
// so the symbolic executor's refusal reads as blocked, not rejected.
// These are terminal outcomes, not errors.
func Execute(
	action contracts.Action,
	decision contracts.Decision,
	eligibility contracts.Eligibility,
	mode contracts.AutonomyMode,
	executionCount, executionLimit int,
) contracts.AutonomyResult {
	if mode == contracts.AutonomyDisabled {
		return contracts.ResultAutonomyDisabled
	}
	if mode == contracts.AutonomyManual {
		return contracts.ResultRejected
	}
	if !CheckBudget(executionCount, executionLimit) {
		return contracts.ResultQuotaExceeded
	}
	if executor.Execute(action, decision, eligibility, contracts.ReceiptModeSymbolic) == contracts.ExecutionExecuted {
		return contracts.ResultExecuted
	}
	return contracts.ResultBlocked
}
