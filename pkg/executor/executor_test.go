package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeantrail/kernel/pkg/contracts"
)

var allActions = []contracts.Action{
	contracts.ActionSpeak, contracts.ActionListen, contracts.ActionAnimate,
	contracts.ActionWait, contracts.ActionIgnore,
}

// Regression: the symbolic executor never returns anything but blocked,
// for every input combination. A future real-effector integration must go
// behind the wiring readiness gate, not through here.
func TestExecutorAlwaysBlocks(t *testing.T) {
	decisions := []contracts.Decision{contracts.DecisionAllow, contracts.DecisionHold, contracts.DecisionBlock}
	eligibilities := []contracts.Eligibility{contracts.EligibilityAllowed, contracts.EligibilityDenied}
	modes := []contracts.ReceiptMode{contracts.ReceiptModeSymbolic, contracts.ReceiptModeReal, contracts.ReceiptMode("shadow")}

	for _, a := range allActions {
		for _, d := range decisions {
			for _, e := range eligibilities {
				for _, m := range modes {
					assert.Equal(t, contracts.ExecutionBlocked, Execute(a, d, e, m),
						"action=%s decision=%s eligibility=%s mode=%s", a, d, e, m)
				}
			}
		}
	}
}

func TestNonSymbolicModeBlocked(t *testing.T) {
	assert.Equal(t, contracts.ExecutionBlocked,
		Execute(contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.ReceiptModeReal))
}

func TestReceiptIDsMonotonicallyUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		r := NewReceipt(contracts.ReceiptModeSymbolic, contracts.ReceiptStatusBlocked, ReceiptOptions{})
		require.False(t, seen[r.ID], "duplicate receipt id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestExecuteWithReceipt(t *testing.T) {
	result, receipt := ExecuteWithReceipt(
		contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.ReceiptModeSymbolic)

	assert.Equal(t, contracts.ExecutionBlocked, result)
	assert.Equal(t, contracts.ReceiptModeSymbolic, receipt.Mode)
	assert.Equal(t, contracts.ReceiptStatusBlocked, receipt.Status)
	assert.Equal(t, contracts.ActionSpeak, receipt.Action)
	assert.False(t, receipt.Reversible)
	assert.False(t, receipt.Timestamp.IsZero())
}
