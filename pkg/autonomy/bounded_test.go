package autonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeantrail/kernel/pkg/contracts"
)

func TestDisabledShortCircuits(t *testing.T) {
	// autonomy_disabled regardless of budget or eligibility.
	for _, e := range []contracts.Eligibility{contracts.EligibilityAllowed, contracts.EligibilityDenied} {
		r := Execute(contracts.ActionSpeak, contracts.DecisionAllow, e, contracts.AutonomyDisabled, 0, 100)
		assert.Equal(t, contracts.ResultAutonomyDisabled, r)
	}
	r := Execute(contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.AutonomyDisabled, 999, 1)
	assert.Equal(t, contracts.ResultAutonomyDisabled, r)
}

func TestManualRejects(t *testing.T) {
	r := Execute(contracts.ActionListen, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.AutonomyManual, 0, 100)
	assert.Equal(t, contracts.ResultRejected, r)
}

func TestBoundedQuota(t *testing.T) {
	r := Execute(contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.AutonomyBounded, 5, 5)
	assert.Equal(t, contracts.ResultQuotaExceeded, r)

	r = Execute(contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.AutonomyBounded, 6, 5)
	assert.Equal(t, contracts.ResultQuotaExceeded, r)
}

func TestBoundedWithinBudgetSurfacesExecutorBlock(t *testing.T) {
	// Budget passes but the symbolic executor blocks everything, so the
	// terminal outcome under bounded autonomy is blocked.
	r := Execute(contracts.ActionSpeak, contracts.DecisionAllow, contracts.EligibilityAllowed, contracts.AutonomyBounded, 0, 5)
	assert.Equal(t, contracts.ResultBlocked, r)
}

func TestCheckBudget(t *testing.T) {
	assert.True(t, CheckBudget(0, 1))
	assert.True(t, CheckBudget(4, 5))
	assert.False(t, CheckBudget(5, 5))
	assert.False(t, CheckBudget(0, 0))
	assert.False(t, CheckBudget(0, -1))
}
