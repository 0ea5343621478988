package wiring

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/jeantrail/kernel/pkg/contracts"
)

func boolPtr(b bool) *bool { return &b }

func readyState() ReadinessState {
	return ReadinessState{
		Verification: contracts.VerificationPass,
		Autonomy:     contracts.AutonomyBounded,
		Decision:     contracts.DecisionAllow,
		Eligibility:  contracts.EligibilityAllowed,
		BudgetOK:     boolPtr(true),
	}
}

func TestFullyReady(t *testing.T) {
	assert.True(t, IsReadyForExecution(readyState()))
}

func TestAbsentBudgetIsAcceptable(t *testing.T) {
	s := readyState()
	s.BudgetOK = nil
	assert.True(t, IsReadyForExecution(s))
}

// Pairwise mutation: flipping any single input to a failing value makes
// the gate false.
func TestSingleMutationBlocks(t *testing.T) {
	mutations := map[string]func(*ReadinessState){
		"verification warn":  func(s *ReadinessState) { s.Verification = contracts.VerificationWarn },
		"verification fail":  func(s *ReadinessState) { s.Verification = contracts.VerificationFail },
		"autonomy disabled":  func(s *ReadinessState) { s.Autonomy = contracts.AutonomyDisabled },
		"autonomy manual":    func(s *ReadinessState) { s.Autonomy = contracts.AutonomyManual },
		"decision hold":      func(s *ReadinessState) { s.Decision = contracts.DecisionHold },
		"decision block":     func(s *ReadinessState) { s.Decision = contracts.DecisionBlock },
		"eligibility denied": func(s *ReadinessState) { s.Eligibility = contracts.EligibilityDenied },
		"budget exhausted":   func(s *ReadinessState) { s.BudgetOK = boolPtr(false) },
	}
	for name, mutate := range mutations {
		s := readyState()
		mutate(&s)
		assert.False(t, IsReadyForExecution(s), "mutation %q should block wiring", name)
	}
}

func TestAllowWiring(t *testing.T) {
	assert.True(t, AllowWiring(contracts.VerificationPass, contracts.AutonomyBounded))
	assert.False(t, AllowWiring(contracts.VerificationWarn, contracts.AutonomyBounded))
	assert.False(t, AllowWiring(contracts.VerificationPass, contracts.AutonomyManual))
	assert.False(t, AllowWiring(contracts.VerificationFail, contracts.AutonomyDisabled))
}

func TestApplyVerificationPolicy(t *testing.T) {
	assert.Equal(t, PolicyTrust, ApplyVerificationPolicy(contracts.VerificationPass))
	assert.Equal(t, PolicyRework, ApplyVerificationPolicy(contracts.VerificationWarn))
	assert.Equal(t, PolicyRefuse, ApplyVerificationPolicy(contracts.VerificationFail))
	assert.Equal(t, PolicyRefuse, ApplyVerificationPolicy(contracts.VerificationResult("unknown")))
}

// Property: readiness equals the explicit conjunction of its predicates
// for arbitrary combinations of inputs.
func TestReadinessConjunctionProperty(t *testing.T) {
	verifications := []contracts.VerificationResult{
		contracts.VerificationPass, contracts.VerificationWarn, contracts.VerificationFail,
	}
	autonomies := []contracts.AutonomyMode{
		contracts.AutonomyDisabled, contracts.AutonomyManual, contracts.AutonomyBounded,
	}
	decisions := []contracts.Decision{
		contracts.DecisionAllow, contracts.DecisionHold, contracts.DecisionBlock,
	}
	eligibilities := []contracts.Eligibility{
		contracts.EligibilityAllowed, contracts.EligibilityDenied,
	}
	budgets := []*bool{nil, boolPtr(true), boolPtr(false)}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("conjunctive and order-independent", prop.ForAll(
		func(vi, ai, di, ei, bi int) bool {
			s := ReadinessState{
				Verification: verifications[((vi%3)+3)%3],
				Autonomy:     autonomies[((ai%3)+3)%3],
				Decision:     decisions[((di%3)+3)%3],
				Eligibility:  eligibilities[((ei%2)+2)%2],
				BudgetOK:     budgets[((bi%3)+3)%3],
			}
			want := s.Verification == contracts.VerificationPass &&
				s.Autonomy == contracts.AutonomyBounded &&
				s.Decision == contracts.DecisionAllow &&
				s.Eligibility == contracts.EligibilityAllowed &&
				(s.BudgetOK == nil || *s.BudgetOK)
			return IsReadyForExecution(s) == want
		},
		gen.Int(), gen.Int(), gen.Int(), gen.Int(), gen.Int(),
	))

	properties.TestingRun(t)
}
