package wiring

import "github.com/jeantrail/kernel/pkg/contracts"

// PolicyDecision is what the agent does with a verified (or unverified)
// output: trust it, rework it, or refuse to use it.
type PolicyDecision string

const (
	PolicyTrust  PolicyDecision = "trust"
	PolicyRework PolicyDecision = "rework"
	PolicyRefuse PolicyDecision = "refuse"
)

// ApplyVerificationPolicy maps a verification result to a handling
// decision. Anything that is not an explicit pass or warn is refused.
func ApplyVerificationPolicy(result contracts.VerificationResult) PolicyDecision {
	if result == contracts.VerificationPass {
		return PolicyTrust
	}
	if result == contracts.VerificationWarn {
		return PolicyRework
	}
	return PolicyRefuse
}
