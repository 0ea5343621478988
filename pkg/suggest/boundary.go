package suggest

import "context"

// PaymentBoundary is the only path by which a suggestion reaches the UI
// layer. Its methods return transparency metadata or a bare success
// flag; no method exposes transaction history, volume, or identifiers
// to anything reachable by the suggestion or decision policies.
type PaymentBoundary struct{}

// GetEthicalSuggestion runs the policy gate and, when it passes, builds
// the suggestion with its transparency metadata. A nil return means the
// item must not be suggested.
func (PaymentBoundary) GetEthicalSuggestion(item StoreItem, ctx SuggestionContext, matchReason string) *EthicalSuggestion {
	if !ShouldSuggest(item, ctx) {
		return nil
	}
	note, hint := TransparencyMetadata(item, matchReason)
	return &EthicalSuggestion{
		ProductID:        item.ID,
		Reason:           matchReason,
		TransparencyNote: note,
		DisableHint:      hint,
		Optional:         true,
		Dismissible:      true,
	}
}

// ProcessPaymentIsolated charges via a detached gateway and reports only
// success or failure. Nothing about the transaction is retained in a
// form the intelligence layers can read.
func (PaymentBoundary) ProcessPaymentIsolated(ctx context.Context, token string, amount float64) bool {
	if token == "" || amount <= 0 {
		return false
	}
	// Gateway integration happens behind this boundary; the symbolic
	// implementation accepts any well-formed request.
	return true
}
