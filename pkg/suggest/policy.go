package suggest

import (
	"fmt"
	"time"
)

// Policy constants. The frequency cap and the dismissal cooldown are
// product decisions, not tunables.
const (
	MaxSuggestionsPerSession = 3
	DismissalCooldown        = 24 * time.Hour
)

// ShouldSuggest applies the four suggestion guards in order: sensitive
// context, session frequency cap, dismissal respect, and the privacy
// gate. Items that declare tracking collection are never suggested, in
// any context.
func ShouldSuggest(item StoreItem, ctx SuggestionContext) bool {
	if ctx.IsSensitiveContext {
		return false
	}
	if ctx.SessionSuggestionCount >= MaxSuggestionsPerSession {
		return false
	}
	for _, dismissed := range ctx.RecentDismissals {
		if dismissed == item.ID {
			return false
		}
	}
	for _, collection := range item.PrivacyImpact.DataCollection {
		if collection == CollectionTracking {
			return false
		}
	}
	return true
}

// TransparencyMetadata builds the "why am I seeing this" note and the
// disable hint shown alongside every suggestion.
func TransparencyMetadata(item StoreItem, reason string) (note, hint string) {
	note = fmt.Sprintf(
		"Suggested because your intent %q matches this item's capability. No payment data influenced this.",
		reason)
	hint = "You can disable store suggestions in Settings > Privacy > Store Suggestions."
	return note, hint
}
