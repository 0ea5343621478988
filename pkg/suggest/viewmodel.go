package suggest

// CardAction is one tappable action on a suggestion card.
type CardAction struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SuggestionCard is the UI projection of an ethical suggestion. Cards
// are never blocking.
type SuggestionCard struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Reason           string       `json:"reason"`
	TransparencyNote string       `json:"transparencyNote"`
	DisableHint      string       `json:"disableHint"`
	Optional         bool         `json:"optional"`
	Dismissible      bool         `json:"dismissible"`
	Blocking         bool         `json:"blocking"`
	Actions          []CardAction `json:"actions"`
}

// BuildSuggestionCard projects an item into a card, or nil when the
// policy gate refuses it.
func BuildSuggestionCard(item StoreItem, ctx SuggestionContext, matchReason string) *SuggestionCard {
	if !ShouldSuggest(item, ctx) {
		return nil
	}
	note, hint := TransparencyMetadata(item, matchReason)
	return &SuggestionCard{
		ID:               item.ID,
		Title:            item.Name,
		Description:      item.Description,
		Reason:           matchReason,
		TransparencyNote: note,
		DisableHint:      hint,
		Optional:         true,
		Dismissible:      true,
		Blocking:         false,
		Actions: []CardAction{
			{Type: "view_item", Payload: map[string]any{"productId": item.ID}},
		},
	}
}

// DismissCard records a dismissal and returns the updated context. The
// input context is not mutated.
func DismissCard(cardID string, ctx SuggestionContext) SuggestionContext {
	for _, id := range ctx.RecentDismissals {
		if id == cardID {
			return ctx
		}
	}
	next := ctx
	next.RecentDismissals = append(append([]string(nil), ctx.RecentDismissals...), cardID)
	return next
}

// RecordImpression counts one shown suggestion toward the session cap.
func RecordImpression(ctx SuggestionContext) SuggestionContext {
	next := ctx
	next.SessionSuggestionCount++
	return next
}

// TransparencyDatum names one input that was, or deliberately was not,
// used to produce a suggestion.
type TransparencyDatum struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Source string `json:"source"` // intent | policy | session | product | system
	Value  any    `json:"value,omitempty"`
}

// TransparencyOverlay is the full "why am I seeing this" view.
type TransparencyOverlay struct {
	ID          string              `json:"id"`
	Why         string              `json:"why"`
	UsedData    []TransparencyDatum `json:"usedData"`
	NotUsedData []TransparencyDatum `json:"notUsedData"`
	DisableHint string              `json:"disableHint"`
}

// BuildTransparencyOverlay explains a suggestion, listing both the data
// that was used and the data the boundary guarantees was not.
func BuildTransparencyOverlay(item StoreItem, ctx SuggestionContext, matchReason string) *TransparencyOverlay {
	if !ShouldSuggest(item, ctx) {
		return nil
	}
	note, hint := TransparencyMetadata(item, matchReason)
	return &TransparencyOverlay{
		ID:  item.ID,
		Why: note,
		UsedData: []TransparencyDatum{
			{Key: "intent_match", Label: "Intent Match", Source: "intent", Value: matchReason},
			{Key: "item_capability", Label: "Item Capability", Source: "product", Value: item.Capability},
			{Key: "session_suggestion_count", Label: "Session Suggestion Count", Source: "session", Value: ctx.SessionSuggestionCount},
			{Key: "sensitive_context_gate", Label: "Sensitive Context Gate", Source: "policy", Value: !ctx.IsSensitiveContext},
		},
		NotUsedData: []TransparencyDatum{
			{Key: "payment_data", Label: "Payment Data", Source: "policy", Value: false},
			{Key: "credentials", Label: "Credentials or Private Forms", Source: "policy", Value: false},
			{Key: "cross_session_history", Label: "Cross-Session History", Source: "policy", Value: false},
			{Key: "tracking_signals", Label: "Tracking Signals", Source: "policy", Value: false},
		},
		DisableHint: hint,
	}
}
