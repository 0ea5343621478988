// Package suggest implements the ethical suggestion policy and the
// payment boundary around it. Suggestion logic sees catalog metadata and
// session context only; nothing in this package can reach transaction
// history, volume, or identifiers. The flow is a one-way diode:
// intelligence produces suggestions for the user, revenue data never
// flows back into any policy input.
package suggest

// ProductType categorizes catalog items.
type ProductType string

const (
	ProductPlugin      ProductType = "plugin"
	ProductService     ProductType = "service"
	ProductComputePack ProductType = "compute_pack"
)

// DataCollection levels an item may declare.
const (
	CollectionNone       = "none"
	CollectionMinimal    = "minimal"
	CollectionFunctional = "functional"
	CollectionTracking   = "tracking"
)

// PrivacyImpact declares what an item collects and keeps.
type PrivacyImpact struct {
	DataCollection []string `json:"dataCollection"`
	DataSharing    bool     `json:"dataSharing"`
	RetentionDays  int      `json:"retentionDays"`
}

// StoreItem is one catalog entry. Price fields exist for display only;
// no policy function reads them.
type StoreItem struct {
	ID            string        `json:"id"`
	Type          ProductType   `json:"type"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Capability    string        `json:"capability"`
	Limitations   []string      `json:"limitations,omitempty"`
	PrivacyImpact PrivacyImpact `json:"privacyImpact"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency"`
}

// SuggestionContext is the per-session state the policy discriminates
// on. It carries no payment or transaction fields by construction.
type SuggestionContext struct {
	UserIntent             string   `json:"userIntent"`
	IsSensitiveContext     bool     `json:"isSensitiveContext"`
	RecentDismissals       []string `json:"recentDismissals"`
	SessionSuggestionCount int      `json:"sessionSuggestionCount"`
}

// EthicalSuggestion is the only shape a suggestion may take on its way
// to the UI: transparency metadata, never payment data. Optional and
// Dismissible are always true; they are kept as fields so the wire shape
// states the contract explicitly.
type EthicalSuggestion struct {
	ProductID        string `json:"productId"`
	Reason           string `json:"reason"`
	TransparencyNote string `json:"transparencyNote"`
	DisableHint      string `json:"disableHint"`
	Optional         bool   `json:"optional"`
	Dismissible      bool   `json:"dismissible"`
}
