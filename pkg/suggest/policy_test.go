package suggest

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanItem() StoreItem {
	return StoreItem{
		ID:          "item-1",
		Type:        ProductPlugin,
		Name:        "Focus Timer",
		Description: "Pomodoro timer plugin",
		Capability:  "time_management",
		PrivacyImpact: PrivacyImpact{
			DataCollection: []string{CollectionMinimal},
		},
		Price:    4.99,
		Currency: "EUR",
	}
}

func openContext() SuggestionContext {
	return SuggestionContext{UserIntent: "manage my time"}
}

func TestShouldSuggestGuards(t *testing.T) {
	item := cleanItem()

	t.Run("open context passes", func(t *testing.T) {
		assert.True(t, ShouldSuggest(item, openContext()))
	})

	t.Run("sensitive context blocks", func(t *testing.T) {
		ctx := openContext()
		ctx.IsSensitiveContext = true
		assert.False(t, ShouldSuggest(item, ctx))
	})

	t.Run("frequency cap blocks at three", func(t *testing.T) {
		ctx := openContext()
		ctx.SessionSuggestionCount = 2
		assert.True(t, ShouldSuggest(item, ctx))
		ctx.SessionSuggestionCount = 3
		assert.False(t, ShouldSuggest(item, ctx))
	})

	t.Run("dismissal respected", func(t *testing.T) {
		ctx := openContext()
		ctx.RecentDismissals = []string{"other", "item-1"}
		assert.False(t, ShouldSuggest(item, ctx))
	})

	t.Run("tracking item blocked", func(t *testing.T) {
		tracked := item
		tracked.PrivacyImpact.DataCollection = []string{CollectionFunctional, CollectionTracking}
		assert.False(t, ShouldSuggest(tracked, openContext()))
	})
}

func TestTrackingItemsNeverSuggested(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("tracking collection blocks in every context", prop.ForAll(
		func(sensitive bool, count int, dismissals []string) bool {
			item := cleanItem()
			item.PrivacyImpact.DataCollection = []string{CollectionNone, CollectionTracking}
			ctx := SuggestionContext{
				IsSensitiveContext:     sensitive,
				SessionSuggestionCount: count,
				RecentDismissals:       dismissals,
			}
			return !ShouldSuggest(item, ctx)
		},
		gen.Bool(),
		gen.IntRange(0, 10),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestGetEthicalSuggestionCarriesTransparencyOnly(t *testing.T) {
	var boundary PaymentBoundary

	s := boundary.GetEthicalSuggestion(cleanItem(), openContext(), "time_management")
	require.NotNil(t, s)
	assert.Equal(t, "item-1", s.ProductID)
	assert.Contains(t, s.TransparencyNote, "No payment data influenced this")
	assert.Contains(t, s.DisableHint, "Settings > Privacy")
	assert.True(t, s.Optional)
	assert.True(t, s.Dismissible)
}

func TestGetEthicalSuggestionNilWhenGated(t *testing.T) {
	var boundary PaymentBoundary
	ctx := openContext()
	ctx.IsSensitiveContext = true
	assert.Nil(t, boundary.GetEthicalSuggestion(cleanItem(), ctx, "time_management"))
}

func TestProcessPaymentIsolatedReturnsFlagOnly(t *testing.T) {
	var boundary PaymentBoundary

	assert.True(t, boundary.ProcessPaymentIsolated(context.Background(), "tok_abc", 4.99))
	assert.False(t, boundary.ProcessPaymentIsolated(context.Background(), "", 4.99))
	assert.False(t, boundary.ProcessPaymentIsolated(context.Background(), "tok_abc", 0))
}
