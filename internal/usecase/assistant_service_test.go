package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist/backend/internal/domain"
)

// demoProducts extends fixtureProducts with the bundle accessories
func demoProducts() []domain.Product {
	return append(fixtureProducts(),
		domain.Product{ID: "p006", Name: "Swift Portable SSD 1TB", Brand: "Byte", Category: "Computing", Price: 99, Rating: 4.7, Reviews: 640, ShippingDays: 1, Features: []string{"USB-C", "1050MB/s"}, Tags: []string{"portable"}},
		domain.Product{ID: "p007", Name: "Crisp Air Fryer 5L", Brand: "Tidy", Category: "Home", Price: 79, Rating: 4.3, Reviews: 1500, ShippingDays: 2, Features: []string{"Air fryer", "Dishwasher safe"}, Tags: []string{"kitchen"}},
		domain.Product{ID: "p008", Name: "Clack Mechanical Keyboard", Brand: "Byte", Category: "Computing", Price: 119, Rating: 4.6, Reviews: 410, ShippingDays: 3, Features: []string{"Hot-swap", "USB-C"}, Tags: []string{"office"}},
	)
}

func newTestCatalogService(products []domain.Product) *CatalogService {
	return NewCatalogService(domain.NewCatalog(products), NewRankingService(3), NewConstraintParser(false), "")
}

func newTestAssistant() *AssistantService {
	return NewAssistantService(newTestCatalogService(demoProducts()))
}

func TestAssistant_Greeting(t *testing.T) {
	got := newTestAssistant().Greeting()

	assert.Equal(t, domain.KindMessage, got.Kind)
	assert.Equal(t, []string{"tool.help() -> [search, rank, bundle, negotiate, summarize]"}, got.Trace)
	assert.Contains(t, got.Message, "Describe what you want to buy")
}

func TestAssistant_AskAbout(t *testing.T) {
	p, _ := domain.NewCatalog(demoProducts()).Find("p003")
	got := newTestAssistant().AskAbout(p)

	assert.Equal(t, []string{`tool.search(query="Trail GPS Watch")`}, got.Trace)
	assert.Contains(t, got.Message, "near Trail GPS Watch")
}

func TestAssistant_Dispatch_UnknownTool(t *testing.T) {
	_, err := newTestAssistant().Dispatch(context.Background(), "checkout", "", DecisionState{})
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestAssistant_Dispatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAssistant().Dispatch(ctx, domain.ToolShortlist, "anything", DecisionState{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssistant_Shortlist(t *testing.T) {
	svc := newTestAssistant()
	ctx := context.Background()

	t.Run("constraints narrow to one pick", func(t *testing.T) {
		text := "budget $200, need noise cancelling in 2 days"
		got, err := svc.Dispatch(ctx, domain.ToolShortlist, text, DecisionState{})
		require.NoError(t, err)
		require.NotNil(t, got.Shortlist)

		assert.Equal(t, domain.KindShortlist, got.Kind)
		assert.Equal(t, []string{"p001"}, ids(got.Shortlist.Products))
		assert.Equal(t, []string{`1) Aurora ANC Headphones - 4.6★ • $179.00 • 2d ship • "travel"`}, got.Shortlist.Lines)
		assert.Equal(t,
			"Used constraints: Budget ≤ $200 • Shipping ≤ 2 day(s) • Keywords: anc, noise. Ranked by value + match quality.",
			got.Shortlist.Rationale)
		assert.Equal(t, []string{
			`tool.search(query="budget $200, need noise cancelling in 2 days")`,
			`tool.rank(candidates=[p001])`,
		}, got.Trace)
		assert.False(t, got.Shortlist.NoMatch)
		assert.Contains(t, got.Message, "Here are my top picks:")
	})

	t.Run("no constraints ranks by overall value", func(t *testing.T) {
		got, err := svc.Dispatch(ctx, domain.ToolShortlist, "", DecisionState{})
		require.NoError(t, err)

		assert.Equal(t, []string{"p001", "p006", "p005"}, ids(got.Shortlist.Products))
		assert.Equal(t, "Ranked by overall value (rating, reviews, and price).", got.Shortlist.Rationale)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := svc.Dispatch(ctx, domain.ToolShortlist, "$10 blender", DecisionState{})
		require.NoError(t, err)

		assert.True(t, got.Shortlist.NoMatch)
		assert.Empty(t, got.Shortlist.Products)
		assert.Len(t, got.Trace, 1)
		assert.Contains(t, got.Message, "couldn't find an exact match")
	})

	t.Run("empty context falls back to last query", func(t *testing.T) {
		got, err := svc.Dispatch(ctx, domain.ToolShortlist, "  ", DecisionState{LastQuery: "vacuum"})
		require.NoError(t, err)

		assert.Equal(t, []string{"p004"}, ids(got.Shortlist.Products))
		assert.Equal(t, `tool.search(query="vacuum")`, got.Trace[0])
	})

	t.Run("rationale lists at most four keywords", func(t *testing.T) {
		got, err := svc.Dispatch(ctx, domain.ToolShortlist, "anc noise flight call mic", DecisionState{})
		require.NoError(t, err)

		assert.Contains(t, got.Shortlist.Rationale, "Keywords: anc, noise, flight, call.")
		assert.Len(t, got.Shortlist.Constraints.Keywords, 5)
	})

	t.Run("tool name is case insensitive", func(t *testing.T) {
		got, err := svc.Dispatch(ctx, " Shortlist ", "gps", DecisionState{})
		require.NoError(t, err)
		assert.Equal(t, []string{"p003"}, ids(got.Shortlist.Products))
	})
}

func TestAssistant_Bundle(t *testing.T) {
	svc := newTestAssistant()

	tests := []struct {
		name      string
		text      string
		cart      []domain.CartEntry
		wantGroup string
		wantIDs   []string
	}{
		{name: "monitor in text", text: "need a monitor", wantGroup: "display", wantIDs: []string{"p006", "p008", "p005"}},
		{name: "monitor in cart", cart: []domain.CartEntry{{ID: "p005", Qty: 1}}, wantGroup: "display", wantIDs: []string{"p006", "p008", "p005"}},
		{name: "display wins over audio", text: "monitor and headphones", wantGroup: "display", wantIDs: []string{"p006", "p008", "p005"}},
		{name: "earbuds in text", text: "earbuds for the gym", wantGroup: "audio", wantIDs: []string{"p001", "p002"}},
		{name: "audio product in cart", cart: []domain.CartEntry{{ID: "p002", Qty: 1}}, wantGroup: "audio", wantIDs: []string{"p001", "p002"}},
		{name: "vacuum in text", text: "robot vacuum", wantGroup: "home", wantIDs: []string{"p004", "p007"}},
		{name: "home product in cart", cart: []domain.CartEntry{{ID: "p007", Qty: 2}}, wantGroup: "home", wantIDs: []string{"p004", "p007"}},
		{name: "keyboard alone is not a display cue", cart: []domain.CartEntry{{ID: "p008", Qty: 1}}, wantGroup: "top_rated", wantIDs: []string{"p006", "p001", "p008"}},
		{name: "no cue falls back to top rated", text: "gift ideas", wantGroup: "top_rated", wantIDs: []string{"p006", "p001", "p008"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Dispatch(context.Background(), domain.ToolBundle, tt.text, DecisionState{Cart: tt.cart})
			require.NoError(t, err)
			require.NotNil(t, got.Bundle)

			assert.Equal(t, tt.wantGroup, got.Bundle.Group)
			assert.Equal(t, tt.wantIDs, ids(got.Bundle.Products))
			assert.Equal(t, bundleTip, got.Bundle.Tip)
		})
	}
}

func TestAssistant_Bundle_Rendering(t *testing.T) {
	got, err := newTestAssistant().Dispatch(context.Background(), domain.ToolBundle, "need a monitor", DecisionState{})
	require.NoError(t, err)

	assert.Equal(t, []string{`tool.bundle(context="need a monitor")`}, got.Trace)
	assert.Contains(t, got.Message, "Swift Portable SSD 1TB ($99.00)")
	assert.Contains(t, got.Message, "Tip: merchants often offer")
}

func TestAssistant_Bundle_EmptyGroupFallsBack(t *testing.T) {
	var products []domain.Product
	for _, p := range fixtureProducts() {
		if p.ID == "p002" || p.ID == "p003" {
			products = append(products, p)
		}
	}
	svc := NewAssistantService(newTestCatalogService(products))

	got, err := svc.Dispatch(context.Background(), domain.ToolBundle, "vacuum", DecisionState{})
	require.NoError(t, err)

	assert.Equal(t, "top_rated", got.Bundle.Group)
	assert.Equal(t, []string{"p003", "p002"}, ids(got.Bundle.Products))
}

func TestAssistant_Negotiate(t *testing.T) {
	svc := newTestAssistant()

	t.Run("empty cart uses placeholder", func(t *testing.T) {
		got, err := svc.Dispatch(context.Background(), domain.ToolNegotiate, "cheaper please", DecisionState{})
		require.NoError(t, err)
		require.NotNil(t, got.Negotiation)

		assert.Equal(t, "the item", got.Negotiation.Focus)
		assert.Len(t, got.Negotiation.Lines, 4)
		assert.Equal(t, "Hi! I'm interested in the item.", got.Negotiation.Lines[0])
		assert.Equal(t, []string{`tool.negotiate(goal="lower price", context="cheaper please")`}, got.Trace)
	})

	t.Run("focus lists cart contents and skips unknown ids", func(t *testing.T) {
		state := DecisionState{Cart: []domain.CartEntry{
			{ID: "p001", Qty: 2},
			{ID: "ghost", Qty: 1},
			{ID: "p002", Qty: 1},
		}}
		got, err := svc.Dispatch(context.Background(), domain.ToolNegotiate, "", state)
		require.NoError(t, err)

		assert.Equal(t, "2× Aurora ANC Headphones, 1× Pulse Earbuds", got.Negotiation.Focus)
		assert.Contains(t, got.Message, "• Hi! I'm interested in 2× Aurora ANC Headphones, 1× Pulse Earbuds.")
	})
}

func TestAssistant_Summarize(t *testing.T) {
	svc := newTestAssistant()

	t.Run("empty state", func(t *testing.T) {
		got, err := svc.Dispatch(context.Background(), domain.ToolSummarize, "ignored", DecisionState{})
		require.NoError(t, err)
		require.NotNil(t, got.Summary)

		assert.Equal(t, []string{"tool.summarize(decision_state)"}, got.Trace)
		assert.Equal(t, []string{"Cart: empty", "Compare: none", "Estimated total: $0.00"}, got.Summary.Lines)
		assert.Zero(t, got.Summary.Total)
	})

	t.Run("cart and compare", func(t *testing.T) {
		state := DecisionState{
			Cart:    []domain.CartEntry{{ID: "p001", Qty: 2}, {ID: "ghost", Qty: 3}},
			Compare: []string{"p003", "ghost"},
		}
		got, err := svc.Dispatch(context.Background(), domain.ToolSummarize, "", state)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"Cart: 2× Aurora ANC Headphones ($179.00 ea)",
			"Compare: Trail GPS Watch",
			"Estimated total: $358.00",
		}, got.Summary.Lines)
		assert.InDelta(t, 358.0, got.Summary.Total, 1e-9)
	})
}

func TestCatalogService_Status(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		status := newTestCatalogService(demoProducts()).Status()
		assert.Equal(t, CatalogStatus{Products: 8, Categories: 4}, status)
	})

	t.Run("degraded with notice", func(t *testing.T) {
		svc := NewCatalogService(nil, NewRankingService(3), NewConstraintParser(false), "catalog unavailable")
		status := svc.Status()
		assert.True(t, status.Degraded)
		assert.Equal(t, 0, status.Products)
		assert.Equal(t, "catalog unavailable", status.Notice)
	})

	t.Run("find unknown product", func(t *testing.T) {
		_, err := newTestCatalogService(demoProducts()).Find("nope")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestBuildRationale(t *testing.T) {
	zero, budget := 0.0, 49.5
	audio := "audio"
	ship := 3

	tests := []struct {
		name string
		cs   domain.ConstraintSet
		want string
	}{
		{
			name: "empty set",
			cs:   domain.ConstraintSet{},
			want: "Ranked by overall value (rating, reviews, and price).",
		},
		{
			name: "zero budget alone counts as empty",
			cs:   domain.ConstraintSet{Budget: &zero, Keywords: []string{}},
			want: "Ranked by overall value (rating, reviews, and price).",
		},
		{
			name: "all constraints with keyword cap",
			cs: domain.ConstraintSet{
				Budget: &budget, Category: &audio, ShipMax: &ship,
				Keywords: []string{"a", "b", "c", "d", "e"},
			},
			want: "Used constraints: Budget ≤ $49.5 • Category: audio • Shipping ≤ 3 day(s) • Keywords: a, b, c, d. Ranked by value + match quality.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildRationale(tt.cs); got != tt.want {
				t.Errorf("buildRationale() = %q, want %q", got, tt.want)
			}
		})
	}
}
