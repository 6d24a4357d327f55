package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

const (
	greetingMessage = "Hi! Describe what you want to buy (use case + budget + constraints). I'll shortlist options from the catalog."
	helpTrace       = "tool.help() -> [search, rank, bundle, negotiate, summarize]"
	noMatchMessage  = "I couldn't find an exact match in the demo catalog. Try loosening budget/shipping or different keywords."
	bundleTip       = "Tip: merchants often offer 5–10% off bundles, accessories, or slower shipping."
	negotiateFooter = "In a real product, this tool would call merchant channels or auto-apply eligible offers."
	summaryFooter   = "Next: connect catalog feeds + real checkout + tool-calling agent."
	maxRationaleKWs = 4
	bundleFallbackN = 3
)

// Bundle groups in priority order
var bundleGroups = []struct {
	name string
	ids  []string
}{
	{name: "display", ids: []string{"p006", "p008", "p005"}},
	{name: "audio", ids: []string{"p001", "p002"}},
	{name: "home", ids: []string{"p004", "p007"}},
}

// DecisionState is the read-only session view handed to tools
type DecisionState struct {
	Cart      []domain.CartEntry
	Compare   []string
	LastQuery string
}

// AssistantService runs the templated assistant tools. Tools never mutate state.
type AssistantService struct {
	catalog *CatalogService
	log     zerolog.Logger
}

// NewAssistantService creates the tool dispatcher over a catalog
func NewAssistantService(catalog *CatalogService) *AssistantService {
	return &AssistantService{
		catalog: catalog,
		log:     logger.Component("assistant"),
	}
}

// Greeting returns the opening assistant message
func (s *AssistantService) Greeting() domain.ToolResult {
	return domain.ToolResult{
		Tool:    "help",
		Kind:    domain.KindMessage,
		Message: greetingMessage,
		Trace:   []string{helpTrace},
	}
}

// AskAbout points the conversation at a product
func (s *AssistantService) AskAbout(p domain.Product) domain.ToolResult {
	return domain.ToolResult{
		Tool:    "search",
		Kind:    domain.KindMessage,
		Message: fmt.Sprintf("Tell me your constraints and I'll recommend the best option near %s.", p.Name),
		Trace:   []string{fmt.Sprintf("tool.search(query=%q)", p.Name)},
	}
}

// Dispatch routes a named tool invocation. An empty contextText falls back to
// the last query in state.
func (s *AssistantService) Dispatch(ctx context.Context, name, contextText string, state DecisionState) (domain.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ToolResult{}, err
	}

	text := strings.TrimSpace(contextText)
	if text == "" {
		text = state.LastQuery
	}

	var result domain.ToolResult
	switch strings.ToLower(strings.TrimSpace(name)) {
	case domain.ToolShortlist:
		result = s.shortlist(text)
	case domain.ToolBundle:
		result = s.bundle(text, state)
	case domain.ToolNegotiate:
		result = s.negotiate(text, state)
	case domain.ToolSummarize:
		result = s.summarize(state)
	default:
		return domain.ToolResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}

	s.log.Debug().
		Str("tool", result.Tool).
		Strs("trace", result.Trace).
		Msg("tool dispatched")

	return result, nil
}

func (s *AssistantService) shortlist(text string) domain.ToolResult {
	cs, picks := s.catalog.Shortlist(text, 0)

	result := domain.ToolResult{
		Tool:  domain.ToolShortlist,
		Kind:  domain.KindShortlist,
		Trace: []string{fmt.Sprintf("tool.search(query=%q)", text)},
		Shortlist: &domain.ShortlistResult{
			Constraints: cs,
			Products:    picks,
			Lines:       []string{},
		},
	}

	if len(picks) == 0 {
		result.Shortlist.NoMatch = true
		result.Message = noMatchMessage
		return result
	}

	pickIDs := make([]string, 0, len(picks))
	for i, p := range picks {
		result.Shortlist.Lines = append(result.Shortlist.Lines, shortlistLine(i+1, p))
		pickIDs = append(pickIDs, p.ID)
	}
	result.Shortlist.Rationale = buildRationale(cs)
	result.Trace = append(result.Trace, fmt.Sprintf("tool.rank(candidates=[%s])", strings.Join(pickIDs, ", ")))
	result.Message = "Here are my top picks:\n\n" + strings.Join(result.Shortlist.Lines, "\n") + "\n\n" + result.Shortlist.Rationale

	return result
}

func shortlistLine(rank int, p domain.Product) string {
	why := []string{
		fmt.Sprintf("%.1f★", p.Rating),
		money(p.Price),
		fmt.Sprintf("%dd ship", p.ShippingDays),
	}
	if len(p.Tags) > 0 && p.Tags[0] != "" {
		why = append(why, fmt.Sprintf("%q", p.Tags[0]))
	}
	return fmt.Sprintf("%d) %s - %s", rank, p.Name, strings.Join(why, " • "))
}

func buildRationale(cs domain.ConstraintSet) string {
	if cs.IsEmpty() {
		return "Ranked by overall value (rating, reviews, and price)."
	}

	var parts []string
	if cs.Budget != nil && *cs.Budget > 0 {
		parts = append(parts, "Budget ≤ $"+strconv.FormatFloat(*cs.Budget, 'f', -1, 64))
	}
	if cs.Category != nil {
		parts = append(parts, "Category: "+*cs.Category)
	}
	if cs.ShipMax != nil {
		parts = append(parts, fmt.Sprintf("Shipping ≤ %d day(s)", *cs.ShipMax))
	}
	if len(cs.Keywords) > 0 {
		kws := cs.Keywords
		if len(kws) > maxRationaleKWs {
			kws = kws[:maxRationaleKWs]
		}
		parts = append(parts, "Keywords: "+strings.Join(kws, ", "))
	}
	return "Used constraints: " + strings.Join(parts, " • ") + ". Ranked by value + match quality."
}

func (s *AssistantService) bundle(text string, state DecisionState) domain.ToolResult {
	lower := strings.ToLower(text)
	catalog := s.catalog.Catalog()

	var inCart []domain.Product
	for _, e := range state.Cart {
		if p, ok := catalog.Find(e.ID); ok {
			inCart = append(inCart, p)
		}
	}
	cartHas := func(match func(domain.Product) bool) bool {
		for _, p := range inCart {
			if match(p) {
				return true
			}
		}
		return false
	}

	wants := map[string]bool{
		"display": strings.Contains(lower, "monitor") || cartHas(func(p domain.Product) bool {
			return p.Category == "Computing" && strings.Contains(strings.ToLower(p.Name), "monitor")
		}),
		"audio": strings.Contains(lower, "headphone") || strings.Contains(lower, "earbud") || cartHas(func(p domain.Product) bool {
			return p.Category == "Audio"
		}),
		"home": strings.Contains(lower, "vacuum") || cartHas(func(p domain.Product) bool {
			return p.Category == "Home"
		}),
	}

	group := "top_rated"
	var picks []domain.Product
	for _, g := range bundleGroups {
		if !wants[g.name] {
			continue
		}
		group = g.name
		for _, id := range g.ids {
			if p, ok := catalog.Find(id); ok {
				picks = append(picks, p)
			}
		}
		break
	}
	if len(picks) == 0 {
		group = "top_rated"
		picks = topRated(catalog.Products(), bundleFallbackN)
	}

	lines := make([]string, 0, len(picks))
	for _, p := range picks {
		lines = append(lines, fmt.Sprintf("%s (%s)", p.Name, money(p.Price)))
	}

	return domain.ToolResult{
		Tool:    domain.ToolBundle,
		Kind:    domain.KindBundle,
		Trace:   []string{fmt.Sprintf("tool.bundle(context=%q)", text)},
		Message: "Suggested bundle (for better overall outcome / potential discounts):\n\n" + strings.Join(lines, "\n") + "\n\n" + bundleTip,
		Bundle: &domain.BundleResult{
			Group:    group,
			Products: picks,
			Tip:      bundleTip,
		},
	}
}

// topRated returns the n highest-rated products, catalog order on ties
func topRated(products []domain.Product, n int) []domain.Product {
	sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	if len(products) > n {
		products = products[:n]
	}
	return products
}

func (s *AssistantService) negotiate(text string, state DecisionState) domain.ToolResult {
	catalog := s.catalog.Catalog()

	var rows []string
	for _, e := range state.Cart {
		if p, ok := catalog.Find(e.ID); ok {
			rows = append(rows, fmt.Sprintf("%d× %s", e.Qty, p.Name))
		}
	}
	focus := "the item"
	if len(rows) > 0 {
		focus = strings.Join(rows, ", ")
	}

	lines := []string{
		fmt.Sprintf("Hi! I'm interested in %s.", focus),
		"If I bundle items or accept a slightly slower delivery, can you offer a discount?",
		"I'm ready to checkout today if we can do ~8% off or a free accessory.",
		"If that's not possible, could you match the best available price and include extended returns?",
	}

	bullets := make([]string, len(lines))
	for i, l := range lines {
		bullets[i] = "• " + l
	}

	return domain.ToolResult{
		Tool:    domain.ToolNegotiate,
		Kind:    domain.KindNegotiation,
		Trace:   []string{fmt.Sprintf("tool.negotiate(goal=%q, context=%q)", "lower price", text)},
		Message: "Draft negotiation message you can send to a seller:\n\n" + strings.Join(bullets, "\n") + "\n\n" + negotiateFooter,
		Negotiation: &domain.NegotiationScript{
			Focus: focus,
			Lines: lines,
		},
	}
}

func (s *AssistantService) summarize(state DecisionState) domain.ToolResult {
	catalog := s.catalog.Catalog()

	items := []string{}
	for _, e := range state.Cart {
		if p, ok := catalog.Find(e.ID); ok {
			items = append(items, fmt.Sprintf("%d× %s (%s ea)", e.Qty, p.Name, money(p.Price)))
		}
	}
	compare := []string{}
	for _, id := range state.Compare {
		if p, ok := catalog.Find(id); ok {
			compare = append(compare, p.Name)
		}
	}
	total := cartTotal(catalog, state.Cart)

	lines := make([]string, 0, 3)
	if len(items) > 0 {
		lines = append(lines, "Cart: "+strings.Join(items, "; "))
	} else {
		lines = append(lines, "Cart: empty")
	}
	if len(compare) > 0 {
		lines = append(lines, "Compare: "+strings.Join(compare, ", "))
	} else {
		lines = append(lines, "Compare: none")
	}
	lines = append(lines, "Estimated total: "+money(total))

	return domain.ToolResult{
		Tool:    domain.ToolSummarize,
		Kind:    domain.KindSummary,
		Trace:   []string{"tool.summarize(decision_state)"},
		Message: "Summary:\n\n" + strings.Join(lines, "\n") + "\n\n" + summaryFooter,
		Summary: &domain.Summary{
			CartItems: items,
			Compare:   compare,
			Total:     total,
			Lines:     lines,
		},
	}
}

// cartTotal sums price*qty for entries present in the catalog
func cartTotal(catalog *domain.Catalog, entries []domain.CartEntry) float64 {
	var total float64
	for _, e := range entries {
		if p, ok := catalog.Find(e.ID); ok {
			total += p.Price * float64(e.Qty)
		}
	}
	return total
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
