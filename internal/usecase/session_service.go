package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

// SessionService owns the cart/compare state for one session.
// Every operation holds the mutex, so commands apply one at a time.
type SessionService struct {
	mu        sync.Mutex
	state     *domain.SessionState
	catalog   *CatalogService
	assistant *AssistantService
	persister *Persister
	clock     domain.Clock
	log       zerolog.Logger
}

// NewSessionService creates a session with empty state. persister may be nil
// to disable persistence; clock defaults to time.Now.
func NewSessionService(
	catalog *CatalogService,
	assistant *AssistantService,
	persister *Persister,
	clock domain.Clock,
) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		state:     domain.NewSessionState(),
		catalog:   catalog,
		assistant: assistant,
		persister: persister,
		clock:     clock,
		log:       logger.Component("session"),
	}
}

// Hydrate replaces the in-memory state with the persisted one
func (s *SessionService) Hydrate(ctx context.Context) {
	if s.persister == nil {
		return
	}
	saved := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart = domain.NewCart()
	ids := make([]string, 0, len(saved.Cart))
	for id := range saved.Cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.state.Cart.Set(id, saved.Cart[id])
	}

	s.state.Compare = domain.NewCompareSet()
	for _, id := range saved.Compare {
		s.state.Compare.Add(id)
	}

	s.log.Info().
		Int("cart_lines", s.state.Cart.Len()).
		Int("compare", s.state.Compare.Len()).
		Msg("session hydrated")
}

// Snapshot resolves the session against the catalog
func (s *SessionService) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Export renders the cart as an export document stamped with the session clock
func (s *SessionService) Export() domain.ExportDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildExport(s.catalog.Catalog(), s.state.Cart.Entries(), s.clock())
}

// Execute applies a command and returns the resulting notice, tool output
// and snapshot. On error the state is unchanged.
func (s *SessionService) Execute(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result domain.CommandResult

	switch c := cmd.(type) {
	case domain.AddToCart:
		if c.ID == "" {
			return result, fmt.Errorf("%w: product id is required", domain.ErrInvalidRequest)
		}
		s.adjustLocked(ctx, c.ID, c.Delta)
		if c.Delta > 0 {
			result.Notice = "Added to cart"
		} else {
			result.Notice = "Cart updated"
		}

	case domain.RemoveFromCart:
		s.state.Cart.Set(c.ID, 0)
		s.persistLocked(ctx)
		result.Notice = "Removed from cart"

	case domain.ToggleCompare:
		added, err := s.toggleLocked(ctx, c.ID)
		if err != nil {
			return result, err
		}
		if added {
			result.Notice = "Added to compare"
		} else {
			result.Notice = "Removed from compare"
		}

	case domain.ClearCompare:
		s.state.Compare.Clear()
		s.persistLocked(ctx)
		result.Notice = "Compare cleared"

	case domain.Checkout:
		msg, err := s.checkoutLocked()
		if err != nil {
			return result, err
		}
		result.Notice = msg

	case domain.AskAbout:
		p, err := s.catalog.Find(c.ID)
		if err != nil {
			return result, err
		}
		s.state.LastQuery = p.Name
		tool := s.assistant.AskAbout(p)
		result.Tool = &tool

	case domain.SendChat:
		text := strings.TrimSpace(c.Text)
		if text == "" {
			return result, fmt.Errorf("%w: chat text is empty", domain.ErrInvalidRequest)
		}
		s.state.LastQuery = text
		tool, err := s.assistant.Dispatch(ctx, domain.ToolShortlist, text, s.decisionStateLocked())
		if err != nil {
			return result, err
		}
		result.Tool = &tool

	case domain.RunTool:
		tool, err := s.assistant.Dispatch(ctx, c.Name, c.Context, s.decisionStateLocked())
		if err != nil {
			return result, err
		}
		result.Tool = &tool

	case domain.ResetSession:
		s.resetLocked(ctx)
		result.Notice = "Session reset"

	default:
		return result, fmt.Errorf("%w: unsupported command %T", domain.ErrInvalidRequest, cmd)
	}

	s.log.Debug().
		Str("command", domain.CommandName(cmd)).
		Str("notice", result.Notice).
		Msg("command applied")

	result.Snapshot = s.snapshotLocked()
	return result, nil
}

func (s *SessionService) resetLocked(ctx context.Context) {
	s.state = domain.NewSessionState()
	if s.persister != nil {
		s.persister.Clear(ctx)
	}
}

func (s *SessionService) adjustLocked(ctx context.Context, id string, delta int) {
	s.state.Cart.Set(id, addQuantity(s.state.Cart.Quantity(id), delta))
	s.persistLocked(ctx)
}

// addQuantity adds delta to a non-negative quantity, saturating at math.MaxInt
func addQuantity(cur, delta int) int {
	if delta > 0 && cur > math.MaxInt-delta {
		return math.MaxInt
	}
	return cur + delta
}

// toggleLocked reports whether id was added. Adding to a full set fails with
// domain.ErrCompareLimitExceeded and leaves state untouched.
func (s *SessionService) toggleLocked(ctx context.Context, id string) (bool, error) {
	if s.state.Compare.Has(id) {
		s.state.Compare.Remove(id)
		s.persistLocked(ctx)
		return false, nil
	}
	if !s.state.Compare.Add(id) {
		return false, domain.ErrCompareLimitExceeded
	}
	s.persistLocked(ctx)
	return true, nil
}

func (s *SessionService) checkoutLocked() (string, error) {
	if s.state.Cart.Len() == 0 {
		return "", domain.ErrCartEmpty
	}
	total := cartTotal(s.catalog.Catalog(), s.state.Cart.Entries())
	return fmt.Sprintf("Mock checkout created. Total: %s.", money(total)), nil
}

func (s *SessionService) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	s.persister.Save(ctx, s.state.Cart, s.state.Compare)
}

func (s *SessionService) decisionStateLocked() DecisionState {
	return DecisionState{
		Cart:      s.state.Cart.Entries(),
		Compare:   s.state.Compare.IDs(),
		LastQuery: s.state.LastQuery,
	}
}

func (s *SessionService) snapshotLocked() domain.SessionSnapshot {
	catalog := s.catalog.Catalog()
	snap := domain.SessionSnapshot{
		Cart:    []domain.CartLine{},
		Compare: []domain.Product{},
	}
	for _, e := range s.state.Cart.Entries() {
		p, ok := catalog.Find(e.ID)
		if !ok {
			continue
		}
		line := p.Price * float64(e.Qty)
		snap.Cart = append(snap.Cart, domain.CartLine{Product: p, Qty: e.Qty, LineTotal: line})
		snap.ItemCount += e.Qty
		snap.Total += line
	}
	for _, id := range s.state.Compare.IDs() {
		if p, ok := catalog.Find(id); ok {
			snap.Compare = append(snap.Compare, p)
		}
	}
	return snap
}
