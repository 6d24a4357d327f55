package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

// DefaultStateKey is the key session state is stored under
const DefaultStateKey = "as_state"

// Persister saves and restores cart/compare state in a key-value store.
// It is best-effort: failures are logged and never returned.
type Persister struct {
	store domain.KVStore
	key   string
	ttl   time.Duration
	log   zerolog.Logger
}

// NewPersister creates a persister writing under key (DefaultStateKey when empty)
func NewPersister(store domain.KVStore, key string, ttl time.Duration) *Persister {
	if key == "" {
		key = DefaultStateKey
	}
	return &Persister{
		store: store,
		key:   key,
		ttl:   ttl,
		log:   logger.Component("persistence"),
	}
}

// Save overwrites the stored state
func (p *Persister) Save(ctx context.Context, cart *domain.Cart, compare *domain.CompareSet) {
	state := domain.PersistedState{
		Cart:    cart.ToMap(),
		Compare: compare.IDs(),
	}

	data, err := json.Marshal(state)
	if err != nil {
		p.log.Error().Err(fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)).Msg("failed to encode session state")
		return
	}

	if err := p.store.Set(ctx, p.key, string(data), p.ttl); err != nil {
		p.log.Error().Err(fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)).Str("key", p.key).Msg("failed to save session state")
	}
}

// storedState keeps quantities raw so bad ones can be skipped individually
type storedState struct {
	Cart    map[string]json.RawMessage `json:"cart"`
	Compare []string                   `json:"compare"`
}

// Load reads the stored state. Missing, unparsable or mismatched data yields
// an empty state. Quantities that are not positive integers fitting in an int
// are dropped and the compare list is capped at domain.CompareLimit unique ids.
func (p *Persister) Load(ctx context.Context) domain.PersistedState {
	raw, err := p.store.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			p.log.Warn().Err(fmt.Errorf("%w: %v", domain.ErrPersistenceRead, err)).Msg("failed to read session state")
		}
		return domain.EmptyPersistedState()
	}

	var stored storedState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		p.log.Warn().Err(fmt.Errorf("%w: %v", domain.ErrPersistenceRead, err)).Msg("discarding unparsable session state")
		return domain.EmptyPersistedState()
	}

	state := domain.EmptyPersistedState()
	for id, raw := range stored.Cart {
		qty, err := strconv.ParseInt(string(raw), 10, strconv.IntSize)
		if err != nil || qty < 1 {
			continue
		}
		state.Cart[id] = int(qty)
	}

	seen := make(map[string]bool)
	for _, id := range stored.Compare {
		if id == "" || seen[id] || len(state.Compare) >= domain.CompareLimit {
			continue
		}
		seen[id] = true
		state.Compare = append(state.Compare, id)
	}

	return state
}

// Clear removes the stored state
func (p *Persister) Clear(ctx context.Context) {
	if err := p.store.Delete(ctx, p.key); err != nil {
		p.log.Warn().Err(err).Msg("failed to clear session state")
	}
}
