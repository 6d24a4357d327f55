package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist/backend/internal/domain"
)

// MockKVStore is a mock implementation of domain.KVStore
type MockKVStore struct {
	data     map[string]string
	ttls     map[string]time.Duration
	getError error
	setError error
	setCalls int
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, error) {
	if m.getError != nil {
		return "", m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return "", domain.ErrKeyNotFound
}

func (m *MockKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestNewPersister(t *testing.T) {
	t.Run("uses default key when empty", func(t *testing.T) {
		p := NewPersister(NewMockKVStore(), "", 0)
		if p.key != DefaultStateKey {
			t.Errorf("key = %q, want %q", p.key, DefaultStateKey)
		}
	})

	t.Run("uses provided key", func(t *testing.T) {
		p := NewPersister(NewMockKVStore(), "custom", time.Hour)
		if p.key != "custom" {
			t.Errorf("key = %q, want custom", p.key)
		}
		if p.ttl != time.Hour {
			t.Errorf("ttl = %v, want 1h", p.ttl)
		}
	})
}

func TestPersister_SaveWritesShape(t *testing.T) {
	store := NewMockKVStore()
	p := NewPersister(store, "", time.Minute)

	cart := domain.NewCart()
	cart.Set("p1", 2)
	compare := domain.NewCompareSet()
	compare.Add("p2")

	p.Save(context.Background(), cart, compare)

	raw, ok := store.data[DefaultStateKey]
	require.True(t, ok)
	assert.JSONEq(t, `{"cart":{"p1":2},"compare":["p2"]}`, raw)
	assert.Equal(t, time.Minute, store.ttls[DefaultStateKey])
}

func TestPersister_SaveEmptyState(t *testing.T) {
	store := NewMockKVStore()
	p := NewPersister(store, "", 0)

	p.Save(context.Background(), domain.NewCart(), domain.NewCompareSet())

	assert.JSONEq(t, `{"cart":{},"compare":[]}`, store.data[DefaultStateKey])
}

func TestPersister_RoundTrip(t *testing.T) {
	store := NewMockKVStore()
	p := NewPersister(store, "", 0)
	ctx := context.Background()

	cart := domain.NewCart()
	cart.Set("p1", 2)
	cart.Set("p5", 1)
	compare := domain.NewCompareSet()
	compare.Add("p3")
	compare.Add("p1")

	p.Save(ctx, cart, compare)
	got := p.Load(ctx)

	assert.Equal(t, map[string]int{"p1": 2, "p5": 1}, got.Cart)
	assert.Equal(t, []string{"p3", "p1"}, got.Compare)
}

func TestPersister_RoundTripLargeQuantities(t *testing.T) {
	store := NewMockKVStore()
	p := NewPersister(store, "", 0)
	ctx := context.Background()

	cart := domain.NewCart()
	cart.Set("p1", 3000000000)
	cart.Set("p2", math.MaxInt)
	cart.Set("p3", 1<<53+1)

	p.Save(ctx, cart, domain.NewCompareSet())
	got := p.Load(ctx)

	assert.Equal(t, map[string]int{"p1": 3000000000, "p2": math.MaxInt, "p3": 1<<53 + 1}, got.Cart)
}

func TestPersister_SaveErrorIsSwallowed(t *testing.T) {
	store := NewMockKVStore()
	store.setError = errors.New("disk full")
	p := NewPersister(store, "", 0)

	assert.NotPanics(t, func() {
		p.Save(context.Background(), domain.NewCart(), domain.NewCompareSet())
	})
	assert.Equal(t, 1, store.setCalls)
}

func TestPersister_Load(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want domain.PersistedState
	}{
		{
			name: "missing key",
			raw:  nil,
			want: domain.EmptyPersistedState(),
		},
		{
			name: "unparsable",
			raw:  strPtr("{not json"),
			want: domain.EmptyPersistedState(),
		},
		{
			name: "cart is not an object",
			raw:  strPtr(`{"cart":[1,2],"compare":[]}`),
			want: domain.EmptyPersistedState(),
		},
		{
			name: "compare is not a list",
			raw:  strPtr(`{"cart":{"p1":1},"compare":"p1"}`),
			want: domain.EmptyPersistedState(),
		},
		{
			name: "non-positive and fractional quantities dropped",
			raw:  strPtr(`{"cart":{"a":0,"b":-2,"c":1.5,"d":3},"compare":[]}`),
			want: domain.PersistedState{Cart: map[string]int{"d": 3}, Compare: []string{}},
		},
		{
			name: "quantities beyond int range and non-numbers dropped",
			raw:  strPtr(`{"cart":{"a":99999999999999999999,"b":"2","c":null,"d":3000000000},"compare":[]}`),
			want: domain.PersistedState{Cart: map[string]int{"d": 3000000000}, Compare: []string{}},
		},
		{
			name: "compare deduplicated and capped",
			raw:  strPtr(`{"cart":{},"compare":["a","b","a","c","d"]}`),
			want: domain.PersistedState{Cart: map[string]int{}, Compare: []string{"a", "b", "c"}},
		},
		{
			name: "missing fields default to empty",
			raw:  strPtr(`{}`),
			want: domain.EmptyPersistedState(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockKVStore()
			if tt.raw != nil {
				store.data[DefaultStateKey] = *tt.raw
			}
			got := NewPersister(store, "", 0).Load(context.Background())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersister_LoadReadError(t *testing.T) {
	store := NewMockKVStore()
	store.getError = errors.New("connection reset")

	got := NewPersister(store, "", 0).Load(context.Background())

	assert.Equal(t, domain.EmptyPersistedState(), got)
}

func TestPersister_Clear(t *testing.T) {
	store := NewMockKVStore()
	p := NewPersister(store, "", 0)
	ctx := context.Background()

	p.Save(ctx, domain.NewCart(), domain.NewCompareSet())
	p.Clear(ctx)

	assert.NotContains(t, store.data, DefaultStateKey)
	assert.Equal(t, domain.EmptyPersistedState(), p.Load(ctx))
}

// decodeStored reads what the persister wrote, for assertions in other tests
func decodeStored(t *testing.T, store *MockKVStore) domain.PersistedState {
	t.Helper()
	var state domain.PersistedState
	require.NoError(t, json.Unmarshal([]byte(store.data[DefaultStateKey]), &state))
	return state
}
