package domain

// CompareLimit is the maximum number of products in the compare set
const CompareLimit = 3

// Cart maps product ids to positive quantities, keeping insertion order
type Cart struct {
	order []string
	qty   map[string]int
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{qty: make(map[string]int)}
}

// CartEntry is one stored cart line
type CartEntry struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// Quantity returns the stored quantity, 0 when absent
func (c *Cart) Quantity(id string) int {
	return c.qty[id]
}

// Set stores qty for id; qty <= 0 removes the entry
func (c *Cart) Set(id string, qty int) {
	if qty <= 0 {
		if _, ok := c.qty[id]; !ok {
			return
		}
		delete(c.qty, id)
		for i, v := range c.order {
			if v == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		return
	}
	if _, ok := c.qty[id]; !ok {
		c.order = append(c.order, id)
	}
	c.qty[id] = qty
}

// Entries returns the cart lines in insertion order
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, CartEntry{ID: id, Qty: c.qty[id]})
	}
	return out
}

// Len returns the number of distinct products in the cart
func (c *Cart) Len() int {
	return len(c.order)
}

// ToMap returns a copy of the id to quantity mapping
func (c *Cart) ToMap() map[string]int {
	out := make(map[string]int, len(c.qty))
	for k, v := range c.qty {
		out[k] = v
	}
	return out
}

// CompareSet is the bounded set of products picked for side-by-side comparison
type CompareSet struct {
	ids []string
}

// NewCompareSet returns an empty compare set
func NewCompareSet() *CompareSet {
	return &CompareSet{}
}

// Has reports membership
func (s *CompareSet) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id; it returns false when the set is full or id is already present
func (s *CompareSet) Add(id string) bool {
	if s.Has(id) || len(s.ids) >= CompareLimit {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id if present
func (s *CompareSet) Remove(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// Clear empties the set
func (s *CompareSet) Clear() {
	s.ids = nil
}

// IDs returns a copy of the members in insertion order
func (s *CompareSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the set size
func (s *CompareSet) Len() int {
	return len(s.ids)
}

// SessionState is the mutable per-session state owned by the session controller
type SessionState struct {
	Cart      *Cart
	Compare   *CompareSet
	LastQuery string
}

// NewSessionState returns an empty session
func NewSessionState() *SessionState {
	return &SessionState{
		Cart:    NewCart(),
		Compare: NewCompareSet(),
	}
}

// PersistedState is the serialized shape written to the key-value store
type PersistedState struct {
	Cart    map[string]int `json:"cart"`
	Compare []string       `json:"compare"`
}

// EmptyPersistedState returns {cart: {}, compare: []}
func EmptyPersistedState() PersistedState {
	return PersistedState{Cart: map[string]int{}, Compare: []string{}}
}

// CartLine is a cart entry resolved against the catalog
type CartLine struct {
	Product   Product `json:"product"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"line_total"`
}

// SessionSnapshot is a read-only view of the session resolved against the catalog
type SessionSnapshot struct {
	Cart      []CartLine `json:"cart"`
	Compare   []Product  `json:"compare"`
	ItemCount int        `json:"item_count"`
	Total     float64    `json:"total"`
}
