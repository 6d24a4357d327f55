package domain

// ConstraintSet is the structured result of rule-based extraction from free text.
// Nil fields mean the constraint was not detected.
type ConstraintSet struct {
	Budget   *float64 `json:"budget"`
	Category *string  `json:"category"`
	ShipMax  *int     `json:"shipMax"`
	Keywords []string `json:"keywords"`
}

// IsEmpty reports whether no constraint narrows the result.
// A budget of zero or less counts as absent.
func (c ConstraintSet) IsEmpty() bool {
	return (c.Budget == nil || *c.Budget <= 0) && c.Category == nil && c.ShipMax == nil && len(c.Keywords) == 0
}

// SortMode selects the ordering applied by the catalog filter
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortRatingDesc SortMode = "rating_desc"
	SortShipAsc    SortMode = "ship_asc"
)

// ParseSortMode maps a raw sort value to a SortMode, defaulting to relevance
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceAsc, SortPriceDesc, SortRatingDesc, SortShipAsc:
		return SortMode(s)
	default:
		return SortRelevance
	}
}

// FilterCriteria mirrors the manual catalog controls
type FilterCriteria struct {
	Query     string   `json:"q" form:"q"`
	Category  string   `json:"category" form:"category"`
	Sort      SortMode `json:"sort" form:"sort"`
	MaxPrice  *float64 `json:"max_price" form:"max_price"`
	MinRating float64  `json:"min_rating" form:"min_rating"`
}
