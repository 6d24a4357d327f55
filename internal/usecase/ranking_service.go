package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/shopassist/backend/internal/domain"
)

// Scoring constants
const (
	ratingWeight       = 10.0 // points per rating star
	reviewWeight       = 6.0  // multiplier on log10(reviews + reviewSmoothing)
	reviewSmoothing    = 10.0
	queryMatchBonus    = 12.0 // query is a substring of name/features/tags
	defaultShortlistTo = 3
)

// keywordAliases maps extracted keywords to the spelling used in catalog text
var keywordAliases = map[string]string{
	"usbc": "usb-c",
}

// RankingService filters and ranks catalog products
type RankingService struct {
	shortlistLimit int
}

// NewRankingService creates a ranking service; limit <= 0 uses 3
func NewRankingService(shortlistLimit int) *RankingService {
	if shortlistLimit <= 0 {
		shortlistLimit = defaultShortlistTo
	}
	return &RankingService{shortlistLimit: shortlistLimit}
}

// ShortlistLimit returns the configured default shortlist size
func (s *RankingService) ShortlistLimit() int {
	return s.shortlistLimit
}

// Score computes the relevance of p for an already lower-cased query:
//
//	rating*10 + log10(reviews+10)*6 + 12 if query is in name/features/tags
func Score(p domain.Product, query string) float64 {
	base := p.Rating*ratingWeight + math.Log10(float64(p.Reviews)+reviewSmoothing)*reviewWeight
	if query == "" {
		return base
	}
	if strings.Contains(p.MatchText(), query) {
		return base + queryMatchBonus
	}
	return base
}

// Filter applies the manual catalog criteria and sorts the survivors.
// Sorting is stable, so equal keys keep catalog order.
func (s *RankingService) Filter(products []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(criteria.Query))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if criteria.Category != "" && p.Category != criteria.Category {
			continue
		}
		if criteria.MaxPrice != nil && p.Price > *criteria.MaxPrice {
			continue
		}
		if p.Rating < criteria.MinRating {
			continue
		}
		if q != "" && !strings.Contains(p.SearchText(), q) {
			continue
		}
		out = append(out, p)
	}

	switch domain.ParseSortMode(string(criteria.Sort)) {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case domain.SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case domain.SortShipAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ShippingDays < out[j].ShippingDays })
	default:
		sortByScore(out, q)
	}

	return out
}

// Shortlist applies a constraint set and returns at most limit products ranked
// by score against rawText. limit <= 0 uses the configured default.
// An empty result means nothing matched and is not an error.
func (s *RankingService) Shortlist(products []domain.Product, cs domain.ConstraintSet, rawText string, limit int) []domain.Product {
	if limit <= 0 {
		limit = s.shortlistLimit
	}

	keywords := make([]string, len(cs.Keywords))
	for i, k := range cs.Keywords {
		if alias, ok := keywordAliases[k]; ok {
			k = alias
		}
		keywords[i] = k
	}

	pool := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if cs.Category != nil && strings.ToLower(p.Category) != *cs.Category {
			continue
		}
		if cs.Budget != nil && *cs.Budget > 0 && p.Price > *cs.Budget {
			continue
		}
		if cs.ShipMax != nil && p.ShippingDays > *cs.ShipMax {
			continue
		}
		if len(keywords) > 0 && !containsAny(p.MatchText(), keywords) {
			continue
		}
		pool = append(pool, p)
	}

	sortByScore(pool, strings.ToLower(rawText))

	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// sortByScore orders products by descending score, keeping input order on ties
func sortByScore(products []domain.Product, query string) {
	scores := make(map[string]float64, len(products))
	for _, p := range products {
		scores[p.ID] = Score(p, query)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return scores[products[i].ID] > scores[products[j].ID]
	})
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
