package usecase

import (
	"github.com/shopassist/backend/internal/domain"
)

// CatalogStatus describes the loaded catalog for health reporting
type CatalogStatus struct {
	Products   int    `json:"products"`
	Categories int    `json:"categories"`
	Degraded   bool   `json:"degraded"`
	Notice     string `json:"notice,omitempty"`
}

// CatalogService answers read-only catalog queries
type CatalogService struct {
	catalog *domain.Catalog
	ranking *RankingService
	parser  *ConstraintParser
	notice  string
}

// NewCatalogService wraps a loaded catalog. A non-empty notice marks the
// catalog as degraded (typically a failed load that fell back to empty).
func NewCatalogService(
	catalog *domain.Catalog,
	ranking *RankingService,
	parser *ConstraintParser,
	notice string,
) *CatalogService {
	if catalog == nil {
		catalog = domain.NewCatalog(nil)
	}
	return &CatalogService{
		catalog: catalog,
		ranking: ranking,
		parser:  parser,
		notice:  notice,
	}
}

// Catalog returns the underlying catalog
func (s *CatalogService) Catalog() *domain.Catalog {
	return s.catalog
}

// Status reports catalog size and any load notice
func (s *CatalogService) Status() CatalogStatus {
	return CatalogStatus{
		Products:   s.catalog.Len(),
		Categories: len(s.catalog.DisplayCategories()),
		Degraded:   s.notice != "",
		Notice:     s.notice,
	}
}

// Find looks up a product by id
func (s *CatalogService) Find(id string) (domain.Product, error) {
	p, ok := s.catalog.Find(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// Products returns the catalog filtered and sorted by criteria
func (s *CatalogService) Products(criteria domain.FilterCriteria) []domain.Product {
	return s.ranking.Filter(s.catalog.Products(), criteria)
}

// Categories returns the distinct display categories, sorted
func (s *CatalogService) Categories() []string {
	return s.catalog.DisplayCategories()
}

// ParseConstraints extracts structured constraints from free text
func (s *CatalogService) ParseConstraints(text string) domain.ConstraintSet {
	return s.parser.Parse(text, s.catalog.Categories())
}

// Shortlist parses text and returns the constraints used and the ranked
// picks. limit <= 0 uses the configured shortlist size.
func (s *CatalogService) Shortlist(text string, limit int) (domain.ConstraintSet, []domain.Product) {
	cs := s.ParseConstraints(text)
	if limit <= 0 {
		limit = s.ranking.ShortlistLimit()
	}
	picks := s.ranking.Shortlist(s.catalog.Products(), cs, text, limit)
	return cs, picks
}
