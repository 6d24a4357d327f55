package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shopassist/backend/internal/domain"
)

// Document formats accepted by Decode
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// rawProduct is a catalog record as it arrives from the source.
// Pointers distinguish missing required fields from zero values.
type rawProduct struct {
	ID           *string  `json:"id" yaml:"id"`
	Name         *string  `json:"name" yaml:"name"`
	Brand        string   `json:"brand" yaml:"brand"`
	Category     *string  `json:"category" yaml:"category"`
	Price        *float64 `json:"price" yaml:"price"`
	Rating       float64  `json:"rating" yaml:"rating"`
	Reviews      int      `json:"reviews" yaml:"reviews"`
	ShippingDays int      `json:"shipping_days" yaml:"shipping_days"`
	Features     []string `json:"features" yaml:"features"`
	Tags         []string `json:"tags" yaml:"tags"`
	Image        string   `json:"image" yaml:"image"`
}

// Quarantined describes a record rejected during validation
type Quarantined struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a decode pass
type LoadReport struct {
	Accepted    int           `json:"accepted"`
	Quarantined []Quarantined `json:"quarantined,omitempty"`
}

// Decode parses a catalog document and validates every record.
// A document that is not a list of records fails with domain.ErrCatalogLoad;
// individual bad records are quarantined instead.
func Decode(data []byte, format string) ([]domain.Product, LoadReport, error) {
	var raws []rawProduct

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raws); err != nil {
			return nil, LoadReport{}, fmt.Errorf("%w: failed to decode yaml: %v", domain.ErrCatalogLoad, err)
		}
	default:
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, LoadReport{}, fmt.Errorf("%w: failed to decode json: %v", domain.ErrCatalogLoad, err)
		}
	}

	if raws == nil {
		return nil, LoadReport{}, fmt.Errorf("%w: document holds no product list", domain.ErrCatalogLoad)
	}

	products, report := mapRecords(raws)
	return products, report, nil
}

// mapRecords converts raw records to domain products, skipping invalid ones and duplicate ids
func mapRecords(raws []rawProduct) ([]domain.Product, LoadReport) {
	var report LoadReport
	products := make([]domain.Product, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		p, err := mapRecord(raw)
		if err == nil && seen[p.ID] {
			err = fmt.Errorf("duplicate id")
		}
		if err != nil {
			q := Quarantined{Index: i, Reason: err.Error()}
			if raw.ID != nil {
				q.ID = *raw.ID
			}
			report.Quarantined = append(report.Quarantined, q)
			continue
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	report.Accepted = len(products)
	return products, report
}

// mapRecord validates one record
func mapRecord(raw rawProduct) (domain.Product, error) {
	switch {
	case raw.ID == nil || strings.TrimSpace(*raw.ID) == "":
		return domain.Product{}, fmt.Errorf("missing id")
	case raw.Name == nil || strings.TrimSpace(*raw.Name) == "":
		return domain.Product{}, fmt.Errorf("missing name")
	case raw.Category == nil || strings.TrimSpace(*raw.Category) == "":
		return domain.Product{}, fmt.Errorf("missing category")
	case raw.Price == nil:
		return domain.Product{}, fmt.Errorf("missing price")
	case *raw.Price < 0:
		return domain.Product{}, fmt.Errorf("negative price %v", *raw.Price)
	case raw.Rating < 0 || raw.Rating > 5:
		return domain.Product{}, fmt.Errorf("rating %v outside 0-5", raw.Rating)
	case raw.Reviews < 0:
		return domain.Product{}, fmt.Errorf("negative review count")
	case raw.ShippingDays < 0:
		return domain.Product{}, fmt.Errorf("negative shipping days")
	}

	return domain.Product{
		ID:           *raw.ID,
		Name:         *raw.Name,
		Brand:        raw.Brand,
		Category:     *raw.Category,
		Price:        *raw.Price,
		Rating:       raw.Rating,
		Reviews:      raw.Reviews,
		ShippingDays: raw.ShippingDays,
		Features:     nonNil(raw.Features),
		Tags:         nonNil(raw.Tags),
		Image:        raw.Image,
	}, nil
}

// toRaw turns an in-memory product back into a record for validation
func toRaw(p domain.Product) rawProduct {
	id, name, category, price := p.ID, p.Name, p.Category, p.Price
	return rawProduct{
		ID:           &id,
		Name:         &name,
		Brand:        p.Brand,
		Category:     &category,
		Price:        &price,
		Rating:       p.Rating,
		Reviews:      p.Reviews,
		ShippingDays: p.ShippingDays,
		Features:     p.Features,
		Tags:         p.Tags,
		Image:        p.Image,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
