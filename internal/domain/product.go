package domain

import (
	"sort"
	"strings"
)

// Product is a single purchasable catalog record
type Product struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Brand        string   `json:"brand" yaml:"brand"`
	Category     string   `json:"category" yaml:"category"`
	Price        float64  `json:"price" yaml:"price"`
	Rating       float64  `json:"rating" yaml:"rating"`
	Reviews      int      `json:"reviews" yaml:"reviews"`
	ShippingDays int      `json:"shipping_days" yaml:"shipping_days"`
	Features     []string `json:"features" yaml:"features"`
	Tags         []string `json:"tags" yaml:"tags"`
	Image        string   `json:"image" yaml:"image"`
}

// MatchText is the lower-cased name, features and tags used for relevance and keyword matching
func (p Product) MatchText() string {
	parts := make([]string, 0, 1+len(p.Features)+len(p.Tags))
	parts = append(parts, p.Name)
	parts = append(parts, strings.Join(p.Features, " "))
	parts = append(parts, strings.Join(p.Tags, " "))
	return strings.ToLower(strings.Join(parts, " "))
}

// SearchText is the lower-cased haystack for free-text catalog filtering
func (p Product) SearchText() string {
	parts := make([]string, 0, 3+len(p.Features)+len(p.Tags))
	parts = append(parts, p.Name, p.Brand, p.Category)
	parts = append(parts, p.Features...)
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Catalog is the read-only product list for a session.
// The zero value is an empty catalog.
type Catalog struct {
	products []Product
	index    map[string]int
}

// NewCatalog builds a catalog from products in enumeration order.
// Later duplicates of an id are ignored.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Products returns a copy of the catalog in enumeration order
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Find looks a product up by id
func (c *Catalog) Find(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Categories returns the distinct lower-cased categories in enumeration order
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		cat := strings.ToLower(p.Category)
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// DisplayCategories returns the distinct categories as written, sorted
func (c *Catalog) DisplayCategories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
