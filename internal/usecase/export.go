package usecase

import (
	"encoding/json"
	"time"

	"github.com/shopassist/backend/internal/domain"
)

const (
	exportCurrency   = "USD"
	exportNote       = "This is a mock export from the static prototype."
	exportTimeLayout = "2006-01-02T15:04:05.000Z"
	// ExportFilename is the suggested download name
	ExportFilename = "cart_export.json"
)

// BuildExport renders the cart as an export document. Entries whose product
// is not in the catalog are left out of items, item_count and total.
func BuildExport(catalog *domain.Catalog, entries []domain.CartEntry, now time.Time) domain.ExportDocument {
	doc := domain.ExportDocument{
		GeneratedAt: now.UTC().Format(exportTimeLayout),
		Currency:    exportCurrency,
		Items:       []domain.ExportItem{},
		Note:        exportNote,
	}

	for _, e := range entries {
		p, ok := catalog.Find(e.ID)
		if !ok {
			continue
		}
		line := p.Price * float64(e.Qty)
		doc.Items = append(doc.Items, domain.ExportItem{
			ID:        e.ID,
			Name:      p.Name,
			Qty:       e.Qty,
			UnitPrice: p.Price,
			LineTotal: line,
		})
		doc.ItemCount += e.Qty
		doc.Total += line
	}

	return doc
}

// MarshalExport encodes the document with two-space indentation
func MarshalExport(doc domain.ExportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
