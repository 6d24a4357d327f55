package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

// FileSource reads the catalog from a local JSON or YAML file
type FileSource struct {
	path string
	log  zerolog.Logger
}

// NewFileSource creates a file-backed catalog source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, log: logger.Component("catalog.file")}
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	products, report, err := Decode(data, formatFromPath(s.path))
	if err != nil {
		return nil, err
	}
	logReport(s.log, report)
	return products, nil
}

// StaticSource serves a fixed product list, validated like any decoded document
type StaticSource []domain.Product

// Load returns a validated copy of the list
func (s StaticSource) Load(ctx context.Context) ([]domain.Product, error) {
	raws := make([]rawProduct, len(s))
	for i, p := range s {
		raws[i] = toRaw(p)
	}
	products, report := mapRecords(raws)
	logReport(logger.Component("catalog.static"), report)
	return products, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
