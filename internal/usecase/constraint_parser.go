package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

// Compiled patterns for rule-based constraint extraction
var (
	// Matches a 2-5 digit amount, optionally "$"-prefixed and "usd"-suffixed ("$50", "120 usd")
	budgetPattern = regexp.MustCompile(`\$?\s?(\d{2,5})(?:\s?usd)?`)

	// Matches a single digit next to "day"/"days" ("2 days", "3day")
	shippingPattern = regexp.MustCompile(`(\d)\s?(?:day|days)`)
)

// keywordVocabulary is scanned in declaration order
var keywordVocabulary = []string{
	"anc", "noise", "flight", "call", "mic", "usb-c", "usbc", "4k", "monitor",
	"keyboard", "vacuum", "air fryer", "ssd", "portable", "gps", "battery", "sleep",
}

// ConstraintParser extracts shopping constraints from free text.
// It is a substring heuristic, not a language model.
type ConstraintParser struct {
	enableDebugLogging bool
	log                zerolog.Logger
}

// NewConstraintParser creates a new constraint parser
func NewConstraintParser(enableDebugLogging bool) *ConstraintParser {
	return &ConstraintParser{
		enableDebugLogging: enableDebugLogging,
		log:                logger.Component("parser"),
	}
}

// Parse builds a constraint set from text, using categories (lower-cased,
// catalog order) for category detection. The first category that appears
// as a substring wins, so overlapping names resolve by catalog order.
func (p *ConstraintParser) Parse(text string, categories []string) domain.ConstraintSet {
	t := strings.ToLower(text)
	cs := domain.ConstraintSet{Keywords: []string{}}

	if m := budgetPattern.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			cs.Budget = &v
		}
	}

	for _, c := range categories {
		if c != "" && strings.Contains(t, c) {
			cat := c
			cs.Category = &cat
			break
		}
	}

	if m := shippingPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			cs.ShipMax = &n
		}
	}

	for _, k := range keywordVocabulary {
		if strings.Contains(t, k) {
			cs.Keywords = append(cs.Keywords, k)
		}
	}

	if p.enableDebugLogging {
		p.log.Debug().Str("input", text).Interface("constraints", cs).Msg("parsed constraints")
	}

	return cs
}
