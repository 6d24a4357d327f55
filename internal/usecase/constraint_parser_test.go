package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist/backend/internal/domain"
)

func TestNewConstraintParser(t *testing.T) {
	t.Run("creates parser with debug logging disabled", func(t *testing.T) {
		p := NewConstraintParser(false)
		if p.enableDebugLogging {
			t.Error("expected debug logging to be disabled")
		}
	})

	t.Run("creates parser with debug logging enabled", func(t *testing.T) {
		p := NewConstraintParser(true)
		if !p.enableDebugLogging {
			t.Error("expected debug logging to be enabled")
		}
	})
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func TestParse(t *testing.T) {
	p := NewConstraintParser(false)
	categories := []string{"audio", "computing", "home", "wearables"}

	testCases := []struct {
		name string
		text string
		want domain.ConstraintSet
	}{
		{
			name: "budget, shipping and keywords",
			text: "budget $50, need noise cancelling in 2 days",
			want: domain.ConstraintSet{
				Budget:   floatPtr(50),
				ShipMax:  intPtr(2),
				Keywords: []string{"anc", "noise"},
			},
		},
		{
			name: "empty text",
			text: "",
			want: domain.ConstraintSet{Keywords: []string{}},
		},
		{
			name: "budget without currency symbol followed by usd",
			text: "under 300 USD please",
			want: domain.ConstraintSet{Budget: floatPtr(300), Keywords: []string{}},
		},
		{
			name: "first number wins",
			text: "between $120 and $200",
			want: domain.ConstraintSet{Budget: floatPtr(120), Keywords: []string{}},
		},
		{
			name: "single digit is not a budget",
			text: "$9 cable",
			want: domain.ConstraintSet{Keywords: []string{}},
		},
		{
			name: "six digits truncate to first five",
			text: "$123456",
			want: domain.ConstraintSet{Budget: floatPtr(12345), Keywords: []string{}},
		},
		{
			name: "category detected case-insensitively",
			text: "Something for the HOME office",
			want: domain.ConstraintSet{Category: strPtr("home"), Keywords: []string{}},
		},
		{
			name: "category overlap resolves by catalog order",
			text: "home audio setup",
			want: domain.ConstraintSet{Category: strPtr("audio"), Keywords: []string{}},
		},
		{
			name: "shipping without space",
			text: "need it in 3day",
			want: domain.ConstraintSet{ShipMax: intPtr(3), Keywords: []string{}},
		},
		{
			name: "zero day shipping is ignored",
			text: "0 days",
			want: domain.ConstraintSet{Keywords: []string{}},
		},
		{
			name: "keywords follow vocabulary order",
			text: "sleep friendly portable ssd with usb-c and usbc",
			want: domain.ConstraintSet{Keywords: []string{"usb-c", "usbc", "ssd", "portable", "sleep"}},
		},
		{
			name: "multi-word keyword",
			text: "Air Fryer for a family",
			want: domain.ConstraintSet{Keywords: []string{"air fryer"}},
		},
		{
			name: "4k monitor with budget",
			text: "4k monitor around $400 for computing",
			want: domain.ConstraintSet{
				Budget:   floatPtr(400),
				Category: strPtr("computing"),
				Keywords: []string{"4k", "monitor"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Parse(tc.text, categories)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_DollarBudgetProperty(t *testing.T) {
	p := NewConstraintParser(false)
	for _, n := range []int{10, 99, 250, 1000, 4999, 99999} {
		text := fmt.Sprintf("looking for something at $%d max", n)
		got := p.Parse(text, nil)
		require.NotNil(t, got.Budget, text)
		assert.Equal(t, float64(n), *got.Budget, text)
	}
}

func TestParse_NoCategories(t *testing.T) {
	p := NewConstraintParser(true)
	got := p.Parse("audio gear", nil)
	assert.Nil(t, got.Category)
}
