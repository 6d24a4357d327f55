package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopassist/backend/internal/domain"
)

func newProductsCmd(c *cli) *cobra.Command {
	var (
		criteria domain.FilterCriteria
		sortMode string
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products with filters",
		Example: `  shopassist products --category Audio --sort price_asc
  shopassist products -q monitor --max-price 400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria.Sort = domain.ParseSortMode(sortMode)
			if cmd.Flags().Changed("max-price") {
				criteria.MaxPrice = &maxPrice
			}

			if notice := c.app.Catalog.Status().Notice; notice != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), notice)
			}

			products := c.app.Catalog.Products(criteria)
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), products)
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVarP(&criteria.Query, "query", "q", "", "free-text search over name, brand, category, features and tags")
	cmd.Flags().StringVar(&criteria.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&sortMode, "sort", string(domain.SortRelevance), "relevance, price_asc, price_desc, rating_desc or ship_asc")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().Float64Var(&criteria.MinRating, "min-rating", 0, "minimum rating")
	return cmd
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products match.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(w, "%-6s %-32s %-10s $%8.2f  %.1f★ (%d)  %dd ship\n",
			p.ID, p.Name, p.Category, p.Price, p.Rating, p.Reviews, p.ShippingDays)
	}
	fmt.Fprintf(w, "%d product(s)\n", len(products))
}

func printLines(w io.Writer, lines ...string) {
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
