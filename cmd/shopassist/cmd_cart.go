package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/internal/usecase"
)

func newCartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Long: `Show or change the cart.

Without a subcommand the current cart is printed. Changes survive between
runs only with persistence.type=sqlite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printSnapshot(cmd.OutOrStdout(), c.app.Session.Snapshot())
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Catalog.Find(args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			result, err := c.app.Session.Execute(cmd.Context(), domain.AddToCart{ID: args[0], Delta: qty})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), result.Notice)
			return c.printSnapshot(cmd.OutOrStdout(), result.Snapshot)
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "quantity to add (negative to reduce)")

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Session.Execute(cmd.Context(), domain.RemoveFromCart{ID: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), result.Notice)
			return c.printSnapshot(cmd.OutOrStdout(), result.Snapshot)
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Empty cart and compare and delete the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Session.Execute(cmd.Context(), domain.ResetSession{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), result.Notice)
			return c.printSnapshot(cmd.OutOrStdout(), result.Snapshot)
		},
	}

	cmd.AddCommand(add, remove, reset)
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cart export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := usecase.MarshalExport(c.app.Session.Export())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout, e.g. "+usecase.ExportFilename+")")
	return cmd
}

func (c *cli) printSnapshot(w io.Writer, snap domain.SessionSnapshot) error {
	if c.asJSON {
		return printJSON(w, snap)
	}
	if len(snap.Cart) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return nil
	}
	for _, line := range snap.Cart {
		fmt.Fprintf(w, "%d× %-32s $%9.2f\n", line.Qty, line.Product.Name, line.LineTotal)
	}
	fmt.Fprintf(w, "%d item(s), total $%.2f\n", snap.ItemCount, snap.Total)
	return nil
}
