package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopassist/backend/internal/domain"
)

func newAskCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <text>",
		Short:   "Ask the assistant for a shortlist",
		Example: `  shopassist ask "budget $200, need noise cancelling in 2 days"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Session.Execute(cmd.Context(), domain.SendChat{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return c.printTool(cmd.OutOrStdout(), result.Tool)
		},
	}
}

func newToolCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tool <shortlist|bundle|negotiate|summarize> [context]",
		Short: "Run a named assistant tool",
		Example: `  shopassist tool bundle "new monitor setup"
  shopassist tool summarize`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := domain.RunTool{Name: args[0], Context: strings.Join(args[1:], " ")}
			result, err := c.app.Session.Execute(cmd.Context(), command)
			if err != nil {
				return err
			}
			return c.printTool(cmd.OutOrStdout(), result.Tool)
		},
	}
}

func (c *cli) printTool(w io.Writer, tool *domain.ToolResult) error {
	if tool == nil {
		return nil
	}
	if c.asJSON {
		return printJSON(w, tool)
	}
	for _, t := range tool.Trace {
		printLines(w, "> "+t)
	}
	printLines(w, tool.Message)
	return nil
}
