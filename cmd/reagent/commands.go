package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.ask(ctx, strings.Join(args, " "))
		},
	}
}

func newToolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools available to the agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range a.registry.Tools() {
				fmt.Fprintf(out, "%s  %s\n", color.CyanString("%-12s", t.Name()), t.Description())
			}
			return nil
		},
	}
}

func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demo questions offline",
		Long: `demo runs each built-in question against the scripted model and canned tools.
No network access or API key is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.offline = true
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, s := range demoScenarios {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s %s\n", color.CyanString("Question:"), s.question)
				if err := a.ask(cmd.Context(), s.question); err != nil {
					return fmt.Errorf("demo %s: %w", s.name, err)
				}
			}
			return nil
		},
	}
}
