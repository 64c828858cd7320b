package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively, one run per line",
		Long: `chat reads questions from the terminal and answers each one in a fresh run.
Ctrl-C cancels the current run; Ctrl-C on an empty line or Ctrl-D exits.
Type /tools to list the tools, /quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if err := a.ensureExecutor(); err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          color.CyanString("> "),
				HistoryFile:     filepath.Join(os.TempDir(), ".reagent_history"),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			return a.chat(cmd.Context(), rl)
		},
	}
}

// lineReader is the part of readline.Instance used by chat.
type lineReader interface {
	Readline() (string, error)
}

// chat answers one question per line until EOF. Run errors are printed and the session
// continues.
func (a *app) chat(ctx context.Context, rl lineReader) error {
	fmt.Fprintln(a.io.stdout, color.New(color.Faint).Sprint("Ask a question. /tools lists tools, /quit exits."))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/tools":
			for _, name := range a.registry.Names() {
				fmt.Fprintln(a.io.stdout, "  "+name)
			}
			continue
		}

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		err = a.ask(runCtx, line)
		stop()
		if err != nil {
			fmt.Fprintln(a.io.stdout, color.RedString("Error: %v", err))
		}
	}
}
