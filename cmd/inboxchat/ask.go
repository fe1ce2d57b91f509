package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ajramos/inboxchat/internal/chat"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	askYes      bool
	askPrefetch bool
)

// askCmd runs a single chat request without the dashboard
var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Send one chat request and print the assistant's answer",
	Long: `Runs one request through the chat interpreter and prints the replies.

The last 5 emails are loaded first so numbered commands refer to the same
emails the dashboard would show.

Examples:
  inboxchat ask "Show my last 5 emails"
  inboxchat ask "Generate reply for email 2"
  inboxchat ask --yes "Delete email 3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		// a prefetch plus the request itself
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*e.cfg.GetTimeout())
		defer cancel()

		opts := askOptions{Prefetch: askPrefetch, ConfirmDelete: askYes}
		err = ask(ctx, e.assistant, strings.Join(args, " "), opts, cmd.OutOrStdout())
		if err != nil {
			e.logger.Warn("ask failed", zap.Error(err))
		}
		return err
	},
}

type askOptions struct {
	Prefetch      bool
	ConfirmDelete bool
}

// ask bootstraps a session, runs text through the interpreter and writes the
// assistant messages it produced to out
func ask(ctx context.Context, assistant services.AssistantService, text string, opts askOptions, out io.Writer) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("request cannot be empty: %w", services.ErrInvalidInput)
	}

	if _, err := assistant.Bootstrap(ctx); err != nil {
		if services.IsAuthError(err) {
			return fmt.Errorf("not signed in, run 'inboxchat login' and set the session cookie: %w", err)
		}
		return err
	}

	if opts.Prefetch && chat.Parse(text, 0).Kind != chat.KindShowLatest {
		if err := assistant.ShowLatest(ctx); err != nil {
			return err
		}
	}

	start := len(assistant.Snapshot().Transcript)
	// Failures are already explained in the transcript
	runErr := assistant.HandleInput(ctx, text)

	if assistant.Snapshot().PendingDelete >= 0 {
		if opts.ConfirmDelete {
			if err := assistant.ConfirmDelete(ctx); err != nil {
				runErr = err
			}
		} else {
			assistant.CancelDelete()
			defer fmt.Fprintln(out, "Re-run with --yes to confirm the delete.")
		}
	}

	for _, m := range assistant.Snapshot().Transcript[start:] {
		if m.IsUser() {
			continue
		}
		fmt.Fprintf(out, "%s\n\n", m.Text)
	}
	return runErr
}
