package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardapp/internal/bootstrap"
	"github.com/at-ishikawa/cardapp/internal/cli"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Study the stored cards interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := openDeck()
			if err != nil {
				return err
			}
			engine := service.Engine()

			app := bootstrap.New(slog.Default())
			app.AddShutdownHook("session summary", func(ctx context.Context) error {
				stats := engine.Stats()
				slog.Debug("study session ended",
					slog.String("session_id", engine.ID()),
					slog.String("state", engine.State().String()),
					slog.Int("reviewed", stats.Reviewed),
					slog.Int("learned", stats.Learned),
					slog.Int("total", stats.Total),
				)
				return nil
			})

			return app.Run(cmd.Context(), func(ctx context.Context) error {
				interactiveCLI := cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout())
				return interactiveCLI.Run(ctx, cli.NewStudySession(interactiveCLI, engine))
			})
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start a new shuffled session and show its first card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := openDeck()
			if err != nil {
				return err
			}
			if err := service.ResetSession(); err != nil {
				return fmt.Errorf("reset session: %w", err)
			}

			engine := service.Engine()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Session %s reset. %s\n", engine.ID(), engine.Progress())
			if current, ok := engine.Current(); ok {
				_, _ = fmt.Fprintf(out, "First card: %s\n", current.Summary(listSummaryLength))
			}
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the card file and session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := openDeck()
			if err != nil {
				return err
			}
			status, err := service.Status()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Cards file: %s\n", status.Storage.Path)
			if !status.Storage.Exists {
				_, _ = fmt.Fprintln(out, "  (not created yet)")
			} else {
				_, _ = fmt.Fprintf(out, "  Size:  %d bytes\n", status.Storage.SizeBytes)
				_, _ = fmt.Fprintf(out, "  Cards: %d\n", status.Storage.CardCount)
			}
			_, _ = fmt.Fprintf(out, "Session: %s (%s)\n", status.State, service.Engine().Progress())
			return nil
		},
	}
}
