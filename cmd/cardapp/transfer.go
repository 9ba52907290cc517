package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardapp/internal/bootstrap"
	"github.com/at-ishikawa/cardapp/internal/deck"
	"github.com/at-ishikawa/cardapp/internal/transfer"
)

func newExportCommand() *cobra.Command {
	var format string
	var title string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the stored cards",
		Long: fmt.Sprintf(
			"Export the stored cards as json, yaml, markdown or pdf. Without a path the file is written to the export directory as %s with the extension of the format.",
			transfer.DefaultExportName,
		),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, service, err := openDeck()
			if err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			}
			path = transfer.ExportPath(path, cfg.Export.Directory, exportFormat)

			outputPath, err := service.ExportFile(path, exportFormat, transfer.WriteOptions{
				Title:        title,
				TemplatePath: cfg.Export.MarkdownTemplate,
				ExportedAt:   time.Now(),
			})
			if err != nil {
				return fmt.Errorf("export cards: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(transfer.FormatJSON), "Export format: json, yaml, markdown or pdf")
	cmd.Flags().StringVar(&title, "title", "Flashcards", "Title of markdown and pdf exports")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Replace the stored cards with the cards of a JSON file",
		Long:  "Replace the stored cards with a JSON array of {\"front\": ..., \"back\": ...} objects read from a file or an http(s) URL. Entries without both keys are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, err := openDeck()
			if err != nil {
				return err
			}
			source := args[0]

			var result deck.ImportResult
			if !isURL(source) {
				result, err = service.ImportFile(source)
			} else {
				fetcher := transfer.NewFetcher(time.Duration(cfg.Import.TimeoutSeconds)*time.Second, cfg.Import.RetryAttempts)
				app := bootstrap.New(slog.Default())
				app.AddShutdownHook("http client", func(ctx context.Context) error {
					return fetcher.Close()
				})
				err = app.Run(cmd.Context(), func(ctx context.Context) error {
					result, err = service.ImportURL(ctx, fetcher, source)
					return err
				})
			}
			if err != nil {
				return fmt.Errorf("import cards: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards", result.Imported)
			if result.Skipped > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (%d invalid entries skipped)", result.Skipped)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
