package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardapp/internal/bootstrap"
	"github.com/at-ishikawa/cardapp/internal/cardstore"
	"github.com/at-ishikawa/cardapp/internal/database"
	"github.com/at-ishikawa/cardapp/internal/datasync"
	"github.com/at-ishikawa/cardapp/schemas"
)

func newDatasyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasync",
		Short: "Mirror the cards to a MySQL database",
	}
	cmd.AddCommand(
		newDatasyncExportCommand(),
		newDatasyncImportCommand(),
	)
	return cmd
}

func newDatasyncExportCommand() *cobra.Command {
	var dryRun bool
	var migrate bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the cards file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, err := openDeck()
			if err != nil {
				return err
			}
			cards, err := service.Cards()
			if err != nil {
				return fmt.Errorf("read cards: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			app := bootstrap.New(slog.Default())
			app.AddShutdownHook("database", func(ctx context.Context) error {
				return db.Close()
			})

			out := cmd.OutOrStdout()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				if migrate {
					applied, err := database.Migrate(ctx, db, schemas.Migrations)
					if err != nil {
						return fmt.Errorf("migrate: %w", err)
					}
					slog.Info("applied migrations", slog.Any("files", applied))
				}

				exporter := datasync.NewExporter(datasync.NewDBCardRepository(db), out)
				result, err := exporter.Export(ctx, cards, datasync.ExportOptions{DryRun: dryRun})
				if err != nil {
					return fmt.Errorf("export cards: %w", err)
				}

				_, _ = fmt.Fprintln(out, "\nExport Summary:")
				if dryRun {
					_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
				}
				_, _ = fmt.Fprintf(out, "  Cards: %d new, %d updated, %d unchanged, %d deleted\n",
					result.New, result.Updated, result.Unchanged, result.Deleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create the cards table before exporting")
	return cmd
}

func newDatasyncImportCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the cards file with the cards in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			app := bootstrap.New(slog.Default())
			app.AddShutdownHook("database", func(ctx context.Context) error {
				return db.Close()
			})

			out := cmd.OutOrStdout()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				importer := datasync.NewImporter(datasync.NewDBCardRepository(db), out)
				cards, err := importer.ImportCards(ctx)
				if err != nil {
					return fmt.Errorf("import cards: %w", err)
				}
				if dryRun {
					_, _ = fmt.Fprintf(out, "Would import %d cards (dry-run mode, no changes made)\n", len(cards))
					return nil
				}

				store := cardstore.NewJSONFileStore(cfg.Storage.CardsFile, cardstore.WithLogger(slog.Default()))
				if err := store.ReplaceAll(cards); err != nil {
					return fmt.Errorf("write cards: %w", err)
				}
				_, _ = fmt.Fprintf(out, "Imported %d cards into %s\n", len(cards), store.Path())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without writing the cards file")
	return cmd
}
