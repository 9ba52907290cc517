package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardapp/internal/cardstore"
)

const listSummaryLength = 60

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <front> <back>",
		Short: "Add a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := openDeck()
			if err != nil {
				return err
			}

			c, err := service.Add(args[0], args[1])
			if err != nil {
				return fmt.Errorf("add card: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", c.Summary(listSummaryLength))
			return nil
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := openDeck()
			if err != nil {
				return err
			}

			cards, err := service.Cards()
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				_, _ = fmt.Fprintln(out, "No cards yet.")
				return nil
			}
			for i, c := range cards {
				_, _ = fmt.Fprintf(out, "%3d. %s | %s\n", i+1, oneLine(c.Summary(listSummaryLength)), oneLine(c.Back))
			}
			return nil
		},
	}
}

func newEditCommand() *cobra.Command {
	var front, back string
	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit a card by its number in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("front") && !cmd.Flags().Changed("back") {
				return fmt.Errorf("nothing to edit: set --front or --back")
			}

			_, service, err := openDeck()
			if err != nil {
				return err
			}
			cards, err := service.Cards()
			if err != nil {
				return fmt.Errorf("edit card: %w", err)
			}
			if index >= len(cards) {
				return fmt.Errorf("edit card: %w", &cardstore.IndexError{Index: index, Len: len(cards)})
			}
			if !cmd.Flags().Changed("front") {
				front = cards[index].Front
			}
			if !cmd.Flags().Changed("back") {
				back = cards[index].Back
			}

			c, err := service.Edit(index, front, back)
			if err != nil {
				return fmt.Errorf("edit card: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d: %s\n", index+1, c.Summary(listSummaryLength))
			return nil
		},
	}
	cmd.Flags().StringVar(&front, "front", "", "New question text")
	cmd.Flags().StringVar(&back, "back", "", "New answer text")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a card by its number in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			_, service, err := openDeck()
			if err != nil {
				return err
			}
			cards, err := service.Cards()
			if err != nil {
				return fmt.Errorf("delete card: %w", err)
			}
			if index >= len(cards) {
				return fmt.Errorf("delete card: %w", &cardstore.IndexError{Index: index, Len: len(cards)})
			}

			if !yes {
				prompt := fmt.Sprintf("Delete #%d: %s? [y/N]: ", index+1, cards[index].Summary(listSummaryLength))
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
				if err != nil {
					return fmt.Errorf("confirm deletion: %w", err)
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := service.Delete(index); err != nil {
				return fmt.Errorf("delete card: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", index+1)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
