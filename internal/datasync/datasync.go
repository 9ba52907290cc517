// Package datasync mirrors the card file into a database and back.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/cardapp/internal/card"
)

// ExportResult tracks counts for an export.
type ExportResult struct {
	New       int
	Updated   int
	Unchanged int
	Deleted   int
}

// ExportOptions controls export behavior.
type ExportOptions struct {
	DryRun bool
}

// Exporter writes the card list to a CardRepository.
type Exporter struct {
	repo   CardRepository
	writer io.Writer
}

func NewExporter(repo CardRepository, writer io.Writer) *Exporter {
	return &Exporter{
		repo:   repo,
		writer: writer,
	}
}

// Export compares cards position by position with the mirrored list, reports every difference
// and, unless DryRun is set, replaces the mirrored list.
func (exp *Exporter) Export(ctx context.Context, cards []card.Card, opts ExportOptions) (*ExportResult, error) {
	existing, err := exp.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll() > %w", err)
	}

	var result ExportResult
	for i, c := range cards {
		switch {
		case i >= len(existing):
			fmt.Fprintf(exp.writer, "  [NEW]  #%d %q\n", i+1, c.Front)
			result.New++
		case existing[i] != c:
			fmt.Fprintf(exp.writer, "  [UPDATE]  #%d %q\n", i+1, c.Front)
			result.Updated++
		default:
			result.Unchanged++
		}
	}
	for i := len(cards); i < len(existing); i++ {
		fmt.Fprintf(exp.writer, "  [DELETE]  #%d %q\n", i+1, existing[i].Front)
		result.Deleted++
	}

	if opts.DryRun {
		return &result, nil
	}
	if result.New == 0 && result.Updated == 0 && result.Deleted == 0 {
		return &result, nil
	}
	if err := exp.repo.ReplaceAll(ctx, cards); err != nil {
		return nil, fmt.Errorf("ReplaceAll() > %w", err)
	}
	return &result, nil
}

// Importer reads the mirrored card list back.
type Importer struct {
	repo   CardRepository
	writer io.Writer
}

func NewImporter(repo CardRepository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// ImportCards returns the mirrored cards, dropping rows that are no longer valid cards.
func (imp *Importer) ImportCards(ctx context.Context) ([]card.Card, error) {
	rows, err := imp.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll() > %w", err)
	}

	cards := make([]card.Card, 0, len(rows))
	for i, row := range rows {
		c, err := card.New(row.Front, row.Back)
		if err != nil {
			fmt.Fprintf(imp.writer, "  [SKIP]  #%d: %v\n", i+1, err)
			continue
		}
		cards = append(cards, c)
	}
	return cards, nil
}
