package assets

import (
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/cardapp/internal/card"
)

// DeckTemplate is the data passed to the printable deck template.
type DeckTemplate struct {
	Title      string
	Count      int
	ExportedAt time.Time
	Cards      []card.Card
}

func NewDeckTemplate(title string, cards []card.Card, exportedAt time.Time) DeckTemplate {
	return DeckTemplate{
		Title:      title,
		Count:      len(cards),
		ExportedAt: exportedAt,
		Cards:      cards,
	}
}

func WriteDeck(output io.Writer, templatePath string, templateData DeckTemplate) error {
	tmpl, err := ParseDeckTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseDeckTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
