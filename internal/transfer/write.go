package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/cardapp/internal/assets"
	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/at-ishikawa/cardapp/internal/cardstore"
	"github.com/at-ishikawa/cardapp/internal/pdf"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

var formatExtensions = map[Format]string{
	FormatJSON:     ".json",
	FormatYAML:     ".yaml",
	FormatMarkdown: ".md",
	FormatPDF:      ".pdf",
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", value)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return formatExtensions[f]
}

// WriteOptions controls the printable formats.
type WriteOptions struct {
	Title        string
	TemplatePath string
	ExportedAt   time.Time
}

func (o WriteOptions) deckTemplate(cards []card.Card) assets.DeckTemplate {
	title := o.Title
	if title == "" {
		title = "Flashcards"
	}
	exportedAt := o.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}
	return assets.NewDeckTemplate(title, cards, exportedAt)
}

// Write encodes cards to w. PDF needs a file and is only supported by WriteFile.
func Write(w io.Writer, cards []card.Card, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		data, err := cardstore.Encode(cards)
		if err != nil {
			return fmt.Errorf("cardstore.Encode() > %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("w.Write() > %w", err)
		}
		return nil
	case FormatYAML:
		if cards == nil {
			cards = []card.Card{}
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(cards); err != nil {
			return fmt.Errorf("encoder.Encode() > %w", err)
		}
		return encoder.Close()
	case FormatMarkdown:
		if err := assets.WriteDeck(w, opts.TemplatePath, opts.deckTemplate(cards)); err != nil {
			return fmt.Errorf("assets.WriteDeck() > %w", err)
		}
		return nil
	case FormatPDF:
		return fmt.Errorf("format %s can only be written to a file", format)
	}
	return fmt.Errorf("unsupported export format: %q", format)
}

// WriteFile writes cards to path and returns the absolute path of the written file.
func WriteFile(path string, cards []card.Card, format Format, opts WriteOptions) (string, error) {
	if format == FormatPDF {
		var markdown bytes.Buffer
		if err := Write(&markdown, cards, FormatMarkdown, opts); err != nil {
			return "", err
		}
		outputPath, err := pdf.Render(markdown.Bytes(), path)
		if err != nil {
			return "", fmt.Errorf("pdf.Render(%s) > %w", path, err)
		}
		return outputPath, nil
	}

	var buf bytes.Buffer
	if err := Write(&buf, cards, format, opts); err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return absPath, nil
}

// ExportPath resolves the destination of an export. An empty path falls back to
// DefaultExportName in directory, with the extension of format.
func ExportPath(path, directory string, format Format) string {
	if path != "" {
		return path
	}
	name := strings.TrimSuffix(DefaultExportName, filepath.Ext(DefaultExportName)) + format.Extension()
	return filepath.Join(directory, name)
}
