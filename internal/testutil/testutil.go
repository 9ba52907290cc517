// Package testutil provides shared test helpers for creating config files and card fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/at-ishikawa/cardapp/internal/cardstore"
	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file whose cards file and export directory live in tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "exports"), 0755))

	configContent := fmt.Sprintf(`storage:
  cards_file: %s
export:
  directory: %s
session:
  seed: 1
import:
  retry_attempts: 0
  timeout_seconds: 5
`,
		CardsFilePath(tmpDir),
		filepath.Join(tmpDir, "exports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CardsFilePath returns the cards file used by SetupTestConfig.
func CardsFilePath(tmpDir string) string {
	return filepath.Join(tmpDir, "cards.json")
}

// WriteCards stores cards in the file SetupTestConfig points to.
func WriteCards(t *testing.T, tmpDir string, cards ...card.Card) {
	t.Helper()
	require.NoError(t, cardstore.NewJSONFileStore(CardsFilePath(tmpDir)).Save(cards))
}

// ReadCards loads the cards from the file SetupTestConfig points to.
func ReadCards(t *testing.T, tmpDir string) []card.Card {
	t.Helper()
	cards, err := cardstore.NewJSONFileStore(CardsFilePath(tmpDir)).Load()
	require.NoError(t, err)
	return cards
}
