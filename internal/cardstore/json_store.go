package cardstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/at-ishikawa/cardapp/internal/card"
)

// JSONFileStore keeps cards in one JSON file. It assumes a single writer and is not
// safe for concurrent use.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

type Option func(*JSONFileStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *JSONFileStore) {
		s.logger = logger
	}
}

func NewJSONFileStore(path string, opts ...Option) *JSONFileStore {
	s := &JSONFileStore{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JSONFileStore) Path() string {
	return s.path
}

// Load returns the stored cards. A missing or empty file is an empty list.
// On a read or parse failure it logs, and returns an empty list together with a *ReadError.
func (s *JSONFileStore) Load() ([]card.Card, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []card.Card{}, nil
	}
	if err != nil {
		return s.readFailed(fmt.Errorf("os.Stat(%s) > %w", s.path, err))
	}
	if info.Size() == 0 {
		return []card.Card{}, nil
	}

	contents, err := os.ReadFile(s.path)
	if err != nil {
		return s.readFailed(fmt.Errorf("os.ReadFile(%s) > %w", s.path, err))
	}

	var cards []card.Card
	if err := json.Unmarshal(contents, &cards); err != nil {
		return s.readFailed(fmt.Errorf("json.Unmarshal > %w", err))
	}
	if cards == nil {
		cards = []card.Card{}
	}
	return cards, nil
}

func (s *JSONFileStore) readFailed(err error) ([]card.Card, error) {
	s.logger.Error("failed to load cards",
		slog.String("path", s.path),
		slog.Any("error", err),
	)
	return []card.Card{}, &ReadError{Path: s.path, Err: err}
}

// Save replaces the file with the given cards. The new contents are written to a
// temporary file in the same directory and renamed over the old one, so a failed
// save never leaves a partial file behind.
func (s *JSONFileStore) Save(cards []card.Card) error {
	if err := s.save(cards); err != nil {
		s.logger.Error("failed to save cards",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
		return &WriteError{Path: s.path, Err: err}
	}
	s.logger.Debug("saved cards",
		slog.String("path", s.path),
		slog.Int("count", len(cards)),
	)
	return nil
}

func (s *JSONFileStore) save(cards []card.Card) error {
	contents, err := Encode(cards)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	tempPath := file.Name()

	success := false
	defer func() {
		if file != nil {
			_ = file.Close()
		}
		if !success {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("file.Sync > %w", err)
	}
	// Close before rename; Windows refuses to rename an open file.
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	file = nil

	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s) > %w", tempPath, s.path, err)
	}
	success = true
	return nil
}

// Encode renders cards the way they are stored: a two-space indented JSON array,
// UTF-8 text left unescaped.
func Encode(cards []card.Card) ([]byte, error) {
	if cards == nil {
		cards = []card.Card{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cards); err != nil {
		return nil, fmt.Errorf("encoder.Encode > %w", err)
	}
	return buf.Bytes(), nil
}

// The mutation helpers refuse to run on a file Load could not read, so an unreadable
// file is never silently replaced.

func (s *JSONFileStore) Append(c card.Card) error {
	cards, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(cards, c))
}

func (s *JSONFileStore) ReplaceAt(index int, c card.Card) error {
	cards, err := s.Load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(cards) {
		return &IndexError{Index: index, Len: len(cards)}
	}
	cards[index] = c
	return s.Save(cards)
}

func (s *JSONFileStore) DeleteAt(index int) error {
	cards, err := s.Load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(cards) {
		return &IndexError{Index: index, Len: len(cards)}
	}
	cards = append(cards[:index], cards[index+1:]...)
	return s.Save(cards)
}

// ReplaceAll overwrites the stored list without reading it first, which also makes it
// the way to recover from an unreadable file.
func (s *JSONFileStore) ReplaceAll(cards []card.Card) error {
	return s.Save(cards)
}

func (s *JSONFileStore) Status() (Status, error) {
	status := Status{Path: s.path}

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return status, nil
	case err != nil:
		return status, fmt.Errorf("os.Stat(%s) > %w", s.path, err)
	}
	status.Exists = true
	status.SizeBytes = info.Size()

	cards, err := s.Load()
	if err != nil {
		return status, err
	}
	status.CardCount = len(cards)
	return status, nil
}
