// Package deck ties the card store to a study session.
package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/at-ishikawa/cardapp/internal/cardstore"
	"github.com/at-ishikawa/cardapp/internal/session"
	"github.com/at-ishikawa/cardapp/internal/transfer"
)

// Service applies card edits to the store and restarts the study session after each of them.
// It is not safe for concurrent use.
type Service struct {
	store  cardstore.Store
	engine *session.Engine
	logger *slog.Logger
}

// URLFetcher downloads and parses an import payload.
type URLFetcher interface {
	FetchAndParse(ctx context.Context, url string) (transfer.Result, error)
}

type ImportResult struct {
	Imported int
	Skipped  int
}

type Status struct {
	Storage cardstore.Status
	Session session.Stats
	State   session.State
}

func NewService(store cardstore.Store, engine *session.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// Open loads the stored cards and starts a session. An unreadable file starts an empty session.
func (s *Service) Open() error {
	cards, err := s.store.Load()
	if err != nil {
		var readErr *cardstore.ReadError
		if !errors.As(err, &readErr) {
			return fmt.Errorf("store.Load() > %w", err)
		}
		s.logger.Warn("starting with no cards", slog.Any("error", err))
	}
	s.engine.Start(cards)
	return nil
}

func (s *Service) Engine() *session.Engine {
	return s.engine
}

func (s *Service) Cards() ([]card.Card, error) {
	cards, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("store.Load() > %w", err)
	}
	return cards, nil
}

func (s *Service) Add(front, back string) (card.Card, error) {
	c, err := card.New(front, back)
	if err != nil {
		return card.Card{}, err
	}
	if err := s.store.Append(c); err != nil {
		return card.Card{}, fmt.Errorf("store.Append() > %w", err)
	}
	return c, s.restart()
}

func (s *Service) Edit(index int, front, back string) (card.Card, error) {
	c, err := card.New(front, back)
	if err != nil {
		return card.Card{}, err
	}
	if err := s.store.ReplaceAt(index, c); err != nil {
		return card.Card{}, fmt.Errorf("store.ReplaceAt(%d) > %w", index, err)
	}
	return c, s.restart()
}

func (s *Service) Delete(index int) error {
	if err := s.store.DeleteAt(index); err != nil {
		return fmt.Errorf("store.DeleteAt(%d) > %w", index, err)
	}
	return s.restart()
}

// Import replaces every stored card with the valid records of payload.
func (s *Service) Import(payload []byte) (ImportResult, error) {
	result, err := transfer.Parse(payload)
	if err != nil {
		return ImportResult{Skipped: result.Skipped}, err
	}
	return s.replaceAll(result)
}

func (s *Service) ImportFile(path string) (ImportResult, error) {
	result, err := transfer.ReadFile(path)
	if err != nil {
		return ImportResult{Skipped: result.Skipped}, err
	}
	return s.replaceAll(result)
}

// ImportURL replaces every stored card with the valid records downloaded from url.
func (s *Service) ImportURL(ctx context.Context, fetcher URLFetcher, url string) (ImportResult, error) {
	result, err := fetcher.FetchAndParse(ctx, url)
	if err != nil {
		return ImportResult{Skipped: result.Skipped}, err
	}
	return s.replaceAll(result)
}

func (s *Service) replaceAll(result transfer.Result) (ImportResult, error) {
	if err := s.store.ReplaceAll(result.Cards); err != nil {
		return ImportResult{}, fmt.Errorf("store.ReplaceAll() > %w", err)
	}
	s.logger.Info("imported cards",
		slog.Int("imported", len(result.Cards)),
		slog.Int("skipped", result.Skipped),
	)
	return ImportResult{Imported: len(result.Cards), Skipped: result.Skipped}, s.restart()
}

func (s *Service) Export(w io.Writer, format transfer.Format, opts transfer.WriteOptions) error {
	cards, err := s.Cards()
	if err != nil {
		return err
	}
	return transfer.Write(w, cards, format, opts)
}

// ExportFile writes the stored cards to path and returns the absolute path written.
func (s *Service) ExportFile(path string, format transfer.Format, opts transfer.WriteOptions) (string, error) {
	cards, err := s.Cards()
	if err != nil {
		return "", err
	}
	return transfer.WriteFile(path, cards, format, opts)
}

// ResetSession starts the session over with the stored cards.
func (s *Service) ResetSession() error {
	return s.restart()
}

func (s *Service) Status() (Status, error) {
	storage, err := s.store.Status()
	if err != nil {
		return Status{}, fmt.Errorf("store.Status() > %w", err)
	}
	return Status{
		Storage: storage,
		Session: s.engine.Stats(),
		State:   s.engine.State(),
	}, nil
}

func (s *Service) restart() error {
	cards, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("store.Load() > %w", err)
	}
	s.engine.Start(cards)
	s.logger.Debug("session restarted",
		slog.String("session_id", s.engine.ID()),
		slog.Int("cards", len(cards)),
	)
	return nil
}
