package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/at-ishikawa/cardapp/internal/cardstore"
	"github.com/at-ishikawa/cardapp/internal/config"
	"github.com/at-ishikawa/cardapp/internal/deck"
	"github.com/at-ishikawa/cardapp/internal/session"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openDeck loads the config and opens the card file with a fresh session.
func openDeck() (*config.Config, *deck.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.Default()
	store := cardstore.NewJSONFileStore(cfg.Storage.CardsFile, cardstore.WithLogger(logger))

	opts := []session.Option{session.WithLogger(logger)}
	if cfg.Session.Seed != 0 {
		opts = append(opts, session.WithSeed(cfg.Session.Seed))
	}

	service := deck.NewService(store, session.New(opts...), logger)
	if err := service.Open(); err != nil {
		return nil, nil, fmt.Errorf("open deck: %w", err)
	}
	return cfg, service, nil
}

// parsePosition converts a 1-based position argument to an index.
func parsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(arg)
	if err != nil || position < 1 {
		return 0, fmt.Errorf("invalid card number %q: must be a positive integer", arg)
	}
	return position - 1, nil
}

// confirm asks a yes/no question. Anything but y or yes, including no input at all, is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("fmt.Fprint() > %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("ReadString() > %w", err)
	}
	_, _ = fmt.Fprintln(out)

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
