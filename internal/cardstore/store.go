// Package cardstore persists the card list as a single JSON document.
package cardstore

import (
	"github.com/at-ishikawa/cardapp/internal/card"
)

//go:generate mockgen -source=store.go -destination=../mocks/cardstore/mock_store.go -package=mock_cardstore

// Store is the durable, ordered list of cards. Every mutation rewrites the whole list.
type Store interface {
	Load() ([]card.Card, error)
	Save(cards []card.Card) error
	Append(c card.Card) error
	ReplaceAt(index int, c card.Card) error
	DeleteAt(index int) error
	ReplaceAll(cards []card.Card) error
	Status() (Status, error)
}

// Status describes the file backing a Store.
type Status struct {
	Path      string
	Exists    bool
	SizeBytes int64
	CardCount int
}
