// Package card provides the flashcard model shared by the store, the session engine and the importers.
package card

import "strings"

// Card is a single flashcard: a prompt on the front and its answer on the back.
type Card struct {
	Front string `json:"front" yaml:"front" validate:"required"`
	Back  string `json:"back" yaml:"back" validate:"required"`
}

// Key identifies a card by its contents. Two cards with the same front and back text
// share a key.
type Key struct {
	Front string
	Back  string
}

// New trims both sides and validates the resulting card.
func New(front, back string) (Card, error) {
	c := Card{
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
	}
	if err := Validate(c); err != nil {
		return Card{}, err
	}
	return c, nil
}

func (c Card) Key() Key {
	return Key{Front: c.Front, Back: c.Back}
}

// Summary returns the front text cut to maxRunes runes, for confirmations and listings.
func (c Card) Summary(maxRunes int) string {
	runes := []rune(c.Front)
	if len(runes) <= maxRunes {
		return c.Front
	}
	return string(runes[:maxRunes]) + "..."
}
