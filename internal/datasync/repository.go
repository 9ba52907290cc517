package datasync

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/at-ishikawa/cardapp/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/datasync/mock_repository.go -package=mock_datasync

// CardRow is a card mirrored into the cards table.
type CardRow struct {
	ID        int64     `db:"id"`
	Position  int       `db:"position"`
	Front     string    `db:"front"`
	Back      string    `db:"back"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r CardRow) Card() card.Card {
	return card.Card{Front: r.Front, Back: r.Back}
}

// CardRepository stores an ordered copy of the card list.
type CardRepository interface {
	FindAll(ctx context.Context) ([]card.Card, error)
	ReplaceAll(ctx context.Context, cards []card.Card) error
}

// DBCardRepository implements CardRepository using MySQL.
type DBCardRepository struct {
	db *sqlx.DB
}

func NewDBCardRepository(db *sqlx.DB) *DBCardRepository {
	return &DBCardRepository{db: db}
}

// FindAll returns the mirrored cards in list order.
func (r *DBCardRepository) FindAll(ctx context.Context) ([]card.Card, error) {
	var rows []CardRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM cards ORDER BY position"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(cards) > %w", err)
	}
	cards := make([]card.Card, len(rows))
	for i, row := range rows {
		cards[i] = row.Card()
	}
	return cards, nil
}

// ReplaceAll swaps the mirrored list for cards in one transaction.
func (r *DBCardRepository) ReplaceAll(ctx context.Context, cards []card.Card) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
			return fmt.Errorf("tx.ExecContext(delete cards) > %w", err)
		}
		for i, c := range cards {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO cards (position, front, back) VALUES (?, ?, ?)",
				i, c.Front, c.Back); err != nil {
				return fmt.Errorf("tx.ExecContext(insert card %d) > %w", i, err)
			}
		}
		return nil
	})
}
