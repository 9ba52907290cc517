// Package session implements the study session: a shuffled walk over the cards where each
// card is either marked known and leaves the session, or marked for repeat and comes back
// in the next round.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/google/uuid"
)

type State int

const (
	// Empty means the session was started without any cards.
	Empty State = iota
	// Presenting means a current card is available.
	Presenting
	// Complete means every card was marked known.
	Complete
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Presenting:
		return "presenting"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// Stats summarises the progress of a session.
type Stats struct {
	Total     int
	Reviewed  int
	Learned   int
	Remaining int
	Round     int
}

// Engine holds the state of one study session. It is not safe for concurrent use.
type Engine struct {
	rand   *rand.Rand
	logger *slog.Logger

	id          string
	all         []card.Card
	deck        []card.Card
	cursor      int
	repeatQueue []card.Card
	learned     map[card.Key]struct{}
	state       State
	side        Side
	round       int
	reviewed    int
}

type Option func(*Engine)

// WithSeed makes the shuffles reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rand = rand.New(rand.NewSource(seed))
	}
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New returns an engine in the Empty state.
func New(opts ...Option) *Engine {
	e := &Engine{
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  slog.Default(),
		learned: make(map[card.Key]struct{}),
		state:   Empty,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start discards the current session and begins a new one over a shuffled copy of cards.
func (e *Engine) Start(cards []card.Card) {
	e.all = append([]card.Card(nil), cards...)
	e.id = uuid.NewString()
	e.deck = nil
	e.cursor = 0
	e.repeatQueue = nil
	e.learned = make(map[card.Key]struct{})
	e.side = Front
	e.round = 0
	e.reviewed = 0

	if len(e.all) == 0 {
		e.state = Empty
		e.logger.Debug("session started without cards", slog.String("session_id", e.id))
		return
	}

	e.deck = e.shuffled(e.all)
	e.round = 1
	e.state = Presenting
	e.logger.Debug("session started",
		slog.String("session_id", e.id),
		slog.Int("cards", len(e.deck)),
	)
}

// Reset starts over with the cards given to the last Start.
func (e *Engine) Reset() {
	e.Start(e.all)
}

func (e *Engine) shuffled(cards []card.Card) []card.Card {
	result := append([]card.Card(nil), cards...)
	e.rand.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// Current returns the card being presented, if any.
func (e *Engine) Current() (card.Card, bool) {
	if e.state != Presenting || e.cursor >= len(e.deck) {
		return card.Card{}, false
	}
	return e.deck[e.cursor], true
}

// Flip turns the current card over and returns the side now shown.
func (e *Engine) Flip() Side {
	if _, ok := e.Current(); !ok {
		return e.side
	}
	if e.side == Front {
		e.side = Back
	} else {
		e.side = Front
	}
	return e.side
}

// MarkKnown records the current card as learned and moves on.
func (e *Engine) MarkKnown() {
	c, ok := e.Current()
	if !ok {
		return
	}
	e.learned[c.Key()] = struct{}{}
	e.advance()
}

// MarkRepeat puts the current card back for the next round and moves on.
func (e *Engine) MarkRepeat() {
	c, ok := e.Current()
	if !ok {
		return
	}
	e.repeatQueue = append(e.repeatQueue, c)
	e.advance()
}

func (e *Engine) advance() {
	e.cursor++
	e.reviewed++
	e.side = Front

	if e.cursor < len(e.deck) {
		return
	}

	if len(e.repeatQueue) > 0 {
		e.deck = e.shuffled(e.repeatQueue)
		e.repeatQueue = nil
		e.cursor = 0
		e.round++
		e.logger.Debug("next round",
			slog.String("session_id", e.id),
			slog.Int("round", e.round),
			slog.Int("cards", len(e.deck)),
		)
		return
	}

	e.state = Complete
	e.logger.Debug("session complete",
		slog.String("session_id", e.id),
		slog.Int("reviewed", e.reviewed),
		slog.Int("learned", len(e.learned)),
	)
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Side() Side {
	return e.side
}

// Round is 1 for the first pass over the cards and 0 before any card was dealt.
func (e *Engine) Round() int {
	return e.round
}

// ID identifies the session in logs. It changes on every Start.
func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) Stats() Stats {
	return Stats{
		Total:     len(e.all),
		Reviewed:  e.reviewed,
		Learned:   len(e.learned),
		Remaining: len(e.deck) - e.cursor + len(e.repeatQueue),
		Round:     e.round,
	}
}

// Progress is a one-line summary for the study screen. The card counter is relative to the
// current round, so a repeat round counts only the repeated cards.
func (e *Engine) Progress() string {
	switch e.state {
	case Empty:
		return "No cards"
	case Complete:
		return "Session complete"
	default:
		return fmt.Sprintf("Card: %d/%d | Learned: %d", e.cursor+1, len(e.deck), len(e.learned))
	}
}
