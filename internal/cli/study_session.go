package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/cardapp/internal/session"
)

const studyPrompt = "[f]lip  [k]nown  [r]epeat  [s]tats  [q]uit > "

// StudySession runs one study step per call against a session engine
type StudySession struct {
	*InteractiveCLI
	engine *session.Engine
}

func NewStudySession(cli *InteractiveCLI, engine *session.Engine) *StudySession {
	return &StudySession{
		InteractiveCLI: cli,
		engine:         engine,
	}
}

func (s *StudySession) Session(ctx context.Context) error {
	switch s.engine.State() {
	case session.Empty:
		_, _ = fmt.Fprintln(s.stdoutWriter, "No cards to study. Add one with `cardapp add` or import a file.")
		return errEnd
	case session.Complete:
		_, _ = s.green.Fprintf(s.stdoutWriter, "Session complete! You learned %d cards.\n", s.engine.Stats().Learned)
		return errEnd
	}

	current, ok := s.engine.Current()
	if !ok {
		return errEnd
	}

	_, _ = s.italic.Fprintln(s.stdoutWriter, s.engine.Progress())
	if s.engine.Side() == session.Front {
		_, _ = s.bold.Fprintf(s.stdoutWriter, "Q: %s\n", current.Front)
	} else {
		_, _ = s.bold.Fprintf(s.stdoutWriter, "A: %s\n", current.Back)
	}
	_, _ = fmt.Fprint(s.stdoutWriter, studyPrompt)

	line, err := s.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			_, _ = fmt.Fprintln(s.stdoutWriter)
			return errEnd
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
	}

	switch command := strings.ToLower(strings.TrimSpace(line)); command {
	case "", "f", "flip":
		s.engine.Flip()
	case "k", "known":
		s.engine.MarkKnown()
		_, _ = s.green.Fprintln(s.stdoutWriter, "Marked as known")
	case "r", "repeat":
		s.engine.MarkRepeat()
		_, _ = s.yellow.Fprintln(s.stdoutWriter, "Will repeat in the next round")
	case "s", "stats":
		s.printStats()
	case "q", "quit":
		s.printStats()
		return errEnd
	default:
		_, _ = fmt.Fprintf(s.stdoutWriter, "Unknown command: %s\n", command)
	}
	return nil
}

func (s *StudySession) printStats() {
	stats := s.engine.Stats()
	_, _ = fmt.Fprintf(s.stdoutWriter,
		"Round %d | Reviewed: %d | Learned: %d/%d | Remaining: %d\n",
		stats.Round, stats.Reviewed, stats.Learned, stats.Total, stats.Remaining,
	)
}
