// Package script holds the authored content of a character's conversation:
// an ordered list of dialogue, quiz and ending entries.
package script

import (
	"errors"
	"fmt"
)

// ErrEmptyScript is returned when a script has no entries.
var ErrEmptyScript = errors.New("script has no entries")

// Script is the ordered content of one character's conversation. It is
// authored once and never mutated while a scene runs.
type Script []Entry

// Clone returns a deep copy so callers cannot mutate a registered script
// through a shared slice.
func (s Script) Clone() Script {
	out := make(Script, len(s))
	for i, e := range s {
		out[i] = e.clone()
	}
	return out
}

// Validate checks the authoring contract. All problems are reported
// together.
func (s Script) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScript
	}

	var errs []error
	for i, e := range s {
		if err := e.validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, e.Kind, err))
		}
	}
	return errors.Join(errs...)
}

func (e Entry) validate() error {
	switch e.Kind {
	case KindDialogue, KindGoodEnding, KindBadEnding:
		if len(e.Lines) == 0 {
			return errors.New("no lines")
		}
	case KindQuiz:
		if e.Question == "" {
			return errors.New("missing question")
		}
		if len(e.Options) == 0 {
			return errors.New("no options")
		}
		if len(e.Scores) > len(e.Options) {
			return fmt.Errorf("%d scores for %d options", len(e.Scores), len(e.Options))
		}
		if e.Answer != NoAnswer && (e.Answer < 0 || e.Answer >= len(e.Options)) {
			return fmt.Errorf("answer index %d out of range", e.Answer)
		}
	default:
		return fmt.Errorf("unknown kind %d", int(e.Kind))
	}
	return nil
}

// Endings returns the indexes of every ending entry.
func (s Script) Endings() []int {
	var out []int
	for i, e := range s {
		if e.Kind.IsEnding() {
			out = append(out, i)
		}
	}
	return out
}

// EndingRun returns the indexes of the contiguous ending entries starting
// at from. It is empty when s[from] is not an ending.
func (s Script) EndingRun(from int) []int {
	var out []int
	for i := from; i >= 0 && i < len(s) && s[i].Kind.IsEnding(); i++ {
		out = append(out, i)
	}
	return out
}

// MaxScore is the highest total a player can reach by always picking the
// best-scoring option.
func (s Script) MaxScore() int {
	total := 0
	for _, e := range s {
		if e.Kind != KindQuiz {
			continue
		}
		best := e.ScoreFor(0)
		for i := range e.Options {
			best = max(best, e.ScoreFor(i))
		}
		total += best
	}
	return total
}
