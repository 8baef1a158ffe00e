package dialog

import "github.com/jwebster45206/npc-dialog/pkg/script"

// EndingSelector picks which ending a conversation shows when progression
// reaches a run of consecutive ending entries. candidates holds their script
// indexes in order; the returned index must be one of them.
type EndingSelector interface {
	SelectEnding(r *Record, candidates []int) int
}

// FirstEnding follows the script linearly: the first ending reached is
// shown, and finishing it ends the conversation.
type FirstEnding struct{}

func (FirstEnding) SelectEnding(_ *Record, candidates []int) int {
	return candidates[0]
}

// ScoreThreshold routes to the good ending when the score is at or above
// Threshold, or at or below it when LowIsGood is set. When the run lacks the
// wanted variant the first candidate is used.
type ScoreThreshold struct {
	Threshold int
	LowIsGood bool
}

func (s ScoreThreshold) SelectEnding(r *Record, candidates []int) int {
	good := r.TotalScore >= s.Threshold
	if s.LowIsGood {
		good = r.TotalScore <= s.Threshold
	}
	want := script.KindBadEnding
	if good {
		want = script.KindGoodEnding
	}
	for _, idx := range candidates {
		if r.Script[idx].Kind == want {
			return idx
		}
	}
	return candidates[0]
}

// EndingFunc adapts a function to EndingSelector.
type EndingFunc func(r *Record, candidates []int) int

func (f EndingFunc) SelectEnding(r *Record, candidates []int) int { return f(r, candidates) }
