package dialog

import "fmt"

// Input is one discrete, already debounced player event for a frame.
type Input int

const (
	InputNone Input = iota
	InputStartInteraction
	InputAdvance
	InputChooseA
	InputChooseB
	InputChooseC
	InputChooseD
)

// Choose returns the input selecting option i (0-based). Quizzes in the
// shipped scripts have up to four options; wider indexes still map to an
// input and are ignored by quizzes that lack them.
func Choose(i int) Input {
	if i < 0 {
		return InputNone
	}
	return InputChooseA + Input(i)
}

// Option reports the option index selected by a choice input.
func (in Input) Option() (int, bool) {
	if in < InputChooseA {
		return 0, false
	}
	return int(in - InputChooseA), true
}

func (in Input) String() string {
	switch in {
	case InputNone:
		return "none"
	case InputStartInteraction:
		return "start_interaction"
	case InputAdvance:
		return "advance"
	}
	if i, ok := in.Option(); ok {
		return fmt.Sprintf("choose_%c", 'a'+rune(i))
	}
	return fmt.Sprintf("input(%d)", int(in))
}

// InputSource yields the input for the current frame.
type InputSource interface {
	Poll() Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Input

func (f InputFunc) Poll() Input { return f() }
