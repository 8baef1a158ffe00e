package dialog

import (
	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/jwebster45206/npc-dialog/pkg/script"
)

// ContentKind is what the presentation layer should draw for a record.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentDialogue
	ContentQuiz
	ContentFeedback
	ContentEnding
)

func (k ContentKind) String() string {
	switch k {
	case ContentDialogue:
		return "dialogue"
	case ContentQuiz:
		return "quiz"
	case ContentFeedback:
		return "feedback"
	case ContentEnding:
		return "ending"
	default:
		return "none"
	}
}

// Content is the currently visible conversation panel of a record.
type Content struct {
	Kind    ContentKind
	Speaker string
	Text    string
	Options []string // quiz questions only
	Chosen  int      // feedback only: the option that was picked
	Correct bool     // feedback only
	Good    bool     // endings only
	Score   int
	Screen  *scene.Vec2 // projected character position, when a projector is set

	Line  int // position of Text within its entry
	Lines int // number of lines in the entry
}

func contentOf(r *Record) Content {
	c := Content{Speaker: r.Name(), Score: r.TotalScore, Chosen: -1}
	if !r.InDialog {
		return c
	}

	e := r.Entry()
	switch r.State() {
	case StateDialogueLine:
		c.Kind = ContentDialogue
		c.Text, c.Line, c.Lines = lineAt(e.Lines, r.LineIndex), r.LineIndex, len(e.Lines)
	case StateEnding:
		c.Kind = ContentEnding
		c.Good = e.Kind == script.KindGoodEnding
		c.Text, c.Line, c.Lines = lineAt(e.Lines, r.LineIndex), r.LineIndex, len(e.Lines)
	case StateQuizQuestion:
		c.Kind = ContentQuiz
		c.Text = e.Question
		c.Options = append([]string(nil), e.Options...)
		c.Lines = 1
	case StateQuizFeedback:
		c.Kind = ContentFeedback
		c.Chosen = r.Chosen
		c.Correct = e.IsCorrect(r.Chosen)
		c.Text, c.Line, c.Lines = lineAt(e.Feedback, r.LineIndex), r.LineIndex, len(e.Feedback)
	}
	return c
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}
