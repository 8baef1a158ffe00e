package dialog

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/jwebster45206/npc-dialog/pkg/script"
)

// Character is the handle of a scene-owned character. Records keep it as a
// non-owning reference. Implementations must not be nil pointers.
type Character interface {
	Name() string
	Position() scene.Vec3
	SetStatic(static bool)
	Animations() []scene.Animation
	PlayAnimation(i int) // restarts clip i at frame 0
	StopAnimation()
}

// State is the conversation state of a record.
type State int

const (
	StateNotInConversation State = iota
	StateDialogueLine
	StateQuizQuestion
	StateQuizFeedback
	StateEnding
)

func (s State) String() string {
	switch s {
	case StateNotInConversation:
		return "NotInConversation"
	case StateDialogueLine:
		return "DialogueLine"
	case StateQuizQuestion:
		return "QuizQuestion"
	case StateQuizFeedback:
		return "QuizFeedback"
	case StateEnding:
		return "Ending"
	default:
		return "Unknown"
	}
}

// Record is the interaction state of one registered character. Records are
// created by Manager.AddCharacter and stay valid for the manager's
// lifetime.
type Record struct {
	ID        uuid.UUID
	Character Character
	Script    script.Script

	RouteEnabled bool // character may be engaged
	ShowIcon     bool // recomputed every frame
	InDialog     bool
	ScriptIndex  int
	LineIndex    int // line of a dialogue/ending, or feedback line of an answered quiz
	Chosen       int // option picked on the current quiz; -1 while the question shows
	TotalScore   int

	IsPlayingIdleAnimation bool
	IdleAnimationTime      float64
	IdleAnimationIndex     int // -1 when the character has no idle clip

	idleDelay float64
	unlocks   []*Record
}

// Name returns the character's display name.
func (r *Record) Name() string {
	if r.Character == nil {
		return ""
	}
	return r.Character.Name()
}

// Entry returns the current script entry.
func (r *Record) Entry() script.Entry {
	return r.Script[r.ScriptIndex]
}

// State derives the conversation state from the record's indexes.
func (r *Record) State() State {
	if !r.InDialog {
		return StateNotInConversation
	}
	e := r.Entry()
	switch {
	case e.Kind == script.KindQuiz && r.Chosen < 0:
		return StateQuizQuestion
	case e.Kind == script.KindQuiz:
		return StateQuizFeedback
	case e.Kind.IsEnding():
		return StateEnding
	default:
		return StateDialogueLine
	}
}

// Reset returns the record to its freshly registered conversation state,
// including the score. Route and idle state are untouched.
func (r *Record) Reset() {
	r.clearConversation()
	r.TotalScore = 0
}

func (r *Record) clearConversation() {
	r.InDialog = false
	r.ScriptIndex = 0
	r.LineIndex = 0
	r.Chosen = -1
}
