package dialog

import "github.com/google/uuid"

// TransitionKind names a conversation state change.
type TransitionKind string

const (
	TransitionStarted   TransitionKind = "conversation.started"
	TransitionRejected  TransitionKind = "conversation.rejected"
	TransitionLine      TransitionKind = "dialogue.line"
	TransitionQuiz      TransitionKind = "quiz.shown"
	TransitionAnswered  TransitionKind = "quiz.answered"
	TransitionFeedback  TransitionKind = "quiz.feedback"
	TransitionEnding    TransitionKind = "ending.shown"
	TransitionEnded     TransitionKind = "conversation.ended"
	TransitionCancelled TransitionKind = "conversation.cancelled"
)

// Transition records one state change of a conversation. The manager
// queues them; callers drain the queue after each frame.
type Transition struct {
	Kind        TransitionKind `json:"kind"`
	RecordID    uuid.UUID      `json:"record_id"`
	Character   string         `json:"character"`
	ScriptIndex int            `json:"script_index"`
	LineIndex   int            `json:"line_index"`
	Option      int            `json:"option"`            // answered quizzes
	Delta       int            `json:"delta,omitempty"`   // score added by the answer
	Correct     bool           `json:"correct,omitempty"` // answer matched the quiz's answer index
	Score       int            `json:"score"`
	Good        bool           `json:"good,omitempty"` // endings
	Reason      string         `json:"reason,omitempty"`
}
