package script

import (
	"fmt"
	"strings"
)

// Kind is the discriminant of a script entry.
type Kind int

const (
	KindDialogue Kind = iota
	KindQuiz
	KindGoodEnding
	KindBadEnding
)

var kindNames = map[Kind]string{
	KindDialogue:   "dialogue",
	KindQuiz:       "quiz",
	KindGoodEnding: "good_ending",
	KindBadEnding:  "bad_ending",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsEnding reports whether the entry terminates a conversation.
func (k Kind) IsEnding() bool {
	return k == KindGoodEnding || k == KindBadEnding
}

// ParseKind accepts the names produced by String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	switch s {
	case "goodend", "good":
		return KindGoodEnding, nil
	case "badend", "bad":
		return KindBadEnding, nil
	}
	return 0, fmt.Errorf("unknown entry kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown entry kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NoAnswer marks a quiz without a correct option.
const NoAnswer = -1

// Entry is one unit of a script. Kind selects which fields are meaningful:
// dialogue and endings use Lines, quizzes use the remaining fields.
type Entry struct {
	Kind  Kind     `json:"kind" yaml:"kind"`
	Lines []string `json:"lines,omitempty" yaml:"lines,omitempty"`

	Question string   `json:"question,omitempty" yaml:"question,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Scores   []int    `json:"scores,omitempty" yaml:"scores,omitempty"`     // parallel to Options; missing deltas count as 0
	Answer   int      `json:"answer" yaml:"answer"`                         // NoAnswer when the quiz is not evaluated
	Feedback []string `json:"feedback,omitempty" yaml:"feedback,omitempty"` // shown after any option is chosen
}

// Dialogue builds a plain run of lines.
func Dialogue(lines ...string) Entry {
	return Entry{Kind: KindDialogue, Lines: lines, Answer: NoAnswer}
}

// GoodEnding builds a terminal entry for the successful route.
func GoodEnding(lines ...string) Entry {
	return Entry{Kind: KindGoodEnding, Lines: lines, Answer: NoAnswer}
}

// BadEnding builds a terminal entry for the failed route.
func BadEnding(lines ...string) Entry {
	return Entry{Kind: KindBadEnding, Lines: lines, Answer: NoAnswer}
}

// Quiz builds a question with its options. Scores, answer and feedback are
// attached with the With* methods.
func Quiz(question string, options ...string) Entry {
	return Entry{Kind: KindQuiz, Question: question, Options: options, Answer: NoAnswer}
}

func (e Entry) WithScores(scores ...int) Entry {
	e.Scores = scores
	return e
}

func (e Entry) WithAnswer(index int) Entry {
	e.Answer = index
	return e
}

func (e Entry) WithFeedback(lines ...string) Entry {
	e.Feedback = lines
	return e
}

// HasOption reports whether i selects one of the quiz options.
func (e Entry) HasOption(i int) bool {
	return e.Kind == KindQuiz && i >= 0 && i < len(e.Options)
}

// ScoreFor returns the score delta for option i, or 0 when none is defined.
func (e Entry) ScoreFor(i int) int {
	if i < 0 || i >= len(e.Scores) {
		return 0
	}
	return e.Scores[i]
}

// IsCorrect reports whether i is the quiz's correct option. It is
// informational only; progression never depends on it.
func (e Entry) IsCorrect(i int) bool {
	return e.Answer != NoAnswer && e.Answer == i
}

func (e Entry) clone() Entry {
	e.Lines = append([]string(nil), e.Lines...)
	e.Options = append([]string(nil), e.Options...)
	e.Scores = append([]int(nil), e.Scores...)
	e.Feedback = append([]string(nil), e.Feedback...)
	return e
}
