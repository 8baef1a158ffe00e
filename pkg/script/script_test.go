package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		script  Script
		wantErr string
	}{
		{
			name:    "empty script",
			script:  Script{},
			wantErr: ErrEmptyScript.Error(),
		},
		{
			name: "valid mixed script",
			script: Script{
				Dialogue("L1", "L2"),
				Quiz("Q?", "X", "Y").WithScores(0, 10),
				GoodEnding("yay"),
				BadEnding("nay"),
			},
		},
		{
			name:    "dialogue without lines",
			script:  Script{Dialogue()},
			wantErr: "entry 0 (dialogue): no lines",
		},
		{
			name:    "quiz without options",
			script:  Script{Quiz("Q?")},
			wantErr: "no options",
		},
		{
			name:    "quiz without question",
			script:  Script{Quiz("", "A")},
			wantErr: "missing question",
		},
		{
			name:    "too many scores",
			script:  Script{Quiz("Q?", "A", "B").WithScores(1, 2, 3)},
			wantErr: "3 scores for 2 options",
		},
		{
			name:   "fewer scores than options is allowed",
			script: Script{Quiz("Q?", "A", "B", "C").WithScores(5)},
		},
		{
			name:    "answer out of range",
			script:  Script{Quiz("Q?", "A", "B").WithAnswer(2)},
			wantErr: "answer index 2 out of range",
		},
		{
			name:    "unknown kind",
			script:  Script{{Kind: Kind(42), Answer: NoAnswer}},
			wantErr: "unknown kind 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScript_ValidateReportsEveryEntry(t *testing.T) {
	s := Script{Dialogue(), Quiz("Q?"), Dialogue("ok")}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 0")
	assert.Contains(t, err.Error(), "entry 1")
	assert.NotContains(t, err.Error(), "entry 2")
}

func TestEntry_ScoreFor(t *testing.T) {
	q := Quiz("Q?", "A", "B", "C").WithScores(5, 10)
	assert.Equal(t, 5, q.ScoreFor(0))
	assert.Equal(t, 10, q.ScoreFor(1))
	assert.Equal(t, 0, q.ScoreFor(2), "missing delta defaults to zero")
	assert.Equal(t, 0, q.ScoreFor(-1))

	assert.Equal(t, 0, Quiz("Q?", "A").ScoreFor(0))
}

func TestEntry_IsCorrect(t *testing.T) {
	q := Quiz("Q?", "A", "B").WithAnswer(1)
	assert.True(t, q.IsCorrect(1))
	assert.False(t, q.IsCorrect(0))
	assert.False(t, Quiz("Q?", "A").IsCorrect(0), "quiz without answer has no correct option")
}

func TestScript_Clone(t *testing.T) {
	orig := Script{Dialogue("a", "b")}
	cp := orig.Clone()
	cp[0].Lines[0] = "changed"
	assert.Equal(t, "a", orig[0].Lines[0])
}

func TestScript_EndingRun(t *testing.T) {
	s := Script{Dialogue("x"), GoodEnding("g"), BadEnding("b"), Dialogue("after")}
	assert.Equal(t, []int{1, 2}, s.EndingRun(1))
	assert.Equal(t, []int{2}, s.EndingRun(2))
	assert.Empty(t, s.EndingRun(0))
	assert.Empty(t, s.EndingRun(10))
	assert.Equal(t, []int{1, 2}, s.Endings())
}

func TestScript_MaxScore(t *testing.T) {
	s := Script{
		Dialogue("x"),
		Quiz("Q1", "A", "B", "C").WithScores(0, 10, 5),
		Quiz("Q2", "A", "B").WithScores(-5, -1),
		Quiz("Q3", "A"),
	}
	assert.Equal(t, 9, s.MaxScore())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindDialogue, KindQuiz, KindGoodEnding, KindBadEnding} {
		parsed, err := ParseKind(strings.ToUpper(k.String()))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	k, err := ParseKind("goodend")
	require.NoError(t, err)
	assert.Equal(t, KindGoodEnding, k)

	_, err = ParseKind("cutscene")
	assert.Error(t, err)
}

func TestDecode_JSON(t *testing.T) {
	data := []byte(`[
		{"kind": "dialogue", "lines": ["L1", "L2"]},
		{"kind": "quiz", "question": "Q?", "options": ["X", "Y"], "scores": [0, 10]},
		{"kind": "quiz", "question": "R?", "options": ["A", "B"], "answer": 0, "feedback": ["Right: A"]},
		{"kind": "good_ending", "lines": ["done"]}
	]`)

	s, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, s, 4)
	require.NoError(t, s.Validate())

	assert.Equal(t, KindDialogue, s[0].Kind)
	assert.Equal(t, []string{"L1", "L2"}, s[0].Lines)
	assert.Equal(t, NoAnswer, s[1].Answer, "omitted answer means no correct option")
	assert.Equal(t, []int{0, 10}, s[1].Scores)
	assert.Equal(t, 0, s[2].Answer)
	assert.Equal(t, []string{"Right: A"}, s[2].Feedback)
	assert.Equal(t, KindGoodEnding, s[3].Kind)
}

func TestDecode_JSONRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`[{"kind": "dialogue", "lines": ["a"], "speaker": "x"}]`), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_JSONRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`[{"kind": "cutscene"}]`), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
- kind: dialogue
  lines:
    - 老師：「很好，現在開始吧！」
- kind: quiz
  question: Which node is the root?
  options: [A, B, C, D]
  scores: [5, 5, 0, 5]
  answer: 2
  feedback:
    - "Correct: C"
- kind: bad_ending
  lines: [fail]
`)
	s, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	require.Len(t, s, 3)
	require.NoError(t, s.Validate())

	assert.Equal(t, "老師：「很好，現在開始吧！」", s[0].Lines[0])
	assert.Equal(t, 2, s[1].Answer)
	assert.Equal(t, 0, s[1].ScoreFor(2))
	assert.Equal(t, KindBadEnding, s[2].Kind)
}

func TestDecode_YAMLRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte("- kind: dialogue\n  lines: [a]\n  mood: happy\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "intro.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"kind":"dialogue","lines":["hi"]}]`), 0o644))
	s, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "hi", s[0].Lines[0])

	yamlPath := filepath.Join(dir, "intro.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- kind: quiz\n  question: q\n  options: [a]\n"), 0o644))
	s, err = LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, KindQuiz, s[0].Kind)

	_, err = LoadFile(filepath.Join(dir, "intro.txt"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
