package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_Option(t *testing.T) {
	tests := []struct {
		in     Input
		want   int
		wantOK bool
		str    string
	}{
		{InputNone, 0, false, "none"},
		{InputStartInteraction, 0, false, "start_interaction"},
		{InputAdvance, 0, false, "advance"},
		{InputChooseA, 0, true, "choose_a"},
		{InputChooseC, 2, true, "choose_c"},
		{Choose(3), 3, true, "choose_d"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got, ok := tt.in.Option()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, tt.in.String())
		})
	}

	assert.Equal(t, InputNone, Choose(-1))
	assert.Equal(t, InputChooseB, Choose(1))
}

func TestRecord_State(t *testing.T) {
	m := newTestManager(t)
	r := addCharacter(t, m, "Li-An", scenarioAScript())
	assert.Equal(t, StateNotInConversation, r.State())
	assert.Equal(t, "NotInConversation", r.State().String())

	m.StartConversation(r)
	assert.Equal(t, StateDialogueLine, r.State())
	m.Apply(InputAdvance)
	m.Apply(InputAdvance)
	assert.Equal(t, StateQuizQuestion, r.State())
	assert.Equal(t, "QuizQuestion", r.State().String())
}
