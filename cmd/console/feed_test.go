package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records batches. When release is set, the first call
// blocks until it is closed.
type fakePublisher struct {
	mu      sync.Mutex
	release chan struct{}
	err     error
	calls   int
	batches [][]dialog.Transition
}

func (p *fakePublisher) PublishAll(ctx context.Context, sessionID uuid.UUID, ts []dialog.Transition) error {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()

	if first && p.release != nil {
		<-p.release
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, ts)
	return p.err
}

func (p *fakePublisher) kinds() []dialog.TransitionKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []dialog.TransitionKind
	for _, b := range p.batches {
		for _, t := range b {
			out = append(out, t.Kind)
		}
	}
	return out
}

func batch(kinds ...dialog.TransitionKind) []dialog.Transition {
	ts := make([]dialog.Transition, len(kinds))
	for i, k := range kinds {
		ts[i] = dialog.Transition{Kind: k}
	}
	return ts
}

func TestFeed_KeepsDrainOrderBehindSlowPublish(t *testing.T) {
	pub := &fakePublisher{release: make(chan struct{})}
	f := newFeed(pub, uuid.New(), testLogger())

	f.Send(batch(dialog.TransitionQuiz))
	f.Send(batch(dialog.TransitionAnswered))
	f.Send(batch(dialog.TransitionEnded))

	// later batches stay queued while the first publish is stuck
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, pub.kinds())

	close(pub.release)
	f.Close()

	assert.Equal(t, []dialog.TransitionKind{
		dialog.TransitionQuiz,
		dialog.TransitionAnswered,
		dialog.TransitionEnded,
	}, pub.kinds())
}

func TestFeed_ReportsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	f := newFeed(pub, uuid.New(), testLogger())

	f.Send(batch(dialog.TransitionStarted))
	msg := f.wait()()
	require.IsType(t, publishedMsg{}, msg)
	assert.EqualError(t, msg.(publishedMsg).err, "redis down")

	f.Close()
	f.Close()
	assert.Nil(t, f.wait()(), "closed feed reports nothing")
}

func TestFeed_Nil(t *testing.T) {
	var f *feed
	f.Send(batch(dialog.TransitionStarted))
	f.Close()
	assert.Nil(t, f.wait())
}

func TestConsoleUI_FramePublishesTransitions(t *testing.T) {
	w := loadTestWorld(t, testConfig())
	pub := &fakePublisher{}
	ui := NewConsoleUI(w, testLogger(), pub, 10)

	ui.pending = dialog.InputStartInteraction
	model, _ := ui.Update(frameMsg(time.Now()))
	ui = model.(ConsoleUI)
	assert.Equal(t, dialog.InputNone, ui.pending)
	require.NotNil(t, w.Manager.Active())

	ui.Close()
	kinds := pub.kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, dialog.TransitionStarted, kinds[0])
}

func TestConsoleUI_QuitCancelsConversation(t *testing.T) {
	tests := []struct {
		name  string
		modal bool
		key   tea.KeyMsg
	}{
		{"force quit", false, tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"confirm in modal", true, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := loadTestWorld(t, testConfig())
			guide := w.Records()[0]
			require.True(t, w.Manager.StartConversation(guide))
			w.Manager.DrainTransitions()

			pub := &fakePublisher{}
			ui := NewConsoleUI(w, testLogger(), pub, 10)
			ui.showQuitModal = tt.modal

			_, cmd := ui.Update(tt.key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.False(t, guide.InDialog)
			assert.Nil(t, w.Manager.Active())

			ui.Close()
			assert.Equal(t, []dialog.TransitionKind{dialog.TransitionCancelled}, pub.kinds())
		})
	}
}
