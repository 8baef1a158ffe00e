package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Interact key.Binding
	Advance  key.Binding
	ChooseA  key.Binding
	ChooseB  key.Binding
	ChooseC  key.Binding
	ChooseD  key.Binding
	Copy     key.Binding
	Quit     key.Binding
	Force    key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "move")),
	Down:     key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "move")),
	Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "move")),
	Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "move")),
	Interact: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "talk")),
	Advance:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "next")),
	ChooseA:  key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/a", "option A")),
	ChooseB:  key.NewBinding(key.WithKeys("2", "b"), key.WithHelp("2/b", "option B")),
	ChooseC:  key.NewBinding(key.WithKeys("3", "c"), key.WithHelp("3/c", "option C")),
	ChooseD:  key.NewBinding(key.WithKeys("4", "d"), key.WithHelp("4/d", "option D")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy line")),
	Quit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
	Force:    key.NewBinding(key.WithKeys("ctrl+c")),
}

// inputFor maps a key press to a dialogue input. Letter keys a-d are
// choices only while a conversation is open; otherwise a and d move.
func inputFor(msg tea.KeyMsg, talking bool) dialog.Input {
	switch {
	case key.Matches(msg, keys.Interact):
		return dialog.InputStartInteraction
	case key.Matches(msg, keys.Advance):
		return dialog.InputAdvance
	}

	choices := []key.Binding{keys.ChooseA, keys.ChooseB, keys.ChooseC, keys.ChooseD}
	for i, b := range choices {
		if !key.Matches(msg, b) {
			continue
		}
		if !talking && isLetter(msg) {
			return dialog.InputNone
		}
		return dialog.Choose(i)
	}
	return dialog.InputNone
}

// moveFor maps a key press to a ground-plane step.
func moveFor(msg tea.KeyMsg) (dx, dz float64, ok bool) {
	switch {
	case key.Matches(msg, keys.Up):
		return 0, -1, true
	case key.Matches(msg, keys.Down):
		return 0, 1, true
	case key.Matches(msg, keys.Left):
		return -1, 0, true
	case key.Matches(msg, keys.Right):
		return 1, 0, true
	}
	return 0, 0, false
}

func isLetter(msg tea.KeyMsg) bool {
	s := msg.String()
	return len(s) == 1 && s[0] >= 'a' && s[0] <= 'z'
}

func helpLine() string {
	bindings := []key.Binding{keys.Up, keys.Interact, keys.Advance, keys.ChooseA, keys.Copy, keys.Quit}
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
