package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Italic(true).
			Underline(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	iconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	chosenButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("205")).
				Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var titleCaser = cases.Title(language.English)

// label turns identifiers like "quiz_feedback" or "QuizFeedback" into
// "Quiz Feedback".
func label(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return titleCaser.String(strings.ReplaceAll(b.String(), "_", " "))
}

// wrapText soft-wraps on spaces and then hard-wraps anything still too
// long, which covers lines in scripts that do not use spaces.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// renderMap draws the top-down view around the player.
func renderMap(w *World, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = lockedStyle.Render("·")
		}
	}

	cam := camera{w}
	vp := scene.Viewport{Width: width, Height: height}
	put := func(pos scene.Vec3, dy int, cell string) {
		p, ok := cam.Project(pos, vp)
		if !ok {
			return
		}
		x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))+dy
		if y < 0 || y >= height {
			return
		}
		grid[y][x] = cell
	}

	for i, r := range w.Records() {
		pos := r.Character.Position()
		put(pos, 0, npcGlyph(r, w.Actor(i)))
		if w.Manager.ShouldShowIcon(r) {
			put(pos, -1, iconStyle.Render("!"))
		}
	}
	put(w.Player, 0, playerStyle.Render("@"))

	rows := make([]string, height)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

func npcGlyph(r *dialog.Record, a *scene.Actor) string {
	glyph := "?"
	if name := r.Name(); name != "" {
		glyph = strings.ToUpper(string([]rune(name)[:1]))
	}
	switch {
	case !r.RouteEnabled:
		return lockedStyle.Render(glyph)
	case r.IsPlayingIdleAnimation:
		return idleStyle.Render(glyph)
	default:
		if _, playing := a.Playing(); playing {
			return idleStyle.Render(glyph)
		}
		return npcStyle.Render(glyph)
	}
}

// renderPanel draws the conversation panel for c. options are the quiz
// options of the current entry, used to show the pick in feedback.
func renderPanel(c dialog.Content, options []string, width int) string {
	inner := width - 4
	var b strings.Builder

	switch c.Kind {
	case dialog.ContentNone:
		b.WriteString(promptStyle.Render("Walk up to someone with a ! and press e to talk."))
		return panelStyle.Width(width - 2).Render(b.String())

	case dialog.ContentDialogue:
		b.WriteString(speakerStyle.Render(c.Speaker) + "\n")
		b.WriteString(wrapText(c.Text, inner))

	case dialog.ContentQuiz:
		b.WriteString(speakerStyle.Render(c.Speaker) + "\n")
		b.WriteString(wrapText(c.Text, inner) + "\n")
		var buttons []string
		for i, opt := range c.Options {
			buttons = append(buttons, buttonStyle.Render(fmt.Sprintf("%d %s", i+1, opt)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	case dialog.ContentFeedback:
		b.WriteString(speakerStyle.Render(c.Speaker) + "\n")
		if btn := chosenButton(c, options); btn != "" {
			b.WriteString(btn + "\n")
		}
		mark := badStyle.Render("✗")
		if c.Correct {
			mark = goodStyle.Render("✓")
		}
		b.WriteString(mark + " " + wrapText(c.Text, inner-2))

	case dialog.ContentEnding:
		banner := badStyle.Render("BAD ENDING")
		if c.Good {
			banner = goodStyle.Render("GOOD ENDING")
		}
		b.WriteString(banner + "  " + speakerStyle.Render(c.Speaker) + "\n")
		b.WriteString(wrapText(c.Text, inner))
	}

	if c.Lines > 1 {
		b.WriteString("\n" + promptStyle.Render(fmt.Sprintf("%d/%d", c.Line+1, c.Lines)))
	}
	return panelStyle.Width(width - 2).Render(b.String())
}

// chosenButton renders the option picked in a feedback panel.
func chosenButton(c dialog.Content, options []string) string {
	if c.Chosen < 0 || c.Chosen >= len(options) {
		return ""
	}
	return chosenButtonStyle.Render(fmt.Sprintf("%d %s", c.Chosen+1, options[c.Chosen]))
}

// renderSidebar lists characters with their state and score.
func renderSidebar(w *World) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(w.Name)) + "\n\n")

	for i, r := range w.Records() {
		name := r.Name()
		if !r.RouteEnabled {
			name = lockedStyle.Render(name + " (locked)")
		} else {
			name = speakerStyle.Render(name)
		}
		b.WriteString(name + "\n")
		b.WriteString(fmt.Sprintf("  %s\n", label(r.State().String())))
		b.WriteString(fmt.Sprintf("  score %d/%d\n", r.TotalScore, r.Script.MaxScore()))
		if clip, ok := w.Actor(i).Playing(); ok {
			b.WriteString(promptStyle.Render(fmt.Sprintf("  %s %.1fs", clip.Name, w.Actor(i).ClipTime())) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
