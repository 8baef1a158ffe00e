package dialog

import "github.com/jwebster45206/npc-dialog/pkg/script"

// step applies one input to an active conversation. Inputs that do not fit
// the current state are ignored.
func (m *Manager) step(r *Record, in Input) {
	if !r.InDialog || in == InputNone {
		return
	}

	e := r.Entry()
	switch e.Kind {
	case script.KindDialogue, script.KindGoodEnding, script.KindBadEnding:
		if in != InputAdvance {
			return
		}
		if r.LineIndex+1 < len(e.Lines) {
			r.LineIndex++
			m.emit(r, lineTransition(e.Kind))
			return
		}
		if e.Kind.IsEnding() {
			m.finish(r, TransitionEnded)
			return
		}
		m.enter(r, r.ScriptIndex+1)

	case script.KindQuiz:
		if r.Chosen < 0 {
			m.answer(r, e, in)
			return
		}
		if in != InputAdvance {
			return
		}
		if r.LineIndex+1 < len(e.Feedback) {
			r.LineIndex++
			m.emit(r, TransitionFeedback)
			return
		}
		m.enter(r, r.ScriptIndex+1)
	}
}

func (m *Manager) answer(r *Record, e script.Entry, in Input) {
	opt, ok := in.Option()
	if !ok || !e.HasOption(opt) {
		return
	}

	delta := e.ScoreFor(opt)
	r.TotalScore += delta
	r.Chosen = opt
	r.LineIndex = 0

	t := m.transition(r, TransitionAnswered)
	t.Option = opt
	t.Delta = delta
	t.Correct = e.IsCorrect(opt)
	m.push(t)

	if len(e.Feedback) == 0 {
		m.enter(r, r.ScriptIndex+1)
		return
	}
	m.emit(r, TransitionFeedback)
}

// enter moves the conversation to entry idx, skipping entries with nothing
// to show. Running off the end of the script ends the conversation.
func (m *Manager) enter(r *Record, idx int) {
	for idx < len(r.Script) {
		if r.Script[idx].Kind.IsEnding() {
			idx = m.selectEnding(r, idx)
		}

		e := r.Script[idx]
		if e.Kind != script.KindQuiz && len(e.Lines) == 0 {
			idx++
			continue
		}

		r.ScriptIndex = idx
		r.LineIndex = 0
		r.Chosen = -1
		if e.Kind == script.KindQuiz {
			m.emit(r, TransitionQuiz)
		} else {
			m.emit(r, lineTransition(e.Kind))
		}
		return
	}
	m.finish(r, TransitionEnded)
}

func (m *Manager) selectEnding(r *Record, idx int) int {
	candidates := r.Script.EndingRun(idx)
	chosen := m.endings.SelectEnding(r, candidates)
	for _, c := range candidates {
		if c == chosen {
			return chosen
		}
	}
	m.logger.Warn("Ending selector returned a non-candidate index",
		"character", r.Name(),
		"chosen", chosen,
		"candidates", candidates)
	return candidates[0]
}

// finish ends the conversation. The score is kept as the final tally.
func (m *Manager) finish(r *Record, kind TransitionKind) {
	t := m.transition(r, kind)
	if e := r.Entry(); e.Kind.IsEnding() {
		t.Good = e.Kind == script.KindGoodEnding
	}

	r.clearConversation()
	if m.active == r {
		m.active = nil
	}
	m.push(t)

	m.logger.Debug("Conversation finished",
		"character", r.Name(),
		"reason", kind,
		"score", r.TotalScore)

	if kind != TransitionEnded {
		return
	}
	for _, next := range r.unlocks {
		if !next.RouteEnabled {
			next.RouteEnabled = true
			m.logger.Info("Route unlocked", "character", next.Name(), "after", r.Name())
		}
	}
}

func lineTransition(k script.Kind) TransitionKind {
	if k.IsEnding() {
		return TransitionEnding
	}
	return TransitionLine
}
