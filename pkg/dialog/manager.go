// Package dialog drives per-character conversations: script traversal,
// quiz scoring, endings and the idle animation overlay for characters that
// are not talking.
package dialog

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/jwebster45206/npc-dialog/pkg/script"
)

// Manager owns the interaction records of a scene. It is not safe for
// concurrent use; a scene drives it from a single frame loop.
type Manager struct {
	records []*Record
	active  *Record

	logger    *slog.Logger
	idle      IdlePolicy
	endings   EndingSelector
	projector scene.Projector
	viewport  scene.Viewport

	outbox []Transition
}

// Option configures a Manager.
type Option func(*Manager)

func WithIdlePolicy(p IdlePolicy) Option {
	return func(m *Manager) { m.idle = p }
}

// WithEndingSelector overrides the default linear ending choice. nil keeps
// the default.
func WithEndingSelector(s EndingSelector) Option {
	return func(m *Manager) {
		if s != nil {
			m.endings = s
		}
	}
}

// WithProjector enables screen positions in VisibleContent.
func WithProjector(p scene.Projector, vp scene.Viewport) Option {
	return func(m *Manager) {
		m.projector = p
		m.viewport = vp
	}
}

// NewManager creates an empty manager. A nil logger uses slog.Default.
func NewManager(logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger:  logger,
		idle:    DefaultIdlePolicy(),
		endings: FirstEnding{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddCharacter registers a character with its script. The script is copied
// and validated; the returned record stays valid for the manager's
// lifetime. The character is pinned in place.
func (m *Manager) AddCharacter(ch Character, s script.Script) (*Record, error) {
	if isNilCharacter(ch) {
		return nil, fmt.Errorf("character cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script for %s: %w", ch.Name(), err)
	}

	r := &Record{
		ID:        uuid.New(),
		Character: ch,
		Script:    s.Clone(),
		Chosen:    -1,
	}
	ch.SetStatic(true)
	m.idle.init(r)
	m.records = append(m.records, r)

	m.logger.Debug("Character registered",
		"character", ch.Name(),
		"record_id", r.ID,
		"entries", len(r.Script),
		"idle_animation", r.IdleAnimationIndex)
	return r, nil
}

// isNilCharacter also catches a nil *scene.Actor wrapped in the interface.
func isNilCharacter(ch Character) bool {
	if ch == nil {
		return true
	}
	a, ok := ch.(*scene.Actor)
	return ok && a == nil
}

// Records returns the registered records in insertion order.
func (m *Manager) Records() []*Record {
	return append([]*Record(nil), m.records...)
}

// Active returns the record in conversation, or nil.
func (m *Manager) Active() *Record {
	return m.active
}

// SetViewport updates the viewport used for screen positions.
func (m *Manager) SetViewport(vp scene.Viewport) {
	m.viewport = vp
}

// SetRouteEnabled makes a character engageable or not.
func (m *Manager) SetRouteEnabled(r *Record, enabled bool) {
	r.RouteEnabled = enabled
	if !enabled {
		r.ShowIcon = false
	}
}

// ChainRoute enables to's route once a conversation with from runs to its
// end. Cancelled conversations do not unlock anything.
func (m *Manager) ChainRoute(from, to *Record) {
	from.unlocks = append(from.unlocks, to)
}

// Update runs the per-frame bookkeeping: idle animations for characters
// that are not talking, then interaction icon visibility.
func (m *Manager) Update(prox scene.Proximity, dt float64) {
	for _, r := range m.records {
		m.idle.tick(r, dt)
	}
	for _, r := range m.records {
		r.ShowIcon = r.RouteEnabled && !r.InDialog && prox != nil && prox.InRange(r.Character.Position())
	}
}

// ProcessInput polls src once and applies the result.
func (m *Manager) ProcessInput(src InputSource) {
	if src == nil {
		return
	}
	m.Apply(src.Poll())
}

// Frame runs one full frame: Update followed by ProcessInput.
func (m *Manager) Frame(prox scene.Proximity, src InputSource, dt float64) {
	m.Update(prox, dt)
	m.ProcessInput(src)
}

// Apply feeds one input to the manager. StartInteraction begins a
// conversation with the first eligible character when none is active;
// during a conversation it advances like Advance.
func (m *Manager) Apply(in Input) {
	if m.active != nil {
		if in == InputStartInteraction {
			in = InputAdvance
		}
		m.step(m.active, in)
		return
	}
	if in != InputStartInteraction {
		return
	}
	for _, r := range m.records {
		if r.RouteEnabled && r.ShowIcon {
			m.StartConversation(r)
			return
		}
	}
}

// StartConversation begins a conversation with r. It is rejected, without
// changing any state, when another conversation is active or r is not
// route-enabled. Starting a conversation r is already in is a no-op.
func (m *Manager) StartConversation(r *Record) bool {
	if r.InDialog {
		return false
	}
	if m.active != nil {
		m.reject(r, "conversation_active")
		return false
	}
	if !r.RouteEnabled {
		m.reject(r, "route_disabled")
		return false
	}

	if r.IsPlayingIdleAnimation {
		m.idle.stop(r)
	}
	r.InDialog = true
	r.ShowIcon = false
	r.ScriptIndex = 0
	r.LineIndex = 0
	r.Chosen = -1
	m.active = r

	m.emit(r, TransitionStarted)
	m.logger.Debug("Conversation started", "character", r.Name(), "record_id", r.ID)
	m.enter(r, 0)
	return true
}

// Cancel force-ends r's conversation, for example on scene teardown.
func (m *Manager) Cancel(r *Record) {
	if !r.InDialog {
		return
	}
	m.finish(r, TransitionCancelled)
}

// CancelActive force-ends the active conversation, if any.
func (m *Manager) CancelActive() {
	if m.active != nil {
		m.Cancel(m.active)
	}
}

// ShouldShowIcon reports whether r's interaction icon is visible this frame.
func (m *Manager) ShouldShowIcon(r *Record) bool {
	return r.ShowIcon
}

// VisibleContent reports what the presentation layer should draw for r.
func (m *Manager) VisibleContent(r *Record) Content {
	c := contentOf(r)
	if m.projector != nil && r.Character != nil {
		if pos, ok := m.projector.Project(r.Character.Position(), m.viewport); ok {
			c.Screen = &pos
		}
	}
	return c
}

// CurrentContent is VisibleContent for the active conversation; Kind is
// ContentNone when nobody is talking.
func (m *Manager) CurrentContent() Content {
	if m.active == nil {
		return Content{Chosen: -1}
	}
	return m.VisibleContent(m.active)
}

// DrainTransitions returns the transitions queued since the last call.
func (m *Manager) DrainTransitions() []Transition {
	out := m.outbox
	m.outbox = nil
	return out
}

func (m *Manager) reject(r *Record, reason string) {
	t := m.transition(r, TransitionRejected)
	t.Reason = reason
	m.push(t)
	m.logger.Debug("Conversation rejected", "character", r.Name(), "reason", reason)
}

func (m *Manager) transition(r *Record, kind TransitionKind) Transition {
	return Transition{
		Kind:        kind,
		RecordID:    r.ID,
		Character:   r.Name(),
		ScriptIndex: r.ScriptIndex,
		LineIndex:   r.LineIndex,
		Score:       r.TotalScore,
	}
}

func (m *Manager) emit(r *Record, kind TransitionKind) {
	t := m.transition(r, kind)
	if kind == TransitionEnding {
		t.Good = r.Entry().Kind == script.KindGoodEnding
	}
	m.push(t)
}

// maxQueuedTransitions bounds the outbox when nobody drains it.
const maxQueuedTransitions = 1024

func (m *Manager) push(t Transition) {
	if len(m.outbox) >= maxQueuedTransitions {
		m.outbox = m.outbox[1:]
	}
	m.outbox = append(m.outbox, t)
}
