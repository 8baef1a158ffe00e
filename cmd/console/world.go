package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/internal/config"
	"github.com/jwebster45206/npc-dialog/internal/logger"
	"github.com/jwebster45206/npc-dialog/internal/storage"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
)

// cellScale is the number of map cells per world unit.
const cellScale = 2.0

// World is a loaded scene: the player, the placed characters and the
// dialogue manager driving them.
type World struct {
	Name    string
	Player  scene.Vec3
	Manager *dialog.Manager

	actors  []*scene.Actor
	records []*dialog.Record
	byID    map[uuid.UUID]*dialog.Record
	radius  float64
}

// camera is a top-down projector that follows the player.
type camera struct{ w *World }

func (c camera) Project(world scene.Vec3, vp scene.Viewport) (scene.Vec2, bool) {
	return scene.TopDown{Center: c.w.Player, Scale: cellScale}.Project(world, vp)
}

// LoadWorld reads the scene manifest and its scripts from the store and
// registers every character with a new manager.
func LoadWorld(ctx context.Context, st storage.Storage, cfg *config.Config, log *slog.Logger) (*World, error) {
	spec, err := st.GetScene(ctx, cfg.Scene)
	if err != nil {
		return nil, err
	}

	w := &World{
		Name:   spec.Name,
		Player: spec.Player,
		byID:   make(map[uuid.UUID]*dialog.Record),
		radius: cfg.InteractRadius,
	}

	opts := []dialog.Option{
		dialog.WithIdlePolicy(dialog.IdlePolicy{MinDelay: cfg.IdleMinDelay, MaxDelay: cfg.IdleMaxDelay}),
		dialog.WithProjector(camera{w}, scene.Viewport{}),
	}
	if cfg.EndingThreshold != nil {
		opts = append(opts, dialog.WithEndingSelector(dialog.ScoreThreshold{
			Threshold: *cfg.EndingThreshold,
			LowIsGood: cfg.LowScoreIsGood,
		}))
	}
	w.Manager = dialog.NewManager(log, opts...)

	recordsByName := make(map[string]*dialog.Record, len(spec.Characters))
	for _, c := range spec.Characters {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		clog := logger.WithCharacter(log, name)

		sc, err := st.GetScript(ctx, c.Script)
		if err != nil {
			logger.WithError(clog, err).Error("Failed to load script", "script", c.Script)
			return nil, fmt.Errorf("character %s: %w", c.ID, err)
		}

		actor := scene.NewActor(name, c.Position, c.Animations...)
		r, err := w.Manager.AddCharacter(actor, sc)
		if err != nil {
			logger.WithError(clog, err).Error("Failed to register character")
			return nil, fmt.Errorf("character %s: %w", c.ID, err)
		}
		w.Manager.SetRouteEnabled(r, c.RouteEnabled)
		clog.Debug("Character placed", "script", c.Script, "route_enabled", c.RouteEnabled, "max_score", sc.MaxScore())

		w.actors = append(w.actors, actor)
		w.records = append(w.records, r)
		w.byID[r.ID] = r
		recordsByName[c.ID] = r
	}

	for _, c := range spec.Characters {
		for _, target := range c.Unlocks {
			w.Manager.ChainRoute(recordsByName[c.ID], recordsByName[target])
		}
	}

	log.Info("Scene loaded", "scene", spec.ID, "characters", len(w.records))
	return w, nil
}

// Proximity is the interaction range around the player.
func (w *World) Proximity() scene.Proximity {
	return scene.Radius{Player: w.Player, Range: w.radius}
}

// Step runs one frame: animation clocks, then the manager.
func (w *World) Step(in dialog.Input, dt float64) []dialog.Transition {
	for _, a := range w.actors {
		a.Advance(dt)
	}
	w.Manager.Frame(w.Proximity(), dialog.InputFunc(func() dialog.Input { return in }), dt)
	return w.Manager.DrainTransitions()
}

// Move shifts the player on the ground plane. The player stays put while a
// conversation is open.
func (w *World) Move(dx, dz float64) bool {
	if w.Manager.Active() != nil {
		return false
	}
	w.Player = w.Player.Add(scene.Vec3{X: dx, Z: dz})
	return true
}

// Record returns the record registered under id.
func (w *World) Record(id uuid.UUID) *dialog.Record {
	return w.byID[id]
}

// Records returns the records in scene order.
func (w *World) Records() []*dialog.Record {
	return w.records
}

// Actor returns the scene actor behind record i.
func (w *World) Actor(i int) *scene.Actor {
	return w.actors[i]
}

// Describe turns a transition into a transcript line. It returns false for
// transitions that have no visible text.
func (w *World) Describe(t dialog.Transition) (string, bool) {
	r := w.Record(t.RecordID)
	if r == nil {
		return "", false
	}

	e := r.Script[min(t.ScriptIndex, len(r.Script)-1)]
	switch t.Kind {
	case dialog.TransitionStarted:
		return fmt.Sprintf("-- conversation with %s --", t.Character), true
	case dialog.TransitionLine, dialog.TransitionEnding:
		return lineOf(t.Character, e.Lines, t.LineIndex)
	case dialog.TransitionQuiz:
		return t.Character + ": " + e.Question, true
	case dialog.TransitionAnswered:
		opt := ""
		if e.HasOption(t.Option) {
			opt = e.Options[t.Option]
		}
		return fmt.Sprintf("   > %s (%+d)", opt, t.Delta), true
	case dialog.TransitionFeedback:
		return lineOf(t.Character, e.Feedback, t.LineIndex)
	case dialog.TransitionEnded:
		return fmt.Sprintf("-- %s: conversation over, score %d --", t.Character, t.Score), true
	case dialog.TransitionCancelled:
		return fmt.Sprintf("-- %s: conversation cancelled --", t.Character), true
	default:
		return "", false
	}
}

func lineOf(speaker string, lines []string, i int) (string, bool) {
	if i < 0 || i >= len(lines) {
		return "", false
	}
	return speaker + ": " + lines[i], true
}
