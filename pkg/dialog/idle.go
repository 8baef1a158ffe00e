package dialog

import (
	"math/rand/v2"
	"strings"

	"github.com/jwebster45206/npc-dialog/pkg/scene"
)

// IdlePolicy controls how often an idle clip plays. Before every playback
// the character waits a random delay in [MinDelay, MaxDelay] seconds.
type IdlePolicy struct {
	MinDelay float64
	MaxDelay float64
	Rand     *rand.Rand // nil uses the global source
}

// DefaultIdlePolicy waits two to six seconds between idle clips.
func DefaultIdlePolicy() IdlePolicy {
	return IdlePolicy{MinDelay: 2, MaxDelay: 6}
}

func (p IdlePolicy) nextDelay() float64 {
	if p.MaxDelay <= p.MinDelay {
		return max(p.MinDelay, 0)
	}
	f := rand.Float64()
	if p.Rand != nil {
		f = p.Rand.Float64()
	}
	return p.MinDelay + f*(p.MaxDelay-p.MinDelay)
}

// findIdleAnimation prefers a clip named exactly "idle", then any clip whose
// name contains it. -1 means none.
func findIdleAnimation(anims []scene.Animation) int {
	for i, a := range anims {
		if strings.EqualFold(a.Name, "idle") {
			return i
		}
	}
	for i, a := range anims {
		if strings.Contains(strings.ToLower(a.Name), "idle") {
			return i
		}
	}
	return -1
}

func (p IdlePolicy) init(r *Record) {
	r.IsPlayingIdleAnimation = false
	r.IdleAnimationTime = 0
	r.IdleAnimationIndex = -1
	if r.Character != nil {
		r.IdleAnimationIndex = findIdleAnimation(r.Character.Animations())
	}
	r.idleDelay = p.nextDelay()
}

func (p IdlePolicy) tick(r *Record, dt float64) {
	if r.InDialog || r.IdleAnimationIndex < 0 {
		return
	}
	anims := r.Character.Animations()
	if r.IdleAnimationIndex >= len(anims) {
		// clip list shrank under us
		r.IdleAnimationIndex = -1
		r.IsPlayingIdleAnimation = false
		return
	}

	r.IdleAnimationTime += dt
	if !r.IsPlayingIdleAnimation {
		if r.IdleAnimationTime >= r.idleDelay {
			r.IsPlayingIdleAnimation = true
			r.IdleAnimationTime = 0
			r.Character.PlayAnimation(r.IdleAnimationIndex)
		}
		return
	}

	if r.IdleAnimationTime >= anims[r.IdleAnimationIndex].Duration {
		p.stop(r)
	}
}

// stop ends playback and starts a new idle interval.
func (p IdlePolicy) stop(r *Record) {
	if r.IsPlayingIdleAnimation {
		r.Character.StopAnimation()
	}
	r.IsPlayingIdleAnimation = false
	r.IdleAnimationTime = 0
	r.idleDelay = p.nextDelay()
}
