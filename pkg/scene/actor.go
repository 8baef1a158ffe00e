package scene

// Animation is a clip a character can play.
type Animation struct {
	Name     string  `json:"name" yaml:"name"`
	Duration float64 `json:"duration" yaml:"duration"` // seconds
}

// Actor is a minimal character handle: a named body in the world with a
// static flag and a set of animation clips.
type Actor struct {
	name       string
	position   Vec3
	static     bool
	animations []Animation

	playing   int // -1 when no clip is playing
	clipTime  float64
	playCount int
}

func NewActor(name string, position Vec3, animations ...Animation) *Actor {
	return &Actor{
		name:       name,
		position:   position,
		animations: animations,
		playing:    -1,
	}
}

func (a *Actor) Name() string            { return a.name }
func (a *Actor) Position() Vec3          { return a.position }
func (a *Actor) SetPosition(p Vec3)      { a.position = p }
func (a *Actor) SetStatic(static bool)   { a.static = static }
func (a *Actor) IsStatic() bool          { return a.static }
func (a *Actor) Animations() []Animation { return a.animations }

// PlayAnimation restarts clip i from its first frame. Unknown indexes are
// ignored.
func (a *Actor) PlayAnimation(i int) {
	if i < 0 || i >= len(a.animations) {
		return
	}
	a.playing = i
	a.clipTime = 0
	a.playCount++
}

func (a *Actor) StopAnimation() {
	a.playing = -1
	a.clipTime = 0
}

// Advance moves the playing clip forward by dt seconds.
func (a *Actor) Advance(dt float64) {
	if a.playing >= 0 {
		a.clipTime += dt
	}
}

// Playing returns the clip being played, if any.
func (a *Actor) Playing() (Animation, bool) {
	if a.playing < 0 {
		return Animation{}, false
	}
	return a.animations[a.playing], true
}

// ClipTime is the time elapsed in the current clip.
func (a *Actor) ClipTime() float64 { return a.clipTime }

// PlayCount is the number of times any clip was started.
func (a *Actor) PlayCount() int { return a.playCount }
