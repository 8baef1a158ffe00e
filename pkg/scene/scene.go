// Package scene provides the spatial collaborators the dialogue engine
// consumes: positions, the viewport, world-to-screen projection and the
// proximity test used for interaction icons.
package scene

import "math"

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Len() float64    { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Viewport is the size of the render target in screen units.
type Viewport struct {
	Width  int
	Height int
}

// Projector maps a world position to screen coordinates. ok is false when
// the point falls outside the viewport.
type Projector interface {
	Project(world Vec3, vp Viewport) (screen Vec2, ok bool)
}

// TopDown is an orthographic camera looking down the Y axis. World X maps
// to screen X and world Z to screen Y, centred on Center.
type TopDown struct {
	Center Vec3
	Scale  float64 // screen units per world unit
}

func (p TopDown) Project(world Vec3, vp Viewport) (Vec2, bool) {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	rel := world.Sub(p.Center)
	screen := Vec2{
		X: float64(vp.Width)/2 + rel.X*scale,
		Y: float64(vp.Height)/2 + rel.Z*scale,
	}
	ok := screen.X >= 0 && screen.Y >= 0 &&
		screen.X < float64(vp.Width) && screen.Y < float64(vp.Height)
	return screen, ok
}

// Proximity decides whether a character at pos is close enough to the
// player to be engaged.
type Proximity interface {
	InRange(pos Vec3) bool
}

// Radius is a proximity test around the player's position.
type Radius struct {
	Player Vec3
	Range  float64
}

func (r Radius) InRange(pos Vec3) bool {
	return r.Player.Dist(pos) <= r.Range
}

// ProximityFunc adapts a plain function to Proximity.
type ProximityFunc func(pos Vec3) bool

func (f ProximityFunc) InRange(pos Vec3) bool { return f(pos) }
