package renderer

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type OrbitKey int

const (
	KeyForward OrbitKey = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var orbitKeyNames = map[string]OrbitKey{
	"w": KeyForward, "up": KeyForward,
	"s": KeyBackward, "down": KeyBackward,
	"a": KeyLeft, "left": KeyLeft,
	"d": KeyRight, "right": KeyRight,
	"h": KeyUp,
	"l": KeyDown,
}

// ParseOrbitKey maps a key name (W/A/S/D, arrows, H and L) to a direction.
func ParseOrbitKey(name string) (OrbitKey, bool) {
	key, ok := orbitKeyNames[strings.ToLower(name)]
	return key, ok
}

// OrbitController moves a camera around its target. Every flag set is
// applied on the next Update.
type OrbitController struct {
	Speed float32

	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

func NewOrbitController(speed float32) *OrbitController {
	return &OrbitController{Speed: speed}
}

func (o *OrbitController) SetKey(key OrbitKey, pressed bool) {
	switch key {
	case KeyForward:
		o.Forward = pressed
	case KeyBackward:
		o.Backward = pressed
	case KeyLeft:
		o.Left = pressed
	case KeyRight:
		o.Right = pressed
	case KeyUp:
		o.Up = pressed
	case KeyDown:
		o.Down = pressed
	}
}

func (o *OrbitController) Idle() bool {
	return !(o.Forward || o.Backward || o.Left || o.Right || o.Up || o.Down)
}

// Update zooms along the view direction, then orbits the target while
// holding the distance to it. Zooming in stops one step short of the target.
func (o *OrbitController) Update(camera *Camera) {
	forward := camera.Target.Sub(camera.Position)
	mag := forward.Len()
	if mag == 0 {
		return
	}
	fn := forward.Mul(1 / mag)

	if o.Forward && mag > o.Speed {
		camera.Position = camera.Position.Add(fn.Mul(o.Speed))
	}
	if o.Backward {
		camera.Position = camera.Position.Sub(fn.Mul(o.Speed))
	}

	right := fn.Cross(mgl32.Vec3{0, 1, 0})
	up := fn.Cross(right)

	forward = camera.Target.Sub(camera.Position)
	mag = forward.Len()

	orbit := func(dir mgl32.Vec3) {
		if dir.LenSqr() == 0 {
			return
		}
		camera.Position = camera.Target.Sub(dir.Normalize().Mul(mag))
	}

	if o.Right {
		orbit(forward.Add(right.Mul(o.Speed)))
	}
	if o.Left {
		orbit(forward.Sub(right.Mul(o.Speed)))
	}
	if o.Up {
		orbit(forward.Sub(up.Mul(o.Speed)))
	}
	if o.Down {
		orbit(forward.Add(up.Mul(o.Speed)))
	}
}
