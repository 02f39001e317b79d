package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/renderer"
)

func init() {
	RegisterScript("LightOrbit", func() Component { return &LightOrbit{} })
	RegisterScript("Spinner", func() Component { return NewSpinner(mgl32.Vec3{0, 1, 0}, 45) })
}

// LightOrbit advances a light around the Y axis every frame.
type LightOrbit struct {
	BaseComponent
	Light *renderer.Light
}

func (l *LightOrbit) Update(dt float32) {
	if l.Light != nil {
		l.Light.Update(dt)
	}
}

// Spinner turns its game object around a fixed axis.
type Spinner struct {
	BaseComponent
	Axis             mgl32.Vec3
	DegreesPerSecond float32
}

func NewSpinner(axis mgl32.Vec3, degreesPerSecond float32) *Spinner {
	return &Spinner{Axis: axis, DegreesPerSecond: degreesPerSecond}
}

func (s *Spinner) Update(dt float32) {
	obj := s.GetGameObject()
	if obj == nil || s.Axis.LenSqr() == 0 {
		return
	}
	obj.Transform.Rotate(s.Axis, mgl32.DegToRad(s.DegreesPerSecond*dt))
}
