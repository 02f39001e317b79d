package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// DefaultLightSpeed is how fast a light orbits the Y axis, in degrees per second.
const DefaultLightSpeed = 60.0

type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Speed    float32 // degrees per second around +Y
}

func NewDefaultLight() *Light {
	return &Light{
		Position: mgl32.Vec3{1, 0, 0},
		Color:    mgl32.Vec3{1, 1, 1},
		Speed:    DefaultLightSpeed,
	}
}

// Update rotates the light about the world Y axis.
func (l *Light) Update(dt float32) {
	if dt == 0 || l.Speed == 0 {
		return
	}
	rotation := mgl32.QuatRotate(mgl32.DegToRad(l.Speed*dt), mgl32.Vec3{0, 1, 0})
	l.Position = rotation.Rotate(l.Position)
}

func (l *Light) Uniform() shading.Light {
	return shading.Light{Position: l.Position, Color: l.Color}
}
