package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// Object places a model in the world. Every object sharing a model is
// drawn as one instance of it.
type Object struct {
	Name        string
	Model       *Model
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	MeshScale   float32
	Opacity     float32
}

func NewObject(name string, model *Model) *Object {
	return &Object{
		Name:        name,
		Model:       model,
		Position:    mgl32.Vec3{10, 10, 10},
		Orientation: mgl32.QuatIdent(),
		MeshScale:   1,
		Opacity:     1,
	}
}

func (o *Object) SetPosition(x, y, z float32) {
	o.Position = mgl32.Vec3{x, y, z}
}

// Rotate applies Euler angles in degrees, X then Y then Z.
func (o *Object) Rotate(angleX, angleY, angleZ float32) {
	if o.Orientation == (mgl32.Quat{}) {
		o.Orientation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	o.Orientation = o.Orientation.Mul(rotationX).Mul(rotationY).Mul(rotationZ).Normalize()
}

// ModelMatrix is translation * rotation * scale.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	orientation := o.Orientation
	if orientation == (mgl32.Quat{}) {
		orientation = mgl32.QuatIdent()
	}
	scaleMatrix := mgl32.Scale3D(o.MeshScale, o.MeshScale, o.MeshScale)
	translationMatrix := mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	return translationMatrix.Mul4(orientation.Mat4()).Mul4(scaleMatrix)
}

// Instance builds the per-instance attributes. The normal matrix is the
// inverse transpose of the model's upper 3x3.
func (o *Object) Instance() shading.InstanceInput {
	model := o.ModelMatrix()
	return shading.NewInstanceInput(model, mgl32.Mat4Normal(model))
}
