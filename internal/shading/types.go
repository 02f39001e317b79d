package shading

import "github.com/go-gl/mathgl/mgl32"

// CameraUniform is bound at group 0, binding 0 and read by both stages.
type CameraUniform struct {
	ViewPos  mgl32.Vec4 // Eye position, w = 1
	ViewProj mgl32.Mat4 // Projection * view, column-major
}

// Light is the single point light bound at group 1.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// MaterialColor is bound at group 2. Specular scales the highlight only,
// the exponent is always Shininess.
type MaterialColor struct {
	Ambient  mgl32.Vec3
	Specular float32
	Diffuse  mgl32.Vec3
	Padding  float32
}

// VertexInput is one record of the mesh vertex buffer (locations 0 to 4).
// Tangent, Bitangent and UV.z are carried for layout compatibility and are
// not read by the lighting.
type VertexInput struct {
	Position  mgl32.Vec3
	UV        mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// InstanceInput is one record of the instance buffer. The matrices arrive
// split into vector attributes: Model at locations 5 to 8 and Normal at
// locations 9 to 11. Attribute i is column i of the assembled matrix.
type InstanceInput struct {
	Model  [4]mgl32.Vec4
	Normal [3]mgl32.Vec3
}

// NewInstanceInput splits a model matrix and its normal matrix into
// attribute vectors in the order ModelMatrix and NormalMatrix reassemble them.
func NewInstanceInput(model mgl32.Mat4, normal mgl32.Mat3) InstanceInput {
	return InstanceInput{
		Model:  [4]mgl32.Vec4{model.Col(0), model.Col(1), model.Col(2), model.Col(3)},
		Normal: [3]mgl32.Vec3{normal.Col(0), normal.Col(1), normal.Col(2)},
	}
}

// IdentityInstance places a mesh untransformed.
func IdentityInstance() InstanceInput {
	return NewInstanceInput(mgl32.Ident4(), mgl32.Ident3())
}

func (i InstanceInput) ModelMatrix() mgl32.Mat4 {
	return mgl32.Mat4FromCols(i.Model[0], i.Model[1], i.Model[2], i.Model[3])
}

func (i InstanceInput) NormalMatrix() mgl32.Mat3 {
	return mgl32.Mat3FromCols(i.Normal[0], i.Normal[1], i.Normal[2])
}

// VertexOutput is what the rasterizer interpolates between the two stages.
type VertexOutput struct {
	ClipPosition  mgl32.Vec4
	WorldPosition mgl32.Vec3
	WorldNormal   mgl32.Vec3 // not normalized
}
