package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shininess is the fixed Phong exponent.
const Shininess = 32

// Shader runs the two stages on the CPU. A Shader holds no mutable state and
// may be used from any number of goroutines.
type Shader struct {
	Options Options
}

// Default reproduces the GPU shader exactly.
var Default = Shader{}

// VertexStage transforms one vertex of one instance.
func VertexStage(cam CameraUniform, v VertexInput, inst InstanceInput) VertexOutput {
	return Default.Vertex(cam, v, inst)
}

// FragmentStage shades one fragment with the default options.
func FragmentStage(cam CameraUniform, light Light, mat MaterialColor, in VertexOutput) mgl32.Vec4 {
	return Default.Fragment(cam, light, mat, in)
}

func (s Shader) Vertex(cam CameraUniform, v VertexInput, inst InstanceInput) VertexOutput {
	model := inst.ModelMatrix()
	normalMatrix := inst.NormalMatrix()

	worldPosition := model.Mul4x1(v.Position.Vec4(1))
	return VertexOutput{
		ClipPosition:  cam.ViewProj.Mul4x1(worldPosition),
		WorldPosition: worldPosition.Vec3(),
		WorldNormal:   normalMatrix.Mul3x1(v.Normal),
	}
}

func (s Shader) Fragment(cam CameraUniform, light Light, mat MaterialColor, in VertexOutput) mgl32.Vec4 {
	ambient := mulElem(mat.Ambient, light.Color)

	normal := in.WorldNormal
	if s.Options.GuardDegenerateNormal && degenerate(normal) {
		return ambient.Vec4(1)
	}
	if s.Options.NormalMode == NormalRenormalize {
		normal = normal.Normalize()
	}

	lightDir := light.Position.Sub(in.WorldPosition).Normalize()
	diffuseStrength := max32(normal.Dot(lightDir), 0)
	diffuse := mulElem(mat.Diffuse, light.Color).Mul(diffuseStrength)

	viewDir := cam.ViewPos.Vec3().Sub(in.WorldPosition).Normalize()
	reflectDir := Reflect(lightDir.Mul(-1), normal)
	specularStrength := float32(math.Pow(float64(max32(viewDir.Dot(reflectDir), 0)), Shininess))
	specular := light.Color.Mul(specularStrength * mat.Specular)

	return ambient.Add(diffuse).Add(specular).Vec4(1)
}

// Reflect mirrors the incident direction i about the normal n: i - 2*dot(n, i)*n.
// n is used as given; a non-unit n scales the reflected vector accordingly.
func Reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func max32(a, b float32) float32 {
	if b > a {
		return b
	}
	return a
}

func degenerate(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return true
		}
	}
	return v.LenSqr() == 0
}
