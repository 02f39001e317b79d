package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// Values the shading stage would happily propagate into the framebuffer
// are rejected here, before anything is encoded.
var (
	ErrNonFinite         = errors.New("non-finite value")
	ErrSingularTransform = errors.New("singular model transform")
)

// singularRatio bounds |det| against the cube of the largest linear
// entry, so a uniform scale of any size passes and only collapsed axes fail.
const singularRatio = 1e-6

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func ValidateCamera(c shading.CameraUniform) error {
	if !finite(c.ViewPos[:]...) || !finite(c.ViewProj[:]...) {
		return fmt.Errorf("camera uniform: %w", ErrNonFinite)
	}
	return nil
}

func ValidateLight(l shading.Light) error {
	if !finite(l.Position[:]...) || !finite(l.Color[:]...) {
		return fmt.Errorf("light uniform: %w", ErrNonFinite)
	}
	return nil
}

func ValidateMaterial(m shading.MaterialColor) error {
	if !finite(m.Ambient[:]...) || !finite(m.Diffuse[:]...) || !finite(m.Specular) {
		return fmt.Errorf("material uniform: %w", ErrNonFinite)
	}
	return nil
}

// ValidateUniforms checks all three bind group blocks.
func ValidateUniforms(camera shading.CameraUniform, light shading.Light, material shading.MaterialColor) error {
	return errors.Join(ValidateCamera(camera), ValidateLight(light), ValidateMaterial(material))
}

func ValidateInstance(in shading.InstanceInput) error {
	model := in.ModelMatrix()
	normal := in.NormalMatrix()
	if !finite(model[:]...) || !finite(normal[:]...) {
		return fmt.Errorf("instance: %w", ErrNonFinite)
	}
	if det, ok := conditioned(model.Mat3()); !ok {
		return fmt.Errorf("instance: %w (det %g)", ErrSingularTransform, det)
	}
	return nil
}

// conditioned reports whether m is far enough from singular to invert.
// The determinant is taken in float64 so tiny scales do not underflow.
func conditioned(m mgl32.Mat3) (float64, bool) {
	var a [9]float64
	maxAbs := 0.0
	for i, v := range m {
		a[i] = float64(v)
		maxAbs = math.Max(maxAbs, math.Abs(a[i]))
	}
	det := a[0]*(a[4]*a[8]-a[7]*a[5]) -
		a[3]*(a[1]*a[8]-a[7]*a[2]) +
		a[6]*(a[1]*a[5]-a[4]*a[2])
	if maxAbs == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return det, false
	}
	return det, math.Abs(det) > singularRatio*maxAbs*maxAbs*maxAbs
}
