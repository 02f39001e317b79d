// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

// OpenGLToWGPU remaps clip-space depth from [-w, w] to [0, w].
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type Camera struct {
	// HOT DATA - read every frame to build the camera uniform
	Position   mgl32.Vec3 // Eye position in world space
	Target     mgl32.Vec3 // Point the camera looks at
	Up         mgl32.Vec3 // Up direction, usually +Y
	Projection mgl32.Mat4 // Projection matrix, depth in [0, 1]

	// COLD DATA - configuration
	Fov         float32 // Vertical field of view in degrees
	Near        float32 // Near clipping plane
	Far         float32 // Far clipping plane
	AspectRatio float32 // Width / height

	Name string
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

// NewDefaultCamera builds a perspective camera: fov 45, near 1, far 1000.
func NewDefaultCamera(width, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 5, 10},
		Target:      mgl32.Vec3{0, 0, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         45.0,
		Near:        1.0,
		Far:         1000.0,
		AspectRatio: float32(width) / float32(height),
		Name:        "main",
	}
	camera.UpdateProjection()
	return &camera
}

// NewCameraFromConfig applies the camera section of a render config.
func NewCameraFromConfig(cfg RenderConfig) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3(cfg.Camera.Position),
		Target:      mgl32.Vec3(cfg.Camera.Target),
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         cfg.Camera.Fov,
		Near:        cfg.Camera.Near,
		Far:         cfg.Camera.Far,
		AspectRatio: cfg.AspectRatio(),
		Name:        "main",
	}
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = OpenGLToWGPU.Mul4(mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far))
}

// Setter methods that automatically update projection
func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// GetViewMatrix is a right-handed look-at matrix.
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// Uniform packs the camera for group 0.
func (c *Camera) Uniform() shading.CameraUniform {
	return shading.CameraUniform{
		ViewPos:  c.Position.Vec4(1),
		ViewProj: c.GetViewProjection(),
	}
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// CalculateFrustum extracts the six planes from the view-projection
// matrix. Clip depth runs from 0 to w, so the near plane is the third row
// on its own.
func (c *Camera) CalculateFrustum() Frustum {
	var frustum Frustum
	vp := c.GetViewProjection()

	// Left Plane
	frustum.Planes[0] = Plane{
		Normal:   mgl32.Vec3{vp[3] + vp[0], vp[7] + vp[4], vp[11] + vp[8]},
		Distance: vp[15] + vp[12],
	}

	// Right Plane
	frustum.Planes[1] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[0], vp[7] - vp[4], vp[11] - vp[8]},
		Distance: vp[15] - vp[12],
	}

	// Bottom Plane
	frustum.Planes[2] = Plane{
		Normal:   mgl32.Vec3{vp[3] + vp[1], vp[7] + vp[5], vp[11] + vp[9]},
		Distance: vp[15] + vp[13],
	}

	// Top Plane
	frustum.Planes[3] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[1], vp[7] - vp[5], vp[11] - vp[9]},
		Distance: vp[15] - vp[13],
	}

	// Near Plane
	frustum.Planes[4] = Plane{
		Normal:   mgl32.Vec3{vp[2], vp[6], vp[10]},
		Distance: vp[14],
	}

	// Far Plane
	frustum.Planes[5] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[2], vp[7] - vp[6], vp[11] - vp[10]},
		Distance: vp[15] - vp[14],
	}

	for i := 0; i < 6; i++ {
		length := frustum.Planes[i].Normal.Len()
		frustum.Planes[i].Normal = frustum.Planes[i].Normal.Mul(1.0 / length)
		frustum.Planes[i].Distance /= length
	}

	return frustum
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false // Sphere is outside the frustum
		}
	}
	return true
}
