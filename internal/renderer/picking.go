package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit is the closest intersection found by Pick.
type Hit struct {
	Object   *Object
	Distance float32
	Point    mgl32.Vec3
}

// RayIntersectSphere returns the nearest positive hit distance.
func RayIntersectSphere(ray Ray, center mgl32.Vec3, radius float32) (bool, float32) {
	oc := ray.Origin.Sub(center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false, 0
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)
	switch {
	case t1 > 0:
		return true, t1
	case t2 > 0:
		// Origin is inside the sphere
		return true, t2
	}
	return false, 0
}

// RayIntersectTriangle is Möller-Trumbore. Both windings are hit.
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3) (bool, float32) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false, 0 // parallel
	}

	f := 1 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false, 0
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return false, 0
	}

	t := f * edge2.Dot(q)
	if t > epsilon {
		return true, t
	}
	return false, 0
}

// RayIntersectObject tests the object's bounding sphere, then every
// triangle of its mesh in world space.
func RayIntersectObject(ray Ray, o *Object) (bool, float32) {
	if o.Model == nil || o.Model.Mesh == nil {
		return false, 0
	}
	mesh := o.Model.Mesh
	model := o.ModelMatrix()

	center := model.Mul4x1(mesh.BoundingSphereCenter.Vec4(1)).Vec3()
	scale := float32(math.Abs(float64(o.MeshScale)))
	if ok, _ := RayIntersectSphere(ray, center, mesh.BoundingSphereRadius*scale); !ok {
		return false, 0
	}

	world := func(i uint32) mgl32.Vec3 {
		return model.Mul4x1(mesh.Vertices[i].Position.Vec4(1)).Vec3()
	}

	hit, nearest := false, float32(math.MaxFloat32)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		ok, t := RayIntersectTriangle(ray, world(mesh.Indices[i]), world(mesh.Indices[i+1]), world(mesh.Indices[i+2]))
		if ok && t < nearest {
			hit, nearest = true, t
		}
	}
	return hit, nearest
}

// ScreenToRay unprojects a pixel position through the camera. The ray
// starts on the near plane.
func ScreenToRay(camera *Camera, screenX, screenY float32, width, height int) Ray {
	ndcX := 2*screenX/float32(width) - 1
	ndcY := 1 - 2*screenY/float32(height)

	inv := camera.GetViewProjection().Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 0, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearPoint := near.Vec3().Mul(1 / near.W())
	farPoint := far.Vec3().Mul(1 / far.W())

	return Ray{
		Origin:    nearPoint,
		Direction: farPoint.Sub(nearPoint).Normalize(),
	}
}

// Pick returns the closest object under a pixel.
func Pick(camera *Camera, objects []*Object, screenX, screenY float32, width, height int) (Hit, bool) {
	ray := ScreenToRay(camera, screenX, screenY, width, height)

	var best Hit
	found := false
	for _, o := range objects {
		ok, t := RayIntersectObject(ray, o)
		if ok && (!found || t < best.Distance) {
			best = Hit{Object: o, Distance: t, Point: ray.Origin.Add(ray.Direction.Mul(t))}
			found = true
		}
	}
	return best, found
}
