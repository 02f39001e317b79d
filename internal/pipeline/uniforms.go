package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func getF32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

func putVec3(buf []byte, v mgl32.Vec3) {
	for i, c := range v {
		putF32(buf[4*i:], c)
	}
}

func putVec4(buf []byte, v mgl32.Vec4) {
	for i, c := range v {
		putF32(buf[4*i:], c)
	}
}

func getVec3(buf []byte) mgl32.Vec3 {
	return mgl32.Vec3{getF32(buf), getF32(buf[4:]), getF32(buf[8:])}
}

func getVec4(buf []byte) mgl32.Vec4 {
	return mgl32.Vec4{getF32(buf), getF32(buf[4:]), getF32(buf[8:]), getF32(buf[12:])}
}

func checkSize(what string, buf []byte, size int) error {
	if len(buf) != size {
		return fmt.Errorf("%s uniform: expected %d bytes, got %d", what, size, len(buf))
	}
	return nil
}

// EncodeCamera lays out the camera block:
//
//	view_pos  vec4<f32>     offset 0
//	view_proj mat4x4<f32>   offset 16, column-major
func EncodeCamera(c shading.CameraUniform) []byte {
	buf := make([]byte, CameraUniformSize)
	putVec4(buf[0:], c.ViewPos)
	for i, v := range c.ViewProj {
		putF32(buf[16+4*i:], v)
	}
	return buf
}

func DecodeCamera(buf []byte) (shading.CameraUniform, error) {
	var c shading.CameraUniform
	if err := checkSize("camera", buf, CameraUniformSize); err != nil {
		return c, err
	}
	c.ViewPos = getVec4(buf[0:])
	for i := range c.ViewProj {
		c.ViewProj[i] = getF32(buf[16+4*i:])
	}
	return c, nil
}

// EncodeLight lays out the light block:
//
//	position vec3<f32>  offset 0
//	_pad     u32        offset 12
//	color    vec3<f32>  offset 16
//	_pad     u32        offset 28
func EncodeLight(l shading.Light) []byte {
	buf := make([]byte, LightUniformSize)
	putVec3(buf[0:], l.Position)
	putVec3(buf[16:], l.Color)
	return buf
}

func DecodeLight(buf []byte) (shading.Light, error) {
	var l shading.Light
	if err := checkSize("light", buf, LightUniformSize); err != nil {
		return l, err
	}
	l.Position = getVec3(buf[0:])
	l.Color = getVec3(buf[16:])
	return l, nil
}

// EncodeMaterial lays out the material color block:
//
//	ambient  vec3<f32>  offset 0
//	specular f32        offset 12
//	diffuse  vec3<f32>  offset 16
//	padding  f32        offset 28
func EncodeMaterial(m shading.MaterialColor) []byte {
	buf := make([]byte, MaterialUniformSize)
	putVec3(buf[0:], m.Ambient)
	putF32(buf[12:], m.Specular)
	putVec3(buf[16:], m.Diffuse)
	putF32(buf[28:], m.Padding)
	return buf
}

func DecodeMaterial(buf []byte) (shading.MaterialColor, error) {
	var m shading.MaterialColor
	if err := checkSize("material", buf, MaterialUniformSize); err != nil {
		return m, err
	}
	m.Ambient = getVec3(buf[0:])
	m.Specular = getF32(buf[12:])
	m.Diffuse = getVec3(buf[16:])
	m.Padding = getF32(buf[28:])
	return m, nil
}

// EncodeVertices packs vertices with VertexStride, in location order.
func EncodeVertices(vertices []shading.VertexInput) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		rec := buf[i*VertexStride:]
		putVec3(rec[0:], v.Position)
		putVec3(rec[12:], v.UV)
		putVec3(rec[24:], v.Normal)
		putVec3(rec[36:], v.Tangent)
		putVec3(rec[48:], v.Bitangent)
	}
	return buf
}

func DecodeVertices(buf []byte) ([]shading.VertexInput, error) {
	if len(buf)%VertexStride != 0 {
		return nil, fmt.Errorf("vertex buffer length %d is not a multiple of %d", len(buf), VertexStride)
	}
	vertices := make([]shading.VertexInput, len(buf)/VertexStride)
	for i := range vertices {
		rec := buf[i*VertexStride:]
		vertices[i] = shading.VertexInput{
			Position:  getVec3(rec[0:]),
			UV:        getVec3(rec[12:]),
			Normal:    getVec3(rec[24:]),
			Tangent:   getVec3(rec[36:]),
			Bitangent: getVec3(rec[48:]),
		}
	}
	return vertices, nil
}

// EncodeInstances packs instances with InstanceStride: the four model
// matrix attributes first, then the three normal matrix attributes.
func EncodeInstances(instances []shading.InstanceInput) []byte {
	buf := make([]byte, len(instances)*InstanceStride)
	for i, inst := range instances {
		rec := buf[i*InstanceStride:]
		for c, col := range inst.Model {
			putVec4(rec[16*c:], col)
		}
		for c, col := range inst.Normal {
			putVec3(rec[64+12*c:], col)
		}
	}
	return buf
}

func DecodeInstances(buf []byte) ([]shading.InstanceInput, error) {
	if len(buf)%InstanceStride != 0 {
		return nil, fmt.Errorf("instance buffer length %d is not a multiple of %d", len(buf), InstanceStride)
	}
	instances := make([]shading.InstanceInput, len(buf)/InstanceStride)
	for i := range instances {
		rec := buf[i*InstanceStride:]
		for c := range instances[i].Model {
			instances[i].Model[c] = getVec4(rec[16*c:])
		}
		for c := range instances[i].Normal {
			instances[i].Normal[c] = getVec3(rec[64+12*c:])
		}
	}
	return instances, nil
}
