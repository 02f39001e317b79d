package pipeline

import (
	"github.com/gogpu/gputypes"
)

// Bind group indices.
const (
	CameraGroup   = 0
	LightGroup    = 1
	MaterialGroup = 2
)

// Uniform block sizes in bytes, WGSL uniform address space rules.
const (
	CameraUniformSize   = 80
	LightUniformSize    = 32
	MaterialUniformSize = 32
)

// Buffer strides in bytes.
const (
	VertexStride   = 5 * 12
	InstanceStride = 4*16 + 3*12
)

const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// First shader location used by the instance buffer.
const InstanceLocationBase = 5

var (
	ColorFormat = gputypes.TextureFormatRGBA32Float
	DepthFormat = gputypes.TextureFormatDepth32Float
)

func uniformLayout(label string, visibility gputypes.ShaderStages, size uint64) gputypes.BindGroupLayoutDescriptor {
	return gputypes.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   size,
				},
			},
		},
	}
}

func CameraBindGroupLayout() gputypes.BindGroupLayoutDescriptor {
	return uniformLayout("camera_bind_group_layout", gputypes.ShaderStagesVertexFragment, CameraUniformSize)
}

func LightBindGroupLayout() gputypes.BindGroupLayoutDescriptor {
	return uniformLayout("light_bind_group_layout", gputypes.ShaderStageFragment, LightUniformSize)
}

func MaterialBindGroupLayout() gputypes.BindGroupLayoutDescriptor {
	return uniformLayout("material_color_bind_group_layout", gputypes.ShaderStageFragment, MaterialUniformSize)
}

// VertexBufferLayout describes the mesh buffer: position, uv, normal,
// tangent and bitangent, each three floats, at locations 0 to 4.
func VertexBufferLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, 5)
	var offset uint64
	for i := range attrs {
		attrs[i] = gputypes.VertexAttribute{
			Format:         gputypes.VertexFormatFloat32x3,
			Offset:         offset,
			ShaderLocation: uint32(i),
		}
		offset += gputypes.VertexFormatFloat32x3.Size()
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// InstanceBufferLayout describes the per-instance buffer: four vec4 model
// matrix columns at locations 5 to 8 followed by three vec3 normal matrix
// columns at locations 9 to 11.
func InstanceBufferLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, 0, 7)
	var offset uint64
	location := uint32(InstanceLocationBase)
	for i := 0; i < 4; i++ {
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         gputypes.VertexFormatFloat32x4,
			Offset:         offset,
			ShaderLocation: location,
		})
		offset += gputypes.VertexFormatFloat32x4.Size()
		location++
	}
	for i := 0; i < 3; i++ {
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         gputypes.VertexFormatFloat32x3,
			Offset:         offset,
			ShaderLocation: location,
		})
		offset += gputypes.VertexFormatFloat32x3.Size()
		location++
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: InstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

func ColorTarget() gputypes.ColorTargetState {
	return gputypes.ColorTargetState{
		Format:    ColorFormat,
		Blend:     nil,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}

func DepthStencil() gputypes.DepthStencilState {
	return gputypes.DefaultDepthStencilState(DepthFormat)
}

func Primitive(cull gputypes.CullMode) gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  cull,
	}
}

// ClearColor is the scene background.
func ClearColor() gputypes.Color {
	return gputypes.NewColor(0, 0.05, 0.1, 1)
}

func ColorAttachment() gputypes.RenderPassColorAttachment {
	return gputypes.RenderPassColorAttachment{
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: ClearColor(),
	}
}

func DepthAttachment() gputypes.RenderPassDepthStencilAttachment {
	return gputypes.RenderPassDepthStencilAttachment{
		DepthLoadOp:     gputypes.LoadOpClear,
		DepthStoreOp:    gputypes.StoreOpStore,
		DepthClearValue: 1.0,
	}
}
