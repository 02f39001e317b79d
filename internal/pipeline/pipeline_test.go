package pipeline

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBuildDefaultPipeline(t *testing.T) {
	p, err := Build(DefaultDescriptor())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if binary.LittleEndian.Uint32(p.SPIRV) != spirvMagic {
		t.Error("SPIR-V output should start with the magic number")
	}
	if len(p.SPIRV)%4 != 0 {
		t.Errorf("SPIR-V length %d should be a whole number of words", len(p.SPIRV))
	}
	if !p.AcceptsColorMaterial() {
		t.Error("Phong pipeline should accept color materials")
	}
}

func TestReflectUniforms(t *testing.T) {
	p := MustBuild()

	cases := []struct {
		group  uint32
		size   uint32
		stages gputypes.ShaderStages
	}{
		{CameraGroup, CameraUniformSize, gputypes.ShaderStagesVertexFragment},
		{LightGroup, LightUniformSize, gputypes.ShaderStageFragment},
		{MaterialGroup, MaterialUniformSize, gputypes.ShaderStageFragment},
	}

	if len(p.Reflection.Uniforms) != len(cases) {
		t.Fatalf("Expected %d uniforms, got %d", len(cases), len(p.Reflection.Uniforms))
	}
	for _, c := range cases {
		u, ok := p.Reflection.Uniform(c.group, 0)
		if !ok {
			t.Errorf("No uniform reflected at group %d", c.group)
			continue
		}
		if u.Size != c.size {
			t.Errorf("Group %d: expected size %d, got %d", c.group, c.size, u.Size)
		}
		if u.Stages != c.stages {
			t.Errorf("Group %d: expected stages %s, got %s", c.group, c.stages, u.Stages)
		}
	}
}

func TestReflectVertexInputs(t *testing.T) {
	p := MustBuild()

	vs, ok := p.Reflection.EntryPoint(VertexEntryPoint)
	if !ok {
		t.Fatal("vs_main not reflected")
	}
	if len(vs.Inputs) != 12 {
		t.Fatalf("Expected 12 vertex inputs, got %d", len(vs.Inputs))
	}
	for i, in := range vs.Inputs {
		if in.Location != uint32(i) {
			t.Errorf("Input %d has location %d", i, in.Location)
		}
		want := uint32(3)
		if in.Location >= 5 && in.Location <= 8 {
			want = 4
		}
		if in.Components != want || !in.Float {
			t.Errorf("Location %d: expected %d floats, got %d", in.Location, want, in.Components)
		}
	}

	fs, ok := p.Reflection.EntryPoint(FragmentEntryPoint)
	if !ok {
		t.Fatal("fs_main not reflected")
	}
	if len(fs.Outputs) != 1 || fs.Outputs[0].Components != 4 {
		t.Errorf("Fragment stage should write a single vec4, got %+v", fs.Outputs)
	}
}

func TestBuildRejectsMaterialSizeMismatch(t *testing.T) {
	desc := DefaultDescriptor()
	desc.BindGroupLayouts[MaterialGroup] = uniformLayout("short", gputypes.ShaderStageFragment, 16)

	_, err := Build(desc)
	if err == nil {
		t.Fatal("Expected a layout error for a short material block")
	}
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("Expected ErrLayoutMismatch, got %v", err)
	}
	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("Expected a *LayoutError, got %T", err)
	}
	if !strings.Contains(layoutErr.Resource, "group 2") {
		t.Errorf("Error should name group 2, got %q", layoutErr.Resource)
	}
}

func TestBuildRejectsCameraHiddenFromFragment(t *testing.T) {
	desc := DefaultDescriptor()
	desc.BindGroupLayouts[CameraGroup] = uniformLayout("camera", gputypes.ShaderStageVertex, CameraUniformSize)

	_, err := Build(desc)
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Camera is read by the fragment stage, expected a mismatch, got %v", err)
	}
}

func TestBuildRejectsMissingInstanceBuffer(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Vertex.Buffers = desc.Vertex.Buffers[:1]

	_, err := Build(desc)
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Expected a mismatch without the instance buffer, got %v", err)
	}
	if !strings.Contains(err.Error(), "location 5") {
		t.Errorf("Error should mention location 5, got %v", err)
	}
}

func TestBuildRejectsTransposedInstanceFormats(t *testing.T) {
	desc := DefaultDescriptor()
	instance := InstanceBufferLayout()
	instance.Attributes[0].Format = gputypes.VertexFormatFloat32x3
	desc.Vertex.Buffers = []gputypes.VertexBufferLayout{VertexBufferLayout(), instance}

	if _, err := Build(desc); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Expected a mismatch for a vec3 model matrix column, got %v", err)
	}
}

func TestBuildRejectsWrongEntryPoint(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Fragment.EntryPoint = "main"

	if _, err := Build(desc); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Expected a mismatch for an unknown entry point, got %v", err)
	}
}

func TestBuildRejectsColorFormat(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Fragment.Targets = []gputypes.ColorTargetState{{Format: gputypes.TextureFormatRGBA8Unorm}}

	if _, err := Build(desc); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Expected a mismatch for an 8-bit color target, got %v", err)
	}
}

func TestBuildRejectsExtraBinding(t *testing.T) {
	desc := DefaultDescriptor()
	extra := LightBindGroupLayout()
	extra.Entries = append(extra.Entries, gputypes.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: 16},
	})
	desc.BindGroupLayouts[LightGroup] = extra

	if _, err := Build(desc); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("Expected a mismatch for a binding the shader never declares, got %v", err)
	}
}

func TestBuildRejectsBrokenSource(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Source = "@vertex fn vs_main( -> {"

	_, err := Build(desc)
	if err == nil {
		t.Fatal("Expected a compile error")
	}
	if errors.Is(err, ErrLayoutMismatch) {
		t.Error("A syntax error should not be reported as a layout mismatch")
	}
}

func TestBufferLayouts(t *testing.T) {
	vertex := VertexBufferLayout()
	if vertex.ArrayStride != 60 || vertex.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("Unexpected vertex layout: stride %d step %v", vertex.ArrayStride, vertex.StepMode)
	}
	if vertex.Attributes[4].Offset != 48 {
		t.Errorf("Bitangent should start at byte 48, got %d", vertex.Attributes[4].Offset)
	}

	instance := InstanceBufferLayout()
	if instance.ArrayStride != 100 || instance.StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("Unexpected instance layout: stride %d step %v", instance.ArrayStride, instance.StepMode)
	}
	last := instance.Attributes[len(instance.Attributes)-1]
	if last.ShaderLocation != 11 || last.Offset != 88 {
		t.Errorf("Last normal matrix column should be location 11 at byte 88, got %d at %d", last.ShaderLocation, last.Offset)
	}
}

func TestTargets(t *testing.T) {
	if ColorTarget().Format != gputypes.TextureFormatRGBA32Float {
		t.Error("Color target should be RGBA32Float")
	}
	ds := DepthStencil()
	if ds.DepthCompare != gputypes.CompareFunctionLess || !ds.DepthWriteEnabled {
		t.Errorf("Unexpected depth state %+v", ds)
	}
	if c := ClearColor(); c.R != 0 || c.G != 0.05 || c.B != 0.1 || c.A != 1 {
		t.Errorf("Unexpected clear color %+v", c)
	}
	if DepthAttachment().DepthClearValue != 1 {
		t.Error("Depth should clear to 1")
	}
}
