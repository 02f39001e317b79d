package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Validate compares host descriptors with a shader reflection and returns
// every mismatch found. An empty result means the pipeline can be created.
func Validate(desc Descriptor, refl *Reflection) []*LayoutError {
	var errs []*LayoutError
	fail := func(resource, format string, args ...interface{}) {
		errs = append(errs, &LayoutError{Resource: resource, Reason: fmt.Sprintf(format, args...)})
	}

	vs, ok := refl.EntryPoint(desc.Vertex.EntryPoint)
	if !ok || vs.Stage != gputypes.ShaderStageVertex {
		fail("entry point "+desc.Vertex.EntryPoint, "no vertex entry point with this name")
	}
	fs, ok := refl.EntryPoint(desc.Fragment.EntryPoint)
	if !ok || fs.Stage != gputypes.ShaderStageFragment {
		fail("entry point "+desc.Fragment.EntryPoint, "no fragment entry point with this name")
	}

	validateBindings(desc, refl, fail)
	if len(vs.Inputs) > 0 {
		validateVertexBuffers(desc.Vertex.Buffers, vs.Inputs, fail)
	}
	if fs.Name != "" {
		validateTargets(desc.Fragment.Targets, fs.Outputs, fail)
	}
	if desc.DepthStencil != nil && !desc.DepthStencil.Format.HasDepth() {
		fail("depth stencil", "format %s has no depth aspect", desc.DepthStencil.Format)
	}
	return errs
}

type failFunc func(resource, format string, args ...interface{})

func validateBindings(desc Descriptor, refl *Reflection, fail failFunc) {
	for _, u := range refl.Uniforms {
		resource := fmt.Sprintf("group %d binding %d (%s)", u.Group, u.Binding, u.Name)
		if int(u.Group) >= len(desc.BindGroupLayouts) {
			fail(resource, "no bind group layout for group %d", u.Group)
			continue
		}
		entry, ok := findEntry(desc.BindGroupLayouts[u.Group], u.Binding)
		if !ok {
			fail(resource, "binding missing from layout %q", desc.BindGroupLayouts[u.Group].Label)
			continue
		}
		if entry.Buffer == nil || entry.Buffer.Type != gputypes.BufferBindingTypeUniform {
			fail(resource, "layout entry is not a uniform buffer")
			continue
		}
		if entry.Buffer.MinBindingSize != uint64(u.Size) {
			fail(resource, "host size %d bytes, shader size %d bytes", entry.Buffer.MinBindingSize, u.Size)
		}
		if !entry.Visibility.Contains(u.Stages) {
			fail(resource, "visible to %s but used by %s", entry.Visibility, u.Stages)
		}
	}

	for group, layout := range desc.BindGroupLayouts {
		for _, entry := range layout.Entries {
			if _, ok := refl.Uniform(uint32(group), entry.Binding); !ok {
				fail(fmt.Sprintf("group %d binding %d", group, entry.Binding), "declared by host but not by shader")
			}
		}
	}
}

func findEntry(layout gputypes.BindGroupLayoutDescriptor, binding uint32) (gputypes.BindGroupLayoutEntry, bool) {
	for _, e := range layout.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return gputypes.BindGroupLayoutEntry{}, false
}

func validateVertexBuffers(buffers []gputypes.VertexBufferLayout, inputs []IOInfo, fail failFunc) {
	provided := make(map[uint32]gputypes.VertexAttribute)
	for b, buf := range buffers {
		for _, attr := range buf.Attributes {
			resource := fmt.Sprintf("location %d", attr.ShaderLocation)
			if _, dup := provided[attr.ShaderLocation]; dup {
				fail(resource, "provided by more than one attribute")
				continue
			}
			if attr.Offset+attr.Format.Size() > buf.ArrayStride {
				fail(resource, "attribute ends at byte %d, past buffer %d stride %d",
					attr.Offset+attr.Format.Size(), b, buf.ArrayStride)
			}
			provided[attr.ShaderLocation] = attr
		}
	}

	consumed := make(map[uint32]bool)
	for _, in := range inputs {
		resource := fmt.Sprintf("location %d (%s)", in.Location, in.Name)
		consumed[in.Location] = true
		attr, ok := provided[in.Location]
		if !ok {
			fail(resource, "no vertex attribute feeds this input")
			continue
		}
		components, float := formatShape(attr.Format)
		if components != in.Components || float != in.Float {
			fail(resource, "host format %s does not match shader input of %d components", attr.Format, in.Components)
		}
	}
	for loc := range provided {
		if !consumed[loc] {
			fail(fmt.Sprintf("location %d", loc), "attribute not consumed by the vertex entry point")
		}
	}
}

func validateTargets(targets []gputypes.ColorTargetState, outputs []IOInfo, fail failFunc) {
	if len(targets) != len(outputs) {
		fail("color targets", "host declares %d targets, shader writes %d", len(targets), len(outputs))
		return
	}
	for i, out := range outputs {
		resource := fmt.Sprintf("color target %d", out.Location)
		if int(out.Location) >= len(targets) {
			fail(resource, "no target at this index")
			continue
		}
		if targets[out.Location].Format != ColorFormat {
			fail(resource, "format %s, want %s", targets[out.Location].Format, ColorFormat)
		}
		if outputs[i].Components != 4 || !outputs[i].Float {
			fail(resource, "shader output is not a float vec4")
		}
	}
}

func formatShape(f gputypes.VertexFormat) (components uint32, float bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 1, true
	case gputypes.VertexFormatFloat32x2:
		return 2, true
	case gputypes.VertexFormatFloat32x3:
		return 3, true
	case gputypes.VertexFormatFloat32x4:
		return 4, true
	}
	return 0, false
}
