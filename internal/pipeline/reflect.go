package pipeline

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
)

// UniformInfo is one uniform buffer global as the shader declares it.
type UniformInfo struct {
	Name    string
	Group   uint32
	Binding uint32
	Size    uint32
	// Stages that reference the global.
	Stages gputypes.ShaderStages
}

// IOInfo is one user-defined (@location) input or output of an entry point.
type IOInfo struct {
	Name       string
	Location   uint32
	Components uint32
	Float      bool
}

type EntryPointInfo struct {
	Name    string
	Stage   gputypes.ShaderStage
	Inputs  []IOInfo
	Outputs []IOInfo
}

type Reflection struct {
	Uniforms    []UniformInfo
	EntryPoints []EntryPointInfo
}

func (r *Reflection) EntryPoint(name string) (EntryPointInfo, bool) {
	for _, ep := range r.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPointInfo{}, false
}

func (r *Reflection) Uniform(group, binding uint32) (UniformInfo, bool) {
	for _, u := range r.Uniforms {
		if u.Group == group && u.Binding == binding {
			return u, true
		}
	}
	return UniformInfo{}, false
}

// Reflect extracts the resource interface from a lowered module.
func Reflect(module *ir.Module) (*Reflection, error) {
	r := &Reflection{}
	uniformIndex := make(map[ir.GlobalVariableHandle]int)

	for h, gv := range module.GlobalVariables {
		if gv.Space != ir.SpaceUniform {
			continue
		}
		if gv.Binding == nil {
			return nil, fmt.Errorf("uniform %s has no @group/@binding", gv.Name)
		}
		uniformIndex[ir.GlobalVariableHandle(h)] = len(r.Uniforms)
		r.Uniforms = append(r.Uniforms, UniformInfo{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Size:    ir.TypeSize(module, gv.Type),
		})
	}

	for _, ep := range module.EntryPoints {
		stage, ok := stageOf(ep.Stage)
		if !ok {
			continue
		}
		info := EntryPointInfo{Name: ep.Name, Stage: stage}

		for _, arg := range ep.Function.Arguments {
			info.Inputs = append(info.Inputs, locations(module, arg.Name, arg.Type, arg.Binding)...)
		}
		if ep.Function.Result != nil {
			info.Outputs = locations(module, "", ep.Function.Result.Type, ep.Function.Result.Binding)
		}
		sortIO(info.Inputs)
		sortIO(info.Outputs)

		for _, expr := range ep.Function.Expressions {
			if g, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
				if i, ok := uniformIndex[g.Variable]; ok {
					r.Uniforms[i].Stages |= stage
				}
			}
		}
		r.EntryPoints = append(r.EntryPoints, info)
	}

	sort.Slice(r.Uniforms, func(i, j int) bool {
		if r.Uniforms[i].Group != r.Uniforms[j].Group {
			return r.Uniforms[i].Group < r.Uniforms[j].Group
		}
		return r.Uniforms[i].Binding < r.Uniforms[j].Binding
	})
	return r, nil
}

func stageOf(s ir.ShaderStage) (gputypes.ShaderStage, bool) {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex, true
	case ir.StageFragment:
		return gputypes.ShaderStageFragment, true
	}
	return gputypes.ShaderStageNone, false
}

// locations flattens an argument or result into its @location slots. Struct
// types contribute their members; builtins are skipped.
func locations(module *ir.Module, name string, handle ir.TypeHandle, binding *ir.Binding) []IOInfo {
	if binding != nil {
		loc, ok := (*binding).(ir.LocationBinding)
		if !ok {
			return nil
		}
		components, float := shape(module, handle)
		return []IOInfo{{Name: name, Location: loc.Location, Components: components, Float: float}}
	}
	if int(handle) >= len(module.Types) {
		return nil
	}
	st, ok := module.Types[handle].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var out []IOInfo
	for _, m := range st.Members {
		out = append(out, locations(module, m.Name, m.Type, m.Binding)...)
	}
	return out
}

func shape(module *ir.Module, handle ir.TypeHandle) (components uint32, float bool) {
	if int(handle) >= len(module.Types) {
		return 0, false
	}
	switch t := module.Types[handle].Inner.(type) {
	case ir.ScalarType:
		return 1, t.Kind == ir.ScalarFloat
	case ir.VectorType:
		return uint32(t.Size), t.Scalar.Kind == ir.ScalarFloat
	}
	return 0, false
}

func sortIO(io []IOInfo) {
	sort.Slice(io, func(i, j int) bool { return io[i].Location < io[j].Location })
}
