package pipeline

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"go.uber.org/zap"

	"Pomarin/internal/logger"
)

//go:embed shader.wgsl
var ShaderSource string

const spirvMagic = 0x07230203

// ErrLayoutMismatch is matched by every *LayoutError.
var ErrLayoutMismatch = errors.New("host layout does not match shader")

// LayoutError reports one disagreement between the host descriptors and
// the compiled shader interface.
type LayoutError struct {
	Resource string
	Reason   string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout mismatch at %s: %s", e.Resource, e.Reason)
}

func (e *LayoutError) Is(target error) bool {
	return target == ErrLayoutMismatch
}

// Descriptor is the host side of a render pipeline. BindGroupLayouts is
// indexed by group.
type Descriptor struct {
	Label            string
	Source           string // WGSL, ShaderSource when empty
	BindGroupLayouts []gputypes.BindGroupLayoutDescriptor
	Vertex           gputypes.VertexState
	Fragment         gputypes.FragmentState
	Primitive        gputypes.PrimitiveState
	DepthStencil     *gputypes.DepthStencilState
}

// DefaultDescriptor describes the Phong pipeline.
func DefaultDescriptor() Descriptor {
	depth := DepthStencil()
	return Descriptor{
		Label: "phong",
		BindGroupLayouts: []gputypes.BindGroupLayoutDescriptor{
			CameraGroup:   CameraBindGroupLayout(),
			LightGroup:    LightBindGroupLayout(),
			MaterialGroup: MaterialBindGroupLayout(),
		},
		Vertex: gputypes.VertexState{
			EntryPoint: VertexEntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{VertexBufferLayout(), InstanceBufferLayout()},
		},
		Fragment: gputypes.FragmentState{
			EntryPoint: FragmentEntryPoint,
			Targets:    []gputypes.ColorTargetState{ColorTarget()},
		},
		Primitive:    Primitive(gputypes.CullModeBack),
		DepthStencil: &depth,
	}
}

// Pipeline is a validated shader plus the host descriptors it was checked against.
type Pipeline struct {
	Label      string
	Descriptor Descriptor
	Module     *ir.Module
	Reflection *Reflection
	SPIRV      []byte
}

// Build compiles the WGSL, reflects its interface and checks the host
// descriptors against it. Any mismatch is returned as one or more
// *LayoutError joined together.
func Build(desc Descriptor) (*Pipeline, error) {
	source := desc.Source
	if source == "" {
		source = ShaderSource
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: lowering: %w", desc.Label, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: validation: %w", desc.Label, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("pipeline %s: validation: %w", desc.Label, &verrs[0])
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
	}
	if len(code) < 4 || binary.LittleEndian.Uint32(code) != spirvMagic {
		return nil, fmt.Errorf("pipeline %s: generated SPIR-V has no magic header", desc.Label)
	}

	refl, err := Reflect(module)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
	}

	if errs := Validate(desc, refl); len(errs) > 0 {
		for _, e := range errs {
			logger.Log.Warn("Pipeline layout mismatch",
				zap.String("pipeline", desc.Label),
				zap.String("resource", e.Resource),
				zap.String("reason", e.Reason))
		}
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, errors.Join(joined...))
	}

	logger.Log.Info("Pipeline built",
		zap.String("pipeline", desc.Label),
		zap.Int("spirv_bytes", len(code)),
		zap.Int("uniforms", len(refl.Uniforms)))

	return &Pipeline{
		Label:      desc.Label,
		Descriptor: desc,
		Module:     module,
		Reflection: refl,
		SPIRV:      code,
	}, nil
}

// MustBuild is Build for the built-in descriptor, which is known to be valid.
func MustBuild() *Pipeline {
	p, err := Build(DefaultDescriptor())
	if err != nil {
		panic(err)
	}
	return p
}

// AcceptsColorMaterial reports whether the pipeline binds a MaterialColor
// block at the material group.
func (p *Pipeline) AcceptsColorMaterial() bool {
	u, ok := p.Reflection.Uniform(MaterialGroup, 0)
	return ok && u.Size == MaterialUniformSize
}
