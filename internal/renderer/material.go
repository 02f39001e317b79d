package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"Pomarin/internal/shading"
)

type MaterialKind int

const (
	MaterialTexture MaterialKind = iota
	MaterialColor
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialTexture:
		return "MaterialKind::Texture"
	case MaterialColor:
		return "MaterialKind::Color"
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

func ParseMaterialKind(s string) (MaterialKind, error) {
	switch s {
	case "MaterialKind::Texture":
		return MaterialTexture, nil
	case "MaterialKind::Color":
		return MaterialColor, nil
	}
	return 0, &MaterialError{Kind: MaterialDeserialisation, Type: "MaterialKind", Input: s}
}

func (k MaterialKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MaterialKind) UnmarshalText(text []byte) error {
	parsed, err := ParseMaterialKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type MaterialErrorKind int

const (
	MaterialBuilderIncomplete MaterialErrorKind = iota
	MaterialDeserialisation
)

var (
	ErrMaterialIncomplete = errors.New("material builder incomplete")
	ErrMaterialDecode     = errors.New("material deserialisation failed")
)

type MaterialError struct {
	Kind MaterialErrorKind

	// MaterialBuilderIncomplete
	Material string
	Field    string

	// MaterialDeserialisation
	Type  string
	Input string
}

func (e *MaterialError) Error() string {
	if e.Kind == MaterialDeserialisation {
		return fmt.Sprintf("Cannot build %s from %s", e.Type, e.Input)
	}
	return fmt.Sprintf("Missing %s to build material %s", e.Field, e.Material)
}

func (e *MaterialError) Is(target error) bool {
	switch target {
	case ErrMaterialIncomplete:
		return e.Kind == MaterialBuilderIncomplete
	case ErrMaterialDecode:
		return e.Kind == MaterialDeserialisation
	}
	return false
}

// Material is anything that can be bound at group 2.
type Material interface {
	Name() string
	Kind() MaterialKind
}

type ColorMaterial struct {
	name     string
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

func NewColorMaterial(name string, ambient, diffuse, specular mgl32.Vec3) *ColorMaterial {
	return &ColorMaterial{name: name, Ambient: ambient, Diffuse: diffuse, Specular: specular}
}

func (m *ColorMaterial) Name() string       { return m.name }
func (m *ColorMaterial) Kind() MaterialKind { return MaterialColor }

// Uniform collapses the specular color to its mean; the shader only takes a
// scalar.
func (m *ColorMaterial) Uniform() shading.MaterialColor {
	return shading.MaterialColor{
		Ambient:  m.Ambient,
		Specular: (m.Specular[0] + m.Specular[1] + m.Specular[2]) / 3,
		Diffuse:  m.Diffuse,
	}
}

// TextureMaterial only names its textures. Decoding them is left to the
// host that owns a GPU device.
type TextureMaterial struct {
	name           string
	DiffuseTexture string
	NormalTexture  string
}

func (m *TextureMaterial) Name() string       { return m.name }
func (m *TextureMaterial) Kind() MaterialKind { return MaterialTexture }

type MaterialBuilder struct {
	name     string
	kind     *MaterialKind
	ambient  *mgl32.Vec3
	diffuse  *mgl32.Vec3
	specular *mgl32.Vec3

	diffuseTexture string
	normalTexture  string
}

func NewMaterialBuilder(name string) *MaterialBuilder {
	return &MaterialBuilder{name: name}
}

func (b *MaterialBuilder) Kind(kind MaterialKind) *MaterialBuilder {
	b.kind = &kind
	return b
}

func (b *MaterialBuilder) Ambient(c mgl32.Vec3) *MaterialBuilder {
	b.ambient = &c
	return b
}

func (b *MaterialBuilder) Diffuse(c mgl32.Vec3) *MaterialBuilder {
	b.diffuse = &c
	return b
}

func (b *MaterialBuilder) Specular(c mgl32.Vec3) *MaterialBuilder {
	b.specular = &c
	return b
}

func (b *MaterialBuilder) Textures(diffuse, normal string) *MaterialBuilder {
	b.diffuseTexture = diffuse
	b.normalTexture = normal
	return b
}

func (b *MaterialBuilder) missing(field string) error {
	return &MaterialError{Kind: MaterialBuilderIncomplete, Material: b.name, Field: field}
}

func (b *MaterialBuilder) Build() (Material, error) {
	if b.kind == nil {
		return nil, b.missing("kind")
	}
	switch *b.kind {
	case MaterialColor:
		if b.ambient == nil {
			return nil, b.missing("ambient")
		}
		if b.diffuse == nil {
			return nil, b.missing("diffuse")
		}
		if b.specular == nil {
			return nil, b.missing("specular")
		}
		return NewColorMaterial(b.name, *b.ambient, *b.diffuse, *b.specular), nil
	case MaterialTexture:
		if b.diffuseTexture == "" {
			return nil, b.missing("diffuse_texture")
		}
		if b.normalTexture == "" {
			return nil, b.missing("normal_texture")
		}
		return &TextureMaterial{name: b.name, DiffuseTexture: b.diffuseTexture, NormalTexture: b.normalTexture}, nil
	}
	return nil, b.missing("kind")
}
