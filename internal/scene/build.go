package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Pomarin/internal/behaviour"
	"Pomarin/internal/loader"
	"Pomarin/internal/logger"
	"Pomarin/internal/pipeline"
	"Pomarin/internal/renderer"
)

var ErrUnknownMeshKind = errors.New("unknown mesh kind")

// Scene is a resolved description: a filled store, the objects to draw and
// the game objects whose scripts drive them.
type Scene struct {
	Store       *renderer.Store
	Objects     []*renderer.Object
	GameObjects []*behaviour.GameObject
	Light       *renderer.Light
}

// Build resolves desc into store. When store has no "phong" pipeline the
// built-in one is compiled and added first. Material and model failures
// come back as *renderer.MaterialError and *renderer.ModelError.
func Build(desc *Description, store *renderer.Store) (*Scene, error) {
	if store == nil {
		store = renderer.NewStore()
	}
	if _, ok := store.Pipeline(pipeline.DefaultDescriptor().Label); !ok {
		p, err := pipeline.Build(pipeline.DefaultDescriptor())
		if err != nil {
			return nil, err
		}
		store.AddPipeline(p)
	}

	for _, md := range desc.Materials {
		m, err := buildMaterial(md)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		store.AddMaterial(m)
	}

	for _, md := range desc.Meshes {
		m, err := buildMesh(md)
		if err != nil {
			return nil, fmt.Errorf("scene: mesh %s: %w", md.Name, err)
		}
		store.AddMesh(m)
	}

	for _, md := range desc.Models {
		if md.Pipeline == "" {
			md.Pipeline = pipeline.DefaultDescriptor().Label
		}
		if _, err := store.BuildModel(md); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	}

	sc := &Scene{Store: store, Light: buildLight(desc.Light)}

	for _, od := range desc.Objects {
		obj, gameObject, err := sc.buildObject(od)
		if err != nil {
			return nil, fmt.Errorf("scene: object %s: %w", od.Name, err)
		}
		sc.Objects = append(sc.Objects, obj)
		if gameObject != nil {
			sc.GameObjects = append(sc.GameObjects, gameObject)
		}
	}

	for _, vd := range desc.Voxels {
		objects, err := buildVoxels(vd, store)
		if err != nil {
			return nil, fmt.Errorf("scene: voxels %s: %w", vd.Name, err)
		}
		sc.Objects = append(sc.Objects, objects...)
	}

	if desc.Light != nil && desc.Light.Orbit {
		sun := behaviour.NewGameObject("light")
		sun.AddComponent(&behaviour.LightOrbit{Light: sc.Light})
		sc.GameObjects = append(sc.GameObjects, sun)
	}

	logger.Log.Info("Scene built",
		zap.Int("materials", len(desc.Materials)),
		zap.Int("meshes", len(desc.Meshes)),
		zap.Int("models", len(desc.Models)),
		zap.Int("objects", len(sc.Objects)),
		zap.Int("scripted", len(sc.GameObjects)))
	return sc, nil
}

// Load reads the file at path and builds it into a fresh store.
func Load(path string) (*Scene, error) {
	desc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(desc, nil)
}

func vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func buildMaterial(md MaterialDescription) (renderer.Material, error) {
	b := renderer.NewMaterialBuilder(md.Name)
	if md.Kind != "" {
		kind, err := renderer.ParseMaterialKind(md.Kind)
		if err != nil {
			return nil, err
		}
		b.Kind(kind)
	}
	if md.Ambient != nil {
		b.Ambient(vec3(*md.Ambient))
	}
	if md.Diffuse != nil {
		b.Diffuse(vec3(*md.Diffuse))
	}
	if md.Specular != nil {
		b.Specular(vec3(*md.Specular))
	}
	b.Textures(md.DiffuseTexture, md.NormalTexture)
	return b.Build()
}

func buildMesh(md MeshDescription) (*renderer.Mesh, error) {
	var (
		mesh *renderer.Mesh
		err  error
	)
	switch md.Kind {
	case "plane":
		mesh, err = loader.LoadPlane(md.Size, max(md.Segments, 1))
	case "cube":
		mesh, err = loader.LoadCube(md.Size)
	case "sphere":
		mesh, err = loader.LoadSphere(md.Radius, max(md.Segments, 3))
	case "terrain":
		cfg := loader.DefaultTerrainConfig()
		if md.Terrain != nil {
			cfg = *md.Terrain
		}
		mesh, err = loader.LoadTerrain(cfg)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMeshKind, md.Kind)
	}
	if err != nil {
		return nil, err
	}
	rename(mesh, md.Name)
	return mesh, nil
}

// rename gives a generated mesh its scene name. The implicit whole-mesh
// geometry follows so that model descriptors can refer to it.
func rename(mesh *renderer.Mesh, name string) {
	if name == "" {
		return
	}
	for i := range mesh.Geometries {
		if mesh.Geometries[i].Name == mesh.Name {
			mesh.Geometries[i].Name = name
		}
	}
	mesh.Name = name
}

func buildLight(ld *LightDescription) *renderer.Light {
	light := renderer.NewDefaultLight()
	if ld == nil {
		return light
	}
	if ld.Position != nil {
		light.Position = vec3(*ld.Position)
	}
	if ld.Color != nil {
		light.Color = vec3(*ld.Color)
	}
	if ld.Speed != nil {
		light.Speed = *ld.Speed
	}
	return light
}

func (sc *Scene) buildObject(od ObjectDescription) (*renderer.Object, *behaviour.GameObject, error) {
	model, ok := sc.Store.Model(od.Model)
	if !ok {
		return nil, nil, fmt.Errorf("model %s: %w", od.Model, renderer.ErrNotFound)
	}

	obj := renderer.NewObject(od.Name, model)
	if od.Position != nil {
		obj.Position = vec3(*od.Position)
	}
	if od.Rotation != ([3]float32{}) {
		obj.Rotate(od.Rotation[0], od.Rotation[1], od.Rotation[2])
	}
	if od.Scale != 0 {
		obj.MeshScale = od.Scale
	}
	if od.Opacity != 0 {
		obj.Opacity = od.Opacity
	}

	if len(od.Scripts) == 0 && od.Spin == nil {
		return obj, nil, nil
	}

	gameObject := behaviour.NewGameObjectFor(obj)
	gameObject.Tag = od.Tag
	for _, name := range od.Scripts {
		script := behaviour.CreateScript(name)
		if script == nil {
			return nil, nil, fmt.Errorf("script %s: %w", name, renderer.ErrNotFound)
		}
		if orbit, ok := script.(*behaviour.LightOrbit); ok {
			orbit.Light = sc.Light
		}
		gameObject.AddComponent(script)
	}
	if od.Spin != nil {
		gameObject.AddComponent(behaviour.NewSpinner(vec3(od.Spin.Axis), od.Spin.DegreesPerSecond))
	}
	return obj, gameObject, nil
}

func buildVoxels(vd VoxelDescription, store *renderer.Store) ([]*renderer.Object, error) {
	if vd.SizeX < 1 || vd.SizeZ < 1 || vd.MaxHeight < 1 {
		return nil, fmt.Errorf("voxel world %dx%dx%d is empty", vd.SizeX, vd.MaxHeight, vd.SizeZ)
	}
	size := vd.VoxelSize
	if size == 0 {
		size = 1
	}
	octaves := vd.Octaves
	if octaves < 1 {
		octaves = 1
	}

	world := loader.NewVoxelWorld(vd.SizeX, vd.SizeZ, vd.MaxHeight, size)
	world.FillHeightmap(vd.Alpha, vd.Beta, octaves, vd.Frequency, vd.Seed)

	var objects []*renderer.Object
	for _, kindName := range slices.Sorted(maps.Keys(vd.Models)) {
		modelName := vd.Models[kindName]
		kind, err := loader.ParseVoxelID(kindName)
		if err != nil {
			return nil, err
		}
		model, ok := store.Model(modelName)
		if !ok {
			return nil, fmt.Errorf("model %s: %w", modelName, renderer.ErrNotFound)
		}
		objects = append(objects, world.Objects(model, kind)...)
	}

	logger.Log.Debug("Voxel world filled",
		zap.String("name", vd.Name),
		zap.Int("active", world.ActiveVoxels),
		zap.Int("objects", len(objects)))
	return objects, nil
}
