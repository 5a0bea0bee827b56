// Package scene is the reference host's object model: an in-memory
// scene document with objects, materials, lights, a camera, and
// animation state.
//
// The document is deliberately unlocked. All mutation happens on the
// host main loop; network goroutines never touch it.
package scene

import (
	"fmt"
	"sort"
)

// Vec3 is an XYZ triple (location, Euler rotation, or scale).
type Vec3 [3]float64

// Color is an RGBA quadruple in linear space.
type Color [4]float64

// Object types, mirroring the host application's naming.
const (
	TypeMesh   = "MESH"
	TypeLight  = "LIGHT"
	TypeCamera = "CAMERA"
	TypeEmpty  = "EMPTY"
)

// MeshStats describes the geometry of a primitive.
type MeshStats struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
	Polygons int `json:"polygons"`
}

// Geometry counts for the supported mesh primitives.
var primitiveStats = map[string]MeshStats{
	"cube":     {Vertices: 8, Edges: 12, Polygons: 6},
	"plane":    {Vertices: 4, Edges: 4, Polygons: 1},
	"sphere":   {Vertices: 482, Edges: 992, Polygons: 512},
	"cylinder": {Vertices: 64, Edges: 128, Polygons: 66},
	"cone":     {Vertices: 33, Edges: 64, Polygons: 33},
	"torus":    {Vertices: 576, Edges: 1152, Polygons: 576},
}

// Primitives lists the mesh primitives create_object accepts.
func Primitives() []string {
	names := make([]string, 0, len(primitiveStats))
	for name := range primitiveStats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LightData holds the light-specific settings of a LIGHT object.
type LightData struct {
	Kind   string  `json:"kind"` // AREA, POINT, SUN, SPOT
	Energy float64 `json:"energy"`
	Color  Color   `json:"color"`
	Size   float64 `json:"size,omitempty"`
}

// CameraData holds the camera-specific settings of a CAMERA object.
type CameraData struct {
	FocalLength float64 `json:"focal_length"`
	FStop       float64 `json:"f_stop,omitempty"`
	DOFEnabled  bool    `json:"dof_enabled"`
	Target      string  `json:"target,omitempty"`
}

// Material is a shaded surface definition assignable to objects.
type Material struct {
	Name         string  `json:"name"`
	Kind         string  `json:"kind"` // pbr, glass, emission
	BaseColor    Color   `json:"base_color"`
	Metallic     float64 `json:"metallic"`
	Roughness    float64 `json:"roughness"`
	Transmission float64 `json:"transmission,omitempty"`
	IOR          float64 `json:"ior,omitempty"`
	Emission     float64 `json:"emission_strength,omitempty"`
}

// Keyframe is one animation key on an object channel.
type Keyframe struct {
	Channel       string `json:"channel"` // location, rotation, scale
	Frame         int    `json:"frame"`
	Value         Vec3   `json:"value"`
	Interpolation string `json:"interpolation"` // BEZIER, LINEAR, CONSTANT
}

// Object is one node of the scene graph.
type Object struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Primitive string      `json:"primitive,omitempty"`
	Location  Vec3        `json:"location"`
	Rotation  Vec3        `json:"rotation"`
	Scale     Vec3        `json:"scale"`
	Visible   bool        `json:"visible"`
	Materials []string    `json:"materials"`
	Light     *LightData  `json:"light,omitempty"`
	Camera    *CameraData `json:"camera,omitempty"`

	keyframes []Keyframe
}

// Document is the whole scene.
type Document struct {
	Name string

	objects   []*Object
	byName    map[string]*Object
	materials map[string]*Material

	// World environment.
	WorldPreset   string
	WorldStrength float64

	FrameStart   int
	FrameEnd     int
	FrameCurrent int
}

// NewDocument creates an empty scene with the host's default frame range.
func NewDocument(name string) *Document {
	return &Document{
		Name:       name,
		byName:     make(map[string]*Object),
		materials:  make(map[string]*Material),
		FrameStart: 1,
		FrameEnd:   250,
	}
}

// Objects returns all objects in insertion order.
func (d *Document) Objects() []*Object {
	return d.objects
}

// Object looks up an object by name.
func (d *Document) Object(name string) (*Object, error) {
	obj, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("Object not found: %s", name)
	}
	return obj, nil
}

// MaterialCount returns the number of materials in the document.
func (d *Document) MaterialCount() int {
	return len(d.materials)
}

// AddObject inserts an object, renaming it with a numeric suffix when
// the name is taken (the host application's collision behavior).
func (d *Document) AddObject(obj *Object) *Object {
	name := obj.Name
	for i := 1; ; i++ {
		if _, taken := d.byName[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s.%03d", obj.Name, i)
	}
	obj.Name = name
	if obj.Scale == (Vec3{}) {
		obj.Scale = Vec3{1, 1, 1}
	}
	obj.Visible = true
	d.objects = append(d.objects, obj)
	d.byName[obj.Name] = obj
	return obj
}

// CreateMesh adds a mesh object of the given primitive at a location.
func (d *Document) CreateMesh(name, primitive string, location Vec3) (*Object, error) {
	if _, ok := primitiveStats[primitive]; !ok {
		return nil, fmt.Errorf("unknown primitive %q, expected one of %v", primitive, Primitives())
	}
	if name == "" {
		name = primitive
	}
	return d.AddObject(&Object{
		Name:      name,
		Type:      TypeMesh,
		Primitive: primitive,
		Location:  location,
	}), nil
}

// RemoveObject deletes an object by name.
func (d *Document) RemoveObject(name string) error {
	if _, ok := d.byName[name]; !ok {
		return fmt.Errorf("Object not found: %s", name)
	}
	delete(d.byName, name)
	for i, obj := range d.objects {
		if obj.Name == name {
			d.objects = append(d.objects[:i], d.objects[i+1:]...)
			break
		}
	}
	return nil
}

// MeshStats returns the geometry counts for a mesh object.
func (o *Object) MeshStats() (MeshStats, bool) {
	if o.Type != TypeMesh {
		return MeshStats{}, false
	}
	stats, ok := primitiveStats[o.Primitive]
	return stats, ok
}

// AddMaterial registers a material and returns it. Re-registering a name
// replaces the definition, as re-applying a preset does in the host.
func (d *Document) AddMaterial(m *Material) *Material {
	d.materials[m.Name] = m
	return m
}

// Material looks up a material by name.
func (d *Document) Material(name string) (*Material, error) {
	m, ok := d.materials[name]
	if !ok {
		return nil, fmt.Errorf("Material not found: %s", name)
	}
	return m, nil
}

// AssignMaterial puts a material into an object's first free slot.
func (d *Document) AssignMaterial(objectName, materialName string) error {
	obj, err := d.Object(objectName)
	if err != nil {
		return err
	}
	if _, err := d.Material(materialName); err != nil {
		return err
	}
	for _, existing := range obj.Materials {
		if existing == materialName {
			return nil
		}
	}
	obj.Materials = append(obj.Materials, materialName)
	return nil
}

// SetFrameRange sets the playback range.
func (d *Document) SetFrameRange(start, end int) error {
	if start >= end {
		return fmt.Errorf("invalid frame range: start %d must be before end %d", start, end)
	}
	d.FrameStart = start
	d.FrameEnd = end
	if d.FrameCurrent < start {
		d.FrameCurrent = start
	}
	if d.FrameCurrent > end {
		d.FrameCurrent = end
	}
	return nil
}

// InsertKeyframe adds a key on an object channel, replacing any existing
// key on the same channel and frame. Keys stay sorted by frame.
func (d *Document) InsertKeyframe(objectName string, key Keyframe) error {
	obj, err := d.Object(objectName)
	if err != nil {
		return err
	}
	switch key.Channel {
	case "location", "rotation", "scale":
	default:
		return fmt.Errorf("unknown channel %q, expected location, rotation, or scale", key.Channel)
	}
	if key.Interpolation == "" {
		key.Interpolation = "BEZIER"
	}

	for i, existing := range obj.keyframes {
		if existing.Channel == key.Channel && existing.Frame == key.Frame {
			obj.keyframes[i] = key
			return nil
		}
	}
	obj.keyframes = append(obj.keyframes, key)
	sort.SliceStable(obj.keyframes, func(i, j int) bool {
		return obj.keyframes[i].Frame < obj.keyframes[j].Frame
	})
	return nil
}

// Keyframes returns an object's keys in frame order.
func (o *Object) Keyframes() []Keyframe {
	return o.keyframes
}
