package presets

import (
	"sort"

	"github.com/scenelink/scenelink/internal/scene"
)

// RigLight is one light of a lighting rig.
type RigLight struct {
	Kind     string
	Name     string
	Energy   float64
	Location scene.Vec3
	Rotation scene.Vec3
	Size     float64
	Color    scene.Color
}

// LightingRig is a named arrangement of lights placed as a unit.
type LightingRig struct {
	Description string
	Lights      []RigLight
}

// LightingRigs is the lighting rig table, keyed by preset name.
var LightingRigs = map[string]LightingRig{
	"three_point": {
		Description: "Classic 3-point lighting (key, fill, rim)",
		Lights: []RigLight{
			{Kind: "AREA", Name: "Key_Light", Energy: 500, Location: scene.Vec3{4, -4, 5}, Rotation: scene.Vec3{0.785, 0, 0.785}, Size: 2.0, Color: scene.Color{1.0, 0.95, 0.9, 1.0}},
			{Kind: "AREA", Name: "Fill_Light", Energy: 200, Location: scene.Vec3{-4, -2, 3}, Rotation: scene.Vec3{0.785, 0, -0.785}, Size: 3.0, Color: scene.Color{0.9, 0.95, 1.0, 1.0}},
			{Kind: "AREA", Name: "Rim_Light", Energy: 300, Location: scene.Vec3{-2, 4, 4}, Rotation: scene.Vec3{1.2, 0, 3.14}, Size: 1.5, Color: scene.Color{1.0, 1.0, 1.0, 1.0}},
		},
	},
	"studio": {
		Description: "Studio product photography lighting",
		Lights: []RigLight{
			{Kind: "AREA", Name: "Main_Light", Energy: 400, Location: scene.Vec3{3, -3, 5}, Rotation: scene.Vec3{0.785, 0, 0.785}, Size: 3.0, Color: scene.Color{1.0, 1.0, 1.0, 1.0}},
			{Kind: "AREA", Name: "Side_Fill", Energy: 250, Location: scene.Vec3{-3, -1, 4}, Rotation: scene.Vec3{0.785, 0, -0.785}, Size: 2.5, Color: scene.Color{1.0, 1.0, 1.0, 1.0}},
			{Kind: "AREA", Name: "Back_Light", Energy: 200, Location: scene.Vec3{0, 3, 3}, Rotation: scene.Vec3{1.57, 0, 3.14}, Size: 2.0, Color: scene.Color{1.0, 1.0, 1.0, 1.0}},
			{Kind: "AREA", Name: "Top_Light", Energy: 150, Location: scene.Vec3{0, 0, 6}, Rotation: scene.Vec3{0, 0, 0}, Size: 4.0, Color: scene.Color{1.0, 1.0, 1.0, 1.0}},
		},
	},
	"dramatic": {
		Description: "High contrast dramatic lighting",
		Lights: []RigLight{
			{Kind: "SPOT", Name: "Key_Spot", Energy: 1000, Location: scene.Vec3{5, -5, 6}, Rotation: scene.Vec3{0.9, 0, 0.785}, Size: 0.5, Color: scene.Color{1.0, 0.9, 0.8, 1.0}},
			{Kind: "AREA", Name: "Faint_Fill", Energy: 50, Location: scene.Vec3{-4, -2, 2}, Rotation: scene.Vec3{0.785, 0, -0.785}, Size: 2.0, Color: scene.Color{0.6, 0.7, 1.0, 1.0}},
		},
	},
}

// LightingRigNames returns the rig names in sorted order.
func LightingRigNames() []string {
	names := make([]string, 0, len(LightingRigs))
	for name := range LightingRigs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CameraPreset is a lens configuration.
type CameraPreset struct {
	Description string
	FocalLength float64
	DOFEnabled  bool
	FStop       float64
}

// CameraPresets is the camera preset table, keyed by preset name.
var CameraPresets = map[string]CameraPreset{
	"portrait":      {Description: "Portrait focal length (85mm equivalent)", FocalLength: 85, DOFEnabled: true, FStop: 2.8},
	"wide":          {Description: "Wide angle (24mm equivalent)", FocalLength: 24, DOFEnabled: false, FStop: 8.0},
	"normal":        {Description: "Normal view (50mm equivalent)", FocalLength: 50, DOFEnabled: true, FStop: 5.6},
	"telephoto":     {Description: "Telephoto (135mm equivalent)", FocalLength: 135, DOFEnabled: true, FStop: 2.0},
	"architectural": {Description: "Architectural (35mm, no distortion)", FocalLength: 35, DOFEnabled: false, FStop: 11.0},
}

// WorldPreset is an HDRI environment configuration.
type WorldPreset struct {
	Description string
	Strength    float64
}

// WorldPresets is the environment lighting table, keyed by preset name.
var WorldPresets = map[string]WorldPreset{
	"studio":      {Description: "Neutral studio lighting with soft shadows", Strength: 1.0},
	"outdoor_day": {Description: "Bright outdoor daylight", Strength: 1.0},
	"sunset":      {Description: "Warm golden hour lighting", Strength: 0.8},
	"night":       {Description: "Night city or moonlight", Strength: 0.3},
	"overcast":    {Description: "Soft overcast sky", Strength: 0.9},
	"interior":    {Description: "Interior ambient lighting", Strength: 0.7},
}
