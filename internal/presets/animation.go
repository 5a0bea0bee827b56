package presets

import (
	"sort"

	"github.com/scenelink/scenelink/internal/scene"
)

// PresetKey is one key of an animation preset. At is the key's position
// within the preset as a fraction of its length, so a preset stretches
// to whatever frame span it is applied over.
type PresetKey struct {
	Channel       string
	At            float64
	Value         scene.Vec3
	Interpolation string
}

// AnimationPreset is a reusable object animation.
type AnimationPreset struct {
	Description string
	Frames      int // natural length at 24 fps
	Keys        []PresetKey
}

// AnimationPresets is the object animation table, keyed by preset name.
var AnimationPresets = map[string]AnimationPreset{
	"spin": {
		Description: "Full turntable rotation around Z",
		Frames:      48,
		Keys: []PresetKey{
			{Channel: "rotation", At: 0.0, Value: scene.Vec3{0, 0, 0}, Interpolation: "LINEAR"},
			{Channel: "rotation", At: 1.0, Value: scene.Vec3{0, 0, 6.283}, Interpolation: "LINEAR"},
		},
	},
	"bounce": {
		Description: "Single bounce with squash on landing",
		Frames:      24,
		Keys: []PresetKey{
			{Channel: "location", At: 0.0, Value: scene.Vec3{0, 0, 0}},
			{Channel: "location", At: 0.5, Value: scene.Vec3{0, 0, 2}},
			{Channel: "location", At: 1.0, Value: scene.Vec3{0, 0, 0}},
			{Channel: "scale", At: 0.9, Value: scene.Vec3{1, 1, 1}},
			{Channel: "scale", At: 1.0, Value: scene.Vec3{1.2, 1.2, 0.8}},
		},
	},
	"pulse": {
		Description: "Rhythmic scale pulse",
		Frames:      36,
		Keys: []PresetKey{
			{Channel: "scale", At: 0.0, Value: scene.Vec3{1, 1, 1}},
			{Channel: "scale", At: 0.5, Value: scene.Vec3{1.3, 1.3, 1.3}},
			{Channel: "scale", At: 1.0, Value: scene.Vec3{1, 1, 1}},
		},
	},
}

// AnimationPresetNames returns the preset names in sorted order.
func AnimationPresetNames() []string {
	names := make([]string, 0, len(AnimationPresets))
	for name := range AnimationPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
