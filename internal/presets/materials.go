// Package presets holds the curated preset tables the host handlers
// draw from: PBR materials, lighting rigs, camera and world setups,
// scene templates, and object animation presets.
package presets

import (
	"sort"

	"github.com/scenelink/scenelink/internal/scene"
)

// Materials is the PBR material preset table, keyed by preset name.
var Materials = map[string]scene.Material{
	"weathered_metal": {
		Kind:      "pbr",
		BaseColor: scene.Color{0.3, 0.3, 0.35, 1.0},
		Metallic:  0.9,
		Roughness: 0.6,
	},
	"brushed_metal": {
		Kind:      "pbr",
		BaseColor: scene.Color{0.7, 0.7, 0.72, 1.0},
		Metallic:  1.0,
		Roughness: 0.3,
	},
	"chrome": {
		Kind:      "pbr",
		BaseColor: scene.Color{0.95, 0.95, 0.95, 1.0},
		Metallic:  1.0,
		Roughness: 0.05,
	},
	"clear_glass": {
		Kind:         "glass",
		BaseColor:    scene.Color{0.95, 0.95, 0.98, 1.0},
		Transmission: 1.0,
		Roughness:    0.0,
		IOR:          1.45,
	},
	"frosted_glass": {
		Kind:         "glass",
		BaseColor:    scene.Color{0.9, 0.9, 0.92, 1.0},
		Transmission: 0.95,
		Roughness:    0.3,
		IOR:          1.45,
	},
	"glossy_paint": {
		Kind:      "pbr",
		BaseColor: scene.Color{0.8, 0.1, 0.1, 1.0},
		Metallic:  0.0,
		Roughness: 0.15,
	},
	"matte_rubber": {
		Kind:      "pbr",
		BaseColor: scene.Color{0.05, 0.05, 0.05, 1.0},
		Metallic:  0.0,
		Roughness: 0.9,
	},
	"neon_tube": {
		Kind:      "emission",
		BaseColor: scene.Color{0.2, 0.8, 1.0, 1.0},
		Emission:  15.0,
	},
}

// MaterialNames returns the preset names in sorted order.
func MaterialNames() []string {
	names := make([]string, 0, len(Materials))
	for name := range Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
