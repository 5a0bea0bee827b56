package presets

import "sort"

// SceneTemplate combines the enhancement systems into one recipe: a
// backdrop, a default material for the subject, a lighting rig, an
// environment, and a camera setup.
type SceneTemplate struct {
	Name        string
	Description string
	Category    string
	Material    string // subject material preset
	LightingRig string
	World       string
	Camera      string
	Backdrop    bool // add a ground/backdrop plane
}

// SceneTemplates is the scene template table, keyed by template key.
var SceneTemplates = map[string]SceneTemplate{
	"product_studio_pro": {
		Name:        "Product Studio Professional",
		Description: "Clean studio product photography with white background",
		Category:    "product",
		Material:    "glossy_paint",
		LightingRig: "studio",
		World:       "studio",
		Camera:      "normal",
		Backdrop:    true,
	},
	"product_hero_dramatic": {
		Name:        "Product Hero Dramatic",
		Description: "High contrast hero shot with dramatic rim lighting",
		Category:    "product",
		Material:    "brushed_metal",
		LightingRig: "dramatic",
		World:       "night",
		Camera:      "telephoto",
		Backdrop:    true,
	},
	"interior_ambient": {
		Name:        "Interior Ambient",
		Description: "Soft interior ambience for architectural subjects",
		Category:    "architecture",
		Material:    "matte_rubber",
		LightingRig: "three_point",
		World:       "interior",
		Camera:      "architectural",
		Backdrop:    false,
	},
}

// SceneTemplateNames returns the template keys in sorted order.
func SceneTemplateNames() []string {
	names := make([]string, 0, len(SceneTemplates))
	for name := range SceneTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateInfo summarizes a template for listings.
type TemplateInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// SceneTemplateList returns listing metadata for every template.
func SceneTemplateList() []TemplateInfo {
	infos := make([]TemplateInfo, 0, len(SceneTemplates))
	for _, key := range SceneTemplateNames() {
		tpl := SceneTemplates[key]
		infos = append(infos, TemplateInfo{
			Key:         key,
			Name:        tpl.Name,
			Description: tpl.Description,
			Category:    tpl.Category,
		})
	}
	return infos
}
