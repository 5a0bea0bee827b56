package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/scenelink/scenelink/internal/presets"
	"github.com/scenelink/scenelink/internal/scene"
)

// applySceneTemplate orchestrates the full enhancement pipeline: subject
// material, backdrop, lighting rig, environment, and camera, from one
// template recipe.
func (h *Host) applySceneTemplate(raw json.RawMessage) (any, error) {
	var p struct {
		TemplateKey  string `json:"template_key"`
		TargetObject string `json:"target_object"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.TemplateKey == "" {
		return nil, fmt.Errorf("missing required parameter: template_key")
	}

	tpl, ok := presets.SceneTemplates[p.TemplateKey]
	if !ok {
		return nil, fmt.Errorf("unknown scene template %q, available: %v", p.TemplateKey, presets.SceneTemplateNames())
	}

	subject, err := h.templateSubject(p.TargetObject)
	if err != nil {
		return nil, err
	}

	steps := make([]string, 0, 5)

	if tpl.Material != "" {
		params, _ := json.Marshal(map[string]any{
			"object_name": subject.Name,
			"preset_name": tpl.Material,
		})
		if _, err := h.applyMaterialPreset(params); err != nil {
			return nil, fmt.Errorf("applying template material: %w", err)
		}
		steps = append(steps, "material:"+tpl.Material)
	}

	if tpl.Backdrop {
		backdrop, err := h.doc.CreateMesh("Backdrop", "plane", scene.Vec3{0, 0, -0.01})
		if err != nil {
			return nil, fmt.Errorf("creating backdrop: %w", err)
		}
		backdrop.Scale = scene.Vec3{20, 20, 1}
		steps = append(steps, "backdrop")
	}

	if tpl.LightingRig != "" {
		params, _ := json.Marshal(map[string]any{"preset": tpl.LightingRig})
		if _, err := h.applyLightingRig(params); err != nil {
			return nil, fmt.Errorf("applying template lighting: %w", err)
		}
		steps = append(steps, "lighting:"+tpl.LightingRig)
	}

	if tpl.World != "" {
		params, _ := json.Marshal(map[string]any{"preset": tpl.World})
		if _, err := h.setupHDRILighting(params); err != nil {
			return nil, fmt.Errorf("applying template environment: %w", err)
		}
		steps = append(steps, "world:"+tpl.World)
	}

	if tpl.Camera != "" {
		params, _ := json.Marshal(map[string]any{
			"preset":        tpl.Camera,
			"target_object": subject.Name,
		})
		if _, err := h.setupCamera(params); err != nil {
			return nil, fmt.Errorf("applying template camera: %w", err)
		}
		steps = append(steps, "camera:"+tpl.Camera)
	}

	h.logger.Info("applied scene template", "template", p.TemplateKey, "subject", subject.Name)
	return map[string]any{
		"template": p.TemplateKey,
		"name":     tpl.Name,
		"subject":  subject.Name,
		"applied":  steps,
	}, nil
}

// templateSubject resolves the object a template dresses up: the named
// target, or the first mesh already in the scene, or a fresh cube when
// the scene is empty.
func (h *Host) templateSubject(target string) (*scene.Object, error) {
	if target != "" {
		return h.doc.Object(target)
	}
	for _, obj := range h.doc.Objects() {
		if obj.Type == scene.TypeMesh {
			return obj, nil
		}
	}
	return h.doc.CreateMesh("Subject", "cube", scene.Vec3{0, 0, 1})
}

func (h *Host) listSceneTemplates(json.RawMessage) (any, error) {
	return map[string]any{"templates": presets.SceneTemplateList()}, nil
}
