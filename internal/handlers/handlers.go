// Package handlers implements the host-side command handlers over the
// scene document. Every handler runs on the host main loop.
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/scenelink/scenelink/internal/assets"
	"github.com/scenelink/scenelink/internal/config"
	"github.com/scenelink/scenelink/internal/dispatch"
	"github.com/scenelink/scenelink/internal/presets"
	"github.com/scenelink/scenelink/internal/scene"
)

// FlagPolyHaven gates the Poly Haven asset handlers.
const FlagPolyHaven = "use_polyhaven"

// Camera position presets for setup_camera, relative to the subject.
var cameraPositions = map[string]scene.Vec3{
	"front":         {0, -8, 1.6},
	"three_quarter": {5.66, -5.66, 3},
	"profile":       {8, 0, 1.6},
	"top":           {0, 0, 10},
}

// Host owns the handler set for one scene document.
type Host struct {
	doc    *scene.Document
	flags  *config.FlagStore
	assets *assets.Client
	logger *slog.Logger
}

// New creates the handler set. The assets client may be nil when asset
// integrations are compiled out; the gated handlers then report an error
// if reached.
func New(doc *scene.Document, flags *config.FlagStore, assetsClient *assets.Client, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{doc: doc, flags: flags, assets: assetsClient, logger: logger}
}

// Register installs every handler into the registry: the base table
// plus the flag-gated asset tables.
func (h *Host) Register(r *dispatch.Registry) {
	r.Register("get_scene_info", h.getSceneInfo)
	r.Register("get_object_info", h.getObjectInfo)
	r.Register("create_object", h.createObject)
	r.Register("set_object_transform", h.setObjectTransform)
	r.Register("delete_object", h.deleteObject)
	r.Register("apply_material_preset", h.applyMaterialPreset)
	r.Register("list_material_presets", h.listMaterialPresets)
	r.Register("apply_lighting_rig", h.applyLightingRig)
	r.Register("setup_hdri_lighting", h.setupHDRILighting)
	r.Register("setup_camera", h.setupCamera)
	r.Register("set_frame_range", h.setFrameRange)
	r.Register("set_current_frame", h.setCurrentFrame)
	r.Register("get_current_frame", h.getCurrentFrame)
	r.Register("insert_keyframe", h.insertKeyframe)
	r.Register("apply_animation_preset", h.applyAnimationPreset)
	r.Register("apply_scene_template", h.applySceneTemplate)
	r.Register("list_scene_templates", h.listSceneTemplates)
	r.Register("get_polyhaven_status", h.getPolyHavenStatus)
	r.Register("set_feature_flag", h.setFeatureFlag)

	r.RegisterGated(FlagPolyHaven, "get_polyhaven_categories", h.getPolyHavenCategories)
	r.RegisterGated(FlagPolyHaven, "search_polyhaven_assets", h.searchPolyHavenAssets)
	r.RegisterGated(FlagPolyHaven, "download_polyhaven_asset", h.downloadPolyHavenAsset)
}

// decodeParams binds a handler's params object to dst. Unknown fields
// are rejected: an argument the handler does not declare is a binding
// error, same as passing an unexpected keyword.
func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid parameters: %v", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (h *Host) getSceneInfo(json.RawMessage) (any, error) {
	objects := h.doc.Objects()

	// Trim to the first objects to keep the response size down.
	summaries := make([]map[string]any, 0, 10)
	for i, obj := range objects {
		if i >= 10 {
			break
		}
		summaries = append(summaries, map[string]any{
			"name": obj.Name,
			"type": obj.Type,
			"location": []float64{
				round2(obj.Location[0]),
				round2(obj.Location[1]),
				round2(obj.Location[2]),
			},
		})
	}

	return map[string]any{
		"name":            h.doc.Name,
		"object_count":    len(objects),
		"objects":         summaries,
		"materials_count": h.doc.MaterialCount(),
	}, nil
}

func (h *Host) getObjectInfo(raw json.RawMessage) (any, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("missing required parameter: name")
	}

	obj, err := h.doc.Object(p.Name)
	if err != nil {
		return nil, err
	}

	info := map[string]any{
		"name":      obj.Name,
		"type":      obj.Type,
		"location":  obj.Location,
		"rotation":  obj.Rotation,
		"scale":     obj.Scale,
		"visible":   obj.Visible,
		"materials": obj.Materials,
	}
	if stats, ok := obj.MeshStats(); ok {
		info["mesh"] = stats
	}
	if obj.Light != nil {
		info["light"] = obj.Light
	}
	if obj.Camera != nil {
		info["camera"] = obj.Camera
	}
	if keys := obj.Keyframes(); len(keys) > 0 {
		info["keyframe_count"] = len(keys)
	}
	return info, nil
}

func (h *Host) createObject(raw json.RawMessage) (any, error) {
	var p struct {
		Primitive string     `json:"primitive"`
		Name      string     `json:"name"`
		Location  scene.Vec3 `json:"location"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Primitive == "" {
		return nil, fmt.Errorf("missing required parameter: primitive")
	}

	obj, err := h.doc.CreateMesh(p.Name, p.Primitive, p.Location)
	if err != nil {
		return nil, err
	}
	h.logger.Info("created object", "name", obj.Name, "primitive", obj.Primitive)
	return map[string]any{"name": obj.Name, "type": obj.Type, "location": obj.Location}, nil
}

func (h *Host) setObjectTransform(raw json.RawMessage) (any, error) {
	var p struct {
		Name     string      `json:"name"`
		Location *scene.Vec3 `json:"location"`
		Rotation *scene.Vec3 `json:"rotation"`
		Scale    *scene.Vec3 `json:"scale"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("missing required parameter: name")
	}

	obj, err := h.doc.Object(p.Name)
	if err != nil {
		return nil, err
	}
	if p.Location != nil {
		obj.Location = *p.Location
	}
	if p.Rotation != nil {
		obj.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		obj.Scale = *p.Scale
	}
	return map[string]any{
		"name":     obj.Name,
		"location": obj.Location,
		"rotation": obj.Rotation,
		"scale":    obj.Scale,
	}, nil
}

func (h *Host) deleteObject(raw json.RawMessage) (any, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("missing required parameter: name")
	}
	if err := h.doc.RemoveObject(p.Name); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": p.Name}, nil
}

func (h *Host) applyMaterialPreset(raw json.RawMessage) (any, error) {
	var p struct {
		ObjectName string `json:"object_name"`
		PresetName string `json:"preset_name"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.ObjectName == "" || p.PresetName == "" {
		return nil, fmt.Errorf("missing required parameters: object_name, preset_name")
	}

	preset, ok := presets.Materials[p.PresetName]
	if !ok {
		return nil, fmt.Errorf("unknown material preset %q, available: %v", p.PresetName, presets.MaterialNames())
	}

	mat := preset // copy the preset table entry, never alias it
	mat.Name = p.PresetName
	h.doc.AddMaterial(&mat)
	if err := h.doc.AssignMaterial(p.ObjectName, mat.Name); err != nil {
		return nil, err
	}
	return map[string]any{"object": p.ObjectName, "material": mat.Name, "kind": mat.Kind}, nil
}

func (h *Host) listMaterialPresets(json.RawMessage) (any, error) {
	return map[string]any{"presets": presets.MaterialNames()}, nil
}

func (h *Host) applyLightingRig(raw json.RawMessage) (any, error) {
	var p struct {
		Preset string  `json:"preset"`
		Scale  float64 `json:"scale"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Preset == "" {
		return nil, fmt.Errorf("missing required parameter: preset")
	}
	if p.Scale == 0 {
		p.Scale = 1.0
	}

	rig, ok := presets.LightingRigs[p.Preset]
	if !ok {
		return nil, fmt.Errorf("unknown lighting rig %q, available: %v", p.Preset, presets.LightingRigNames())
	}

	created := make([]string, 0, len(rig.Lights))
	for _, l := range rig.Lights {
		obj := h.doc.AddObject(&scene.Object{
			Name: l.Name,
			Type: scene.TypeLight,
			Location: scene.Vec3{
				l.Location[0] * p.Scale,
				l.Location[1] * p.Scale,
				l.Location[2] * p.Scale,
			},
			Rotation: l.Rotation,
			Light: &scene.LightData{
				Kind:   l.Kind,
				Energy: l.Energy,
				Color:  l.Color,
				Size:   l.Size * p.Scale,
			},
		})
		created = append(created, obj.Name)
	}
	h.logger.Info("applied lighting rig", "preset", p.Preset, "lights", len(created))
	return map[string]any{"rig": p.Preset, "lights": created}, nil
}

func (h *Host) setupHDRILighting(raw json.RawMessage) (any, error) {
	var p struct {
		Preset   string   `json:"preset"`
		Strength *float64 `json:"strength"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Preset == "" {
		return nil, fmt.Errorf("missing required parameter: preset")
	}

	world, ok := presets.WorldPresets[p.Preset]
	if !ok {
		return nil, fmt.Errorf("unknown world preset: %s", p.Preset)
	}
	strength := world.Strength
	if p.Strength != nil {
		strength = *p.Strength
	}
	h.doc.WorldPreset = p.Preset
	h.doc.WorldStrength = strength
	return map[string]any{"world": p.Preset, "strength": strength}, nil
}

func (h *Host) setupCamera(raw json.RawMessage) (any, error) {
	var p struct {
		Preset       string `json:"preset"`
		PositionType string `json:"position_type"`
		TargetObject string `json:"target_object"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Preset == "" {
		return nil, fmt.Errorf("missing required parameter: preset")
	}
	if p.PositionType == "" {
		p.PositionType = "three_quarter"
	}

	camPreset, ok := presets.CameraPresets[p.Preset]
	if !ok {
		return nil, fmt.Errorf("unknown camera preset: %s", p.Preset)
	}
	position, ok := cameraPositions[p.PositionType]
	if !ok {
		return nil, fmt.Errorf("unknown position type: %s", p.PositionType)
	}
	if p.TargetObject != "" {
		target, err := h.doc.Object(p.TargetObject)
		if err != nil {
			return nil, err
		}
		// Offset the orbit position by the target's location.
		position = scene.Vec3{
			position[0] + target.Location[0],
			position[1] + target.Location[1],
			position[2] + target.Location[2],
		}
	}

	data := &scene.CameraData{
		FocalLength: camPreset.FocalLength,
		FStop:       camPreset.FStop,
		DOFEnabled:  camPreset.DOFEnabled,
		Target:      p.TargetObject,
	}

	// Reuse the existing camera if the scene has one.
	var cam *scene.Object
	for _, obj := range h.doc.Objects() {
		if obj.Type == scene.TypeCamera {
			cam = obj
			break
		}
	}
	if cam == nil {
		cam = h.doc.AddObject(&scene.Object{Name: "Camera", Type: scene.TypeCamera})
	}
	cam.Location = position
	cam.Camera = data

	return map[string]any{
		"camera":       cam.Name,
		"preset":       p.Preset,
		"position":     position,
		"focal_length": camPreset.FocalLength,
	}, nil
}

func (h *Host) setFeatureFlag(raw json.RawMessage) (any, error) {
	var p struct {
		Flag    string `json:"flag"`
		Enabled *bool  `json:"enabled"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Flag == "" || p.Enabled == nil {
		return nil, fmt.Errorf("missing required parameters: flag, enabled")
	}
	h.flags.Set(p.Flag, *p.Enabled)
	h.logger.Info("feature flag changed", "flag", p.Flag, "enabled", *p.Enabled)
	return map[string]any{"flag": p.Flag, "enabled": *p.Enabled}, nil
}
