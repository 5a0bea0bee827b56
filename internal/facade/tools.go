package facade

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scenelink/scenelink/internal/assets"
	"github.com/scenelink/scenelink/internal/presets"
	"github.com/scenelink/scenelink/internal/scene"
)

var cameraPositionTypes = []string{"front", "three_quarter", "profile", "top"}

var keyframeChannels = []string{"location", "rotation", "scale"}

var interpolationTypes = []string{"BEZIER", "LINEAR", "CONSTANT"}

func objectSchema(properties map[string]any, required ...string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.Tool{
		Name:        "get_scene_info",
		Description: "Get detailed information about the current scene",
		InputSchema: objectSchema(map[string]any{}),
	}, s.getSceneInfo)

	s.mcp.AddTool(mcp.Tool{
		Name:        "get_object_info",
		Description: "Get detailed information about a specific object in the scene",
		InputSchema: objectSchema(map[string]any{
			"object_name": stringSchema("The name of the object to get information about"),
		}, "object_name"),
	}, s.getObjectInfo)

	s.mcp.AddTool(mcp.Tool{
		Name:        "create_object",
		Description: "Create a new mesh object from a primitive shape",
		InputSchema: objectSchema(map[string]any{
			"primitive": enumSchema("The primitive shape to create", scene.Primitives()),
			"name":      stringSchema("Optional object name; defaults to the primitive name"),
			"location":  numberArraySchema("World location [x, y, z]; defaults to the origin"),
		}, "primitive"),
	}, s.createObject)

	s.mcp.AddTool(mcp.Tool{
		Name:        "set_object_transform",
		Description: "Set an object's location, rotation, and/or scale",
		InputSchema: objectSchema(map[string]any{
			"object_name": stringSchema("The object to transform"),
			"location":    numberArraySchema("New world location [x, y, z]"),
			"rotation":    numberArraySchema("New Euler rotation in radians [x, y, z]"),
			"scale":       numberArraySchema("New scale [x, y, z]"),
		}, "object_name"),
	}, s.setObjectTransform)

	s.mcp.AddTool(mcp.Tool{
		Name:        "delete_object",
		Description: "Delete an object from the scene",
		InputSchema: objectSchema(map[string]any{
			"object_name": stringSchema("The object to delete"),
		}, "object_name"),
	}, s.deleteObject)

	s.mcp.AddTool(mcp.Tool{
		Name:        "list_material_presets",
		Description: "List the available PBR material presets",
		InputSchema: objectSchema(map[string]any{}),
	}, s.listMaterialPresets)

	s.mcp.AddTool(mcp.Tool{
		Name:        "apply_material_preset",
		Description: "Apply a PBR material preset to an object",
		InputSchema: objectSchema(map[string]any{
			"object_name": stringSchema("The object to apply the material to"),
			"preset_name": enumSchema("The material preset", presets.MaterialNames()),
		}, "object_name", "preset_name"),
	}, s.applyMaterialPreset)

	s.mcp.AddTool(mcp.Tool{
		Name:        "apply_lighting_rig",
		Description: "Place a complete lighting rig in the scene",
		InputSchema: objectSchema(map[string]any{
			"preset": enumSchema("The lighting rig preset", presets.LightingRigNames()),
			"scale":  numberSchema("Rig size multiplier (default 1.0)"),
		}, "preset"),
	}, s.applyLightingRig)

	s.mcp.AddTool(mcp.Tool{
		Name:        "setup_hdri_lighting",
		Description: "Set the world environment lighting from a preset",
		InputSchema: objectSchema(map[string]any{
			"preset":   enumSchema("The environment preset", worldPresetNames()),
			"strength": numberSchema("Environment strength override"),
		}, "preset"),
	}, s.setupHDRILighting)

	s.mcp.AddTool(mcp.Tool{
		Name:        "setup_camera",
		Description: "Set up the scene camera from a lens preset and viewpoint",
		InputSchema: objectSchema(map[string]any{
			"preset":        enumSchema("The camera lens preset", cameraPresetNames()),
			"position_type": enumSchema("Viewpoint relative to the subject (default three_quarter)", cameraPositionTypes),
			"target_object": stringSchema("Optional object to aim at"),
		}, "preset"),
	}, s.setupCamera)

	s.mcp.AddTool(mcp.Tool{
		Name:        "set_frame_range",
		Description: "Set the animation playback frame range",
		InputSchema: objectSchema(map[string]any{
			"start_frame": integerSchema("First frame of the range"),
			"end_frame":   integerSchema("Last frame of the range"),
		}, "start_frame", "end_frame"),
	}, s.setFrameRange)

	s.mcp.AddTool(mcp.Tool{
		Name:        "set_current_frame",
		Description: "Jump the scene to a specific frame",
		InputSchema: objectSchema(map[string]any{
			"frame": integerSchema("The frame to jump to"),
		}, "frame"),
	}, s.setCurrentFrame)

	s.mcp.AddTool(mcp.Tool{
		Name:        "get_current_frame",
		Description: "Get the current frame and playback range",
		InputSchema: objectSchema(map[string]any{}),
	}, s.getCurrentFrame)

	s.mcp.AddTool(mcp.Tool{
		Name:        "insert_keyframe",
		Description: "Insert an animation keyframe on an object channel",
		InputSchema: objectSchema(map[string]any{
			"object_name":   stringSchema("The object to animate"),
			"channel":       enumSchema("The channel to key", keyframeChannels),
			"frame":         integerSchema("The frame to key at"),
			"value":         numberArraySchema("The channel value [x, y, z]"),
			"interpolation": enumSchema("Interpolation mode (default BEZIER)", interpolationTypes),
		}, "object_name", "channel", "frame", "value"),
	}, s.insertKeyframe)

	s.mcp.AddTool(mcp.Tool{
		Name:        "apply_animation_preset",
		Description: "Apply a reusable animation preset to an object",
		InputSchema: objectSchema(map[string]any{
			"object_name": stringSchema("The object to animate"),
			"preset":      enumSchema("The animation preset", presets.AnimationPresetNames()),
			"start_frame": integerSchema("Frame to start the animation at (default: scene start)"),
		}, "object_name", "preset"),
	}, s.applyAnimationPreset)

	s.mcp.AddTool(mcp.Tool{
		Name:        "list_scene_templates",
		Description: "List the available scene templates",
		InputSchema: objectSchema(map[string]any{}),
	}, s.listSceneTemplates)

	s.mcp.AddTool(mcp.Tool{
		Name:        "apply_scene_template",
		Description: "Apply a complete scene template: materials, lighting, environment, and camera",
		InputSchema: objectSchema(map[string]any{
			"template_key":  enumSchema("The scene template", presets.SceneTemplateNames()),
			"target_object": stringSchema("Optional subject object; defaults to the first mesh"),
		}, "template_key"),
	}, s.applySceneTemplate)

	s.mcp.AddTool(mcp.Tool{
		Name:        "get_polyhaven_status",
		Description: "Check whether the Poly Haven asset integration is enabled on the host",
		InputSchema: objectSchema(map[string]any{}),
	}, s.getPolyHavenStatus)

	s.mcp.AddTool(mcp.Tool{
		Name:        "get_polyhaven_categories",
		Description: "List Poly Haven asset categories for a given asset type",
		InputSchema: objectSchema(map[string]any{
			"asset_type": enumSchema("The asset type to list categories for", assets.AssetTypes),
		}, "asset_type"),
	}, s.getPolyHavenCategories)

	s.mcp.AddTool(mcp.Tool{
		Name:        "search_polyhaven_assets",
		Description: "Search Poly Haven assets with optional type and category filters",
		InputSchema: objectSchema(map[string]any{
			"asset_type": enumSchema("Restrict results to one asset type", assets.AssetTypes),
			"categories": stringSchema("Comma-separated category filter"),
		}),
	}, s.searchPolyHavenAssets)

	s.mcp.AddTool(mcp.Tool{
		Name:        "download_polyhaven_asset",
		Description: "Download a Poly Haven asset and import it into the scene",
		InputSchema: objectSchema(map[string]any{
			"asset_id":   stringSchema("The asset identifier from search results"),
			"asset_type": enumSchema("The asset's type", []string{"hdris", "textures", "models"}),
			"resolution": stringSchema("Texture resolution such as 1k, 2k, 4k (default 1k)"),
		}, "asset_id", "asset_type"),
	}, s.downloadPolyHavenAsset)
}

func cameraPresetNames() []string {
	names := make([]string, 0, len(presets.CameraPresets))
	for name := range presets.CameraPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func worldPresetNames() []string {
	names := make([]string, 0, len(presets.WorldPresets))
	for name := range presets.WorldPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}

func (s *Server) getSceneInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "getting scene info", "get_scene_info", nil), nil
}

func (s *Server) getObjectInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("object_name", "")
	if name == "" {
		return mcp.NewToolResultError("object_name is required"), nil
	}
	return s.call(ctx, "getting object info", "get_object_info", map[string]any{"name": name}), nil
}

func (s *Server) createObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	primitive := req.GetString("primitive", "")
	if !contains(scene.Primitives(), primitive) {
		return mcp.NewToolResultError(fmt.Sprintf("primitive must be one of: %s", strings.Join(scene.Primitives(), ", "))), nil
	}

	params := map[string]any{"primitive": primitive}
	if name := req.GetString("name", ""); name != "" {
		params["name"] = name
	}
	loc, err := vec3Arg(req.GetArguments(), "location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if loc != nil {
		params["location"] = *loc
	}
	return s.call(ctx, "creating object", "create_object", params), nil
}

func (s *Server) setObjectTransform(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("object_name", "")
	if name == "" {
		return mcp.NewToolResultError("object_name is required"), nil
	}

	params := map[string]any{"name": name}
	args := req.GetArguments()
	for _, key := range []string{"location", "rotation", "scale"} {
		v, err := vec3Arg(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if v != nil {
			params[key] = *v
		}
	}
	if len(params) == 1 {
		return mcp.NewToolResultError("at least one of location, rotation, scale is required"), nil
	}
	return s.call(ctx, "setting object transform", "set_object_transform", params), nil
}

func (s *Server) deleteObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("object_name", "")
	if name == "" {
		return mcp.NewToolResultError("object_name is required"), nil
	}
	return s.call(ctx, "deleting object", "delete_object", map[string]any{"name": name}), nil
}

func (s *Server) listMaterialPresets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "listing material presets", "list_material_presets", nil), nil
}

func (s *Server) applyMaterialPreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objectName := req.GetString("object_name", "")
	presetName := req.GetString("preset_name", "")
	if objectName == "" || presetName == "" {
		return mcp.NewToolResultError("object_name and preset_name are required"), nil
	}
	if !contains(presets.MaterialNames(), presetName) {
		return mcp.NewToolResultError(fmt.Sprintf("preset_name must be one of: %s", strings.Join(presets.MaterialNames(), ", "))), nil
	}
	return s.call(ctx, "applying material preset", "apply_material_preset", map[string]any{
		"object_name": objectName,
		"preset_name": presetName,
	}), nil
}

func (s *Server) applyLightingRig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	preset := req.GetString("preset", "")
	if !contains(presets.LightingRigNames(), preset) {
		return mcp.NewToolResultError(fmt.Sprintf("preset must be one of: %s", strings.Join(presets.LightingRigNames(), ", "))), nil
	}
	scale := req.GetFloat("scale", 1.0)
	if scale <= 0 {
		return mcp.NewToolResultError("scale must be positive"), nil
	}
	return s.call(ctx, "applying lighting rig", "apply_lighting_rig", map[string]any{
		"preset": preset,
		"scale":  scale,
	}), nil
}

func (s *Server) setupHDRILighting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	preset := req.GetString("preset", "")
	if !contains(worldPresetNames(), preset) {
		return mcp.NewToolResultError(fmt.Sprintf("preset must be one of: %s", strings.Join(worldPresetNames(), ", "))), nil
	}
	params := map[string]any{"preset": preset}
	if _, ok := req.GetArguments()["strength"]; ok {
		params["strength"] = req.GetFloat("strength", 1.0)
	}
	return s.call(ctx, "setting up environment lighting", "setup_hdri_lighting", params), nil
}

func (s *Server) setupCamera(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	preset := req.GetString("preset", "")
	if !contains(cameraPresetNames(), preset) {
		return mcp.NewToolResultError(fmt.Sprintf("preset must be one of: %s", strings.Join(cameraPresetNames(), ", "))), nil
	}
	positionType := req.GetString("position_type", "three_quarter")
	if !contains(cameraPositionTypes, positionType) {
		return mcp.NewToolResultError(fmt.Sprintf("position_type must be one of: %s", strings.Join(cameraPositionTypes, ", "))), nil
	}

	params := map[string]any{"preset": preset, "position_type": positionType}
	if target := req.GetString("target_object", ""); target != "" {
		params["target_object"] = target
	}
	return s.call(ctx, "setting up camera", "setup_camera", params), nil
}

func (s *Server) setFrameRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := req.GetInt("start_frame", 0)
	end := req.GetInt("end_frame", 0)
	if start >= end {
		return mcp.NewToolResultError("start_frame must be before end_frame"), nil
	}
	return s.call(ctx, "setting frame range", "set_frame_range", map[string]any{
		"start_frame": start,
		"end_frame":   end,
	}), nil
}

func (s *Server) setCurrentFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := req.GetArguments()["frame"]; !ok {
		return mcp.NewToolResultError("frame is required"), nil
	}
	return s.call(ctx, "setting current frame", "set_current_frame", map[string]any{
		"frame": req.GetInt("frame", 1),
	}), nil
}

func (s *Server) getCurrentFrame(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "getting current frame", "get_current_frame", nil), nil
}

func (s *Server) insertKeyframe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objectName := req.GetString("object_name", "")
	channel := req.GetString("channel", "")
	if objectName == "" {
		return mcp.NewToolResultError("object_name is required"), nil
	}
	if !contains(keyframeChannels, channel) {
		return mcp.NewToolResultError(fmt.Sprintf("channel must be one of: %s", strings.Join(keyframeChannels, ", "))), nil
	}
	value, err := vec3Arg(req.GetArguments(), "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if value == nil {
		return mcp.NewToolResultError("value is required"), nil
	}
	interpolation := req.GetString("interpolation", "BEZIER")
	if !contains(interpolationTypes, interpolation) {
		return mcp.NewToolResultError(fmt.Sprintf("interpolation must be one of: %s", strings.Join(interpolationTypes, ", "))), nil
	}

	return s.call(ctx, "inserting keyframe", "insert_keyframe", map[string]any{
		"object_name":   objectName,
		"channel":       channel,
		"frame":         req.GetInt("frame", 1),
		"value":         *value,
		"interpolation": interpolation,
	}), nil
}

func (s *Server) applyAnimationPreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objectName := req.GetString("object_name", "")
	preset := req.GetString("preset", "")
	if objectName == "" {
		return mcp.NewToolResultError("object_name is required"), nil
	}
	if !contains(presets.AnimationPresetNames(), preset) {
		return mcp.NewToolResultError(fmt.Sprintf("preset must be one of: %s", strings.Join(presets.AnimationPresetNames(), ", "))), nil
	}

	params := map[string]any{"object_name": objectName, "preset": preset}
	if start := req.GetInt("start_frame", 0); start != 0 {
		params["start_frame"] = start
	}
	return s.call(ctx, "applying animation preset", "apply_animation_preset", params), nil
}

func (s *Server) listSceneTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "listing scene templates", "list_scene_templates", nil), nil
}

func (s *Server) applySceneTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("template_key", "")
	if !contains(presets.SceneTemplateNames(), key) {
		return mcp.NewToolResultError(fmt.Sprintf("template_key must be one of: %s", strings.Join(presets.SceneTemplateNames(), ", "))), nil
	}
	params := map[string]any{"template_key": key}
	if target := req.GetString("target_object", ""); target != "" {
		params["target_object"] = target
	}
	return s.call(ctx, "applying scene template", "apply_scene_template", params), nil
}

func (s *Server) getPolyHavenStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "checking Poly Haven status", "get_polyhaven_status", nil), nil
}

func (s *Server) getPolyHavenCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assetType := req.GetString("asset_type", "")
	if !assets.ValidAssetType(assetType) {
		return mcp.NewToolResultError(fmt.Sprintf("asset_type must be one of: %s", strings.Join(assets.AssetTypes, ", "))), nil
	}
	return s.call(ctx, "getting Poly Haven categories", "get_polyhaven_categories", map[string]any{
		"asset_type": assetType,
	}), nil
}

func (s *Server) searchPolyHavenAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := map[string]any{}
	if assetType := req.GetString("asset_type", ""); assetType != "" {
		if !assets.ValidAssetType(assetType) {
			return mcp.NewToolResultError(fmt.Sprintf("asset_type must be one of: %s", strings.Join(assets.AssetTypes, ", "))), nil
		}
		params["asset_type"] = assetType
	}
	if categories := req.GetString("categories", ""); categories != "" {
		params["categories"] = categories
	}
	return s.call(ctx, "searching Poly Haven assets", "search_polyhaven_assets", params), nil
}

func (s *Server) downloadPolyHavenAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assetID := req.GetString("asset_id", "")
	assetType := req.GetString("asset_type", "")
	if assetID == "" {
		return mcp.NewToolResultError("asset_id is required"), nil
	}
	if !contains([]string{"hdris", "textures", "models"}, assetType) {
		return mcp.NewToolResultError("asset_type must be one of: hdris, textures, models"), nil
	}

	params := map[string]any{"asset_id": assetID, "asset_type": assetType}
	if resolution := req.GetString("resolution", ""); resolution != "" {
		params["resolution"] = resolution
	}
	return s.call(ctx, "downloading Poly Haven asset", "download_polyhaven_asset", params), nil
}
