package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/scenelink/scenelink/internal/assets"
	"github.com/scenelink/scenelink/internal/scene"
)

// getPolyHavenStatus is in the base table so clients can always ask
// whether the integration is available before trying to use it.
func (h *Host) getPolyHavenStatus(json.RawMessage) (any, error) {
	if h.flags.Enabled(FlagPolyHaven) {
		return map[string]any{
			"enabled": true,
			"message": "PolyHaven integration is enabled and ready to use.",
		}, nil
	}
	return map[string]any{
		"enabled": false,
		"message": "PolyHaven integration is currently disabled. Enable the use_polyhaven flag to use it.",
	}, nil
}

func (h *Host) getPolyHavenCategories(raw json.RawMessage) (any, error) {
	var p struct {
		AssetType string `json:"asset_type"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.AssetType == "" {
		return nil, fmt.Errorf("missing required parameter: asset_type")
	}
	if h.assets == nil {
		return nil, fmt.Errorf("asset client not configured")
	}

	categories, err := h.assets.Categories(p.AssetType)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": categories}, nil
}

func (h *Host) searchPolyHavenAssets(raw json.RawMessage) (any, error) {
	var p struct {
		AssetType  string `json:"asset_type"`
		Categories string `json:"categories"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if h.assets == nil {
		return nil, fmt.Errorf("asset client not configured")
	}

	result, err := h.assets.Search(p.AssetType, p.Categories)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// downloadPolyHavenAsset resolves an asset's file listing and imports a
// placeholder for it: models become mesh objects, HDRIs become the world
// environment. Full texture/geometry transfer is host-specific and out
// of scope here.
func (h *Host) downloadPolyHavenAsset(raw json.RawMessage) (any, error) {
	var p struct {
		AssetID    string `json:"asset_id"`
		AssetType  string `json:"asset_type"`
		Resolution string `json:"resolution"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.AssetID == "" || p.AssetType == "" {
		return nil, fmt.Errorf("missing required parameters: asset_id, asset_type")
	}
	if p.AssetType == "all" || !assets.ValidAssetType(p.AssetType) {
		return nil, fmt.Errorf("invalid asset type %q for download", p.AssetType)
	}
	if p.Resolution == "" {
		p.Resolution = "1k"
	}
	if h.assets == nil {
		return nil, fmt.Errorf("asset client not configured")
	}

	files, err := h.assets.Files(p.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files available for asset %s", p.AssetID)
	}

	result := map[string]any{
		"asset_id":   p.AssetID,
		"asset_type": p.AssetType,
		"resolution": p.Resolution,
	}

	switch p.AssetType {
	case "models":
		obj, err := h.doc.CreateMesh(p.AssetID, "cube", scene.Vec3{})
		if err != nil {
			return nil, err
		}
		result["imported_object"] = obj.Name
	case "hdris":
		h.doc.WorldPreset = p.AssetID
		if h.doc.WorldStrength == 0 {
			h.doc.WorldStrength = 1.0
		}
		result["world"] = p.AssetID
	case "textures":
		mat := h.doc.AddMaterial(&scene.Material{
			Name:      p.AssetID,
			Kind:      "pbr",
			BaseColor: scene.Color{0.8, 0.8, 0.8, 1.0},
			Roughness: 0.5,
		})
		result["material"] = mat.Name
	}

	h.logger.Info("imported asset placeholder", "asset", p.AssetID, "type", p.AssetType)
	return result, nil
}
