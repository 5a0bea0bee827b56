package handlers

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/scenelink/scenelink/internal/presets"
	"github.com/scenelink/scenelink/internal/scene"
)

func (h *Host) setFrameRange(raw json.RawMessage) (any, error) {
	var p struct {
		StartFrame *int `json:"start_frame"`
		EndFrame   *int `json:"end_frame"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.StartFrame == nil || p.EndFrame == nil {
		return nil, fmt.Errorf("missing required parameters: start_frame, end_frame")
	}
	if err := h.doc.SetFrameRange(*p.StartFrame, *p.EndFrame); err != nil {
		return nil, err
	}
	return map[string]any{"start_frame": h.doc.FrameStart, "end_frame": h.doc.FrameEnd}, nil
}

func (h *Host) setCurrentFrame(raw json.RawMessage) (any, error) {
	var p struct {
		Frame *int `json:"frame"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Frame == nil {
		return nil, fmt.Errorf("missing required parameter: frame")
	}
	if *p.Frame < h.doc.FrameStart || *p.Frame > h.doc.FrameEnd {
		return nil, fmt.Errorf("frame %d outside range %d-%d", *p.Frame, h.doc.FrameStart, h.doc.FrameEnd)
	}
	h.doc.FrameCurrent = *p.Frame
	return map[string]any{"frame": h.doc.FrameCurrent}, nil
}

func (h *Host) getCurrentFrame(json.RawMessage) (any, error) {
	return map[string]any{
		"frame":       h.doc.FrameCurrent,
		"start_frame": h.doc.FrameStart,
		"end_frame":   h.doc.FrameEnd,
	}, nil
}

func (h *Host) insertKeyframe(raw json.RawMessage) (any, error) {
	var p struct {
		ObjectName    string      `json:"object_name"`
		Channel       string      `json:"channel"`
		Frame         *int        `json:"frame"`
		Value         *scene.Vec3 `json:"value"`
		Interpolation string      `json:"interpolation"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.ObjectName == "" || p.Channel == "" || p.Frame == nil || p.Value == nil {
		return nil, fmt.Errorf("missing required parameters: object_name, channel, frame, value")
	}

	key := scene.Keyframe{
		Channel:       p.Channel,
		Frame:         *p.Frame,
		Value:         *p.Value,
		Interpolation: p.Interpolation,
	}
	if err := h.doc.InsertKeyframe(p.ObjectName, key); err != nil {
		return nil, err
	}
	return map[string]any{
		"object":  p.ObjectName,
		"channel": p.Channel,
		"frame":   *p.Frame,
	}, nil
}

func (h *Host) applyAnimationPreset(raw json.RawMessage) (any, error) {
	var p struct {
		ObjectName string `json:"object_name"`
		Preset     string `json:"preset"`
		StartFrame int    `json:"start_frame"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.ObjectName == "" || p.Preset == "" {
		return nil, fmt.Errorf("missing required parameters: object_name, preset")
	}
	if p.StartFrame == 0 {
		p.StartFrame = h.doc.FrameStart
	}

	preset, ok := presets.AnimationPresets[p.Preset]
	if !ok {
		return nil, fmt.Errorf("unknown animation preset %q, available: %v", p.Preset, presets.AnimationPresetNames())
	}

	inserted := 0
	for _, key := range preset.Keys {
		frame := p.StartFrame + int(math.Round(key.At*float64(preset.Frames-1)))
		err := h.doc.InsertKeyframe(p.ObjectName, scene.Keyframe{
			Channel:       key.Channel,
			Frame:         frame,
			Value:         key.Value,
			Interpolation: key.Interpolation,
		})
		if err != nil {
			return nil, err
		}
		inserted++
	}

	endFrame := p.StartFrame + preset.Frames - 1
	if endFrame > h.doc.FrameEnd {
		h.doc.FrameEnd = endFrame
	}
	h.logger.Info("applied animation preset", "object", p.ObjectName, "preset", p.Preset, "keys", inserted)
	return map[string]any{
		"object":      p.ObjectName,
		"preset":      p.Preset,
		"keyframes":   inserted,
		"start_frame": p.StartFrame,
		"end_frame":   endFrame,
	}, nil
}
