package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenelink/scenelink/internal/assets"
	"github.com/scenelink/scenelink/internal/config"
	"github.com/scenelink/scenelink/internal/scene"
)

// assetHost builds a Host whose asset client talks to a stub API.
func assetHost(t *testing.T, handler http.HandlerFunc) *Host {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := assets.NewClient(logger,
		assets.WithBaseURL(srv.URL),
		assets.WithCacheDir(t.TempDir()),
	)
	flags := config.NewFlagStore(map[string]bool{FlagPolyHaven: true})
	return New(scene.NewDocument("Scene"), flags, client, logger)
}

func filesStub(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"blend": {"1k": {}}}`)
	}
}

func TestGetPolyHavenCategories(t *testing.T) {
	h := assetHost(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/hdris", r.URL.Path)
		fmt.Fprint(w, `{"outdoor": 312, "studio": 42}`)
	})

	result, err := h.getPolyHavenCategories(params(t, map[string]string{"asset_type": "hdris"}))
	require.NoError(t, err)

	categories := result.(map[string]any)["categories"].(map[string]int)
	assert.Equal(t, 312, categories["outdoor"])

	_, err = h.getPolyHavenCategories(params(t, map[string]string{"asset_type": "sculptures"}))
	assert.ErrorContains(t, err, "invalid asset type")
}

func TestSearchPolyHavenAssets(t *testing.T) {
	h := assetHost(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets", r.URL.Path)
		assert.Equal(t, "hdris", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"sunset_sky": {"name": "Sunset Sky"}, "alps": {"name": "Alps"}}`)
	})

	result, err := h.searchPolyHavenAssets(params(t, map[string]string{"asset_type": "hdris"}))
	require.NoError(t, err)

	search := result.(*assets.SearchResult)
	assert.Equal(t, 2, search.TotalCount)
	assert.Contains(t, search.Assets, "sunset_sky")
}

func TestDownloadPolyHavenModel(t *testing.T) {
	h := assetHost(t, filesStub(t))

	result, err := h.downloadPolyHavenAsset(params(t, map[string]string{
		"asset_id":   "old_chair",
		"asset_type": "models",
	}))
	require.NoError(t, err)

	info := result.(map[string]any)
	assert.Equal(t, "old_chair", info["imported_object"])
	assert.Equal(t, "1k", info["resolution"])

	obj, err := h.doc.Object("old_chair")
	require.NoError(t, err)
	assert.Equal(t, scene.TypeMesh, obj.Type)
}

func TestDownloadPolyHavenHDRI(t *testing.T) {
	h := assetHost(t, filesStub(t))

	_, err := h.downloadPolyHavenAsset(params(t, map[string]string{
		"asset_id":   "sunset_sky",
		"asset_type": "hdris",
		"resolution": "4k",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sunset_sky", h.doc.WorldPreset)
	assert.Equal(t, 1.0, h.doc.WorldStrength)
}

func TestDownloadPolyHavenTexture(t *testing.T) {
	h := assetHost(t, filesStub(t))

	_, err := h.downloadPolyHavenAsset(params(t, map[string]string{
		"asset_id":   "rusty_plates",
		"asset_type": "textures",
	}))
	require.NoError(t, err)

	mat, err := h.doc.Material("rusty_plates")
	require.NoError(t, err)
	assert.Equal(t, "pbr", mat.Kind)
}

func TestDownloadPolyHavenRejectsAllType(t *testing.T) {
	h := assetHost(t, filesStub(t))

	_, err := h.downloadPolyHavenAsset(params(t, map[string]string{
		"asset_id":   "thing",
		"asset_type": "all",
	}))
	assert.ErrorContains(t, err, "invalid asset type")
}

func TestDownloadPolyHavenNoFiles(t *testing.T) {
	h := assetHost(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := h.downloadPolyHavenAsset(params(t, map[string]string{
		"asset_id":   "ghost_asset",
		"asset_type": "models",
	}))
	assert.ErrorContains(t, err, "no files available")
}

func TestAssetHandlersWithoutClient(t *testing.T) {
	h := testHost(t)
	h.flags.Set(FlagPolyHaven, true)

	_, err := h.searchPolyHavenAssets(params(t, map[string]string{}))
	assert.EqualError(t, err, "asset client not configured")
}

func TestAssetAPIFailureSurfacesStatusCode(t *testing.T) {
	h := assetHost(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := h.getPolyHavenCategories(params(t, map[string]string{"asset_type": "models"}))
	assert.ErrorContains(t, err, "status code 404")
}
