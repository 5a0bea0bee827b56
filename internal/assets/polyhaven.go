// Package assets is the Poly Haven HTTP API client used by the
// flag-gated asset handlers.
package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/scenelink/scenelink/internal/paths"
)

const (
	defaultBaseURL = "https://api.polyhaven.com"
	userAgent      = "scenelink"

	// Search responses are large and the catalog changes rarely.
	searchCacheTTL = 15 * time.Minute

	// Responses are truncated to keep tool results a manageable size.
	maxSearchResults = 20
)

// AssetTypes lists the asset types the API accepts.
var AssetTypes = []string{"hdris", "textures", "models", "all"}

// ValidAssetType reports whether t is an accepted asset type.
func ValidAssetType(t string) bool {
	for _, valid := range AssetTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// Client talks to the Poly Haven API.
type Client struct {
	baseURL  string
	http     *http.Client
	cacheDir string
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithCacheDir overrides the on-disk response cache location.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// NewClient creates a Poly Haven client with retrying transport.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 1 * time.Second
	retry.RetryWaitMax = 10 * time.Second
	retry.HTTPClient.Timeout = 30 * time.Second
	retry.Logger = logger

	c := &Client{
		baseURL:  defaultBaseURL,
		http:     retry.StandardClient(),
		cacheDir: paths.CacheDir(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories fetches the category list for one asset type.
func (c *Client) Categories(assetType string) (map[string]int, error) {
	if !ValidAssetType(assetType) {
		return nil, fmt.Errorf("invalid asset type %q, must be one of %v", assetType, AssetTypes)
	}

	var categories map[string]int
	if err := c.getJSON(c.baseURL+"/categories/"+assetType, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchResult is a truncated asset search response.
type SearchResult struct {
	Assets        map[string]json.RawMessage `json:"assets"`
	TotalCount    int                        `json:"total_count"`
	ReturnedCount int                        `json:"returned_count"`
}

// Search queries the asset catalog, optionally filtered by type and
// comma-separated categories. Results are cached on disk briefly and
// truncated to the first assets by key order.
func (c *Client) Search(assetType, categories string) (*SearchResult, error) {
	if assetType != "" && assetType != "all" && !ValidAssetType(assetType) {
		return nil, fmt.Errorf("invalid asset type %q, must be one of %v", assetType, AssetTypes)
	}

	u := c.baseURL + "/assets"
	q := url.Values{}
	if assetType != "" && assetType != "all" {
		q.Set("type", assetType)
	}
	if categories != "" {
		q.Set("categories", categories)
	}
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	if data, ok := cacheGet(c.cacheDir, u); ok {
		var cached SearchResult
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Info("asset search cache hit", "url", u)
			return &cached, nil
		}
	}

	var all map[string]json.RawMessage
	if err := c.getJSON(u, &all); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > maxSearchResults {
		keys = keys[:maxSearchResults]
	}

	limited := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		limited[key] = all[key]
	}
	result := &SearchResult{
		Assets:        limited,
		TotalCount:    len(all),
		ReturnedCount: len(limited),
	}

	if data, err := json.Marshal(result); err == nil {
		if err := cachePut(c.cacheDir, u, data, searchCacheTTL); err != nil {
			c.logger.Warn("failed to cache search response", "error", err)
		}
	}
	return result, nil
}

// Files fetches the downloadable file listing for one asset.
func (c *Client) Files(assetID string) (map[string]json.RawMessage, error) {
	var files map[string]json.RawMessage
	if err := c.getJSON(c.baseURL+"/files/"+url.PathEscape(assetID), &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) getJSON(u string, out any) error {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
