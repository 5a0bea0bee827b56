package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/scenelink/scenelink/internal/paths"
)

type cacheEntry struct {
	Content []byte    `json:"content"`
	Expires time.Time `json:"expires"`
}

// cacheGet looks up a cached API response. Returns false if not found
// or expired; expired and corrupt entries are removed on the way out.
func cacheGet(dir, key string) ([]byte, bool) {
	path := entryPath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil, false
	}
	if time.Now().After(e.Expires) {
		_ = os.Remove(path)
		return nil, false
	}
	return e.Content, true
}

// cachePut stores an API response with a TTL.
func cachePut(dir, key string, content []byte, ttl time.Duration) error {
	responses := filepath.Join(dir, "responses")
	if err := paths.EnsureDir(responses); err != nil {
		return err
	}

	e := cacheEntry{
		Content: content,
		Expires: time.Now().Add(ttl),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(entryPath(dir, key), data, 0600)
}

func entryPath(dir, key string) string {
	h := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(h[:])[:32]
	return filepath.Join(dir, "responses", name+".json")
}
