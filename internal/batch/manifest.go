package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame int     `json:"frame"`
	Time  float32 `json:"time"`
	Image string  `json:"image,omitempty"`
	Depth string  `json:"depth,omitempty"`
	Hits  int     `json:"hits"`
	Error string  `json:"error,omitempty"`
}

// WriteManifest writes manifest.json with paths relative to its directory.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Frame: r.Frame,
			Time:  r.Time,
			Image: relTo(dir, r.Path),
			Depth: relTo(dir, r.DepthPath),
			Hits:  r.Hits,
			Error: r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func relTo(dir, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
