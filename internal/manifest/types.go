package manifest

import "github.com/AnyUserName/imgcdn-cli/internal/imagedata"

// FileName is the manifest written next to the sources.
const FileName = "imgcdn.manifest.json"

// Manifest is the top-level output of an imgcdn resolve run.
type Manifest struct {
	Version     int                            `json:"version"`
	GeneratedAt string                         `json:"generated_at"`
	Profile     string                         `json:"profile"`
	Account     string                         `json:"account,omitempty"`
	BuildInfo   *BuildInfo                     `json:"build_info,omitempty"`
	Images      map[string]imagedata.ImageData `json:"images"`
	// Fingerprint changes whenever any image data changes.
	Fingerprint string                         `json:"fingerprint"`
	Stats       Stats                          `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers   int `json:"workers"`
	CacheSize int `json:"cache_size"` // 0 = unbounded
}

// Stats aggregates run metrics.
type Stats struct {
	TotalSources    int   `json:"total_sources"`
	TotalImages     int   `json:"total_images"`
	TotalCandidates int   `json:"total_candidates"`
	Placeholders    int   `json:"placeholders"`
	Skipped         int   `json:"skipped,omitempty"` // sources that resolved to nothing
	Fetches         int64 `json:"fetches"`           // network calls issued
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
