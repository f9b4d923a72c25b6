package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AnyUserName/imgcdn-cli/internal/hasher"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
)

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Images:      make(map[string]imagedata.ImageData),
	}
}

// ComputeStats recalculates the image-derived statistics. Source counts
// and fetches are set by the caller and kept.
func (m *Manifest) ComputeStats() {
	s := m.Stats
	s.TotalImages = len(m.Images)
	s.TotalCandidates = 0
	s.Placeholders = 0
	for _, img := range m.Images {
		s.TotalCandidates += len(img.Entries)
		if img.Placeholder != "" || img.BackgroundColor != "" {
			s.Placeholders++
		}
	}
	m.Stats = s
	m.Fingerprint = fingerprint(m.Images)
}

// fingerprint hashes the images in key order. encoding/json sorts map keys.
func fingerprint(images map[string]imagedata.ImageData) string {
	data, err := json.Marshal(images)
	if err != nil {
		return ""
	}
	return hasher.ContentHash(data, 16)
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Read loads a manifest file and checks its version.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != SupportedManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d (want %d)", m.Version, SupportedManifestVersion)
	}
	return &m, nil
}
