package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".blog-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records what a build produced so the next one can remove
// artifacts that no longer exist.
type buildManifest struct {
	Version     int                         `json:"version"`
	BuildID     uuid.UUID                   `json:"build_id"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Artifacts   map[string]manifestArtifact `json:"artifacts"`
}

type manifestArtifact struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}

func newBuildManifest(generatedAt time.Time) *buildManifest {
	return &buildManifest{
		Version:     manifestFileVersion,
		BuildID:     uuid.New(),
		GeneratedAt: generatedAt,
		Artifacts:   map[string]manifestArtifact{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(time.Time{}), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Artifacts == nil {
		manifest.Artifacts = map[string]manifestArtifact{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (m *buildManifest) record(path, checksum string, size int64) {
	m.Artifacts[path] = manifestArtifact{
		Path:     path,
		Checksum: checksum,
		Size:     size,
	}
}

// artifactPaths returns the recorded paths sorted for deterministic
// iteration and output.
func (m *buildManifest) artifactPaths() []string {
	paths := make([]string, 0, len(m.Artifacts))
	for path := range m.Artifacts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (m *buildManifest) marshal() ([]byte, error) {
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int                `json:"version"`
		BuildID     uuid.UUID          `json:"build_id"`
		GeneratedAt time.Time          `json:"generated_at"`
		Artifacts   []manifestArtifact `json:"artifacts"`
	}
	ordered := orderedManifest{
		Version:     m.Version,
		BuildID:     m.BuildID,
		GeneratedAt: m.GeneratedAt,
	}
	for _, path := range m.artifactPaths() {
		ordered.Artifacts = append(ordered.Artifacts, m.Artifacts[path])
	}
	return json.MarshalIndent(ordered, "", "  ")
}

// UnmarshalJSON accepts both the list layout written by marshal and a map
// layout, keeping old manifests readable.
func (m *buildManifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version     int             `json:"version"`
		BuildID     uuid.UUID       `json:"build_id"`
		GeneratedAt time.Time       `json:"generated_at"`
		Artifacts   json.RawMessage `json:"artifacts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Version = raw.Version
	m.BuildID = raw.BuildID
	m.GeneratedAt = raw.GeneratedAt
	m.Artifacts = map[string]manifestArtifact{}

	if len(raw.Artifacts) == 0 {
		return nil
	}
	var asList []manifestArtifact
	if err := json.Unmarshal(raw.Artifacts, &asList); err == nil {
		for _, artifact := range asList {
			m.Artifacts[artifact.Path] = artifact
		}
		return nil
	}
	var asMap map[string]manifestArtifact
	if err := json.Unmarshal(raw.Artifacts, &asMap); err != nil {
		return err
	}
	m.Artifacts = asMap
	return nil
}
