// Package manifest assembles and serializes the document describing
// every scanned view's pixel dimensions.
package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/lehigh-university-libraries/derivatives/internal/catalog"
	"gopkg.in/yaml.v3"
)

// Image describes one view: its pose token and source pixel dimensions.
// Source paths are deliberately absent; the manifest is published and
// must not leak the local filesystem.
type Image struct {
	Face   string `yaml:"face"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Entry is the manifest record for one catalog id.
type Entry struct {
	Cat    int     `yaml:"cat"`
	Images []Image `yaml:"images"`
}

// Build converts scanned artifacts into manifest entries in ascending
// catalog-id order. Deterministic given the same scan results.
func Build(artifacts []*catalog.Artifact) []Entry {
	entries := make([]Entry, 0, len(artifacts))
	for _, art := range artifacts {
		entry := Entry{Cat: art.ID, Images: make([]Image, 0, len(art.Views))}
		for _, view := range art.Views {
			entry.Images = append(entry.Images, Image{
				Face:   view.Pose,
				Width:  view.Width,
				Height: view.Height,
			})
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Cat < entries[j].Cat
	})
	return entries
}

// Write serializes entries as YAML to path.
func Write(path string, entries []Entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
