package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotDirectory is returned when the input path does not exist or is
// not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DimensionReader reads the pixel dimensions of an image file without
// decoding the full bitmap.
type DimensionReader interface {
	Dimensions(path string) (width, height int, err error)
}

// Scanner walks an input directory once and groups the source
// photographs it finds into Artifacts keyed by catalog id.
type Scanner struct {
	dims  DimensionReader
	maxID int
}

// NewScanner builds a Scanner. maxID is an optional sanity guard: ids
// above it are skipped with a warning when maxID > 0.
func NewScanner(dims DimensionReader, maxID int) *Scanner {
	return &Scanner{dims: dims, maxID: maxID}
}

// Scan reads every file directly under inputDir, parses each filename,
// and returns one Artifact per catalog id that had at least one
// parsable source image, sorted by catalog id ascending. Files that
// fail to parse or decode are logged and skipped; only an unreadable
// input directory is an error.
func (s *Scanner) Scan(inputDir string) ([]*Artifact, error) {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, inputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	groups := make(map[int]*Artifact)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		parsed, ok := ParseName(name)
		if !ok {
			slog.Warn("Skipping unparsable source file", "file", name)
			continue
		}
		if s.maxID > 0 && parsed.CatalogID > s.maxID {
			slog.Warn("Skipping file with catalog id above bound", "file", name, "id", parsed.CatalogID, "max", s.maxID)
			continue
		}
		if !KnownPose(parsed.Pose) {
			slog.Warn("Unrecognized pose token", "file", name, "pose", parsed.Pose)
		}

		resolved, err := resolvePath(filepath.Join(inputDir, name))
		if err != nil {
			slog.Warn("Skipping unresolvable source file", "file", name, "err", err)
			continue
		}

		width, height, err := s.dims.Dimensions(resolved)
		if err != nil {
			slog.Warn("Skipping undecodable source file", "file", name, "err", err)
			continue
		}

		art, exists := groups[parsed.CatalogID]
		if !exists {
			art = &Artifact{ID: parsed.CatalogID}
			groups[parsed.CatalogID] = art
		}
		art.Views = append(art.Views, View{
			Pose:       parsed.Pose,
			SourcePath: resolved,
			Width:      width,
			Height:     height,
		})
	}

	artifacts := make([]*Artifact, 0, len(groups))
	for _, art := range groups {
		artifacts = append(artifacts, art)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ID < artifacts[j].ID
	})

	return artifacts, nil
}

func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
