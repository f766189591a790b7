// Package pipeline sequences a full derivative run: directory
// preparation, the catalog scan, the three generation stages, and the
// manifest write.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/derivatives/internal/catalog"
	"github.com/lehigh-university-libraries/derivatives/internal/config"
	"github.com/lehigh-university-libraries/derivatives/internal/derive"
	"github.com/lehigh-university-libraries/derivatives/internal/imagery"
	"github.com/lehigh-university-libraries/derivatives/internal/manifest"
	"github.com/lehigh-university-libraries/derivatives/internal/tiler"
)

// ManifestName is the manifest filename under the output root.
const ManifestName = "manifest.yml"

// State tracks the driver's progress through its linear stage sequence.
type State int

const (
	StateInitializing State = iota
	StateDirectoriesPrepared
	StateScanned
	StateMainGenerated
	StateThumbsGenerated
	StateTilesGenerated
	StateManifestWritten
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateDirectoriesPrepared:
		return "directories-prepared"
	case StateScanned:
		return "scanned"
	case StateMainGenerated:
		return "main-generated"
	case StateThumbsGenerated:
		return "thumbs-generated"
	case StateTilesGenerated:
		return "tiles-generated"
	case StateManifestWritten:
		return "manifest-written"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result summarizes one pipeline run.
type Result struct {
	Artifacts    int
	MainImages   int
	Thumbnails   int
	TileJobs     int
	TileFailures int
}

// Pipeline is the batch driver. Per-file and per-artifact conditions are
// absorbed inside each stage; only an unusable input directory or a
// failed manifest write escapes Run.
type Pipeline struct {
	cfg     config.Config
	state   State
	scanner *catalog.Scanner
	gen     *derive.Generator
}

// New wires the pipeline from its configuration and the tiling
// capability.
func New(cfg config.Config, tiles tiler.Tiler) *Pipeline {
	backend := imagery.NewBackend(cfg.JPEGQuality)
	return &Pipeline{
		cfg:     cfg,
		state:   StateInitializing,
		scanner: catalog.NewScanner(backend, cfg.MaxCatalogID),
		gen:     derive.New(backend, tiles, cfg),
	}
}

// State reports how far the last Run progressed.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the full batch and returns a summary.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := p.prepareDirectories(); err != nil {
		return res, err
	}
	p.state = StateDirectoriesPrepared

	artifacts, err := p.scanner.Scan(p.cfg.InputDir)
	if err != nil {
		return res, err
	}
	p.state = StateScanned
	res.Artifacts = len(artifacts)
	slog.Info("Scan complete", "input", p.cfg.InputDir, "artifacts", len(artifacts))

	res.MainImages = p.gen.MainImages(artifacts)
	p.state = StateMainGenerated
	slog.Info("Main images generated", "count", res.MainImages)

	res.Thumbnails = p.gen.Thumbnails(artifacts)
	p.state = StateThumbsGenerated
	slog.Info("Thumbnails generated", "count", res.Thumbnails)

	res.TileJobs, res.TileFailures = p.gen.TileSets(ctx, artifacts)
	p.state = StateTilesGenerated
	slog.Info("Tile sets generated", "jobs", res.TileJobs, "failures", res.TileFailures)

	entries := manifest.Build(artifacts)
	manifestPath := filepath.Join(p.cfg.OutputDir, ManifestName)
	if err := manifest.Write(manifestPath, entries); err != nil {
		return res, err
	}
	p.state = StateManifestWritten
	slog.Info("Manifest written", "path", manifestPath, "entries", len(entries))

	p.state = StateDone
	return res, nil
}

// prepareDirectories creates the output subdirectories if absent. It is
// idempotent: rerunning against a prior output tree never clears
// existing derivatives.
func (p *Pipeline) prepareDirectories() error {
	for _, subdir := range []string{derive.MainDir, derive.ThumbsDir, derive.TilesDir} {
		dir := filepath.Join(p.cfg.OutputDir, subdir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}
