// Package derive generates the standardized derivative assets for
// scanned artifacts: the full-size display image, the thumbnail, and the
// per-pose deep-zoom tile sets.
package derive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/lehigh-university-libraries/derivatives/internal/catalog"
	"github.com/lehigh-university-libraries/derivatives/internal/config"
	"github.com/lehigh-university-libraries/derivatives/internal/tiler"
)

// Output subdirectories under the configured output root.
const (
	MainDir   = "main"
	ThumbsDir = "thumbs"
	TilesDir  = "tiles"
)

// Poses the single-image generators require. An artifact without the
// required pose is skipped silently; not every catalog item is shot from
// every angle.
const (
	poseMain = "main"
	poseTop  = "top"
)

// ImageBackend is the bitmap capability the generators consume.
type ImageBackend interface {
	DeriveJPEG(src, dst string, bound int) error
}

// Generator derives output assets for artifacts. Derivatives are always
// written under the configured output root, never next to the source.
type Generator struct {
	backend ImageBackend
	tiles   tiler.Tiler
	cfg     config.Config
}

// New builds a Generator.
func New(backend ImageBackend, tiles tiler.Tiler, cfg config.Config) *Generator {
	return &Generator{backend: backend, tiles: tiles, cfg: cfg}
}

// MainImages writes the bounded display JPEG for every artifact with a
// main view and returns the number written. Per-artifact failures are
// logged and skipped.
func (g *Generator) MainImages(artifacts []*catalog.Artifact) int {
	return g.boundedImages(artifacts, poseMain, MainDir, g.cfg.MaxWidth)
}

// Thumbnails writes the thumbnail JPEG for every artifact with a top
// view and returns the number written.
func (g *Generator) Thumbnails(artifacts []*catalog.Artifact) int {
	return g.boundedImages(artifacts, poseTop, ThumbsDir, g.cfg.ThumbWidth)
}

func (g *Generator) boundedImages(artifacts []*catalog.Artifact, pose, subdir string, bound int) int {
	written := 0
	for _, art := range artifacts {
		view, ok := art.ViewFor(pose)
		if !ok {
			continue
		}

		dst := filepath.Join(g.cfg.OutputDir, subdir, fmt.Sprintf("%d.jpg", art.ID))
		if err := g.backend.DeriveJPEG(view.SourcePath, dst, bound); err != nil {
			slog.Error("Failed to derive image", "id", art.ID, "pose", pose, "err", err)
			continue
		}
		written++
	}
	return written
}

// TileSets produces a deep-zoom pyramid for every view of every
// artifact on a bounded worker pool. It returns the number of jobs run
// and the number that failed; a failed invocation never aborts the
// batch.
func (g *Generator) TileSets(ctx context.Context, artifacts []*catalog.Artifact) (jobs, failures int) {
	type tileJob struct {
		id   int
		pose string
		job  tiler.Job
	}

	var pending []tileJob
	for _, art := range artifacts {
		for _, view := range art.Views {
			pending = append(pending, tileJob{
				id:   art.ID,
				pose: view.Pose,
				job: tiler.Job{
					SourcePath: view.SourcePath,
					OutputDir:  filepath.Join(g.cfg.OutputDir, TilesDir, strconv.Itoa(art.ID), view.Pose),
					TileSize:   g.cfg.TileSize,
					Format:     g.cfg.TileFormat,
				},
			})
		}
	}

	concurrency := g.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan error, len(pending))

	for _, tj := range pending {
		wg.Add(1)
		go func(tj tileJob) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			if err := g.tiles.Tile(ctx, tj.job); err != nil {
				slog.Error("Tile generation failed", "id", tj.id, "pose", tj.pose, "err", err)
				resultsChan <- err
				return
			}
			resultsChan <- nil
		}(tj)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for err := range resultsChan {
		jobs++
		if err != nil {
			failures++
		}
	}
	return jobs, failures
}
