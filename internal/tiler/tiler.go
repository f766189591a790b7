// Package tiler is the deep-zoom capability boundary. The pipeline only
// computes per-pose output locations and invocation parameters; producing
// the tile pyramid itself belongs to an external tool, reached through
// the Tiler interface so the core never assumes a particular invocation
// mechanism.
package tiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Job describes one tile pyramid to produce: a single source image and
// the directory its pyramid lands in.
type Job struct {
	SourcePath string
	OutputDir  string
	TileSize   int
	Format     string
}

// Tiler produces a deep-zoom tile pyramid for a single source image.
type Tiler interface {
	Tile(ctx context.Context, job Job) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the vips tiler.
type Option func(*VipsTiler)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *VipsTiler) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// VipsTiler shells out to the vips dzsave command.
type VipsTiler struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewVips constructs a tiler around the vips binary. timeout bounds each
// invocation; zero means no limit.
func NewVips(binary string, timeout time.Duration, opts ...Option) (*VipsTiler, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("tiler binary required")
	}
	t := &VipsTiler{
		binary:  binary,
		timeout: timeout,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Tile runs vips dzsave against the job's source image. Any pyramid left
// in the output directory by a prior run is replaced.
func (t *VipsTiler) Tile(ctx context.Context, job Job) error {
	if job.SourcePath == "" {
		return errors.New("source path required")
	}
	if job.OutputDir == "" {
		return errors.New("output directory required")
	}

	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create tile directory: %w", err)
	}

	base := filepath.Join(job.OutputDir, "image")
	for _, stale := range []string{base + ".dzi", base + "_files"} {
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("failed to clear prior pyramid: %w", err)
		}
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := []string{
		"dzsave",
		job.SourcePath,
		base,
		"--tile-size", strconv.Itoa(job.TileSize),
		"--overlap", "0",
		"--suffix", "." + strings.TrimPrefix(job.Format, "."),
	}

	if err := t.exec.Run(ctx, t.binary, args); err != nil {
		return fmt.Errorf("%s dzsave failed: %w", t.binary, err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
