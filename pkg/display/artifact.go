package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const artifactPattern = "circuitview-*.html"

// artifact is a rendered document parked on disk for a front end to fetch.
// It belongs to the call that created it and is removed by that call only.
type artifact struct {
	path string
}

// createArtifact writes content to a new uniquely named .html file in dir.
// The file is closed before returning so readers see the full document.
func createArtifact(dir, content string) (*artifact, error) {
	f, err := os.CreateTemp(dir, artifactPattern)
	if err != nil {
		return nil, fmt.Errorf("display: create temp file: %w", err)
	}
	path := f.Name()

	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("display: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("display: close temp file: %w", err)
	}
	return &artifact{path: path}, nil
}

// relativeTo returns the ./-prefixed slash path of the artifact from dir.
func (a *artifact) relativeTo(dir string) (string, error) {
	rel, err := filepath.Rel(dir, a.path)
	if err != nil {
		return "", fmt.Errorf("display: relative path: %w", err)
	}
	return "./" + filepath.ToSlash(rel), nil
}

// release waits out the grace period and removes the file. Removal errors are
// logged and swallowed so they never replace the caller's outcome.
func (a *artifact) release(ctx context.Context, delay time.Duration, sleep SleepFunc, logger *slog.Logger) {
	if delay > 0 {
		sleep(ctx, delay)
	}
	err := os.Remove(a.path)
	switch {
	case err == nil:
		logger.Debug("display artifact removed", slog.String("path", a.path))
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("display artifact already gone", slog.String("path", a.path))
	default:
		logger.Warn("display artifact cleanup failed", slog.String("path", a.path), slog.Any("error", err))
	}
}

// SleepFunc blocks for d. Implementations may return early when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration)

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
