package fontgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/hermesx-build/internal/logger"
)

const (
	// MarkerFilename marks that the generator is running right now to avoid parallel execution.
	MarkerFilename = ".hermesx-fontgen.lock"

	// markerLifetime is the period after which a marker is ignored even if its PID is alive.
	markerLifetime = 30 * time.Minute

	// markerRefresh is how often a long-running generator renews its marker.
	markerRefresh = markerLifetime / 3

	markerFileMode os.FileMode = 0o600
)

var errGeneratorRunning = errors.New("the font generator is already running")

// acquireMarker creates the run marker in dir and returns its release function.
// A marker left by a dead process, or older than markerLifetime, is replaced.
func acquireMarker(ctx context.Context, dir string) (func(), error) {
	path := filepath.Join(dir, MarkerFilename)

	logger.Debug(ctx, "Checking for the presence of a run marker")

	if isMarkerActive(ctx, path) {
		return nil, fmt.Errorf("%s: %w", path, errGeneratorRunning)
	}

	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid), markerFileMode); err != nil {
		return nil, fmt.Errorf("write run marker: %w", err)
	}

	release := func() {
		// Another generator may have taken over a marker we let expire.
		if !ownsMarker(path) {
			return
		}

		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Unable to remove run marker", "path", path, "error", err)
		}
	}

	return release, nil
}

// refreshMarker renews the modification time of the marker in dir
// so other generators keep treating it as active.
func refreshMarker(ctx context.Context, dir string) {
	path := filepath.Join(dir, MarkerFilename)
	if !ownsMarker(path) {
		logger.WarnKV(ctx, "The run marker no longer belongs to this generator", "path", path)
		return
	}

	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		logger.WarnKV(ctx, "Unable to refresh run marker", "path", path, "error", err)
	}
}

// ownsMarker reports whether the marker at path holds the PID of this process.
func ownsMarker(path string) bool {
	pid, err := readMarkerPID(path)

	return err == nil && pid == os.Getpid()
}

// readMarkerPID returns the PID stored in the marker at path.
func readMarkerPID(path string) (int, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(string(contents)))
}

// isMarkerActive reports whether the marker at path belongs to a live generator.
func isMarkerActive(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Infof(ctx, "Unable to read run marker: %v", err)
		}

		return false
	}

	if time.Since(info.ModTime()) > markerLifetime {
		logger.Info(ctx, "The run marker is too old, ignoring it")
		return false
	}

	pid, err := readMarkerPID(path)
	if err != nil || pid == os.Getpid() {
		return false
	}

	process, err := ps.FindProcess(pid)
	if err != nil || process == nil {
		logger.InfoKV(ctx, "The run marker belongs to a finished process, ignoring it", "pid", pid)
		return false
	}

	logger.InfoKV(ctx, "Another generator is running", "pid", pid, "executable", process.Executable())

	return true
}
