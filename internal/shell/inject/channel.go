// Package inject stages resolved credentials into a transient side-channel
// file consumed by one orchestrator invocation. This is part of the
// Imperative Shell.
package inject

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// channelPerm restricts the channel file to its owner. Values transit through
// this file instead of the descriptor or the process arguments, so nothing
// sensitive shows up in a process listing or the generated output.
const channelPerm = fs.FileMode(0o600)

// Stage writes credentials to a freshly named channel file under dir and
// returns its path. Each invocation gets its own file, so concurrent
// invocations never interfere. Multi-line values are escaped to the
// orchestrator's single-line variable-file form.
func Stage(dir string, credentials map[string]string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating channel directory: %w", err)
	}

	content, err := godotenv.Marshal(credentials)
	if err != nil {
		return "", fmt.Errorf("marshaling credentials: %w", err)
	}

	path := filepath.Join(dir, ".env."+uuid.NewString())
	if err := os.WriteFile(path, []byte(content+"\n"), channelPerm); err != nil {
		return "", fmt.Errorf("writing channel file: %w", err)
	}
	return path, nil
}

// Purge removes a staged channel file. Purging an already-removed path is not
// an error.
func Purge(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("purging channel file: %w", err)
	}
	return nil
}

// With stages a channel, runs fn with its path, and purges it on every exit
// path, panics included. A purge failure is logged rather than returned: a
// leftover file under the state directory does not affect correctness, and it
// must never mask fn's result.
func With(dir string, credentials map[string]string, logger *slog.Logger, fn func(path string) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	path, err := Stage(dir, credentials)
	if err != nil {
		return err
	}
	defer func() {
		if purgeErr := Purge(path); purgeErr != nil {
			logger.Warn("failed to purge credential channel", "path", path, "error", purgeErr)
		}
	}()
	return fn(path)
}
