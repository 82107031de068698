// SPDX-License-Identifier: MPL-2.0

package npmrc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileName is the name npm expects for its configuration file.
const FileName = ".npmrc"

type (
	// Store is the process-lifetime credential file.
	Store struct {
		dir  string
		path string

		// mu serializes appends; several package roots may share one registry.
		mu sync.Mutex

		closeOnce sync.Once
		closeErr  error
	}

	// Option configures Open.
	Option func(*openOptions)

	openOptions struct {
		tempDir string
		bases   []string
	}
)

// WithTempDir creates the store under dir instead of os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *openOptions) {
		o.tempDir = dir
	}
}

// WithBaseConfig copies the given .npmrc files, in order, into the new store.
// Missing files are skipped.
func WithBaseConfig(paths ...string) Option {
	return func(o *openOptions) {
		o.bases = append(o.bases, paths...)
	}
}

// Open creates the credential file. Call it once, before any hook runs.
func Open(opts ...Option) (*Store, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := os.MkdirTemp(o.tempDir, "npmrelease-")
	if err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	var content strings.Builder
	for _, base := range o.bases {
		data, readErr := os.ReadFile(base)
		if errors.Is(readErr, os.ErrNotExist) {
			continue
		}
		if readErr != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to read npm config %s: %w", base, readErr)
		}
		content.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			content.WriteByte('\n')
		}
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content.String()), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to create credential file: %w", err)
	}

	return &Store{dir: dir, path: path}, nil
}

// Path returns the credential file path handed to npm via --userconfig.
func (s *Store) Path() string {
	return s.path
}

// Close removes the credential file and its directory. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = os.RemoveAll(s.dir)
	})
	return s.closeErr
}

// WriteAuth appends the auth configuration for registry unless the file
// already authenticates it. See AppendAuth for the lines written.
func (s *Store) WriteAuth(registry string, env map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AppendAuth(s.path, registry, env)
}
