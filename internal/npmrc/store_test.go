// SPDX-License-Identifier: MPL-2.0

package npmrc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

func TestOpenCopiesBaseConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	home := filepath.Join(dir, "home.npmrc")
	project := filepath.Join(dir, "project.npmrc")
	if err := os.WriteFile(home, []byte("registry=https://home.example/"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(project, []byte("@acme:registry=https://acme.example/\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := Open(WithTempDir(dir), WithBaseConfig(home, filepath.Join(dir, "missing"), project))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if filepath.Base(store.Path()) != FileName {
		t.Errorf("Path() = %q, want a %s file", store.Path(), FileName)
	}
	if !strings.HasPrefix(filepath.Base(filepath.Dir(store.Path())), "npmrelease-") {
		t.Errorf("Path() = %q, want it inside an npmrelease-* directory", store.Path())
	}

	want := "registry=https://home.example/\n@acme:registry=https://acme.example/\n"
	if got := readFile(t, store.Path()); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestCloseRemovesDirectory(t *testing.T) {
	t.Parallel()

	store, err := Open(WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(store.Path())); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("directory still present after Close(): %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWriteAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		registry string
		env      map[string]string
		want     string
		wantErr  error
	}{
		{
			name:     "token",
			registry: "https://registry.npmjs.org/",
			env:      map[string]string{"NPM_TOKEN": "secret"},
			want:     "//registry.npmjs.org/:_authToken = ${NPM_TOKEN}\n",
		},
		{
			name:     "token with registry path",
			registry: "https://npm.example.com/api/npm/",
			env:      map[string]string{"NPM_TOKEN": "secret"},
			want:     "//npm.example.com/api/npm/:_authToken = ${NPM_TOKEN}\n",
		},
		{
			name:     "legacy",
			registry: "https://registry.npmjs.org/",
			env:      map[string]string{"LEGACY_TOKEN": "dTpw", "NPM_EMAIL": "me@example.com"},
			want:     "_auth = ${LEGACY_TOKEN}\nemail = ${NPM_EMAIL}\n",
		},
		{
			name:     "token preferred over legacy",
			registry: "https://registry.npmjs.org/",
			env:      map[string]string{"NPM_TOKEN": "secret", "LEGACY_TOKEN": "dTpw"},
			want:     "//registry.npmjs.org/:_authToken = ${NPM_TOKEN}\n",
		},
		{
			name:     "existing auth kept",
			base:     "//registry.npmjs.org/:_authToken=${MY_TOKEN}\n",
			registry: "https://registry.npmjs.org/",
			env:      map[string]string{"NPM_TOKEN": "secret"},
			want:     "//registry.npmjs.org/:_authToken=${MY_TOKEN}\n",
		},
		{
			name:     "no credentials",
			registry: "https://registry.npmjs.org/",
			env:      map[string]string{},
			wantErr:  ErrNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			var opts []Option
			opts = append(opts, WithTempDir(dir))
			if tt.base != "" {
				base := filepath.Join(dir, "base.npmrc")
				if err := os.WriteFile(base, []byte(tt.base), 0o600); err != nil {
					t.Fatal(err)
				}
				opts = append(opts, WithBaseConfig(base))
			}

			store, err := Open(opts...)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = store.Close() }()

			err = store.WriteAuth(tt.registry, tt.env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("WriteAuth() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteAuth() error = %v", err)
			}
			if got := readFile(t, store.Path()); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteAuthOncePerRegistry(t *testing.T) {
	t.Parallel()

	store, err := Open(WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	env := map[string]string{"NPM_TOKEN": "secret"}
	registries := []string{"https://registry.npmjs.org/", "https://npm.example.com/"}

	var wg sync.WaitGroup
	for range 8 {
		for _, r := range registries {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.WriteAuth(r, env); err != nil {
					t.Errorf("WriteAuth(%s) error = %v", r, err)
				}
			}()
		}
	}
	wg.Wait()

	content := readFile(t, store.Path())
	for _, r := range registries {
		line := NerfDart(r) + ":_authToken"
		if n := strings.Count(content, line); n != 1 {
			t.Errorf("%s written %d times, want 1\n%s", line, n, content)
		}
	}
}
