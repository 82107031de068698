// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"npmrelease-cli/internal/release"
	"npmrelease-cli/internal/shell"
)

// fakeRunner records commands instead of running npm.
type fakeRunner struct {
	mu       sync.Mutex
	commands []shell.Command
	// onRun, when set, runs for every command and decides its result.
	onRun func(cmd shell.Command) error
}

func (r *fakeRunner) Run(_ context.Context, cmd shell.Command) error {
	r.mu.Lock()
	cmd.Args = slices.Clone(cmd.Args)
	r.commands = append(r.commands, cmd)
	onRun := r.onRun
	r.mu.Unlock()

	if onRun != nil {
		return onRun(cmd)
	}
	return nil
}

func (r *fakeRunner) args() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.Args
	}
	return out
}

// packTarball simulates npm pack writing <name>-<version>.tgz into the working directory.
func packTarball(name string) func(cmd shell.Command) error {
	return func(cmd shell.Command) error {
		if len(cmd.Args) < 2 || cmd.Args[1] != "pack" {
			return nil
		}
		if err := os.WriteFile(filepath.Join(cmd.Dir, name), []byte("tarball"), 0o644); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.Stdout, "npm notice tarball details\n%s\n", name)
		return err
	}
}

func newTestContext(cwd string) *release.Context {
	return &release.Context{
		Cwd:         cwd,
		Env:         map[string]string{},
		NextRelease: release.NextRelease{Version: "1.2.3"},
	}
}
