// SPDX-License-Identifier: MPL-2.0

package release

import (
	"io"

	"github.com/charmbracelet/log"
)

type (
	// NextRelease describes the version the driver is about to release.
	NextRelease struct {
		// Version is the semantic version being released (e.g., "1.4.0").
		Version string `mapstructure:"version" toml:"version"`
		// Channel is the distribution channel; empty means the default channel.
		Channel string `mapstructure:"channel" toml:"channel,omitempty"`
	}

	// StepConfig is one entry of the driver's publish step list.
	StepConfig struct {
		// Path identifies the plugin the step belongs to (e.g., "@semantic-release/npm").
		Path string `mapstructure:"path"`
		// Config holds the step's plugin options.
		Config PluginConfig `mapstructure:",squash"`
	}

	// Options is the subset of the driver's global options the hooks read.
	Options struct {
		Publish []StepConfig `mapstructure:"publish"`
	}

	// Context is the driver-owned state passed through every hook call.
	// The hooks only ever mutate Env (legacy token alias).
	Context struct {
		// Cwd is the repository root package roots are resolved against.
		Cwd string
		// Env is the environment handed to npm and used for credential lookup.
		Env map[string]string
		// Logger receives progress and skip messages. Nil discards output.
		Logger *log.Logger
		// Stdout and Stderr receive npm output. Nil discards output.
		Stdout io.Writer
		Stderr io.Writer
		// Options carries the sibling publish step configurations.
		Options Options
		// NextRelease is the release being produced.
		NextRelease NextRelease
	}

	// Manifest is the subset of package.json the hooks care about.
	Manifest struct {
		// Root is the package root the manifest was read from.
		Root string
		// Name is the package name, possibly scoped ("@scope/name").
		Name string
		// Version is the version currently written in package.json.
		Version string
		// Private marks packages that must never be published.
		Private bool
		// PublishRegistry is publishConfig.registry, empty when unset.
		PublishRegistry string
	}

	// Release describes the outcome of publishing or tagging one package root.
	Release struct {
		Name    string `toml:"name"`
		URL     string `toml:"url,omitempty"`
		Channel string `toml:"channel,omitempty"`
		Package string `toml:"package,omitempty"`
		Version string `toml:"version,omitempty"`
		// Skipped is true when nothing was pushed (npmPublish false or private package).
		Skipped bool `toml:"skipped"`
	}

	// PublishResult wraps the per-root releases returned by Publish.
	PublishResult struct {
		Releases []Release `toml:"releases"`
	}
)

var discardLogger = log.New(io.Discard)

// Log returns the context logger, or a logger that discards everything.
func (c *Context) Log() *log.Logger {
	if c == nil || c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

// Getenv returns the value of key in the context environment.
func (c *Context) Getenv(key string) string {
	if c == nil {
		return ""
	}
	return c.Env[key]
}

// Setenv sets key in the context environment, allocating the map if needed.
func (c *Context) Setenv(key, value string) {
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	c.Env[key] = value
}

// Out returns the writer for npm stdout, never nil.
func (c *Context) Out() io.Writer {
	if c == nil || c.Stdout == nil {
		return io.Discard
	}
	return c.Stdout
}

// ErrOut returns the writer for npm stderr, never nil.
func (c *Context) ErrOut() io.Writer {
	if c == nil || c.Stderr == nil {
		return io.Discard
	}
	return c.Stderr
}
