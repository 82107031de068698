// SPDX-License-Identifier: MPL-2.0

package config

import "npmrelease-cli/internal/release"

const (
	// DefaultNpmBinary is the npm executable looked up on PATH.
	DefaultNpmBinary = "npm"
)

type (
	// Config is the loaded release configuration.
	Config struct {
		// Plugin holds this plugin's options.
		Plugin release.PluginConfig `mapstructure:"plugin"`
		// Publish is the driver's publish step list.
		Publish []release.StepConfig `mapstructure:"publish"`
		// Release describes the version being released.
		Release release.NextRelease `mapstructure:"release"`
		// Registry tunes registry access.
		Registry RegistryConfig `mapstructure:"registry"`
		// UI holds output preferences.
		UI UIConfig `mapstructure:"ui"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `mapstructure:"-"`
	}

	// RegistryConfig tunes registry access.
	RegistryConfig struct {
		WhoamiAllRegistries bool   `mapstructure:"whoami_all_registries"`
		NpmBinary           string `mapstructure:"npm_binary"`
	}

	// UIConfig holds output preferences.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{NpmBinary: DefaultNpmBinary},
	}
}

// Options returns the driver options view of the publish step list.
func (c *Config) Options() release.Options {
	return release.Options{Publish: c.Publish}
}
