// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"npmrelease-cli/internal/issue"
	"npmrelease-cli/internal/release"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

const (
	// AppName is the application name.
	AppName = "npmrelease"
	// ConfigFileName is the project configuration file looked up in the base directory.
	ConfigFileName = ".releaserc.cue"
	// EnvPrefix prefixes environment overrides (NPMRELEASE_REGISTRY_NPM_BINARY, ...).
	EnvPrefix = "NPMRELEASE"
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("release.version", defaults.Release.Version)
	v.SetDefault("release.channel", defaults.Release.Channel)
	v.SetDefault("registry.whoami_all_registries", defaults.Registry.WhoamiAllRegistries)
	v.SetDefault("registry.npm_binary", defaults.Registry.NpmBinary)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'npmrelease config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else if local := filepath.Join(opts.BaseDir, ConfigFileName); fileExists(local) {
		resolvedPath = local
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	return &cfg, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Plugin options decode to map[string]any and are checked later by the release
// validator, so validation uses Concrete(false).
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), MaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a configuration file that loads back to the same values.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// npmrelease configuration\n")
	if cfg.Source != "" {
		fmt.Fprintf(&sb, "// loaded from %s\n", cfg.Source)
	}

	if plugin := pluginFields(cfg.Plugin); len(plugin) > 0 {
		sb.WriteString("\nplugin: {\n")
		writeFields(&sb, "\t", plugin)
		sb.WriteString("}\n")
	}

	if len(cfg.Publish) > 0 {
		sb.WriteString("\npublish: [\n")
		for _, step := range cfg.Publish {
			sb.WriteString("\t{\n")
			fmt.Fprintf(&sb, "\t\tpath: %q\n", step.Path)
			writeFields(&sb, "\t\t", pluginFields(step.Config))
			sb.WriteString("\t},\n")
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nrelease: {\n")
	fmt.Fprintf(&sb, "\tversion: %q\n", cfg.Release.Version)
	fmt.Fprintf(&sb, "\tchannel: %q\n", cfg.Release.Channel)
	sb.WriteString("}\n")

	sb.WriteString("\nregistry: {\n")
	fmt.Fprintf(&sb, "\twhoami_all_registries: %v\n", cfg.Registry.WhoamiAllRegistries)
	fmt.Fprintf(&sb, "\tnpm_binary: %q\n", cfg.Registry.NpmBinary)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

type field struct {
	name  string
	value any
}

func pluginFields(c release.PluginConfig) []field {
	var fields []field
	if c.NpmPublish != nil {
		fields = append(fields, field{"npmPublish", c.NpmPublish})
	}
	if c.TarballDir != nil {
		fields = append(fields, field{"tarballDir", c.TarballDir})
	}
	if c.PkgRoot != nil {
		fields = append(fields, field{"pkgRoot", c.PkgRoot})
	}
	for _, k := range sortedKeys(c.Extra) {
		fields = append(fields, field{k, c.Extra[k]})
	}
	return fields
}

// writeFields writes each value as JSON, which is valid CUE.
func writeFields(sb *strings.Builder, indent string, fields []field) {
	for _, f := range fields {
		value, err := json.Marshal(f.value)
		if err != nil {
			value = []byte(fmt.Sprintf("%q", fmt.Sprint(f.value)))
		}
		fmt.Fprintf(sb, "%s%q: %s\n", indent, f.name, value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
