// SPDX-License-Identifier: MPL-2.0

package release

import "fmt"

// ValidateConfig checks the shape of the recognized plugin options.
//
// It never panics and performs no I/O. A nil result means the configuration is
// valid; callers branch on the length of the result, not on a sentinel.
func ValidateConfig(cfg PluginConfig) []error {
	var errs []error

	if cfg.NpmPublish != nil {
		if _, ok := cfg.NpmPublish.(bool); !ok {
			errs = append(errs, NewError(CodeInvalidNpmPublish, fmt.Sprintf(
				"The `npmPublish` option, if defined, must be a `Boolean`.\n\nYour configuration for the `npmPublish` option is `%v`.",
				cfg.NpmPublish)))
		}
	}

	if cfg.TarballDir != nil {
		if s, ok := cfg.TarballDir.(string); !ok || s == "" {
			errs = append(errs, NewError(CodeInvalidTarballDir, fmt.Sprintf(
				"The `tarballDir` option, if defined, must be a non-empty `String`.\n\nYour configuration for the `tarballDir` option is `%v`.",
				cfg.TarballDir)))
		}
	}

	if cfg.PkgRoot != nil && !validPkgRoot(cfg.PkgRoot) {
		errs = append(errs, NewError(CodeInvalidPkgRoot, fmt.Sprintf(
			"The `pkgRoot` option, if defined, must be a non-empty `String` or a list of them.\n\nYour configuration for the `pkgRoot` option is `%v`.",
			cfg.PkgRoot)))
	}

	return errs
}

func validPkgRoot(v any) bool {
	switch roots := v.(type) {
	case string:
		return roots != ""
	case []string:
		for _, r := range roots {
			if r == "" {
				return false
			}
		}
		return true
	case []any:
		for _, item := range roots {
			if s, ok := item.(string); !ok || s == "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}
