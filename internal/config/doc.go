// SPDX-License-Identifier: MPL-2.0

// Package config handles release configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the file named by --config, or from .releaserc.cue in
// the project directory when present. It carries the plugin options, the driver's
// publish step list, the next release and registry settings. Files are validated
// against the embedded CUE schema (config_schema.cue); plugin options themselves are
// left open so the release validator can report them with its own error codes.
package config
