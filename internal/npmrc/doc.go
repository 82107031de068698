// SPDX-License-Identifier: MPL-2.0

// Package npmrc manages the credential file shared by every release hook and
// reads registry settings from the user's .npmrc files.
//
// A Store owns one .npmrc in a private temporary directory for the lifetime of
// the process. The file starts as a copy of the user's own configuration; auth
// lines are appended at most once per registry. Tokens are never written in
// clear: the file references ${NPM_TOKEN} / ${LEGACY_TOKEN} and npm expands
// them from the environment.
package npmrc
