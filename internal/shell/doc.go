// SPDX-License-Identifier: MPL-2.0

// Package shell runs external commands through the mvdan/sh interpreter.
package shell
