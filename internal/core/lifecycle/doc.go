// SPDX-License-Identifier: MPL-2.0

// Package lifecycle provides the phase vocabulary and the flip-once latches
// shared by the release lifecycle hooks.
//
// A latch starts unset, can be set only by the phase that owns it, and never
// resets. Reads are atomic and lock-free so a session can be observed from
// any goroutine while a phase is running.
package lifecycle
