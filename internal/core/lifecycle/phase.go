// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"errors"
	"fmt"
)

const (
	// PhaseVerify checks configuration and registry credentials.
	PhaseVerify Phase = iota
	// PhasePrepare bumps the manifest version and optionally packs a tarball.
	PhasePrepare
	// PhasePublish pushes each package to its registry.
	PhasePublish
	// PhaseAddChannel points a dist-tag at an already published version.
	PhaseAddChannel
)

// ErrInvalidPhase is returned when a Phase value is not one of the defined phases.
var ErrInvalidPhase = errors.New("invalid phase")

type (
	// Phase identifies one of the four lifecycle hooks.
	Phase int32

	// InvalidPhaseError is returned when a Phase value is not recognized.
	// It wraps ErrInvalidPhase for errors.Is() compatibility.
	InvalidPhaseError struct {
		Value Phase
	}
)

// String returns the hook name as the release driver spells it.
func (p Phase) String() string {
	switch p {
	case PhaseVerify:
		return "verifyConditions"
	case PhasePrepare:
		return "prepare"
	case PhasePublish:
		return "publish"
	case PhaseAddChannel:
		return "addChannel"
	default:
		return "unknown"
	}
}

// Error implements the error interface for InvalidPhaseError.
func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase %d (valid: 0=verify, 1=prepare, 2=publish, 3=addChannel)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPhaseError) Unwrap() error {
	return ErrInvalidPhase
}

// Validate returns nil if the Phase is one of the defined phases,
// or an error wrapping ErrInvalidPhase if it is not.
func (p Phase) Validate() error {
	switch p {
	case PhaseVerify, PhasePrepare, PhasePublish, PhaseAddChannel:
		return nil
	default:
		return &InvalidPhaseError{Value: p}
	}
}

// OwnsLatch reports whether a successful run of the phase sets a latch.
// Only verify and prepare do; publish and addChannel read latches but never set them.
func (p Phase) OwnsLatch() bool {
	return p == PhaseVerify || p == PhasePrepare
}
