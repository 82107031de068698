// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"fmt"
	"sync/atomic"
)

type (
	// Latch is a boolean that flips from false to true at most once.
	// Only its owning phase may set it and nothing can clear it.
	Latch struct {
		set   atomic.Bool
		owner Phase
	}

	// Latches groups the two latches a release session carries.
	Latches struct {
		// Verified is set by a fully successful verify run.
		Verified *Latch
		// Prepared is set by a fully successful prepare run.
		Prepared *Latch
	}
)

// NewLatch creates an unset latch owned by the given phase.
func NewLatch(owner Phase) *Latch {
	return &Latch{owner: owner}
}

// NewLatches creates the verified/prepared pair, both unset.
func NewLatches() Latches {
	return Latches{
		Verified: NewLatch(PhaseVerify),
		Prepared: NewLatch(PhasePrepare),
	}
}

// IsSet reports whether the latch has been set (atomic, lock-free read).
func (l *Latch) IsSet() bool {
	return l.set.Load()
}

// Owner returns the phase allowed to set the latch.
func (l *Latch) Owner() Phase {
	return l.owner
}

// Set flips the latch on behalf of phase p. Setting an already-set latch is a no-op.
// It returns an error if p does not own the latch.
func (l *Latch) Set(p Phase) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p != l.owner {
		return fmt.Errorf("phase %s cannot set the latch owned by %s", p, l.owner)
	}
	l.set.Store(true)
	return nil
}
