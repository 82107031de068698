// SPDX-License-Identifier: MPL-2.0

package release

import "slices"

// rootOutcome is the result of gating one package root: either the manifest
// that was loaded (and authenticated when required) or the errors it produced.
type rootOutcome struct {
	root     string
	manifest Manifest
	errs     []error
}

func okOutcome(root string, m Manifest) rootOutcome {
	return rootOutcome{root: root, manifest: m}
}

func failedOutcome(root string, err error) rootOutcome {
	return rootOutcome{root: root, errs: Flatten(err)}
}

func (o rootOutcome) ok() bool {
	return len(o.errs) == 0
}

// drain appends the errors of every outcome. It never asks the caller to stop.
func drain(errs []error, outcomes ...rootOutcome) []error {
	for _, o := range outcomes {
		errs = append(errs, o.errs...)
	}
	return errs
}

// failFast appends the outcome's errors and reports whether the hook must stop:
// it must as soon as the collection holds anything, including errors that were
// already there before this root.
func failFast(errs []error, o rootOutcome) ([]error, bool) {
	errs = append(errs, o.errs...)
	return errs, len(errs) > 0
}

// aggregate returns nil for an empty collection and an *AggregateError otherwise.
func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: slices.Clone(errs)}
}
