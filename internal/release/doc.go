// SPDX-License-Identifier: MPL-2.0

// Package release implements the lifecycle hooks of the npm release plugin.
//
// A Session carries the state one release run shares between its hooks: the
// verified and prepared latches, the path of the credential file, and the
// collaborators that load manifests, check credentials and run npm. The four
// hooks (Verify, Prepare, Publish, AddChannel) decide what runs for each
// package root, in which order, and how per-root failures are combined into a
// single AggregateError.
//
// Verify drains every root before failing; Prepare, Publish and AddChannel
// stop at the first root that accumulated an error. Failures of the delegated
// npm work itself are never batched and abort the hook immediately.
package release
