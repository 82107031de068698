// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, SetHomeDir),
// fixture package roots (WritePackage, WriteNpmrc) and the container slot limiter
// used by registry integration tests (ContainerSemaphore).
package testutil
