// Package testutil provides utilities for testing agentlink components.
//
// Key components:
//   - TestEnvironment: a home directory, a project directory and a
//     filesystem, either in memory or under t.TempDir()
//   - MemoryFS: in-memory filesystem with real symlink semantics, so the
//     link state machine can be exercised without touching disk
//   - tree helpers (WriteFile, Mkdir, Symlink) and link assertions
//
// Most tests should use EnvMemoryOnly; EnvIsolated exists for the few
// tests that check behaviour against the real OS filesystem.
package testutil
