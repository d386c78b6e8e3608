// Package filesystem provides the OS-backed implementation of types.FS.
//
// In-memory filesystems used by tests live in pkg/testutil.
package filesystem
