// Package types defines the interfaces shared across agentlink packages.
package types
