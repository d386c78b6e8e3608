// Package paths resolves where agentlink reads and writes.
//
// A Resolver turns a scope, a project directory and the client registry into
// concrete locations: the canonical root, each client's root and the
// (source, target) pair for every resource kind a client consumes. Apart from
// the prompt override check in Targets, everything here is pure path
// arithmetic.
//
// The package also owns agentlink's own XDG locations (config file, log
// file), following the XDG Base Directory specification via adrg/xdg.
package paths
