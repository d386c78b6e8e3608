// Package clients holds the registry of consumer applications that agentlink
// projects the canonical configuration into.
//
// Both the set of clients and the set of resource kinds are closed
// enumerations. The registry table is static; configuration may only move a
// client's global root, never add clients or kinds.
package clients
