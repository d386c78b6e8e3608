// Package backup preserves paths before agentlink overwrites them, so a run
// can be undone.
//
// Each mutating run that actually replaces something owns one session: a
// timestamped directory under <canonical>/backup holding a mirror of every
// preserved file or directory, a .symlink sidecar for every preserved symlink
// and a manifest.json listing what was preserved. Sessions without a manifest
// are ignored by Latest; they are either empty or were interrupted.
package backup
