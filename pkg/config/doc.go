// Package config loads agentlink's user configuration.
//
// Values are layered with koanf: the embedded defaults.toml first, then the
// user's config.toml from the XDG config directory (or the file passed with
// --config). Command line flags are applied on top by the CLI.
package config
