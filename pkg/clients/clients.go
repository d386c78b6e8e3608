package clients

import (
	"strings"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

// ID identifies a registered client
type ID string

const (
	Claude   ID = "claude"
	Gemini   ID = "gemini"
	Codex    ID = "codex"
	Cursor   ID = "cursor"
	OpenCode ID = "opencode"
)

// Kind is a category of distributable content
type Kind string

const (
	Commands Kind = "commands"
	Hooks    Kind = "hooks"
	Skills   Kind = "skills"
	Prompt   Kind = "prompt"
)

// FallbackPromptFile is the shared prompt file name in the canonical root.
// Clients without an override file of their own link to it.
const FallbackPromptFile = "AGENTS.md"

// AllKinds returns every resource kind in canonical order
func AllKinds() []Kind {
	return []Kind{Commands, Hooks, Skills, Prompt}
}

// IsDir reports whether the kind is distributed as a directory
func (k Kind) IsDir() bool {
	return k != Prompt
}

// Client describes where one consumer application expects its configuration
type Client struct {
	ID ID
	// GlobalRoot is the client's configuration directory at global scope.
	// A leading "~" is expanded against the home directory.
	GlobalRoot string
	Kinds      []Kind
	PromptFile string
}

// Supports reports whether the client consumes the given kind
func (c Client) Supports(kind Kind) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TargetName returns the entry name of kind inside the client root
func (c Client) TargetName(kind Kind) string {
	if kind == Prompt {
		return c.PromptFile
	}
	return string(kind)
}

// PromptOverride reports whether the client reads a prompt file other than
// the shared fallback, so a client-specific file in the canonical root wins.
func (c Client) PromptOverride() bool {
	return c.PromptFile != "" && c.PromptFile != FallbackPromptFile
}

// Registry is an ordered client table
type Registry []Client

var defaultRegistry = Registry{
	{ID: Claude, GlobalRoot: "~/.claude", Kinds: []Kind{Commands, Hooks, Skills, Prompt}, PromptFile: "CLAUDE.md"},
	{ID: Gemini, GlobalRoot: "~/.gemini", Kinds: []Kind{Commands, Skills, Prompt}, PromptFile: "GEMINI.md"},
	{ID: Codex, GlobalRoot: "~/.codex", Kinds: []Kind{Skills, Prompt}, PromptFile: FallbackPromptFile},
	{ID: Cursor, GlobalRoot: "~/.cursor", Kinds: []Kind{Commands, Hooks, Skills}, PromptFile: FallbackPromptFile},
	{ID: OpenCode, GlobalRoot: "~/.config/opencode", Kinds: []Kind{Commands, Skills, Prompt}, PromptFile: FallbackPromptFile},
}

// Default returns a copy of the built-in registry
func Default() Registry {
	reg := make(Registry, len(defaultRegistry))
	for i, c := range defaultRegistry {
		c.Kinds = append([]Kind(nil), c.Kinds...)
		reg[i] = c
	}
	return reg
}

// IDs returns the registered ids in registry order
func (r Registry) IDs() []ID {
	ids := make([]ID, 0, len(r))
	for _, c := range r {
		ids = append(ids, c.ID)
	}
	return ids
}

// Get looks up a client by id
func (r Registry) Get(id ID) (Client, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// Lookup is Get with an UNKNOWN_CLIENT error instead of a flag
func (r Registry) Lookup(id ID) (Client, error) {
	c, ok := r.Get(id)
	if !ok {
		return Client{}, errors.Newf(errors.ErrUnknownClient, "unknown client %q", id).
			WithDetail("known", r.IDs())
	}
	return c, nil
}

// Parse maps a string onto a registered id
func (r Registry) Parse(s string) (ID, bool) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := r.Get(id)
	return id, ok
}

// ParseList parses a comma separated client list. An empty list selects
// every client in registry order. Duplicates are collapsed.
func (r Registry) ParseList(s string) ([]ID, error) {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return r.ParseNames(parts)
}

// ParseNames is ParseList for an already split list
func (r Registry) ParseNames(names []string) ([]ID, error) {
	if len(names) == 0 {
		return r.IDs(), nil
	}

	seen := make(map[ID]bool, len(names))
	ids := make([]ID, 0, len(names))
	for _, name := range names {
		id, ok := r.Parse(name)
		if !ok {
			return nil, errors.Newf(errors.ErrUnknownClient, "unknown client %q", strings.TrimSpace(name)).
				WithDetail("known", r.IDs())
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// WithGlobalRoot returns a copy of the registry with one client's global
// root replaced
func (r Registry) WithGlobalRoot(id ID, root string) (Registry, error) {
	out := make(Registry, len(r))
	copy(out, r)
	for i := range out {
		if out[i].ID == id {
			out[i].GlobalRoot = root
			return out, nil
		}
	}
	return nil, errors.Newf(errors.ErrUnknownClient, "unknown client %q", id)
}

// Validate checks the table for ambiguities the link engine cannot resolve
func (r Registry) Validate() error {
	seenIDs := make(map[ID]bool, len(r))
	for _, c := range r {
		if c.ID == "" {
			return errors.New(errors.ErrInvalidRegistry, "client with empty id")
		}
		if seenIDs[c.ID] {
			return errors.Newf(errors.ErrInvalidRegistry, "client %q registered twice", c.ID)
		}
		seenIDs[c.ID] = true

		if len(c.Kinds) == 0 {
			return errors.Newf(errors.ErrInvalidRegistry, "client %q supports no resource kinds", c.ID)
		}
		if c.GlobalRoot == "" {
			return errors.Newf(errors.ErrInvalidRegistry, "client %q has no global root", c.ID)
		}

		seenKinds := make(map[Kind]bool, len(c.Kinds))
		targets := make(map[string]Kind, len(c.Kinds))
		for _, k := range c.Kinds {
			if !validKind(k) {
				return errors.Newf(errors.ErrInvalidRegistry, "client %q lists unknown kind %q", c.ID, k)
			}
			if seenKinds[k] {
				return errors.Newf(errors.ErrInvalidRegistry, "client %q lists kind %q twice", c.ID, k)
			}
			seenKinds[k] = true

			if k == Prompt && c.PromptFile == "" {
				return errors.Newf(errors.ErrInvalidRegistry, "client %q supports prompt without a prompt file", c.ID)
			}

			name := c.TargetName(k)
			if other, dup := targets[name]; dup {
				return errors.Newf(errors.ErrInvalidRegistry,
					"client %q: kinds %q and %q both resolve to %q", c.ID, other, k, name)
			}
			targets[name] = k
		}
	}
	return nil
}

// MustValidate panics if the built-in registry is inconsistent
func MustValidate() {
	if err := defaultRegistry.Validate(); err != nil {
		panic(err)
	}
}

func validKind(k Kind) bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}
