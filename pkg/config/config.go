package config

import (
	"os"
	"sort"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
)

// Config is the merged configuration
type Config struct {
	Defaults Defaults                `koanf:"defaults" toml:"defaults"`
	Output   Output                  `koanf:"output" toml:"output"`
	Init     Init                    `koanf:"init" toml:"init"`
	Clients  map[string]ClientConfig `koanf:"clients" toml:"clients,omitempty"`

	// Path is the user file that was loaded, empty if none
	Path string `koanf:"-" toml:"-"`
}

// Defaults supplies values for flags that were not given
type Defaults struct {
	Scope   string   `koanf:"scope" toml:"scope" comment:"Scope used when --scope is not given: global or project"`
	Clients []string `koanf:"clients" toml:"clients" comment:"Clients used when --clients is not given. Empty means every registered client"`
	From    string   `koanf:"from" toml:"from" comment:"Client migrated by init when --from is not given"`
}

// Output controls rendering
type Output struct {
	Format string `koanf:"format" toml:"format" comment:"One of auto, term, text, json, yaml"`
}

// Init configures `agentlink init`
type Init struct {
	PromptTemplate string `koanf:"prompt_template" toml:"prompt_template,multiline" comment:"Fallback prompt written by init when there is nothing to migrate"`
}

// ClientConfig adjusts one registered client
type ClientConfig struct {
	GlobalRoot string `koanf:"global_root" toml:"global_root,omitempty"`
}

// Load merges the embedded defaults with the user file at path. An empty
// path means the XDG location, which may be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	explicit := path != ""
	if !explicit {
		path = paths.ConfigFilePath()
	}

	loaded := ""
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		loaded = path
		logger.Debug().Str("path", path).Msg("Loaded user config")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	cfg.Path = loaded

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal defaults")
	}
	return &cfg, nil
}

// Validate rejects values that name unknown scopes or clients
func (c *Config) Validate() error {
	reg := clients.Default()

	if _, err := paths.ParseScope(c.Defaults.Scope); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "defaults.scope")
	}
	if _, err := reg.ParseNames(c.Defaults.Clients); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "defaults.clients")
	}
	if _, ok := reg.Parse(c.Defaults.From); !ok {
		return errors.Newf(errors.ErrConfigLoad, "defaults.from: unknown client %q", c.Defaults.From)
	}
	for name := range c.Clients {
		if _, ok := reg.Parse(name); !ok {
			return errors.Newf(errors.ErrConfigLoad, "[clients.%s]: unknown client", name)
		}
	}
	return nil
}

// Registry returns the built-in registry with configured overrides applied
func (c *Config) Registry() (clients.Registry, error) {
	reg := clients.Default()

	names := make([]string, 0, len(c.Clients))
	for name := range c.Clients {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		root := c.Clients[name].GlobalRoot
		if root == "" {
			continue
		}
		id, ok := reg.Parse(name)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigLoad, "[clients.%s]: unknown client", name)
		}
		var err error
		if reg, err = reg.WithGlobalRoot(id, root); err != nil {
			return nil, err
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
