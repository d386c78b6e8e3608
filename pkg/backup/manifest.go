package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

// ManifestVersion is written into every new manifest. Manifests with a
// different major version are rejected.
const ManifestVersion = "1.0.0"

// ManifestFileName is the manifest's name inside a session directory
const ManifestFileName = "manifest.json"

// SymlinkSuffix marks the sidecar file recording a preserved link target
const SymlinkSuffix = ".symlink"

// Operation names the command that opened a session
type Operation string

const (
	OpApply Operation = "apply"
	OpInit  Operation = "init"
)

// EntryType is what was found at a preserved path
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
	EntrySymlink   EntryType = "symlink"
)

// Entry records one preserved path
type Entry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	// Backup is the slash-separated location inside the session directory:
	// the mirrored copy, or the sidecar for symlinks.
	Backup     string `json:"backup"`
	LinkTarget string `json:"link_target,omitempty"`
}

// Manifest is the persisted record of a session
type Manifest struct {
	Version   string    `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Scope     string    `json:"scope"`
	Operation Operation `json:"operation"`
	Base      string    `json:"base"`
	Paths     []string  `json:"paths"`
	Entries   []Entry   `json:"entries"`
}

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ParseManifest validates raw manifest bytes against the embedded schema and
// the supported version range, then decodes them
func ParseManifest(data []byte) (*Manifest, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "loading manifest schema")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "manifest is not valid JSON")
	}
	if err := schema.Validate(inst); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "manifest does not match schema")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "decoding manifest")
	}

	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}
	return &m, nil
}

func checkVersion(v string) error {
	got, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid, "manifest version %q", v)
	}
	want := semver.MustParse(ManifestVersion)
	if got.Major() != want.Major() {
		return errors.Newf(errors.ErrManifestInvalid,
			"manifest version %s is not compatible with %s", got, want).
			WithDetail("version", v)
	}
	return nil
}

func (m *Manifest) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
