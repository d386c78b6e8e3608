// Package yaml provides machine-readable YAML output
package yaml

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Renderer provides YAML output. Results go through their JSON encoding
// first so field names and ordering match the json format.
type Renderer struct {
	output io.Writer
}

// New creates a new YAML renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as YAML
func (r *Renderer) RenderResult(result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	return r.RenderResult(map[string]string{"error": err.Error()})
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.RenderResult(map[string]string{"message": msg})
}

// blockStyle drops the flow style the JSON source carries
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
