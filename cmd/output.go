package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput renders v as indented JSON or as block-style YAML. YAML keeps
// the JSON field names and order.
func writeOutput(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal json")
	}

	switch format {
	case formatJSON, "":
		_, err = w.Write(append(data, '\n'))
		return eris.Wrap(err, "output: write")
	case formatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return eris.Wrap(err, "output: convert to yaml")
		}
		blockStyle(&node)

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return eris.Wrap(err, "output: encode yaml")
		}
		return eris.Wrap(enc.Close(), "output: flush yaml")
	default:
		return eris.Errorf("output: unknown format %q (want json or yaml)", format)
	}
}

// blockStyle clears the flow and quoting styles yaml.v3 keeps from JSON
// input. Strings that would read back as another type stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
