package bridge

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// graphSchema is the structural contract for submitted graphs: an id plus
// nodes and edges arrays must be present. Nothing semantic (node kinds,
// edge reachability, cycles) is checked here; that belongs to the
// consumer behind the graph handler.
const graphSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "nodes", "edges"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {"id": {"type": "string", "minLength": 1}}
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "properties": {
          "from": {"type": "string"},
          "to": {"type": "string"}
        }
      }
    }
  }
}`

func compileGraphSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const url = "https://jeantrail.schemas.local/bridge/graph.schema.json"
	if err := c.AddResource(url, strings.NewReader(graphSchema)); err != nil {
		return nil, fmt.Errorf("graph schema load failed: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("graph schema compile failed: %w", err)
	}
	return compiled, nil
}
