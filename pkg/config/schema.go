package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON Schema of config files.
func Schema() []byte { return schemaJSON }

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("vab.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("vab.schema.json")
	})
	return schema, schemaErr
}

// validateDocument checks a decoded file against the schema. root, when
// set, is the YAML node tree used to locate failing values.
func validateDocument(path string, doc map[string]any, root *yaml.Node) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return &Error{Path: path, Message: err.Error()}
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return &Error{Path: path, Message: err.Error()}
	}

	err = s.Validate(instance)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Error{Path: path, Message: err.Error()}
	}
	leaf := deepestCause(verr)
	cfgErr := &Error{
		Path:    path,
		Key:     pointerToKey(leaf.InstanceLocation),
		Message: leaf.Message,
	}
	if n := findNode(root, leaf.InstanceLocation); n != nil {
		cfgErr.Line, cfgErr.Column = n.Line, n.Column
	}
	return cfgErr
}

func deepestCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// pointerToKey converts a JSON pointer to a dotted key.
func pointerToKey(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}

// findNode walks a YAML document along a JSON pointer.
func findNode(root *yaml.Node, ptr string) *yaml.Node {
	if root == nil {
		return nil
	}
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return n
	}
	for _, seg := range strings.Split(ptr, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch n.Kind {
		case yaml.MappingNode:
			var next *yaml.Node
			for i := 0; i+1 < len(n.Content); i += 2 {
				if n.Content[i].Value == seg {
					next = n.Content[i+1]
					break
				}
			}
			if next == nil {
				return n
			}
			n = next
		case yaml.SequenceNode:
			var idx int
			if _, err := fmt.Sscanf(seg, "%d", &idx); err != nil || idx < 0 || idx >= len(n.Content) {
				return n
			}
			n = n.Content[idx]
		default:
			return n
		}
	}
	return n
}
