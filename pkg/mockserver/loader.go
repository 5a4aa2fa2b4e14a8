package mockserver

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed definitions.schema.json
var definitionsSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("definitions.schema.json", bytes.NewReader(definitionsSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("definitions.schema.json")
	})
	return schema, schemaErr
}

// LoadError reports a definition file that could not be used.
type LoadError struct {
	Path    string
	Pointer string
	Message string
}

func (e *LoadError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Pointer, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load expands pattern relative to baseDir and loads every matching file.
// Files are read in lexical order. A pattern without matches yields no
// definitions and no error.
func Load(baseDir, pattern string) ([]Definition, error) {
	if !filepath.IsAbs(pattern) && baseDir != "" {
		pattern = filepath.Join(baseDir, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid mock path pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var defs []Definition
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}
	return defs, nil
}

// LoadFile reads the definitions in one YAML or JSON file. The file holds
// either a list of definitions or an object with a "mocks" list.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes definitions from data. The extension of path selects the
// format; anything other than .json is read as YAML.
func Parse(path string, data []byte) ([]Definition, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
	}
	if doc == nil {
		return nil, nil
	}

	// Round-trip through JSON so YAML and JSON share one decoder and the
	// validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	if err := validate(path, instance); err != nil {
		return nil, err
	}

	var defs []Definition
	if _, ok := instance.(map[string]any); ok {
		var wrapper struct {
			Mocks []Definition `json:"mocks"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
		defs = wrapper.Mocks
	} else if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}

	for i := range defs {
		defs[i].Source = path
		if err := defs[i].Validate(); err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
	}
	return defs, nil
}

func validate(path string, instance any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	err = s.Validate(instance)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &LoadError{Path: path, Message: err.Error()}
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return &LoadError{Path: path, Pointer: verr.InstanceLocation, Message: verr.Message}
}
