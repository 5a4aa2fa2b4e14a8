package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// GlobalConfigDir is the directory for global config, under the user config
// dir.
const GlobalConfigDir = "vab"

// LocalConfigFileNames are the names searched for local config, in order.
var LocalConfigFileNames = []string{".vabrc.yaml", ".vabrc.yml", ".vabrc.json"}

// GlobalConfigFileNames are the names searched for global config, in order.
var GlobalConfigFileNames = []string{"config.yaml", "config.yml", "config.json"}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigFile replaces the global config file. Missing is an error.
	ConfigFile string
	// Dir is searched for local config. Defaults to the working directory.
	Dir string
	// NoGlobal skips the global config file.
	NoGlobal bool
	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Flags holds values set on the command line, by dotted key.
	Flags map[string]any
}

// Load merges every configuration layer and returns the validated result.
func Load(opts LoadOptions) (*Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	merged, err := toDocument(NewDefault())
	if err != nil {
		return nil, err
	}
	sources := map[string]string{}
	recordSources(merged, "", SourceDefault, sources)

	var files []string
	apply := func(path, source string) error {
		doc, err := LoadFile(path)
		if err != nil {
			return err
		}
		mergeLayer(merged, doc, "", source, sources)
		files = append(files, path)
		return nil
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		if v, ok := lookup(EnvConfig); ok {
			configFile = v
		}
	}
	switch {
	case configFile != "":
		if err := apply(configFile, SourceFile); err != nil {
			return nil, err
		}
	case !opts.NoGlobal:
		if path := FindGlobalConfig(); path != "" {
			if err := apply(path, SourceGlobal); err != nil {
				return nil, err
			}
		}
	}

	if path := FindLocalConfig(opts.Dir); path != "" {
		if err := apply(path, SourceLocal); err != nil {
			return nil, err
		}
	}

	mergeLayer(merged, envLayer(lookup), "", SourceEnv, sources)

	if len(opts.Flags) > 0 {
		flags := map[string]any{}
		for key, v := range opts.Flags {
			setPath(flags, key, v)
		}
		mergeLayer(merged, flags, "", SourceFlag, sources)
	}

	cfg, err := fromDocument(merged)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	cfg.Files = files
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one config file into a generic document and checks it
// against the schema. JSON files may carry comments.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isJSON(path) {
		return decodeJSON(path, data)
	}
	return decodeYAML(path, data)
}

func isJSON(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".jsonc"
}

func decodeYAML(path string, data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, yamlError(path, err)
	}
	doc := map[string]any{}
	if root.Kind == 0 {
		return doc, nil
	}
	if err := root.Decode(&doc); err != nil {
		return nil, yamlError(path, err)
	}
	if err := validateDocument(path, doc, &root); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeJSON(path string, data []byte) (map[string]any, error) {
	clean := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		cfgErr := &Error{Path: path, Message: err.Error()}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			cfgErr.Line, cfgErr.Column = FindLineColumn(clean, syntaxErr.Offset)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			cfgErr.Line, cfgErr.Column = FindLineColumn(clean, typeErr.Offset)
		}
		return nil, cfgErr
	}
	normalized, _ := normalizeNumbers(doc).(map[string]any)
	if err := validateDocument(path, normalized, nil); err != nil {
		return nil, err
	}
	return normalized, nil
}

// normalizeNumbers turns json.Number into int64 or float64 so the document
// re-encodes cleanly as YAML.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func yamlError(path string, err error) error {
	cfgErr := &Error{Path: path, Message: err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		cfgErr.Message = typeErr.Errors[0]
	}
	var line int
	if n, _ := fmt.Sscanf(cfgErr.Message, "yaml: line %d:", &line); n == 1 {
		cfgErr.Line = line
	} else if n, _ := fmt.Sscanf(cfgErr.Message, "line %d:", &line); n == 1 {
		cfgErr.Line = line
	}
	return cfgErr
}

// toDocument converts a Config to a generic document.
func toDocument(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromDocument decodes a merged document into a Config.
func fromDocument(doc map[string]any) (*Config, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return cfg, nil
}

// FindLocalConfig returns the first local config file in dir, or "".
func FindLocalConfig(dir string) string {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindGlobalConfig returns the global config file, or "".
func FindGlobalConfig() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range GlobalConfigFileNames {
		path := filepath.Join(configDir, GlobalConfigDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
