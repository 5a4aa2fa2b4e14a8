// Package config loads the vab configuration.
//
// Values come from several layers, highest priority first:
//
//  1. Command-line flags
//  2. Environment variables (VAB_*)
//  3. Local config file (.vabrc.yaml, .vabrc.yml or .vabrc.json in the working directory)
//  4. Global config file (~/.config/vab/config.yaml), or the file named by --config
//  5. Defaults
//
// Every leaf value records the layer it came from in Config.Sources, keyed by
// its dotted path (for example "network.retry").
//
// JSON files may carry comments and trailing commas. Each file is checked
// against an embedded JSON Schema before it is merged.
package config
