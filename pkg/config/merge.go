package config

import (
	"sort"
	"strings"
)

// mergeLayer deep-merges src into dst. Maps merge key by key; every other
// value, lists included, replaces the previous one. Each replaced leaf
// records source under its dotted key.
func mergeLayer(dst, src map[string]any, prefix, source string, sources map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sm, ok := v.(map[string]any); ok {
			dm, ok := dst[k].(map[string]any)
			if !ok {
				dm = make(map[string]any, len(sm))
				dst[k] = dm
			}
			mergeLayer(dm, sm, key, source, sources)
			continue
		}
		dst[k] = v
		dropSources(sources, key)
		sources[key] = source
	}
}

// recordSources marks every leaf of doc as coming from source.
func recordSources(doc map[string]any, prefix, source string, sources map[string]string) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			recordSources(m, key, source, sources)
			continue
		}
		sources[key] = source
	}
}

// dropSources forgets sources recorded below key, which a scalar or list
// has just replaced.
func dropSources(sources map[string]string, key string) {
	prefix := key + "."
	for k := range sources {
		if strings.HasPrefix(k, prefix) {
			delete(sources, k)
		}
	}
}

// setPath stores value at a dotted key, creating intermediate maps.
func setPath(doc map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	m := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// SortedSources returns the source keys in order.
func (c *Config) SortedSources() []string {
	keys := make([]string, 0, len(c.Sources))
	for k := range c.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
