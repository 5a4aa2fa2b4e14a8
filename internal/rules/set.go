package rules

// Set is an ordered list of rules.
type Set []Rule

// Match reports whether url satisfies any rule in the set.
// An empty set never matches.
func (s Set) Match(url string) bool {
	for _, r := range s {
		if r.Match(url) {
			return true
		}
	}
	return false
}

// Match reports whether url satisfies any rule in set.
func Match(url string, set Set) bool {
	return set.Match(url)
}

// ParseAll parses plain strings into a Set, stopping at the first error.
func ParseAll(raw ...string) (Set, error) {
	set := make(Set, 0, len(raw))
	for _, s := range raw {
		r, err := Parse(s)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}
	return set, nil
}

// Strings returns the configured form of every rule.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.String()
	}
	return out
}
