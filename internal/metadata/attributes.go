package metadata

import (
	"sort"
	"strconv"
	"strings"
)

// Attributes maps property names to raw string values. Keys are case-sensitive.
// Values are never mutated after construction; methods that change the set
// return a new map.
type Attributes map[string]string

// String returns the value for key.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Int parses the value for key as a base-10 integer.
func (a Attributes) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// List splits the value for key on commas, trimming each item and dropping
// empty ones. The second result is false when key is absent.
func (a Attributes) List(key string) ([]string, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	return SplitList(v), true
}

// Without returns a copy of the attributes with keys removed.
func (a Attributes) Without(keys ...string) Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SplitList splits a comma-separated value into trimmed, non-empty items.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
