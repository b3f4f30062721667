package config

import (
	"errors"
	"fmt"
)

// MaxGroupDepth bounds how many groups a parent chain may span.
const MaxGroupDepth = 32

// ErrGroupNotFound is returned when a requested option group does not exist.
var ErrGroupNotFound = errors.New("pagination config group not found")

// Source provides named option groups. A group may name its parent through
// the "group" key.
type Source interface {
	Group(name string) (map[string]any, bool)
}

// MapSource is an in-memory Source.
type MapSource map[string]map[string]any

// Group returns a copy of the named group.
func (m MapSource) Group(name string) (map[string]any, bool) {
	g, ok := m[name]
	if !ok {
		return nil, false
	}
	return Clone(g), true
}

// LoadGroup resolves the named group and its parent chain. Keys set by a
// child are never overwritten by an ancestor. The chain ends at a group
// without a parent, a missing parent, a group already visited, or after
// MaxGroupDepth groups. The returned map never contains the "group" key.
func LoadGroup(src Source, name string) (map[string]any, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}

	merged, ok := src.Group(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}
	merged = Clone(merged)

	visited := map[string]bool{name: true}
	for depth := 1; depth < MaxGroupDepth; depth++ {
		parent, ok := merged[KeyGroup].(string)
		delete(merged, KeyGroup)
		if !ok || parent == "" || visited[parent] {
			break
		}
		visited[parent] = true

		values, ok := src.Group(parent)
		if !ok {
			break
		}
		Merge(merged, values)
	}

	delete(merged, KeyGroup)
	return merged, nil
}

// Merge copies every key of src that is absent from dst into dst and returns
// dst. When both sides hold a nested map for the same key, the nested maps
// are merged by the same rule. A nil dst is allocated.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		existing, ok := dst[k]
		if !ok {
			dst[k] = cloneValue(v)
			continue
		}
		em, eok := existing.(map[string]any)
		sm, sok := v.(map[string]any)
		if eok && sok {
			dst[k] = Merge(Clone(em), sm)
		}
	}
	return dst
}

// Clone returns a deep copy of an option map. Nested maps are copied;
// other values are shared.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case map[any]any:
		// yaml.v2-style maps; normalise keys to strings.
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = cloneValue(val)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	default:
		return v
	}
}
