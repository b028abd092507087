// Package settings models the nested site settings tree and the settings.toml
// file that persists it.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
)

// Tree is a nested settings structure addressed by dotted keys. A key like
// "database.driver" names the "driver" entry inside the "database" subtree.
type Tree map[string]any

// splitKey validates a dotted key and returns its segments.
func splitKey(key string) ([]string, error) {
	segments := strings.Split(key, ".")
	for _, segment := range segments {
		if segment == "" || strings.ContainsAny(segment, " \t=") {
			return nil, fmt.Errorf(messages.SettingsInvalidKeyFmt, key)
		}
	}
	return segments, nil
}

// Set stores value at the dotted key, creating intermediate subtrees as
// needed. The last write wins: a scalar replaces an existing subtree and a
// subtree replaces an existing scalar.
func (t Tree) Set(key string, value any) error {
	segments, err := splitKey(key)
	if err != nil {
		return err
	}
	current := t
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(Tree)
		if !ok {
			child = Tree{}
			current[segment] = child
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}

// Get returns the value at the dotted key.
func (t Tree) Get(key string) (any, bool) {
	segments, err := splitKey(key)
	if err != nil {
		return nil, false
	}
	current := t
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(Tree)
		if !ok {
			return nil, false
		}
		current = child
	}
	value, ok := current[segments[len(segments)-1]]
	return value, ok
}

// GetString returns the string value at the dotted key.
func (t Tree) GetString(key string) (string, bool) {
	value, ok := t.Get(key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// GetInt returns the integer value at the dotted key.
func (t Tree) GetInt(key string) (int64, bool) {
	value, ok := t.Get(key)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// GetBool returns the boolean value at the dotted key.
func (t Tree) GetBool(key string) (bool, bool) {
	value, ok := t.Get(key)
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Merge deep-merges other into t. Entries in other win; two subtrees merge
// recursively, anything else is replaced wholesale.
func (t Tree) Merge(other Tree) {
	for key, value := range other {
		incoming, incomingIsTree := value.(Tree)
		existing, existingIsTree := t[key].(Tree)
		if incomingIsTree && existingIsTree {
			existing.Merge(incoming)
			continue
		}
		if incomingIsTree {
			clone := Tree{}
			clone.Merge(incoming)
			t[key] = clone
			continue
		}
		t[key] = value
	}
}

// Flatten returns the tree as a sorted dotted-key to rendered-value map,
// used for display and warnings.
func (t Tree) Flatten() map[string]string {
	out := map[string]string{}
	t.flattenInto("", out)
	return out
}

func (t Tree) flattenInto(prefix string, out map[string]string) {
	for key, value := range t {
		dotted := key
		if prefix != "" {
			dotted = prefix + "." + key
		}
		if child, ok := value.(Tree); ok {
			child.flattenInto(dotted, out)
			continue
		}
		out[dotted] = fmt.Sprint(value)
	}
}

// Keys returns the sorted dotted keys of all leaf values.
func (t Tree) Keys() []string {
	flat := t.Flatten()
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseAssignment splits a key=value operand into a dotted key and a typed
// value. Values parse as bool or integer when they look like one; everything
// else stays a string.
func ParseAssignment(operand string) (string, any, error) {
	key, raw, found := strings.Cut(operand, "=")
	if !found || key == "" {
		return "", nil, fmt.Errorf(messages.OperandInvalidAssignmentFmt, operand)
	}
	if _, err := splitKey(key); err != nil {
		return "", nil, fmt.Errorf(messages.OperandInvalidAssignmentFmt, operand)
	}
	return key, coerceValue(raw), nil
}

// coerceValue converts raw to the most specific of bool, int64, or string.
func coerceValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
