package settings

import (
	"fmt"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
)

// FieldType classifies the kind of value an override key accepts.
type FieldType string

const (
	// FieldBool accepts true or false.
	FieldBool FieldType = "bool"
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
	// FieldFreetext accepts arbitrary string input.
	FieldFreetext FieldType = "freetext"
	// FieldPositiveInt accepts a positive integer.
	FieldPositiveInt FieldType = "positive_int"
)

// FieldDef describes one known override key.
type FieldDef struct {
	Key     string
	Type    FieldType
	Options []string
}

// fields is the registry of override keys the installer understands. Keys
// outside this list are carried into the settings tree verbatim with a
// warning; sites may consume their own keys.
var fields = []FieldDef{
	{Key: "site.name", Type: FieldFreetext},
	{Key: "site.mail", Type: FieldFreetext},
	{Key: "site.uuid", Type: FieldFreetext},
	{Key: "site.langcode", Type: FieldFreetext},
	{Key: "database.driver", Type: FieldEnum, Options: []string{"mysql", "pgsql", "sqlite"}},
	{Key: "database.host", Type: FieldFreetext},
	{Key: "database.port", Type: FieldPositiveInt},
	{Key: "database.name", Type: FieldFreetext},
	{Key: "database.user", Type: FieldFreetext},
	{Key: "database.prefix", Type: FieldFreetext},
	{Key: "config.sync", Type: FieldFreetext},
	{Key: "account.name", Type: FieldFreetext},
	{Key: "account.mail", Type: FieldFreetext},
}

var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]FieldDef {
	index := make(map[string]FieldDef, len(fields))
	for _, def := range fields {
		index[def.Key] = def
	}
	return index
}

// Fields returns the ordered registry of known override keys.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	return out
}

// LookupField returns the definition for a dotted key.
func LookupField(key string) (FieldDef, bool) {
	def, ok := fieldIndex[key]
	return def, ok
}

// ValidateOverride checks a typed override value against the registry. It
// returns false when the key is unknown; unknown keys are not an error.
func ValidateOverride(key string, value any) (bool, error) {
	def, ok := fieldIndex[key]
	if !ok {
		return false, nil
	}
	switch def.Type {
	case FieldBool:
		if _, ok := value.(bool); !ok {
			return true, fmt.Errorf(messages.SettingsBoolRequiredFmt, key)
		}
	case FieldPositiveInt:
		n, ok := value.(int64)
		if !ok || n < 1 {
			return true, fmt.Errorf(messages.SettingsPositiveIntRequiredFmt, key)
		}
	case FieldEnum:
		s, _ := value.(string)
		for _, option := range def.Options {
			if s == option {
				return true, nil
			}
		}
		return true, fmt.Errorf(messages.SettingsEnumRequiredFmt, key, strings.Join(def.Options, ", "))
	case FieldFreetext:
		// Any rendering accepted.
	}
	return true, nil
}
