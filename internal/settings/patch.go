package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	// toml is used for syntax validation only; updates use line-based editing
	// to preserve comments and formatting.
	toml "github.com/pelletier/go-toml"

	"github.com/masonry-cms/mason/internal/messages"
)

type sectionBlock struct {
	header string
	lines  []string
}

type document struct {
	preamble []string
	order    []string
	sections map[string]*sectionBlock
}

// Patch updates key = value entries inside named sections of settings TOML
// content. Keys take the form "section.key". Comments, unknown keys, and line
// order are preserved; missing keys are appended to their section and missing
// sections are appended to the document.
func Patch(content string, updates map[string]any) (string, error) {
	if _, err := toml.LoadBytes([]byte(content)); err != nil {
		return "", fmt.Errorf(messages.SettingsNotTOMLFmt, FileName, err)
	}
	doc := parseDocument(content)

	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		section, name, found := strings.Cut(key, ".")
		if !found || section == "" || name == "" {
			return "", fmt.Errorf(messages.SettingsInvalidKeyFmt, key)
		}
		doc.setKey(section, name, renderValue(updates[key]))
	}
	return doc.render(), nil
}

// Render produces settings.toml content for a site by patching its values
// into the commented template.
func Render(s *Site) (string, error) {
	return Patch(Template, map[string]any{
		"site.name":       s.Site.Name,
		"site.mail":       s.Site.Mail,
		"site.uuid":       s.Site.UUID,
		"site.langcode":   s.Site.Langcode,
		"database.driver": s.Database.Driver,
		"database.host":   s.Database.Host,
		"database.port":   s.Database.Port,
		"database.name":   s.Database.Name,
		"database.user":   s.Database.User,
		"database.prefix": s.Database.Prefix,
		"config.sync":     s.SyncDir(),
	})
}

// renderValue converts a Go value into TOML source text.
func renderValue(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func parseDocument(content string) *document {
	doc := &document{sections: map[string]*sectionBlock{}}
	var current *sectionBlock
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]") {
			name := strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
			current = &sectionBlock{header: line}
			doc.order = append(doc.order, name)
			doc.sections[name] = current
			continue
		}
		if current == nil {
			doc.preamble = append(doc.preamble, line)
			continue
		}
		current.lines = append(current.lines, line)
	}
	return doc
}

// setKey replaces the first assignment (or commented-out assignment) of key
// inside section, keeping any inline comment. Absent keys append to the
// section; absent sections append to the document.
func (d *document) setKey(section string, key string, rendered string) {
	block, ok := d.sections[section]
	if !ok {
		block = &sectionBlock{header: "[" + section + "]"}
		d.order = append(d.order, section)
		d.sections[section] = block
	}
	for i, line := range block.lines {
		if !lineAssignsKey(line, key) {
			continue
		}
		block.lines[i] = key + " = " + rendered + inlineComment(line)
		return
	}
	insertAt := len(block.lines)
	for insertAt > 0 && strings.TrimSpace(block.lines[insertAt-1]) == "" {
		insertAt--
	}
	block.lines = append(block.lines[:insertAt], append([]string{key + " = " + rendered}, block.lines[insertAt:]...)...)
}

// lineAssignsKey reports whether line assigns key, possibly commented out.
func lineAssignsKey(line string, key string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	rest, found := strings.CutPrefix(trimmed, key)
	if !found {
		return false
	}
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "=")
}

// inlineComment returns the trailing comment of an assignment line, with a
// leading space, or the empty string.
func inlineComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		// A fully commented-out line has no value to keep a comment from.
		return ""
	}
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case '#':
			if !inString {
				return " " + strings.TrimRight(line[i:], " \t")
			}
		}
	}
	return ""
}

func (d *document) render() string {
	var out []string
	out = append(out, d.preamble...)
	for _, name := range d.order {
		block := d.sections[name]
		out = append(out, block.header)
		out = append(out, block.lines...)
	}
	rendered := strings.Join(out, "\n")
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	return rendered
}
