package configsync

import (
	"bytes"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Changes describes the operations that bring the active store in line with
// the sync directory. Names within each kind are sorted.
type Changes struct {
	Create []string
	Update []string
	Delete []string

	active   Objects
	incoming Objects
}

// Diff compares the active store contents against the sync directory
// contents and returns the pending changes.
func Diff(active, incoming Objects) Changes {
	c := Changes{active: active, incoming: incoming}
	for name, data := range incoming {
		current, ok := active[name]
		if !ok {
			c.Create = append(c.Create, name)
			continue
		}
		if !bytes.Equal(current, data) {
			c.Update = append(c.Update, name)
		}
	}
	for name := range active {
		if _, ok := incoming[name]; !ok {
			c.Delete = append(c.Delete, name)
		}
	}
	sort.Strings(c.Create)
	sort.Strings(c.Update)
	sort.Strings(c.Delete)
	return c
}

// Empty reports whether there is nothing to apply.
func (c Changes) Empty() bool {
	return c.Total() == 0
}

// Total returns the number of affected objects.
func (c Changes) Total() int {
	return len(c.Create) + len(c.Update) + len(c.Delete)
}

// Unified renders a unified diff preview covering every affected object,
// creates first, then updates, then deletes.
func (c Changes) Unified() string {
	var b strings.Builder
	for _, name := range c.Create {
		writeObjectDiff(&b, name, nil, c.incoming[name])
	}
	for _, name := range c.Update {
		writeObjectDiff(&b, name, c.active[name], c.incoming[name])
	}
	for _, name := range c.Delete {
		writeObjectDiff(&b, name, c.active[name], nil)
	}
	return b.String()
}

func writeObjectDiff(b *strings.Builder, name string, from, to []byte) {
	preview := strings.TrimSpace(udiff.Unified(
		name+FileSuffix+" (active)",
		name+FileSuffix+" (sync)",
		string(from),
		string(to),
	))
	if preview == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(preview)
	b.WriteString("\n")
}
