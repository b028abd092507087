package settings

import (
	"reflect"
	"testing"
)

func TestTreeSetCreatesNestedSubtrees(t *testing.T) {
	tree := Tree{}
	if err := tree.Set("database.driver", "mysql"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tree.Set("database.port", int64(3306)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := tree.GetString("database.driver")
	if !ok || got != "mysql" {
		t.Fatalf("GetString(database.driver) = %q, %v", got, ok)
	}
	port, ok := tree.GetInt("database.port")
	if !ok || port != 3306 {
		t.Fatalf("GetInt(database.port) = %d, %v", port, ok)
	}
}

func TestTreeSetLastWriteWins(t *testing.T) {
	tree := Tree{}
	if err := tree.Set("site.name", "First"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tree.Set("site.name", "Second"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := tree.GetString("site.name")
	if got != "Second" {
		t.Fatalf("site.name = %q, want %q", got, "Second")
	}
}

func TestTreeSetScalarReplacesSubtree(t *testing.T) {
	tree := Tree{}
	if err := tree.Set("database.host", "db1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tree.Set("database", "unused"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := tree.GetString("database")
	if !ok || got != "unused" {
		t.Fatalf("database = %q, %v", got, ok)
	}
	if _, ok := tree.Get("database.host"); ok {
		t.Fatal("database.host survived scalar overwrite")
	}
}

func TestTreeSetSubtreeReplacesScalar(t *testing.T) {
	tree := Tree{}
	if err := tree.Set("database", "scalar"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tree.Set("database.driver", "sqlite"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := tree.GetString("database.driver")
	if !ok || got != "sqlite" {
		t.Fatalf("database.driver = %q, %v", got, ok)
	}
}

func TestTreeSetRejectsMalformedKeys(t *testing.T) {
	tree := Tree{}
	for _, key := range []string{"", ".", "a..b", "a. b", "a=b.c", "trailing."} {
		if err := tree.Set(key, "x"); err == nil {
			t.Fatalf("Set(%q) accepted a malformed key", key)
		}
	}
}

func TestTreeMergeDeepAndLastWriteWins(t *testing.T) {
	base := Tree{}
	_ = base.Set("site.name", "Base")
	_ = base.Set("database.driver", "mysql")
	_ = base.Set("database.host", "localhost")

	overrides := Tree{}
	_ = overrides.Set("database.host", "db.internal")
	_ = overrides.Set("account.name", "admin")

	base.Merge(overrides)

	want := map[string]string{
		"site.name":       "Base",
		"database.driver": "mysql",
		"database.host":   "db.internal",
		"account.name":    "admin",
	}
	if got := base.Flatten(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten() = %v, want %v", got, want)
	}
}

func TestTreeMergeClonesIncomingSubtrees(t *testing.T) {
	incoming := Tree{}
	_ = incoming.Set("database.host", "one")

	base := Tree{}
	base.Merge(incoming)
	_ = base.Set("database.host", "two")

	got, _ := incoming.GetString("database.host")
	if got != "one" {
		t.Fatalf("merge aliased the incoming subtree: %q", got)
	}
}

func TestParseAssignment(t *testing.T) {
	cases := []struct {
		in      string
		key     string
		value   any
		wantErr bool
	}{
		{in: "site.name=Intranet", key: "site.name", value: "Intranet"},
		{in: "database.port=5433", key: "database.port", value: int64(5433)},
		{in: "features.search=true", key: "features.search", value: true},
		{in: "features.cache=false", key: "features.cache", value: false},
		{in: "site.slogan=", key: "site.slogan", value: ""},
		{in: "site.name=a=b", key: "site.name", value: "a=b"},
		{in: "noequals", wantErr: true},
		{in: "=value", wantErr: true},
		{in: "bad key=1", wantErr: true},
	}
	for _, tc := range cases {
		key, value, err := ParseAssignment(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAssignment(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAssignment(%q): %v", tc.in, err)
		}
		if key != tc.key || value != tc.value {
			t.Fatalf("ParseAssignment(%q) = %q, %#v; want %q, %#v", tc.in, key, value, tc.key, tc.value)
		}
	}
}

func TestTreeKeysSorted(t *testing.T) {
	tree := Tree{}
	_ = tree.Set("b.z", 1)
	_ = tree.Set("a.y", 2)
	_ = tree.Set("a.x", 3)
	got := tree.Keys()
	want := []string{"a.x", "a.y", "b.z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}
