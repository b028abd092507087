package profiles

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	got := Names()
	want := []string{"minimal", "standard"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestLoadStandard(t *testing.T) {
	profile, err := Load("standard")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if profile.Name != "standard" {
		t.Fatalf("name = %q", profile.Name)
	}
	if len(profile.Modules) == 0 {
		t.Fatal("standard profile has no modules")
	}
	objects, err := profile.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	if _, ok := objects["system.theme"]; !ok {
		t.Fatalf("system.theme missing from default config: %v", objects)
	}
}

func TestLoadMinimalHasNoExtraConfig(t *testing.T) {
	profile, err := Load("minimal")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(profile.Modules) != 0 {
		t.Fatalf("minimal modules = %v", profile.Modules)
	}
	objects, err := profile.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	if len(objects) != 0 {
		t.Fatalf("minimal default config = %v", objects)
	}
}

func TestLoadUnknownListsAvailable(t *testing.T) {
	_, err := Load("enterprise")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	for _, name := range Names() {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not list profile %q", err, name)
		}
	}
}

func TestFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	content := "profile: standard\nmodules:\n  - content\n"
	if err := os.WriteFile(filepath.Join(dir, "core.extension.yml"), []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	profile, err := FromConfigDir(dir)
	if err != nil {
		t.Fatalf("FromConfigDir: %v", err)
	}
	if profile != "standard" {
		t.Fatalf("profile = %q", profile)
	}
}

func TestFromConfigDirErrors(t *testing.T) {
	if _, err := FromConfigDir(t.TempDir()); err == nil {
		t.Fatal("expected error for missing core.extension.yml")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "core.extension.yml"), []byte("modules: []\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := FromConfigDir(dir); err == nil {
		t.Fatal("expected error for missing profile field")
	}
}
