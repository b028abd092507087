package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	env, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(env) != 0 {
		t.Fatalf("expected empty map, got %v", env)
	}
}

func TestLoadParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# site credentials\nMASON_DB_PASSWORD=\"s3cret pass\"\nexport OTHER=plain\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	env, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env[PasswordVar]; got != "s3cret pass" {
		t.Fatalf("password = %q, want %q", got, "s3cret pass")
	}
	if got := env["OTHER"]; got != "plain" {
		t.Fatalf("OTHER = %q, want %q", got, "plain")
	}
}

func TestPatchReplacesInPlace(t *testing.T) {
	content := "# keep this comment\nMASON_DB_PASSWORD=old\nOTHER=1\n"
	got := Patch(content, map[string]string{PasswordVar: "new"})

	want := "# keep this comment\nMASON_DB_PASSWORD=new\nOTHER=1\n"
	if got != want {
		t.Fatalf("Patch = %q, want %q", got, want)
	}
}

func TestPatchAppendsMissingKey(t *testing.T) {
	got := Patch("OTHER=1\n", map[string]string{PasswordVar: "pw"})
	if !strings.Contains(got, "MASON_DB_PASSWORD=pw") {
		t.Fatalf("patched content missing assignment: %q", got)
	}
	if !strings.Contains(got, "OTHER=1") {
		t.Fatalf("patched content lost existing line: %q", got)
	}
}

func TestPatchEmptyContent(t *testing.T) {
	got := Patch("", map[string]string{PasswordVar: "pw"})
	if got != "MASON_DB_PASSWORD=pw" {
		t.Fatalf("Patch = %q", got)
	}
}

func TestPatchDropsDuplicates(t *testing.T) {
	content := "MASON_DB_PASSWORD=a\nOTHER=1\nMASON_DB_PASSWORD=b\n"
	got := Patch(content, map[string]string{PasswordVar: "c"})

	if strings.Count(got, "MASON_DB_PASSWORD") != 1 {
		t.Fatalf("expected single assignment, got %q", got)
	}
	if !strings.Contains(got, "MASON_DB_PASSWORD=c") {
		t.Fatalf("expected patched value, got %q", got)
	}
}

func TestPatchSkipsEmptyValues(t *testing.T) {
	content := "MASON_DB_PASSWORD=keep\n"
	got := Patch(content, map[string]string{PasswordVar: ""})
	if got != content {
		t.Fatalf("Patch = %q, want unchanged %q", got, content)
	}
}

func TestPatchQuotesAwkwardValues(t *testing.T) {
	got := Patch("", map[string]string{PasswordVar: `pa ss"word`})
	want := `MASON_DB_PASSWORD="pa ss\"word"`
	if got != want {
		t.Fatalf("Patch = %q, want %q", got, want)
	}

	env, err := Load(writeTemp(t, got+"\n"))
	if err != nil {
		t.Fatalf("Load round trip: %v", err)
	}
	if env[PasswordVar] != `pa ss"word` {
		t.Fatalf("round trip = %q", env[PasswordVar])
	}
}

func TestPatchIgnoresExportPrefixWhenMatching(t *testing.T) {
	content := "export MASON_DB_PASSWORD=old\n"
	got := Patch(content, map[string]string{PasswordVar: "new"})
	if !strings.Contains(got, "MASON_DB_PASSWORD=new") {
		t.Fatalf("Patch = %q", got)
	}
	if strings.Contains(got, "old") {
		t.Fatalf("old value survived: %q", got)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp env: %v", err)
	}
	return path
}
