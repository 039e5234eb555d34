package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"affiliatedesk/internal/database"
	"affiliatedesk/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// useSQLite points the configuration at a fresh database file.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "desk.db"))
	t.Setenv("VALKEY_SENT_SET", "false")
}

func TestTierCmd(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"1000", "New"},
		{"1001", "Micro"},
		{"100001", "Macro"},
		{"1000001", "Mega"},
	}
	for _, tt := range tests {
		out, err := run(t, "tier", tt.arg)
		if err != nil {
			t.Fatalf("tier %s: %v", tt.arg, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Errorf("tier %s = %q, want %q", tt.arg, strings.TrimSpace(out), tt.want)
		}
	}

	if _, err := run(t, "tier", "many"); err == nil {
		t.Error("expected an error for a non-numeric count")
	}
}

func TestLinkCmd(t *testing.T) {
	out, err := run(t, "link", "--phone", "081234567890", "--message", "Hi {name}!", "--name", "Ayu Sari")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if want := "https://wa.me/6281234567890?text=Hi%20Ayu!\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, err := run(t, "link", "--message", "x"); err == nil {
		t.Error("expected an error without --phone")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	useSQLite(t)
	dir := t.TempDir()

	in := filepath.Join(dir, "in.json")
	data, err := json.Marshal(database.SeedData())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(in, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "import", "--in", in)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 2 affiliates, 2 products") {
		t.Errorf("import output = %q", out)
	}

	exported := filepath.Join(dir, "out.json")
	if _, err := run(t, "export", "--out", exported); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(snap.Affiliates) != 2 || len(snap.Samples) != 2 {
		t.Errorf("exported %d affiliates, %d samples", len(snap.Affiliates), len(snap.Samples))
	}
}

func TestMigrateCmd(t *testing.T) {
	useSQLite(t)
	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "sqlite schema is up to date") {
		t.Errorf("output = %q", out)
	}

	t.Setenv("STORE_BACKEND", "memory")
	out, err = run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate memory: %v", err)
	}
	if !strings.Contains(out, "has no schema") {
		t.Errorf("output = %q", out)
	}
}
