package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[package]
name = "demo"
`)
	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if got := m.Config.Kernels.OutDir; got != "pk_cpp" {
		t.Errorf("out_dir default = %q", got)
	}
	if got := m.Config.Runtime.Space; got != "OpenMP" {
		t.Errorf("space default = %q", got)
	}
	if got := m.Config.Runtime.Precision; got != "double" {
		t.Errorf("precision default = %q", got)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "demo"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load from nested dir: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("found a manifest in an empty directory")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "[package]\n",
			wantErr: "missing [package].name",
		},
		{
			name: "unknown space",
			content: `[package]
name = "demo"
[runtime]
space = "Vulkan"
`,
			wantErr: "unknown execution space",
		},
		{
			name: "bad precision",
			content: `[package]
name = "demo"
[runtime]
precision = "half"
`,
			wantErr: "precision must be double or float",
		},
		{
			name: "bad constraint",
			content: `[package]
name = "demo"
[runtime]
kokkos = "not a constraint"
`,
			wantErr: "invalid [runtime].kokkos constraint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			_, ok, err := Load(dir)
			if !ok {
				t.Fatalf("manifest not found")
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestCheckRuntime(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[package]
name = "demo"
[runtime]
kokkos = ">= 3.7"
`)
	m, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.CheckRuntime("4.1.0"); err != nil {
		t.Errorf("4.1.0 rejected: %v", err)
	}
	if err := m.CheckRuntime("3.2.0"); err == nil {
		t.Errorf("3.2.0 accepted against >= 3.7")
	}
	if err := m.CheckRuntime("not-a-version"); err == nil {
		t.Errorf("garbage version accepted")
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[package]
name = "demo"
[kernels]
sources = ["kernels/*.py", "extra.py"]
`)
	if err := os.MkdirAll(filepath.Join(dir, "kernels"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"kernels/b.py", "kernels/a.py", "extra.py"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	files, err := m.SourceFiles()
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v, want 3 entries", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("files not sorted: %v", files)
		}
	}
}
