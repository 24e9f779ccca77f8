package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goodKernel = `import pykokkos as pk

@pk.workunit
def scale(i: int, a: pk.View1D[pk.double], s: pk.double):
    a[i] = a[i] * s
`

const brokenKernel = `import pykokkos as pk

@pk.workunit
def bad(i: int, a: pk.View1D[pk.double]):
    a[i] = ghost
`

func writeKernel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write kernel: %v", err)
	}
	return path
}

func TestCompileMany(t *testing.T) {
	dir := t.TempDir()
	good := writeKernel(t, dir, "good.py", goodKernel)
	broken := writeKernel(t, dir, "broken.py", brokenKernel)

	d := New(Options{Jobs: 2})
	results := d.Compile(context.Background(), []string{good, broken})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	if results[0].Failed() {
		t.Fatalf("good kernel failed: %v", results[0].Err)
	}
	if results[0].Entity != "good" {
		t.Errorf("entity = %q, want %q", results[0].Entity, "good")
	}
	if !strings.Contains(results[0].Artifacts.Functor, "struct pk_functor_good {") {
		t.Errorf("functor missing record:\n%s", results[0].Artifacts.Functor)
	}

	if !results[1].Failed() {
		t.Fatalf("broken kernel did not fail")
	}
	if results[1].Artifacts != nil {
		t.Errorf("broken kernel produced artifacts")
	}
	if results[1].Bag == nil || !results[1].Bag.HasErrors() {
		t.Errorf("broken kernel has no diagnostics")
	}
}

func TestCompileMissingFile(t *testing.T) {
	d := New(Options{})
	results := d.Compile(context.Background(), []string{filepath.Join(t.TempDir(), "nope.py")})
	if len(results) != 1 || !results[0].Failed() {
		t.Fatalf("missing file did not fail: %+v", results)
	}
}

func TestCompileNoEntity(t *testing.T) {
	dir := t.TempDir()
	path := writeKernel(t, dir, "plain.py", "x = 1\n")
	d := New(Options{})
	results := d.Compile(context.Background(), []string{path})
	if !results[0].Failed() {
		t.Fatalf("entity-less file did not fail")
	}
	if !strings.Contains(results[0].Err.Error(), "no kernel entity") {
		t.Errorf("err = %v", results[0].Err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	key := cacheKey([32]byte{1, 2, 3})
	var miss cachePayload
	if ok, err := cache.Get(key, &miss); err != nil || ok {
		t.Fatalf("cold cache hit: ok=%v err=%v", ok, err)
	}

	in := cachePayload{
		Schema:   cacheSchemaVersion,
		Entity:   "good",
		Functor:  "// functor",
		Bindings: []string{"// header", "// module"},
	}
	if err := cache.Put(key, &in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out cachePayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if out.Entity != in.Entity || out.Functor != in.Functor || len(out.Bindings) != 2 {
		t.Errorf("payload mismatch: %+v", out)
	}
}

func TestCompileUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeKernel(t, dir, "good.py", goodKernel)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	d := New(Options{Cache: cache})

	first := d.Compile(context.Background(), []string{path})[0]
	if first.Failed() || first.Cached {
		t.Fatalf("first run: failed=%v cached=%v", first.Failed(), first.Cached)
	}

	second := d.Compile(context.Background(), []string{path})[0]
	if second.Failed() || !second.Cached {
		t.Fatalf("second run: failed=%v cached=%v", second.Failed(), second.Cached)
	}
	if second.Artifacts.Functor != first.Artifacts.Functor {
		t.Errorf("cached functor differs from translated functor")
	}

	// Editing the file must invalidate the entry.
	writeKernel(t, dir, "good.py", goodKernel+"\n")
	third := d.Compile(context.Background(), []string{path})[0]
	if third.Cached {
		t.Errorf("stale cache hit after source change")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := writeKernel(t, dir, "good.py", goodKernel)
	d := New(Options{})
	result := d.Compile(context.Background(), []string{path})[0]
	if result.Failed() {
		t.Fatalf("compile: %v", result.Err)
	}

	outDir := filepath.Join(dir, "out")
	if err := WriteArtifacts(outDir, &result); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	functor, err := os.ReadFile(filepath.Join(outDir, "good_functor.hpp"))
	if err != nil {
		t.Fatalf("read functor: %v", err)
	}
	if string(functor) != result.Artifacts.Functor {
		t.Errorf("functor file differs from artifact")
	}
	bindings, err := os.ReadFile(filepath.Join(outDir, "good_bindings.cpp"))
	if err != nil {
		t.Fatalf("read bindings: %v", err)
	}
	if !strings.Contains(string(bindings), "#include \"good_functor.hpp\"") {
		t.Errorf("bindings do not include the functor file:\n%s", bindings)
	}

	var errResult Result
	if err := WriteArtifacts(outDir, &errResult); err == nil {
		t.Errorf("WriteArtifacts accepted a result without artifacts")
	}
}

func TestCompileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	path := writeKernel(t, dir, "good.py", goodKernel)

	results := New(Options{}).Compile(ctx, []string{path})
	if !results[0].Failed() || !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("canceled context result: %+v", results[0])
	}
}
