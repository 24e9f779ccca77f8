// Package driver compiles many kernel files, fanning independent
// compilations out over a worker pool and caching translated artifacts
// on disk.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pkc/internal/diag"
	"pkc/internal/observ"
	"pkc/internal/parser"
	"pkc/internal/source"
	"pkc/internal/translate"
)

// ErrParse marks a compilation stopped before translation; the bag
// carries the lex and syntax diagnostics.
var ErrParse = errors.New("parsing failed")

// Options configure one Driver.
type Options struct {
	// Jobs bounds concurrent compilations; zero means one.
	Jobs int
	// MaxDiagnostics caps each compilation's report.
	MaxDiagnostics int
	// Cache, when non-nil, short-circuits unchanged sources.
	Cache *DiskCache
	// Timer, when non-nil, records per-file compilation phases.
	Timer *observ.Timer
}

type Driver struct {
	opts Options
}

func New(opts Options) *Driver {
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = translate.DefaultMaxDiagnostics
	}
	return &Driver{opts: opts}
}

// Result is the outcome of one file's compilation. Exactly one of
// Artifacts or Err is set; Bag may carry diagnostics either way.
type Result struct {
	Path      string
	Entity    string
	Artifacts *translate.Artifacts
	// Files resolves the spans in Bag.
	Files  *source.FileSet
	Bag    *diag.Bag
	Err    error
	Cached bool
}

// Failed reports whether the compilation produced no artifacts.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Compile translates every path, at most Jobs at a time. Results come
// back in input order; a failed file never stops its siblings.
func (d *Driver) Compile(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			if d.opts.Timer != nil {
				d.opts.Timer.Time("compile", path, func() {
					results[i] = d.compileOne(path)
				})
			} else {
				results[i] = d.compileOne(path)
			}
			return nil
		})
	}
	// Workers only report through results.
	_ = g.Wait()
	return results
}

func (d *Driver) compileOne(path string) Result {
	result := Result{Path: path}

	fs := source.NewFileSet()
	result.Files = fs
	fileID, err := fs.Load(path)
	if err != nil {
		result.Err = err
		return result
	}
	file := fs.Get(fileID)

	if d.opts.Cache != nil {
		var payload cachePayload
		if ok, err := d.opts.Cache.Get(cacheKey(file.Hash), &payload); err == nil && ok {
			result.Entity = payload.Entity
			result.Artifacts = &translate.Artifacts{
				Functor:  payload.Functor,
				Bindings: payload.Bindings,
			}
			result.Cached = true
			return result
		}
	}

	bag := diag.NewBag(d.opts.MaxDiagnostics)
	main, classtypes := parser.Entities(fs, fileID, &diag.BagReporter{Bag: bag})
	result.Bag = bag
	if bag.HasErrors() {
		bag.Sort()
		bag.Dedup()
		result.Err = ErrParse
		return result
	}
	if main == nil {
		result.Err = fmt.Errorf("%s: no kernel entity found", path)
		return result
	}
	result.Entity = main.Name

	tr := translate.New(main.Name, functorFileName(main.Name))
	tr.MaxDiagnostics = d.opts.MaxDiagnostics
	artifacts, tbag, err := tr.Translate(main, classtypes)
	bag.Merge(tbag)
	if err != nil {
		result.Err = err
		return result
	}
	result.Artifacts = artifacts

	if d.opts.Cache != nil {
		_ = d.opts.Cache.Put(cacheKey(file.Hash), &cachePayload{
			Schema:   cacheSchemaVersion,
			Entity:   main.Name,
			Functor:  artifacts.Functor,
			Bindings: artifacts.Bindings,
		})
	}
	return result
}

// WriteArtifacts writes the two generated files for one successful
// result into outDir.
func WriteArtifacts(outDir string, r *Result) error {
	if r.Artifacts == nil {
		return fmt.Errorf("%s: no artifacts to write", r.Path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	functorPath := filepath.Join(outDir, functorFileName(r.Entity))
	if err := os.WriteFile(functorPath, []byte(r.Artifacts.Functor), 0o644); err != nil {
		return err
	}
	bindingsPath := filepath.Join(outDir, r.Entity+"_bindings.cpp")
	return os.WriteFile(bindingsPath, []byte(r.Artifacts.BindingsSource()), 0o644)
}

func functorFileName(entity string) string {
	return entity + "_functor.hpp"
}
