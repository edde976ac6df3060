package driver

import (
	"context"
	"fmt"

	"ember/internal/diag"
	"ember/internal/project"
	"ember/internal/source"
	"ember/internal/trace"
)

// Options configures one Diagnose call. The parser front-end, VFS, and
// package manager are external collaborators (spec §1/§6) — Options takes
// an already-parsed ast.File per input, not a file path, since turning
// source text into an AST is outside this module's scope.
type Options struct {
	// Interner is the string interner every input's symbols were interned
	// against. Required whenever inputs came from a real parse: a parser
	// front-end interns identifiers as it builds each ast.File, and HIR
	// construction has to resolve those same Symbol values, so Diagnose
	// must reuse that exact Interner rather than minting its own — a fresh
	// interner would assign unrelated IDs to the same numeric values,
	// silently aliasing distinct identifiers. Nil creates a fresh one,
	// which is only correct when every input's AST was built against it
	// (as in a test fixture).
	Interner *source.Interner

	MaxDiagnostics int
	EnableTimings  bool
	EnableCache    bool
	CacheApp       string // XDG cache subdirectory name; defaults to "ember"
}

// Result is one Diagnose call's full output: every file's pipeline result,
// plus the merged diagnostics across all of them in one sorted bag so a CLI
// command only has to walk a single list.
type Result struct {
	Files []*FileResult
	Bag   *diag.Bag
}

// Diagnose runs the full analysis pipeline over inputs, optionally timing
// each file and consulting a persistent disk cache keyed by content hash.
// Files are analyzed one after another, and the diagnostics from every
// file are merged into one Bag (sorted by file, span, and severity).
func Diagnose(ctx context.Context, inputs []FileInput, metas []project.ModuleMeta, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 512
	}
	if opts.CacheApp == "" {
		opts.CacheApp = "ember"
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "driver.Diagnose", 0)
	defer span.End("")

	var cache *DiskCache
	if opts.EnableCache {
		c, err := OpenDiskCache(opts.CacheApp)
		if err != nil {
			return nil, fmt.Errorf("driver: open disk cache: %w", err)
		}
		cache = c
	}

	interner := opts.Interner
	if interner == nil {
		interner = source.NewInterner()
	}
	pipeline := NewPipeline(interner)
	pipeline.MaxDiagnostics = opts.MaxDiagnostics

	merged := diag.NewBag(mergedCapacity(opts.MaxDiagnostics, len(inputs)))

	results := make([]*FileResult, len(inputs))
	for i, in := range inputs {
		timer := NewTimer()
		fileIdx := timer.Begin("file:" + in.Path)

		var meta *project.ModuleMeta
		if i < len(metas) {
			meta = &metas[i]
		}

		var cached bool
		if cache != nil && meta != nil && IsSHA256(meta.ContentHash) {
			var payload DiskPayload
			if ok, err := cache.Get(meta.ContentHash, &payload); err == nil && ok && !payload.Broken {
				cached = true
			}
		}

		runIdx := timer.Begin("pipeline")
		fr := pipeline.RunFile(ctx, in)
		timer.End(runIdx, fmt.Sprintf("cached=%v", cached))
		results[i] = fr

		timer.End(fileIdx, "")
		merged.Merge(fr.Diags)

		if opts.EnableTimings {
			report := timer.Report()
			appendTimingDiagnostic(merged, timingPayload{
				Kind:    "file",
				Path:    in.Path,
				TotalMS: report.TotalMS,
				Phases:  report.Phases,
			})
		}

		if cache != nil && meta != nil && IsSHA256(meta.ContentHash) {
			payload := moduleToDiskPayload(meta, fr.Diags.HasErrors(), project.Digest{})
			_ = cache.Put(meta.ContentHash, payload)
		}
	}

	merged.Sort()
	return &Result{Files: results, Bag: merged}, nil
}

// mergedCapacity sizes the merged bag generously enough to hold every
// file's diagnostics without reallocation, capped below uint16's range so
// a large file set never trips diag.NewBag's overflow panic.
func mergedCapacity(perFile, fileCount int) int {
	if fileCount < 1 {
		fileCount = 1
	}
	capacity := perFile * fileCount
	const maxBagCapacity = 60000
	if capacity > maxBagCapacity || capacity < 1 {
		return maxBagCapacity
	}
	return capacity
}
