package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ember/internal/ast"
	"ember/internal/driver"
	"ember/internal/source"
)

func dirOf(path string) string {
	return filepath.Dir(path)
}

func cmdErrorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// astFixturePath derives the <entry>.ast.json sidecar path a source file's
// analysis is actually read from: parsing entry.em into an ast.File is a
// front-end this module does not implement (spec §1/§6), so the CLI accepts
// a pre-parsed fixture next to the source path instead.
func astFixturePath(entry string) string {
	ext := filepath.Ext(entry)
	return strings.TrimSuffix(entry, ext) + ".ast.json"
}

// loadFileInput reads the JSON-serialized AST fixture sitting beside entry
// and interns entry itself into fs, producing the FileInput driver.Diagnose
// expects. Returns a descriptive error (not a panic or a fabricated parse)
// when the fixture is missing, since there is no parser to fall back to.
func loadFileInput(fs *source.FileSet, interner *source.Interner, entry string) (driver.FileInput, error) {
	fixture := astFixturePath(entry)
	data, err := os.ReadFile(fixture)
	if err != nil {
		if os.IsNotExist(err) {
			return driver.FileInput{}, fmt.Errorf(
				"no parser front-end wired; provide %s (a JSON-serialized ast.File) alongside %s", fixture, entry)
		}
		return driver.FileInput{}, fmt.Errorf("reading %s: %w", fixture, err)
	}

	var file ast.File
	if err := json.Unmarshal(data, &file); err != nil {
		return driver.FileInput{}, fmt.Errorf("%s: invalid AST fixture: %w", fixture, err)
	}

	content, err := os.ReadFile(entry)
	if err != nil {
		if os.IsNotExist(err) {
			content = []byte{}
		} else {
			return driver.FileInput{}, fmt.Errorf("reading %s: %w", entry, err)
		}
	}

	fileID := fs.Add(entry, content, 0)
	f := fs.Get(fileID)
	fileSpan := source.Span{File: fileID, Start: 0, End: uint32(len(content))} //nolint:gosec

	file.ID = fileID
	return driver.FileInput{Path: f.Path, File: fileID, AST: &file, Span: fileSpan}, nil
}

// runDiagnose loads the AST fixture for entry and runs the analysis
// pipeline over it, honoring the shared --max-diagnostics/--timings flags.
func runDiagnose(ctx context.Context, entry string, maxDiagnostics int, timings bool) (*driver.Result, *source.FileSet, *source.Interner, error) {
	fs := source.NewFileSet()
	interner := source.NewInterner()

	input, err := loadFileInput(fs, interner, entry)
	if err != nil {
		return nil, fs, interner, err
	}

	result, err := driver.Diagnose(ctx, []driver.FileInput{input}, nil, driver.Options{
		Interner:       interner,
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  timings,
	})
	if err != nil {
		return nil, fs, interner, err
	}
	return result, fs, interner, nil
}
