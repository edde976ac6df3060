package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ember/internal/diag"
	"ember/internal/source"
)

func TestJSONEncodesDiagnosticsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("a.em", []byte("let y = 1;\n"))

	bag := diag.NewBag(4)
	d := diag.NewError(diag.TypeMismatch, source.Span{File: file, Start: 4, End: 5}, "type mismatch").
		WithNote(source.Span{File: file, Start: 0, End: 3}, "expected here")
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeNotes: true, IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", out)
	}
	got := out.Diagnostics[0]
	if got.Code != "type-mismatch" || got.Severity != "ERROR" {
		t.Fatalf("unexpected diagnostic shape: %+v", got)
	}
	if got.Location.StartLine == 0 {
		t.Fatalf("expected positions to be populated, got %+v", got.Location)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "expected here" {
		t.Fatalf("expected one note, got %+v", got.Notes)
	}
}

func TestJSONRespectsMaxTruncation(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("a.em", []byte("x\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.ResUndefined, source.Span{File: file}, "first"))
	bag.Add(diag.NewError(diag.ResUndefined, source.Span{File: file}, "second"))

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if output.Count != 1 {
		t.Fatalf("expected truncation to 1, got %d", output.Count)
	}
}
