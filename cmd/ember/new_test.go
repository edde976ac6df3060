package main

import (
	"strings"
	"testing"
)

func TestBuildDefaultManifestBin(t *testing.T) {
	out := buildDefaultManifest("demo", "main.em", false)
	if !strings.Contains(out, `name = "demo"`) || !strings.Contains(out, `[[bin]]`) || !strings.Contains(out, `path = "main.em"`) {
		t.Fatalf("unexpected bin manifest:\n%s", out)
	}
}

func TestBuildDefaultManifestLib(t *testing.T) {
	out := buildDefaultManifest("demo-lib", "lib.em", true)
	if !strings.Contains(out, `[lib]`) || !strings.Contains(out, `path = "lib.em"`) || strings.Contains(out, `[[bin]]`) {
		t.Fatalf("unexpected lib manifest:\n%s", out)
	}
}

func TestAstFixturePathDerivesSidecarName(t *testing.T) {
	got := astFixturePath("/tmp/proj/main.em")
	want := "/tmp/proj/main.ast.json"
	if got != want {
		t.Fatalf("astFixturePath = %q, want %q", got, want)
	}
}
