package driver

import (
	"testing"

	"ember/internal/project"
)

func testDigest(b byte) project.Digest {
	var d project.Digest
	d[0] = b
	return d
}

func TestDiskCachePutGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := &DiskCache{dir: dir}

	key := testDigest(7)
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Name:        "example",
		Path:        "example",
		ImportPaths: []string{"core/io"},
		FilePaths:   []string{"example.em"},
		FileHashes:  []project.Digest{testDigest(1)},
		ContentHash: testDigest(2),
		ModuleHash:  testDigest(3),
	}

	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out DiskPayload
	ok, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Put")
	}
	if out.Name != "example" || out.ContentHash != payload.ContentHash {
		t.Fatalf("round-tripped payload mismatch: %+v", out)
	}
}

func TestDiskCacheGetMissReturnsFalse(t *testing.T) {
	c := &DiskCache{dir: t.TempDir()}
	var out DiskPayload
	ok, err := c.Get(testDigest(9), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss for a key that was never Put")
	}
}

func TestIsSHA256RejectsZeroDigest(t *testing.T) {
	var zero project.Digest
	if IsSHA256(zero) {
		t.Fatal("expected the zero digest to fail the sanity check")
	}
	if !IsSHA256(testDigest(1)) {
		t.Fatal("expected a non-zero digest to pass")
	}
}

func TestModuleToDiskPayloadRoundTrips(t *testing.T) {
	meta := &project.ModuleMeta{
		Name:        "example",
		Path:        "example",
		Dir:         "example",
		Kind:        project.ModuleKindModule,
		ContentHash: testDigest(4),
		ModuleHash:  testDigest(5),
		Imports:     []project.ImportMeta{{Path: "core/io"}},
		Files:       []project.ModuleFileMeta{{Path: "example.em", Hash: testDigest(6)}},
	}

	payload := moduleToDiskPayload(meta, true, testDigest(8))
	if payload.Broken != true || payload.DependencyHash != testDigest(8) {
		t.Fatalf("expected broken/dependency-hash to carry through, got %+v", payload)
	}

	back := diskPayloadToModule(payload)
	if back.Name != meta.Name || back.ModuleHash != meta.ModuleHash {
		t.Fatalf("round-tripped meta mismatch: %+v", back)
	}
	if len(back.Imports) != 1 || back.Imports[0].Path != "core/io" {
		t.Fatalf("expected imports to round-trip, got %+v", back.Imports)
	}
}

func TestDiskPayloadToModuleRejectsWrongSchema(t *testing.T) {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion + 1}
	if diskPayloadToModule(payload) != nil {
		t.Fatal("expected a schema mismatch to be rejected rather than silently accepted")
	}
}
