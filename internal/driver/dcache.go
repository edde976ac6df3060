package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/project"
	"ember/internal/source"
)

// diskCacheSchemaVersion is bumped whenever DiskPayload's shape changes, so
// a cache built by a previous binary version is detected and discarded
// instead of decoded into the wrong fields.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists module analysis results across runs, keyed by a
// project.Digest. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the on-disk shape of one cached module: its metadata plus
// whether the last run left it broken. It carries no exports, MIR, or LIR
// yet — those artifacts aren't stable across a type-context rebuild, since
// every TyID in them is only meaningful against the Context that minted it,
// so caching them needs a serializable type representation this module
// doesn't have. What's cached is exactly enough to skip re-hashing and
// re-parsing a file that hasn't changed.
type DiskPayload struct {
	Schema uint16

	Name            string
	Path            string
	Dir             string
	Kind            uint8
	HasModulePragma bool

	ImportPaths []string

	FilePaths  []string
	FileHashes []project.Digest

	ContentHash    project.Digest
	ModuleHash     project.Digest
	DependencyHash project.Digest

	Broken bool
}

// OpenDiskCache initializes and returns a disk cache at the standard
// per-user cache location (XDG_CACHE_HOME, or ~/.cache as a fallback).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "mods", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache, via a temp file
// renamed into place so a reader never observes a partial write.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. ok is false if
// no entry exists for key yet.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (ok bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if decErr := msgpack.NewDecoder(f).Decode(out); decErr != nil {
		return false, decErr
	}
	return true, nil
}

// DropAll invalidates the entire cache — useful after a schema change, or
// a --no-cache run that shouldn't trust anything it finds on disk.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := fmt.Sprintf("%s.old-%s", c.dir, time.Now().Format("20060102150405"))
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// IsSHA256 performs a basic sanity check that the digest isn't the zero
// value — not a proof of correctness, just a guard against a forgotten
// Combine() call somewhere upstream.
func IsSHA256(d project.Digest) bool {
	var zero project.Digest
	return d != zero
}

// moduleToDiskPayload converts a ModuleMeta plus the caller's broken/
// dependency-hash bookkeeping into the payload DiskCache.Put stores.
func moduleToDiskPayload(meta *project.ModuleMeta, broken bool, depHash project.Digest) *DiskPayload {
	if meta == nil {
		return nil
	}

	payload := &DiskPayload{
		Schema:          diskCacheSchemaVersion,
		Name:            meta.Name,
		Path:            meta.Path,
		Dir:             meta.Dir,
		Kind:            uint8(meta.Kind),
		HasModulePragma: meta.HasModulePragma,
		ContentHash:     meta.ContentHash,
		ModuleHash:      meta.ModuleHash,
		DependencyHash:  depHash,
		Broken:          broken,
	}

	payload.ImportPaths = make([]string, len(meta.Imports))
	for i, imp := range meta.Imports {
		payload.ImportPaths[i] = imp.Path
	}

	payload.FilePaths = make([]string, len(meta.Files))
	payload.FileHashes = make([]project.Digest, len(meta.Files))
	for i, f := range meta.Files {
		payload.FilePaths[i] = f.Path
		payload.FileHashes[i] = f.Hash
	}

	return payload
}

// diskPayloadToModule reconstructs a ModuleMeta from a cached payload.
// Spans aren't cached (they're only meaningful against a live FileSet), so
// every restored Span is the zero value.
func diskPayloadToModule(payload *DiskPayload) *project.ModuleMeta {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}

	meta := &project.ModuleMeta{
		Name:            payload.Name,
		Path:            payload.Path,
		Dir:             payload.Dir,
		Kind:            project.ModuleKind(payload.Kind),
		HasModulePragma: payload.HasModulePragma,
		ContentHash:     payload.ContentHash,
		ModuleHash:      payload.ModuleHash,
	}

	meta.Imports = make([]project.ImportMeta, len(payload.ImportPaths))
	for i, path := range payload.ImportPaths {
		meta.Imports[i] = project.ImportMeta{Path: path, Span: source.Span{}}
	}

	meta.Files = make([]project.ModuleFileMeta, len(payload.FilePaths))
	for i := range payload.FilePaths {
		meta.Files[i] = project.ModuleFileMeta{
			Path: payload.FilePaths[i],
			Hash: payload.FileHashes[i],
			Span: source.Span{},
		}
	}

	return meta
}
