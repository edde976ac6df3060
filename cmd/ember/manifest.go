package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"ember/internal/project"
)

const noManifestMessage = "no ember.toml found; run `ember new`, or analyze a single file with `ember diag <entry>`"

// packageConfig is the top-level ember.toml shape: [package] metadata plus
// the bin/lib targets spec §6's "persisted formats" note names.
type packageConfig struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`
	Bin []binTarget `toml:"bin"`
	Lib *libTarget  `toml:"lib"`
}

type binTarget struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type libTarget struct {
	Path string `toml:"path"`
}

type manifest struct {
	Path   string
	Root   string
	Config packageConfig
}

func loadManifest(startDir string) (*manifest, bool, error) {
	manifestPath, ok, err := project.FindEmberToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}

	var cfg packageConfig
	meta, err := toml.DecodeFile(manifestPath, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, true, fmt.Errorf("%s: missing [package].name", manifestPath)
	}
	if len(cfg.Bin) == 0 && cfg.Lib == nil {
		return nil, true, fmt.Errorf("%s: manifest declares neither [[bin]] nor [lib]", manifestPath)
	}

	return &manifest{Path: manifestPath, Root: dirOf(manifestPath), Config: cfg}, true, nil
}

// entryPath resolves the source file a build/run/check command should
// analyze: the first [[bin]] target, or [lib]'s path if there is no binary.
func (m *manifest) entryPath() (string, error) {
	if len(m.Config.Bin) > 0 {
		p := strings.TrimSpace(m.Config.Bin[0].Path)
		if p == "" {
			return "", fmt.Errorf("%s: [[bin]] entry %q has no path", m.Path, m.Config.Bin[0].Name)
		}
		return p, nil
	}
	if m.Config.Lib != nil {
		p := strings.TrimSpace(m.Config.Lib.Path)
		if p == "" {
			return "", fmt.Errorf("%s: [lib] has no path", m.Path)
		}
		return p, nil
	}
	return "", fmt.Errorf("%s: manifest declares neither [[bin]] nor [lib]", m.Path)
}
