package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [path|name]",
	Short: "Scaffold a new ember project",
	Long: `Scaffold a new ember project by writing a project manifest (ember.toml),
an entry point (main.em, or lib.em with --lib) and the entry point's AST
fixture (<entry>.ast.json). If [path|name] is omitted, the current
directory is used; a non-existing name creates a directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().Bool("lib", false, "scaffold a [lib] target instead of a [[bin]] target")
}

func runNew(cmd *cobra.Command, args []string) error {
	asLib, err := cmd.Flags().GetBool("lib")
	if err != nil {
		return err
	}

	target, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "ember-project"
	}

	manifestPath := filepath.Join(target, "ember.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	entryName := "main.em"
	if asLib {
		entryName = "lib.em"
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name, entryName, asLib)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	entryPath := filepath.Join(target, entryName)
	createdEntry := false
	if _, err := os.Stat(entryPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(entryPath, []byte(defaultEntrySource()), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", entryName, err)
		}
		createdEntry = true
	}

	fixturePath := astFixturePath(entryPath)
	createdFixture := false
	if _, err := os.Stat(fixturePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(fixturePath, []byte(defaultEntryFixture()), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(fixturePath), err)
		}
		createdFixture = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ember project in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - ember.toml\n")
	printCreatedLine(cmd, entryName, createdEntry)
	printCreatedLine(cmd, filepath.Base(fixturePath), createdFixture)
	return nil
}

func printCreatedLine(cmd *cobra.Command, name string, created bool) {
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s (existing)\n", name)
	}
}

func resolveTargetDir(args []string) (string, error) {
	if len(args) == 0 || args[0] == "." {
		return os.Getwd()
	}
	arg := args[0]
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, arg), nil
}

// buildDefaultManifest returns a minimal ember.toml for a fresh project,
// declaring either a [[bin]] or a [lib] target depending on asLib.
func buildDefaultManifest(name, entryName string, asLib bool) string {
	var target string
	if asLib {
		target = fmt.Sprintf("[lib]\npath = \"%s\"\n", entryName)
	} else {
		target = fmt.Sprintf("[[bin]]\nname = \"%s\"\npath = \"%s\"\n", name, entryName)
	}
	return fmt.Sprintf(`[package]
name = "%s"
version = "0.1.0"
edition = "2024"

%s`, name, target)
}

func defaultEntrySource() string {
	return `fn main() {
    1
}
`
}

// defaultEntryFixture is the JSON-serialized ast.File standing in for
// main.em's parse until a parser front-end exists: one function item, one
// block body, one integer literal tail expression. Symbol IDs are opaque
// placeholders here — a real parser interns names itself, so this fixture's
// "Name": 1 is only meaningful to an interner that starts empty and assigns
// 1 to the first identifier it sees.
func defaultEntryFixture() string {
	return `{
  "Items": [
    {
      "Kind": 0,
      "Span": {"File": 0, "Start": 0, "End": 0},
      "Name": 1,
      "Function": {
        "Generics": null,
        "Params": null,
        "Ret": 0,
        "Body": 1
      }
    }
  ],
  "Exprs": [
    {
      "Kind": 2,
      "Span": {"File": 0, "Start": 0, "End": 0},
      "Block": {"Stmts": null, "Tail": 2}
    },
    {
      "Kind": 0,
      "Span": {"File": 0, "Start": 0, "End": 0},
      "Literal": {"Kind": 0, "Int": 1}
    }
  ],
  "Stmts": [],
  "Patterns": [],
  "Types": [],
  "TopLevel": [1]
}
`
}
