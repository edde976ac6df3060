package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ember/internal/diag"
	"ember/internal/source"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// visualWidthUpTo computes the visual column width of s up to byteCol
// (1-based, in bytes), accounting for tabs and wide Unicode runes. The
// prefix is NFC-normalized before measuring: source using decomposed
// combining marks (an accented letter as base rune + combining diacritic)
// would otherwise count as two columns wide instead of one, misaligning the
// caret from what a terminal actually renders.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}

	end := int(byteCol - 1)
	if end > len(s) {
		end = len(s)
	}
	prefix := norm.NFC.String(s[:end])

	visualPos := 0
	for _, r := range prefix {
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
	}

	return visualPos
}

// Pretty renders bag's diagnostics as human-readable text, one per
// paragraph: a "path:line:col: SEV code: message" header, the source line
// with a caret/tilde underline beneath the primary span, then any notes.
// Expects bag.Sort() to have already run so output is stably ordered.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		infoColor      = color.New(color.FgCyan, color.Bold)
		pathColor      = color.New(color.FgWhite, color.Bold)
		codeColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context, err := safecast.Conv[uint32](opts.Context)
	if err != nil {
		panic(fmt.Errorf("context overflow: %w", err))
	}
	if context == 0 {
		context = 1
	}

	formatPath := func(f *source.File) string {
		switch opts.PathMode {
		case PathModeAbsolute:
			return f.FormatPath("absolute", "")
		case PathModeRelative:
			return f.FormatPath("relative", fs.BaseDir())
		case PathModeBasename:
			return f.FormatPath("basename", "")
		case PathModeAuto:
			return f.FormatPath("auto", "")
		default:
			return f.Path
		}
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}

		lineColStart, lineColEnd := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		displayPath := formatPath(f)

		sevStr := d.Severity.String()
		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(sevStr)
		case diag.SevWarning:
			sevColored = warningColor.Sprint(sevStr)
		case diag.SevInfo:
			sevColored = infoColor.Sprint(sevStr)
		default:
			sevColored = sevStr
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", //nolint:errcheck
			pathColor.Sprint(displayPath),
			lineColStart.Line,
			lineColStart.Col,
			sevColored,
			codeColor.Sprint(d.Code.String()),
			d.Message,
		)

		totalLines, err := safecast.Conv[uint32](len(f.LineIdx))
		if err != nil {
			panic(fmt.Errorf("total lines overflow: %w", err))
		}
		totalLines++
		if len(f.LineIdx) == 0 && len(f.Content) > 0 {
			totalLines = 1
		}

		startLine := lineColStart.Line
		if startLine > context {
			startLine = lineColStart.Line - context
		} else {
			startLine = 1
		}
		endLine := min(lineColStart.Line+context, totalLines)

		if startLine > 1 {
			fmt.Fprintln(w, "...") //nolint:errcheck
		}

		const tabWidth = 8
		lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)

		for lineNum := startLine; lineNum <= endLine; lineNum++ {
			lineText := f.GetLine(lineNum)

			lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
			gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(lineNumStr))
			gutterLen := lineNumWidth + 3

			io.WriteString(w, gutter)   //nolint:errcheck
			io.WriteString(w, lineText) //nolint:errcheck
			io.WriteString(w, "\n")     //nolint:errcheck

			if lineNum == lineColStart.Line {
				startCol := lineColStart.Col
				endCol := lineColEnd.Col

				if lineColEnd.Line > lineColStart.Line {
					lenLineText, err := safecast.Conv[uint32](len(lineText))
					if err != nil {
						panic(fmt.Errorf("len line text overflow: %w", err))
					}
					endCol = lenLineText + 1
				}

				visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
				visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

				var underline strings.Builder
				for range gutterLen {
					underline.WriteByte(' ')
				}
				for range visualStart {
					underline.WriteByte(' ')
				}

				spanLen := visualEnd - visualStart
				if spanLen <= 0 {
					underline.WriteByte('^')
				} else {
					for i := range spanLen {
						if i == spanLen-1 {
							underline.WriteByte('^')
						} else {
							underline.WriteByte('~')
						}
					}
				}

				fmt.Fprintln(w, underlineColor.Sprint(underline.String())) //nolint:errcheck
			}
		}

		if endLine < totalLines {
			fmt.Fprintln(w, "...") //nolint:errcheck
		}

		if opts.ShowNotes && len(d.Notes) > 0 {
			for _, note := range d.Notes {
				if d.Code == diag.DriverTimings && printTimingNote(w, note.Msg, infoColor) {
					continue
				}

				nf := fs.Get(note.Span.File)
				notePath := formatPath(nf)
				noteStart, _ := fs.Resolve(note.Span)
				fmt.Fprintf( //nolint:errcheck
					w,
					"  %s: %s:%d:%d: %s\n",
					infoColor.Sprint("note"),
					pathColor.Sprint(notePath),
					noteStart.Line,
					noteStart.Col,
					note.Msg,
				)
			}
		}

		if len(d.Suggestions) > 0 {
			fmt.Fprintf( //nolint:errcheck
				w,
				"  %s: did you mean %s?\n",
				infoColor.Sprint("help"),
				strings.Join(d.Suggestions, ", "),
			)
		}

		if d.Help != "" {
			fmt.Fprintf(w, "  %s: %s\n", infoColor.Sprint("help"), d.Help) //nolint:errcheck
		}
	}
}

// timingNotePayload mirrors internal/driver's timingPayload — diagfmt has no
// dependency on internal/driver, so it decodes the same JSON shape
// independently rather than importing a package outside the diagnostics
// pipeline's natural dependency direction (driver depends on diag;
// diagfmt does not import driver).
type timingNotePayload struct {
	Kind    string  `json:"kind"`
	Path    string  `json:"path"`
	TotalMS float64 `json:"total_ms"`
	Phases  []struct {
		Name       string  `json:"name"`
		DurationMS float64 `json:"duration_ms"`
		Note       string  `json:"note"`
	} `json:"phases"`
}

func printTimingNote(w io.Writer, payload string, infoColor *color.Color) bool {
	var data timingNotePayload
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return false
	}
	kind := data.Kind
	if kind == "" {
		kind = "pipeline"
	}
	fmt.Fprintf( //nolint:errcheck
		w,
		"  %s: timings (%s) total %.2f ms",
		infoColor.Sprint("note"),
		kind,
		data.TotalMS,
	)
	if data.Path != "" {
		fmt.Fprintf(w, " — %s", data.Path) //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck
	for _, phase := range data.Phases {
		if phase.Name == "" {
			continue
		}
		fmt.Fprintf(w, "      %-20s %7.2f ms", phase.Name, phase.DurationMS) //nolint:errcheck
		if phase.Note != "" {
			fmt.Fprintf(w, "  // %s", phase.Note) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
	}
	return true
}
