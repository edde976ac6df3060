package diag

import "ember/internal/source"

// Note provides auxiliary context for a diagnostic message, e.g. pointing at
// the prior declaration of a name that was redefined.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single issue along with optional notes and help text.
//
// Severity ordering is Error > Warning > Info (spec §6). Suggestions is only
// populated for undefined-name errors per the edit-distance policy of §4.B.
type Diagnostic struct {
	Severity    Severity
	Code        Code
	Message     string
	Primary     source.Span
	Notes       []Note
	Suggestions []string
	Help        string
}

// New constructs a diagnostic with no notes or suggestions.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is a shortcut for SevError diagnostics.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote appends a secondary span/message to the diagnostic.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithSuggestions attaches candidate names for an undefined-name error.
func (d Diagnostic) WithSuggestions(names []string) Diagnostic {
	d.Suggestions = names
	return d
}

// WithHelp attaches optional free-form help text rendered after the message.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
