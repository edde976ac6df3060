// Package diag defines the core diagnostic model shared by every semantic
// analysis phase: name resolution, type inference, lifetime inference, and
// borrow checking.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the resolver, solver, and borrow checker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// Errors are accumulated, not thrown: every phase returns a diagnostic list
// plus a best-effort result, and downstream phases tolerate the Error
// sentinels (unresolved resolution, Ty::Error, Lifetime::Error) this implies.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error), ordered Error >
//     Warning > Info for sorting (severity.go).
//   - Code – compact numeric identifier with stable string form (codes.go),
//     grouped into categories that mirror the error taxonomy: Resolution,
//     Type, Const, Lifetime, Borrow, MIR, Driver.
//   - Message – short, actionable text.
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Suggestions – candidate names for an undefined-name error, produced by
//     the edit-distance policy in internal/symbols.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage: construct a
// ReportBuilder via NewReportBuilder (or ReportError/ReportWarning/ReportInfo)
// and chain WithNote/WithSuggestions before calling Emit. diag.BagReporter
// aggregates diagnostics into a Bag, which supports sorting, deduplication,
// and filtering.
//
// # Consumers
//
//   - internal/diagfmt renders Diagnostics for a terminal.
//   - internal/driver collects bags per file/function and merges them into
//     the final diagnostic list handed to the CLI.
package diag
