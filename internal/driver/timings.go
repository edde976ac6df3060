package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/source"
)

// timingPayload is the serialized shape of one pipeline run's phase
// breakdown, carried inside a DriverTimings diagnostic's note so a
// --timings run rides the same diagnostic stream as every other pass
// instead of a second output channel.
type timingPayload struct {
	Kind    string        `json:"kind"`
	Path    string        `json:"path,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// appendTimingDiagnostic emits payload as a SevInfo/DriverTimings
// diagnostic into bag. If bag is already at capacity, it grows a one-off
// overflow bag just large enough to hold this single entry and merges it
// in — a timings report is never something a capacity limit should
// silently drop.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}

	msg := formatSummary(payload)

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.DriverTimings,
		Message:  msg,
		Primary:  source.Span{},
		Notes: []diag.Note{
			{Span: source.Span{}, Msg: string(data)},
		},
	}

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}

// formatSummary builds the "timings (<kind>): phase Xms (note) • phase Yms
// • total Zms — path" line that appendTimingDiagnostic stores as the
// diagnostic message.
func formatSummary(payload timingPayload) string {
	var summary strings.Builder
	for _, phase := range payload.Phases {
		if phase.Name == "" {
			continue
		}
		if summary.Len() > 0 {
			summary.WriteString(" • ")
		}
		summary.WriteString(fmt.Sprintf("%s %.2fms", phase.Name, phase.DurationMS))
		if phase.Note != "" {
			summary.WriteString(fmt.Sprintf(" (%s)", phase.Note))
		}
	}
	total := fmt.Sprintf("total %.2fms", payload.TotalMS)
	if summary.Len() > 0 {
		summary.WriteString(" • ")
	}
	summary.WriteString(total)
	msg := fmt.Sprintf("timings (%s): %s", payload.Kind, summary.String())
	if payload.Path != "" {
		msg = fmt.Sprintf("%s — %s", msg, payload.Path)
	}
	return msg
}
