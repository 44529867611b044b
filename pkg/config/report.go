package config

import (
	"errors"
	"fmt"
	"strings"
)

// Severity classifies which stage of the loading pipeline produced a
// report entry.
type Severity string

const (
	// SeverityStructural marks document-shape errors: unparseable YAML,
	// unknown keys, wrong node kinds, duplicate collection names caught
	// during building.
	SeverityStructural Severity = "structural"

	// SeverityValidation marks invariant violations found by the
	// validator.
	SeverityValidation Severity = "validation"

	// SeverityResolution marks filesystem and derivation failures found
	// by the resolver.
	SeverityResolution Severity = "resolution"
)

// Entry is one diagnostic in a report: which stage failed, where, which
// rule, and why.
type Entry struct {
	Severity Severity
	Field    string
	Rule     string
	Message  string
}

// String renders the entry in a single operator-readable line.
func (e Entry) String() string {
	if e.Rule == "" {
		return fmt.Sprintf("%s: %s: %s", e.Severity, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", e.Severity, e.Field, e.Message, e.Rule)
}

// Report is the flattened list of diagnostics from one load attempt. A
// report is built from whichever pipeline stage failed; entries keep the
// order the stage produced them in, which is deterministic for a given
// document.
type Report struct {
	Entries []Entry
}

// NewReport classifies an error from Load, Validate, Resolve or
// LoadAndValidate into a Report. Errors that are none of the pipeline's
// error types yield a single structural entry carrying the raw message.
// A nil error yields an empty report.
func NewReport(err error) *Report {
	report := &Report{}
	if err == nil {
		return report
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		report.Entries = append(report.Entries, Entry{
			Severity: SeverityStructural,
			Field:    schemaErr.Field,
			Message:  schemaErr.Message,
		})
		return report
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			report.Entries = append(report.Entries, Entry{
				Severity: SeverityValidation,
				Field:    fe.Field,
				Rule:     fe.Rule,
				Message:  fe.Message,
			})
		}
		return report
	}

	var resolutionErr *ResolutionError
	if errors.As(err, &resolutionErr) {
		for _, fe := range resolutionErr.Errors {
			report.Entries = append(report.Entries, Entry{
				Severity: SeverityResolution,
				Field:    fe.Field,
				Rule:     fe.Rule,
				Message:  fe.Message,
			})
		}
		return report
	}

	report.Entries = append(report.Entries, Entry{
		Severity: SeverityStructural,
		Field:    "config",
		Message:  err.Error(),
	})
	return report
}

// Empty reports whether the report carries no diagnostics.
func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}

// String renders the report one entry per line.
func (r *Report) String() string {
	if r.Empty() {
		return "configuration OK"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d configuration problems:\n", len(r.Entries))
	for _, entry := range r.Entries {
		fmt.Fprintf(&sb, "  %s\n", entry.String())
	}
	return strings.TrimRight(sb.String(), "\n")
}
