package diag

import "pkc/internal/source"

// Reporter is the minimal contract phases use to emit diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores every reported diagnostic in a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r *BagReporter) Report(d Diagnostic) {
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Error is a convenience for reporting a SevError diagnostic.
func Error(r Reporter, code Code, primary source.Span, msg string) {
	r.Report(NewError(code, primary, msg))
}
