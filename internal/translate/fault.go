package translate

import (
	"fmt"

	"pkc/internal/pyast"
	"pkc/internal/source"
)

// Fault is a fatal translation error: a construct the static translator
// cannot express. Unlike symbol diagnostics, faults abort the whole
// compilation immediately with no partial artifacts.
type Fault struct {
	Span source.Span
	Msg  string
	// Workunit names the kernel being translated when the fault occurred,
	// empty otherwise.
	Workunit string
}

func (f *Fault) Error() string {
	if f.Workunit != "" {
		return fmt.Sprintf("translation of workunit %s failed: %s", f.Workunit, f.Msg)
	}
	return "translation failed: " + f.Msg
}

func faultf(n pyast.Node, format string, args ...any) *Fault {
	f := &Fault{Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		f.Span = n.Span()
	}
	return f
}
