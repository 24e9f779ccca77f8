package translate

import (
	"pkc/internal/pyast"
)

// DispatchKind names the call-operator overload a workunit needs, which
// is also the parallel pattern the runtime dispatches it with.
type DispatchKind uint8

const (
	DispatchFor DispatchKind = iota
	DispatchReduce
	DispatchScan
)

func (k DispatchKind) String() string {
	switch k {
	case DispatchFor:
		return "for"
	case DispatchReduce:
		return "reduce"
	case DispatchScan:
		return "scan"
	}
	return "unknown"
}

// Signature is the analyzed shape of a workunit parameter list. The
// dispatch category is inferred from the accumulator: none means a plain
// parallel for, a trailing accumulator means a reduction, an accumulator
// followed by a bool final-pass flag means a scan.
type Signature struct {
	Kind       DispatchKind
	Index      *pyast.Param
	Acc        *pyast.Param
	AccType    Scalar
	Last       *pyast.Param
	DataParams []pyast.Param
}

// analyzeSignature classifies the parameters of fn. When method is true
// the leading self receiver is skipped first.
func analyzeSignature(fn *pyast.FunctionDef, alias string, method bool) Signature {
	params := fn.Params
	if method && len(params) > 0 && params[0].Name == "self" {
		params = params[1:]
	}

	sig := Signature{Kind: DispatchFor}
	if len(params) == 0 {
		return sig
	}
	sig.Index = &params[0]
	rest := params[1:]

	for i := 0; i < len(rest); i++ {
		p := rest[i]
		if accType, ok := accFromAnnotation(p.Annotation, alias); ok && sig.Acc == nil {
			sig.Acc = &rest[i]
			sig.AccType = accType
			sig.Kind = DispatchReduce
			// A bool directly after the accumulator upgrades reduce to scan.
			if i+1 < len(rest) {
				if s, ok := scalarFromAnnotation(rest[i+1].Annotation, alias); ok && s == ScalarBool {
					sig.Last = &rest[i+1]
					sig.Kind = DispatchScan
					i++
				}
			}
			continue
		}
		sig.DataParams = append(sig.DataParams, p)
	}
	return sig
}
