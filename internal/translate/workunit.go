package translate

import (
	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// WorkunitResult is one translated kernel: the call-operator overload,
// its dispatch tag, and the inferred parallel pattern.
type WorkunitResult struct {
	Name    string
	Op      DispatchKind
	AccType Scalar
	TagName string
	Method  cppast.MethodDecl
}

// TranslateWorkunit turns one annotated kernel into an operator()
// overload selected by a nested tag struct. The dispatch category comes
// from the signature: a trailing accumulator means reduce, an accumulator
// plus a final-pass flag means scan.
func TranslateWorkunit(fn *pyast.FunctionDef, members *Members, alias string, parents Parents, method bool) (WorkunitResult, error) {
	sig := analyzeSignature(fn, alias, method)
	if sig.Index == nil {
		return WorkunitResult{}, workunitFault(fn.Name, faultf(fn, "workunit %s has no thread index parameter", fn.Name))
	}

	result := WorkunitResult{
		Name:    fn.Name,
		Op:      sig.Kind,
		AccType: sig.AccType,
		TagName: fn.Name + "_tag",
	}

	op := cppast.MethodDecl{
		Name:  "operator()",
		Ret:   cppast.Type{Name: "void"},
		Attrs: []string{"KOKKOS_FUNCTION"},
		Const: true,
		Params: []cppast.ParamDecl{
			{Type: cppast.Type{Name: result.TagName, Const: true, Ref: true}},
			{Name: sig.Index.Name, Type: cppast.Type{Name: "int", Const: true}},
		},
	}

	v := newVisitor(members, alias, parents, roleWorkunit)
	v.declare(sig.Index.Name)
	if sig.Acc != nil {
		op.Params = append(op.Params, cppast.ParamDecl{
			Name: sig.Acc.Name,
			Type: cppast.Type{Name: sig.AccType.String(), Ref: true},
		})
		v.declare(sig.Acc.Name)
	}
	if sig.Last != nil {
		op.Params = append(op.Params, cppast.ParamDecl{
			Name: sig.Last.Name,
			Type: cppast.Type{Name: "bool", Const: true},
		})
		v.declare(sig.Last.Name)
	}
	// Data parameters were hoisted into functor members during
	// extraction; the body refers to them by name.
	for _, p := range sig.DataParams {
		v.declare(p.Name)
	}

	body, err := v.body(fn.Body)
	if err != nil {
		return WorkunitResult{}, workunitFault(fn.Name, err)
	}
	op.Body = body
	result.Method = op
	return result, nil
}

// workunitFault stamps the owning workunit name onto a translation fault.
func workunitFault(name string, err error) error {
	if f, ok := err.(*Fault); ok && f.Workunit == "" {
		f.Workunit = name
	}
	return err
}
