package translate

import (
	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// TranslateFunction turns one annotated helper function into a
// device-callable functor method. Helpers see the same extracted members
// the workunits see, so they translate with the shared table.
func TranslateFunction(fn *pyast.FunctionDef, members *Members, alias string, parents Parents) (cppast.MethodDecl, error) {
	v := newVisitor(members, alias, parents, roleFunction)

	method := cppast.MethodDecl{
		Name:  fn.Name,
		Ret:   cppast.Type{Name: "void"},
		Attrs: []string{"KOKKOS_FUNCTION"},
		Const: true,
	}
	if fn.Returns != nil {
		ret, err := v.annotationType(fn.Returns)
		if err != nil {
			return cppast.MethodDecl{}, err
		}
		method.Ret = ret
	}

	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		paramType, err := v.annotationType(p.Annotation)
		if err != nil {
			return cppast.MethodDecl{}, err
		}
		if isRecordType(v, paramType) {
			paramType.Const = true
			paramType.Ref = true
		}
		method.Params = append(method.Params, cppast.ParamDecl{Name: p.Name, Type: paramType})
		v.declare(p.Name)
	}

	body, err := v.body(fn.Body)
	if err != nil {
		return cppast.MethodDecl{}, err
	}
	method.Body = body
	return method, nil
}
