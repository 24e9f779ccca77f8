package translate

import (
	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// TranslateClasstype turns one annotated class into a record definition:
// its constructor fields become data members, __init__ becomes a
// constructor with a member-initializer list, and every other method
// becomes a device-callable member function.
func TranslateClasstype(cls *pyast.ClassDef, members *Members, alias string, parents Parents) (cppast.RecordDecl, error) {
	record := cppast.RecordDecl{Name: cls.Name, Definition: true}

	for _, stmt := range cls.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			continue
		}
		if fn.Name == "__init__" {
			ctor, fields, err := translateCtor(cls, fn, members, alias, parents)
			if err != nil {
				return cppast.RecordDecl{}, err
			}
			record.Fields = append(record.Fields, fields...)
			record.Methods = append(record.Methods, ctor)
			continue
		}
		method, err := translateClassMethod(cls, fn, members, alias, parents)
		if err != nil {
			return cppast.RecordDecl{}, err
		}
		record.Methods = append(record.Methods, method)
	}
	return record, nil
}

// translateCtor builds the constructor and discovers the data members
// from annotated self assignments. A `self.x: T = expr` line yields both
// a field and an initializer; anything else in __init__ is rejected.
func translateCtor(cls *pyast.ClassDef, init *pyast.FunctionDef, members *Members, alias string, parents Parents) (cppast.MethodDecl, []cppast.FieldDecl, error) {
	v := newVisitor(members, alias, parents, roleClasstype)
	v.class = cls.Name

	ctor := cppast.MethodDecl{
		Name:  cls.Name,
		Ctor:  true,
		Attrs: []string{"KOKKOS_FUNCTION"},
		Body:  &cppast.Block{},
	}
	params, err := classtypeParams(v, init)
	if err != nil {
		return cppast.MethodDecl{}, nil, err
	}
	ctor.Params = params

	var fields []cppast.FieldDecl
	for _, stmt := range init.Body {
		ann, ok := stmt.(*pyast.AnnAssign)
		if !ok || !isSelfTarget(ann.Target) {
			if _, pass := stmt.(*pyast.Pass); pass {
				continue
			}
			return cppast.MethodDecl{}, nil, faultf(stmt, "constructor of %s may only declare annotated fields", cls.Name)
		}
		name, _ := targetName(ann.Target)
		fieldType, err := v.annotationType(ann.Annotation)
		if err != nil {
			return cppast.MethodDecl{}, nil, err
		}
		fields = append(fields, cppast.FieldDecl{Name: name, Type: fieldType})

		if ann.Value == nil {
			continue
		}
		value, err := v.expr(ann.Value)
		if err != nil {
			return cppast.MethodDecl{}, nil, err
		}
		ctor.Inits = append(ctor.Inits, cppast.CtorInit{Member: name, Value: value})
	}
	return ctor, fields, nil
}

func translateClassMethod(cls *pyast.ClassDef, fn *pyast.FunctionDef, members *Members, alias string, parents Parents) (cppast.MethodDecl, error) {
	v := newVisitor(members, alias, parents, roleClasstype)
	v.class = cls.Name

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
	params, err := classtypeParams(v, fn)
	if err != nil {
		return cppast.MethodDecl{}, err
	}
	method.Params = params

	body, err := v.body(fn.Body)
	if err != nil {
		return cppast.MethodDecl{}, err
	}
	method.Body = body
	return method, nil
}

// classtypeParams translates the non-self parameter list, declaring each
// name in the visitor scope.
func classtypeParams(v *visitor, fn *pyast.FunctionDef) ([]cppast.ParamDecl, error) {
	var out []cppast.ParamDecl
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		paramType, err := v.annotationType(p.Annotation)
		if err != nil {
			return nil, err
		}
		if isRecordType(v, paramType) {
			paramType.Const = true
			paramType.Ref = true
		}
		out = append(out, cppast.ParamDecl{Name: p.Name, Type: paramType})
		v.declare(p.Name)
	}
	return out, nil
}

// isRecordType reports whether the rendered type names a translated
// classtype, which is passed by const reference instead of by value.
func isRecordType(v *visitor, t cppast.Type) bool {
	for _, cls := range v.members.Classtypes {
		if cls.Name == t.Name {
			return true
		}
	}
	return false
}
