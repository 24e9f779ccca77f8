// Package translate is the static translation pipeline: member extraction,
// symbol validation, AST-to-IR translation of classtypes, device functions,
// workunits, and workload drivers, functor assembly, and binding
// generation. One Translator instance performs one compilation and holds
// no state across compilations.
package translate

import (
	"strings"

	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// Scalar enumerates the typed scalars of the kernel subset. The set is
// sealed: anything outside it is a membership error, never a dynamic
// fallback.
type Scalar uint8

const (
	ScalarInvalid Scalar = iota
	ScalarInt
	ScalarInt32
	ScalarInt64
	ScalarUInt32
	ScalarUInt64
	ScalarFloat
	ScalarDouble
	ScalarBool
)

var scalarNames = map[string]Scalar{
	"int":     ScalarInt,
	"int32":   ScalarInt32,
	"int64":   ScalarInt64,
	"uint32":  ScalarUInt32,
	"uint64":  ScalarUInt64,
	"float":   ScalarFloat,
	"double":  ScalarDouble,
	"real":    ScalarDouble,
	"bool":    ScalarBool,
}

var scalarCpp = map[Scalar]string{
	ScalarInt:    "int",
	ScalarInt32:  "int32_t",
	ScalarInt64:  "int64_t",
	ScalarUInt32: "uint32_t",
	ScalarUInt64: "uint64_t",
	ScalarFloat:  "float",
	ScalarDouble: "double",
	ScalarBool:   "bool",
}

func (s Scalar) Cpp() cppast.Type {
	if name, ok := scalarCpp[s]; ok {
		return cppast.Type{Name: name}
	}
	return cppast.Type{Name: "void"}
}

func (s Scalar) String() string {
	if name, ok := scalarCpp[s]; ok {
		return name
	}
	return "invalid"
}

// ViewType describes a parallel view member: rank plus element scalar.
type ViewType struct {
	Rank int
	Elem Scalar
}

// Cpp renders the Kokkos view type, one * per rank.
func (v ViewType) Cpp() cppast.Type {
	return cppast.Type{Name: "Kokkos::View<" + v.Elem.String() + " " + strings.Repeat("*", v.Rank) + ">"}
}

// scalarFromAnnotation recognizes `int`, `bool`, `float`, and every
// `alias.<scalar>` spelling.
func scalarFromAnnotation(e pyast.Expr, alias string) (Scalar, bool) {
	switch e := e.(type) {
	case *pyast.Name:
		switch e.ID {
		case "int":
			return ScalarInt, true
		case "bool":
			return ScalarBool, true
		case "float":
			// The host float is double precision.
			return ScalarDouble, true
		}
	case *pyast.Attribute:
		base, ok := e.Value.(*pyast.Name)
		if !ok || base.ID != alias {
			return ScalarInvalid, false
		}
		if s, ok := scalarNames[e.Attr]; ok {
			return s, true
		}
	}
	return ScalarInvalid, false
}

// viewFromAnnotation recognizes `alias.View1D[elem]`, `alias.View2D[elem]`,
// and `alias.View3D[elem]`.
func viewFromAnnotation(e pyast.Expr, alias string) (ViewType, bool) {
	sub, ok := e.(*pyast.Subscript)
	if !ok || len(sub.Index) != 1 {
		return ViewType{}, false
	}
	attr, ok := sub.Value.(*pyast.Attribute)
	if !ok {
		return ViewType{}, false
	}
	base, ok := attr.Value.(*pyast.Name)
	if !ok || base.ID != alias {
		return ViewType{}, false
	}

	var rank int
	switch attr.Attr {
	case "View1D":
		rank = 1
	case "View2D":
		rank = 2
	case "View3D":
		rank = 3
	default:
		return ViewType{}, false
	}
	elem, ok := scalarFromAnnotation(sub.Index[0], alias)
	if !ok {
		return ViewType{}, false
	}
	return ViewType{Rank: rank, Elem: elem}, true
}

// accFromAnnotation recognizes the accumulator annotation `alias.Acc[elem]`.
func accFromAnnotation(e pyast.Expr, alias string) (Scalar, bool) {
	sub, ok := e.(*pyast.Subscript)
	if !ok || len(sub.Index) != 1 {
		return ScalarInvalid, false
	}
	attr, ok := sub.Value.(*pyast.Attribute)
	if !ok || attr.Attr != "Acc" {
		return ScalarInvalid, false
	}
	base, ok := attr.Value.(*pyast.Name)
	if !ok || base.ID != alias {
		return ScalarInvalid, false
	}
	return scalarFromAnnotation(sub.Index[0], alias)
}
