package translate

import (
	"pkc/internal/cppast"
)

// FunctorName derives the generated record name for an entity.
func FunctorName(entityName string) string {
	return "pk_functor_" + entityName
}

// AssembleFunctor combines the translated pieces into the functor record:
// dispatch tags first, then view and scalar members, the member-wise
// constructor, helper methods, driver methods, and one call-operator
// overload per workunit. Everything is emitted in declaration order so
// the same input always serializes identically.
func AssembleFunctor(name string, members *Members, workunits []WorkunitResult, helpers, drivers []cppast.MethodDecl) cppast.RecordDecl {
	functor := cppast.RecordDecl{
		Name:       FunctorName(name),
		Definition: true,
	}

	for _, wu := range workunits {
		functor.Records = append(functor.Records, cppast.RecordDecl{
			Name:       wu.TagName,
			Definition: true,
		})
	}

	ctor := cppast.MethodDecl{
		Name: FunctorName(name),
		Ctor: true,
		Body: &cppast.Block{},
	}
	for _, viewName := range members.ViewOrder {
		viewType := members.Views[viewName].Cpp()
		functor.Fields = append(functor.Fields, cppast.FieldDecl{Name: viewName, Type: viewType})
		ctor.Params = append(ctor.Params, cppast.ParamDecl{Name: "_" + viewName, Type: viewType})
		ctor.Inits = append(ctor.Inits, cppast.CtorInit{
			Member: viewName,
			Value:  cppast.DeclRef{Name: "_" + viewName},
		})
	}
	for _, fieldName := range members.FieldOrder {
		fieldType := members.Fields[fieldName].Cpp()
		functor.Fields = append(functor.Fields, cppast.FieldDecl{Name: fieldName, Type: fieldType})
		ctor.Params = append(ctor.Params, cppast.ParamDecl{Name: "_" + fieldName, Type: fieldType})
		ctor.Inits = append(ctor.Inits, cppast.CtorInit{
			Member: fieldName,
			Value:  cppast.DeclRef{Name: "_" + fieldName},
		})
	}
	functor.Methods = append(functor.Methods, ctor)
	functor.Methods = append(functor.Methods, helpers...)
	functor.Methods = append(functor.Methods, drivers...)
	for _, wu := range workunits {
		functor.Methods = append(functor.Methods, wu.Method)
	}
	return functor
}
