package pyast

// DecoratorName extracts the recognized annotation name from a decorator
// expression. Supported shapes: `alias.workunit`, `alias.workunit(...)`,
// and a bare `name`. Returns false when the expression does not use the
// given import alias.
func DecoratorName(e Expr, alias string) (string, bool) {
	if call, ok := e.(*Call); ok {
		e = call.Func
	}
	switch e := e.(type) {
	case *Attribute:
		base, ok := e.Value.(*Name)
		if !ok || base.ID != alias {
			return "", false
		}
		return e.Attr, true
	case *Name:
		return e.ID, true
	}
	return "", false
}

// AttrChain flattens `a.b.c` into its dotted parts; ok is false for any
// base other than a bare name.
func AttrChain(e Expr) (parts []string, ok bool) {
	for {
		switch x := e.(type) {
		case *Attribute:
			parts = append([]string{x.Attr}, parts...)
			e = x.Value
		case *Name:
			return append([]string{x.ID}, parts...), true
		default:
			return nil, false
		}
	}
}
