package pyast

// Children returns the direct syntactic children of n in source order.
func Children(n Node) []Node {
	var out []Node
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	addStmts := func(ss []Stmt) {
		for _, s := range ss {
			out = append(out, s)
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			addExpr(e)
		}
	}

	switch n := n.(type) {
	case *Module:
		addStmts(n.Body)
	case *FunctionDef:
		addExprs(n.Decorators)
		for _, p := range n.Params {
			addExpr(p.Annotation)
		}
		addExpr(n.Returns)
		addStmts(n.Body)
	case *ClassDef:
		addExprs(n.Decorators)
		addStmts(n.Body)
	case *Assign:
		addExpr(n.Target)
		addExpr(n.Value)
	case *AnnAssign:
		addExpr(n.Target)
		addExpr(n.Annotation)
		addExpr(n.Value)
	case *AugAssign:
		addExpr(n.Target)
		addExpr(n.Value)
	case *If:
		addExpr(n.Test)
		addStmts(n.Body)
		addStmts(n.Else)
	case *For:
		addExpr(n.Target)
		addExpr(n.Iter)
		addStmts(n.Body)
	case *While:
		addExpr(n.Test)
		addStmts(n.Body)
	case *Return:
		addExpr(n.Value)
	case *ExprStmt:
		addExpr(n.X)
	case *Attribute:
		addExpr(n.Value)
	case *Subscript:
		addExpr(n.Value)
		addExprs(n.Index)
	case *Call:
		addExpr(n.Func)
		addExprs(n.Args)
	case *BinOp:
		addExpr(n.Left)
		addExpr(n.Right)
	case *UnaryOp:
		addExpr(n.Operand)
	case *ListLit:
		addExprs(n.Elts)
	}
	return out
}

// Inspect walks the tree rooted at n in depth-first order. If fn returns
// false for a node, its children are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
