package translate

import (
	"strings"

	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// role selects the small behavioral differences between the four
// translation visitors; the recursive walking core is shared.
type role uint8

const (
	roleClasstype role = iota
	roleFunction
	roleWorkunit
	roleDriver
)

// visitor translates one body of the restricted grammar into target IR.
// It is parameterized by the shared symbol tables so every reference can
// be classified and rendered for its category.
type visitor struct {
	members *Members
	alias   string
	parents Parents
	role    role

	// class is set for the classtype role: the record whose methods are
	// being translated, used to resolve self.method() calls.
	class string

	// declared tracks local names already introduced in the translated
	// body, so a first plain assignment becomes a declaration.
	declared map[string]bool
}

func newVisitor(members *Members, alias string, parents Parents, r role) *visitor {
	return &visitor{
		members:  members,
		alias:    alias,
		parents:  parents,
		role:     r,
		declared: make(map[string]bool),
	}
}

func (v *visitor) declare(name string) {
	v.declared[name] = true
}

// body translates a complete function body. Bindings in the source
// language are function scoped, so a local first assigned inside an if
// or loop must be declared at the enclosing scope or the other branch
// and any later use would not see it in the output. Such locals are
// predeclared here and their assignments render as plain stores.
func (v *visitor) body(stmts []pyast.Stmt) (*cppast.Block, error) {
	hoisted, err := v.hoistNestedLocals(stmts)
	if err != nil {
		return nil, err
	}
	block, err := v.block(stmts)
	if err != nil {
		return nil, err
	}
	if len(hoisted) > 0 {
		block.Stmts = append(hoisted, block.Stmts...)
	}
	return block, nil
}

// hoistNestedLocals scans a body for locals whose first binding sits
// inside a nested block and returns their function-scope declarations.
// The names are marked declared so the translation below emits plain
// assignments for them.
func (v *visitor) hoistNestedLocals(body []pyast.Stmt) ([]cppast.Stmt, error) {
	seen := make(map[string]bool)
	types := make(map[string]cppast.Type)
	var order []string

	var scanErr error
	var walk func(stmts []pyast.Stmt, nested bool)
	walk = func(stmts []pyast.Stmt, nested bool) {
		for _, stmt := range stmts {
			if scanErr != nil {
				return
			}
			switch s := stmt.(type) {
			case *pyast.Assign:
				if nested {
					v.hoistDispatchAcc(s.Value, seen, &order, types)
				}
				name, ok := s.Target.(*pyast.Name)
				if !ok {
					continue
				}
				if t, hoist := types[name.ID]; hoist {
					types[name.ID] = joinScalarType(t, v.valueType(s.Value))
					continue
				}
				if seen[name.ID] || !v.isFreshLocal(name.ID) {
					continue
				}
				seen[name.ID] = true
				if nested {
					order = append(order, name.ID)
					types[name.ID] = v.valueType(s.Value)
				}
			case *pyast.AnnAssign:
				name, ok := s.Target.(*pyast.Name)
				if !ok || seen[name.ID] {
					continue
				}
				seen[name.ID] = true
				if !nested {
					continue
				}
				t, err := v.annotationType(s.Annotation)
				if err != nil {
					scanErr = err
					return
				}
				order = append(order, name.ID)
				types[name.ID] = t
			case *pyast.ExprStmt:
				if nested {
					v.hoistDispatchAcc(s.X, seen, &order, types)
				}
			case *pyast.If:
				walk(s.Body, true)
				walk(s.Else, true)
			case *pyast.For:
				seen[s.Target.ID] = true
				walk(s.Body, true)
			case *pyast.While:
				walk(s.Body, true)
			}
		}
	}
	walk(body, false)
	if scanErr != nil {
		return nil, scanErr
	}

	decls := make([]cppast.Stmt, 0, len(order))
	for _, name := range order {
		v.declare(name)
		decls = append(decls, cppast.DeclStmt{Type: types[name], Name: name})
	}
	return decls, nil
}

// hoistDispatchAcc predeclares the accumulator temporary of a reduce or
// scan dispatched inside a nested block, so a later dispatch of the same
// workunit can reset it from any scope.
func (v *visitor) hoistDispatchAcc(e pyast.Expr, seen map[string]bool, order *[]string, types map[string]cppast.Type) {
	if v.role != roleDriver {
		return
	}
	call, attr, ok := v.dispatchCall(e)
	if !ok || attr == "parallel_for" || len(call.Args) != 2 {
		return
	}
	name, ok := workunitRef(call.Args[1])
	if !ok {
		return
	}
	wu, ok := v.members.Workunits[name]
	if !ok {
		return
	}
	tmp := "pk_acc_" + name
	if seen[tmp] {
		return
	}
	seen[tmp] = true
	*order = append(*order, tmp)
	types[tmp] = analyzeSignature(wu, v.alias, true).AccType.Cpp()
}

// valueType infers the declared type of a hoisted local from an assigned
// value. Inference is best effort over the subset's scalar expressions;
// anything opaque is declared double.
func (v *visitor) valueType(e pyast.Expr) cppast.Type {
	switch e := e.(type) {
	case *pyast.IntLit:
		return ScalarInt.Cpp()
	case *pyast.FloatLit:
		return ScalarDouble.Cpp()
	case *pyast.BoolLit:
		return ScalarBool.Cpp()
	case *pyast.UnaryOp:
		if e.Op == pyast.OpNot {
			return ScalarBool.Cpp()
		}
		return v.valueType(e.Operand)
	case *pyast.BinOp:
		switch {
		case e.Op.IsComparison(), e.Op == pyast.OpAnd, e.Op == pyast.OpOr:
			return ScalarBool.Cpp()
		case e.Op == pyast.OpDiv, e.Op == pyast.OpPow:
			return ScalarDouble.Cpp()
		default:
			return joinScalarType(v.valueType(e.Left), v.valueType(e.Right))
		}
	case *pyast.Name:
		if scalar, ok := v.members.Fields[e.ID]; ok {
			return scalar.Cpp()
		}
	case *pyast.Attribute:
		if base, ok := e.Value.(*pyast.Name); ok && base.ID == "self" {
			if scalar, ok := v.members.Fields[e.Attr]; ok {
				return scalar.Cpp()
			}
		}
	case *pyast.Subscript:
		if name, ok := viewBaseName(e.Value); ok {
			if view, ok := v.members.Views[name]; ok {
				return view.Elem.Cpp()
			}
		}
	case *pyast.Call:
		return v.callValueType(e)
	}
	return ScalarDouble.Cpp()
}

func (v *visitor) callValueType(e *pyast.Call) cppast.Type {
	switch fn := e.Func.(type) {
	case *pyast.Name:
		switch fn.ID {
		case "int", "len":
			return ScalarInt.Cpp()
		case "float":
			return ScalarDouble.Cpp()
		case "bool":
			return ScalarBool.Cpp()
		}
		if helper, ok := v.members.Functions[fn.ID]; ok {
			return v.returnType(helper)
		}
		for _, cls := range v.members.Classtypes {
			if cls.Name == fn.ID {
				return cppast.Type{Name: cls.Name}
			}
		}
	case *pyast.Attribute:
		base, ok := fn.Value.(*pyast.Name)
		if !ok {
			break
		}
		switch base.ID {
		case v.alias:
			if scalar, ok := scalarNames[fn.Attr]; ok {
				return scalar.Cpp()
			}
			if _, ok := mathBuiltins[fn.Attr]; ok {
				return ScalarDouble.Cpp()
			}
			if fn.Attr == "parallel_reduce" || fn.Attr == "parallel_scan" {
				if len(e.Args) == 2 {
					if name, ok := workunitRef(e.Args[1]); ok {
						if wu, ok := v.members.Workunits[name]; ok {
							return analyzeSignature(wu, v.alias, v.role == roleDriver).AccType.Cpp()
						}
					}
				}
			}
		case "self":
			if helper, ok := v.members.Functions[fn.Attr]; ok {
				return v.returnType(helper)
			}
			if v.class != "" {
				if method, ok := v.members.ClasstypeMethods[v.class+"."+fn.Attr]; ok {
					return v.returnType(method)
				}
			}
		}
	}
	return ScalarDouble.Cpp()
}

func (v *visitor) returnType(fn *pyast.FunctionDef) cppast.Type {
	if fn.Returns == nil {
		return ScalarDouble.Cpp()
	}
	t, err := v.annotationType(fn.Returns)
	if err != nil {
		return ScalarDouble.Cpp()
	}
	return t
}

// joinScalarType widens across branch assignments: bool < int < float <
// double. Non-scalar types keep the first inference.
func joinScalarType(a, b cppast.Type) cppast.Type {
	if scalarTypeRank(b) > scalarTypeRank(a) && scalarTypeRank(a) > 0 {
		return b
	}
	return a
}

func scalarTypeRank(t cppast.Type) int {
	switch t.Name {
	case "bool":
		return 1
	case "int", "int32_t", "int64_t", "uint32_t", "uint64_t":
		return 2
	case "float":
		return 3
	case "double":
		return 4
	}
	return 0
}

func viewBaseName(e pyast.Expr) (string, bool) {
	switch e := e.(type) {
	case *pyast.Name:
		return e.ID, true
	case *pyast.Attribute:
		if base, ok := e.Value.(*pyast.Name); ok && base.ID == "self" {
			return e.Attr, true
		}
	}
	return "", false
}

func (v *visitor) block(body []pyast.Stmt) (*cppast.Block, error) {
	out := &cppast.Block{}
	for _, stmt := range body {
		translated, err := v.stmt(stmt)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, translated...)
	}
	return out, nil
}

func (v *visitor) stmt(stmt pyast.Stmt) ([]cppast.Stmt, error) {
	switch s := stmt.(type) {
	case *pyast.Assign:
		if v.role == roleDriver {
			if dispatch, ok, err := v.driverReduceAssign(s); ok || err != nil {
				return dispatch, err
			}
		}
		return v.assign(s.Target, "=", s.Value)

	case *pyast.AnnAssign:
		name, ok := s.Target.(*pyast.Name)
		if !ok {
			return v.assign(s.Target, "=", s.Value)
		}
		if v.declared[name.ID] {
			// Hoisted to function scope; the annotation already landed
			// on the declaration.
			if s.Value == nil {
				return nil, nil
			}
			return v.assign(s.Target, "=", s.Value)
		}
		declType, err := v.annotationType(s.Annotation)
		if err != nil {
			return nil, err
		}
		decl := cppast.DeclStmt{Type: declType, Name: name.ID}
		if s.Value != nil {
			init, err := v.expr(s.Value)
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
		v.declare(name.ID)
		return []cppast.Stmt{decl}, nil

	case *pyast.AugAssign:
		switch s.Op {
		case pyast.OpAdd, pyast.OpSub, pyast.OpMul, pyast.OpDiv, pyast.OpMod:
		default:
			return nil, faultf(s, "unsupported compound assignment operator %s", s.Op)
		}
		return v.assign(s.Target, s.Op.String()+"=", s.Value)

	case *pyast.If:
		cond, err := v.expr(s.Test)
		if err != nil {
			return nil, err
		}
		then, err := v.block(s.Body)
		if err != nil {
			return nil, err
		}
		out := cppast.If{Cond: cond, Then: *then}
		if len(s.Else) > 0 {
			els, err := v.block(s.Else)
			if err != nil {
				return nil, err
			}
			out.Else = els
		}
		return []cppast.Stmt{out}, nil

	case *pyast.For:
		return v.rangeFor(s)

	case *pyast.While:
		cond, err := v.expr(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := v.block(s.Body)
		if err != nil {
			return nil, err
		}
		return []cppast.Stmt{cppast.While{Cond: cond, Body: *body}}, nil

	case *pyast.Return:
		out := cppast.Return{}
		if s.Value != nil {
			value, err := v.expr(s.Value)
			if err != nil {
				return nil, err
			}
			out.Value = value
		}
		return []cppast.Stmt{out}, nil

	case *pyast.ExprStmt:
		if v.role == roleDriver {
			if dispatch, ok, err := v.driverDispatch(s.X); ok || err != nil {
				return dispatch, err
			}
		}
		x, err := v.expr(s.X)
		if err != nil {
			return nil, err
		}
		return []cppast.Stmt{cppast.ExprStmt{X: x}}, nil

	case *pyast.Pass:
		return nil, nil
	case *pyast.Break:
		return []cppast.Stmt{cppast.Break{}}, nil
	case *pyast.Continue:
		return []cppast.Stmt{cppast.Continue{}}, nil
	}
	return nil, faultf(stmt, "unsupported statement")
}

// assign translates `target op value`, introducing an auto declaration
// for a first assignment to a fresh local.
func (v *visitor) assign(target pyast.Expr, op string, value pyast.Expr) ([]cppast.Stmt, error) {
	rhs, err := v.expr(value)
	if err != nil {
		return nil, err
	}
	if name, ok := target.(*pyast.Name); ok && op == "=" && v.isFreshLocal(name.ID) {
		v.declare(name.ID)
		return []cppast.Stmt{cppast.DeclStmt{
			Type: cppast.Type{Name: "auto"},
			Name: name.ID,
			Init: rhs,
		}}, nil
	}
	lhs, err := v.expr(target)
	if err != nil {
		return nil, err
	}
	return []cppast.Stmt{cppast.Assign{LHS: lhs, Op: op, RHS: rhs}}, nil
}

// isFreshLocal reports whether a bare assignment introduces a new local
// rather than storing to an extracted member.
func (v *visitor) isFreshLocal(name string) bool {
	if v.declared[name] {
		return false
	}
	return v.members.Resolves(name) == 0
}

// rangeFor translates `for i in range(...)` with one or two bounds.
func (v *visitor) rangeFor(s *pyast.For) ([]cppast.Stmt, error) {
	call, ok := s.Iter.(*pyast.Call)
	if !ok {
		return nil, faultf(s.Iter, "loops must iterate over range(...)")
	}
	if callee, ok := call.Func.(*pyast.Name); !ok || callee.ID != "range" {
		return nil, faultf(s.Iter, "loops must iterate over range(...)")
	}

	var from, to cppast.Expr
	var err error
	switch len(call.Args) {
	case 1:
		from = cppast.IntLit{Value: 0}
		to, err = v.expr(call.Args[0])
	case 2:
		from, err = v.expr(call.Args[0])
		if err == nil {
			to, err = v.expr(call.Args[1])
		}
	default:
		return nil, faultf(call, "range() takes one or two bounds here")
	}
	if err != nil {
		return nil, err
	}

	v.declare(s.Target.ID)
	body, err := v.block(s.Body)
	if err != nil {
		return nil, err
	}
	return []cppast.Stmt{cppast.RangeFor{
		Var:     s.Target.ID,
		VarType: cppast.Type{Name: "int"},
		From:    from,
		To:      to,
		Body:    *body,
	}}, nil
}

func (v *visitor) expr(e pyast.Expr) (cppast.Expr, error) {
	switch e := e.(type) {
	case *pyast.Name:
		return cppast.DeclRef{Name: e.ID}, nil

	case *pyast.Attribute:
		return v.attribute(e)

	case *pyast.Subscript:
		return v.subscript(e)

	case *pyast.Call:
		return v.call(e)

	case *pyast.BinOp:
		return v.binop(e)

	case *pyast.UnaryOp:
		operand, err := v.expr(e.Operand)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case pyast.OpNeg:
			return cppast.Unary{Op: "-", X: operand}, nil
		case pyast.OpNot:
			return cppast.Unary{Op: "!", X: operand}, nil
		default:
			return operand, nil
		}

	case *pyast.IntLit:
		return cppast.IntLit{Value: e.Value}, nil

	case *pyast.FloatLit:
		return cppast.FloatLit{Text: floatText(e)}, nil

	case *pyast.BoolLit:
		return cppast.BoolLit{Value: e.Value}, nil

	case *pyast.StringLit:
		return cppast.StrLit{Value: e.Value}, nil
	}
	return nil, faultf(e, "unsupported expression")
}

func (v *visitor) attribute(e *pyast.Attribute) (cppast.Expr, error) {
	base, ok := e.Value.(*pyast.Name)
	if !ok {
		inner, err := v.expr(e.Value)
		if err != nil {
			return nil, err
		}
		return cppast.Member{Base: inner, Name: e.Attr}, nil
	}
	switch base.ID {
	case "self":
		// Members of the assembled record are referenced unqualified.
		return cppast.DeclRef{Name: e.Attr}, nil
	case v.alias:
		return nil, faultf(e, "%s.%s cannot be used as a value", v.alias, e.Attr)
	default:
		return cppast.Member{Base: cppast.DeclRef{Name: base.ID}, Name: e.Attr}, nil
	}
}

func (v *visitor) subscript(e *pyast.Subscript) (cppast.Expr, error) {
	base, err := v.expr(e.Value)
	if err != nil {
		return nil, err
	}
	index := make([]cppast.Expr, 0, len(e.Index))
	for _, idx := range e.Index {
		translated, err := v.expr(idx)
		if err != nil {
			return nil, err
		}
		index = append(index, translated)
	}
	return cppast.ViewAccess{Base: base, Index: index}, nil
}

func (v *visitor) call(e *pyast.Call) (cppast.Expr, error) {
	args := make([]cppast.Expr, 0, len(e.Args))
	for _, a := range e.Args {
		translated, err := v.expr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, translated)
	}

	switch callee := e.Func.(type) {
	case *pyast.Name:
		return v.nameCall(e, callee.ID, args)
	case *pyast.Attribute:
		base, ok := callee.Value.(*pyast.Name)
		if !ok {
			// method call on a nested expression
			inner, err := v.expr(callee.Value)
			if err != nil {
				return nil, err
			}
			return cppast.CallExpr{Fn: cppast.Member{Base: inner, Name: callee.Attr}, Args: args}, nil
		}
		switch base.ID {
		case v.alias:
			return v.kernelCall(e, callee.Attr, args)
		case "self":
			if _, ok := v.members.Functions[callee.Attr]; ok {
				return cppast.CallExpr{Fn: cppast.DeclRef{Name: callee.Attr}, Args: args}, nil
			}
			if v.class != "" {
				if _, ok := v.members.ClasstypeMethods[v.class+"."+callee.Attr]; ok {
					return cppast.CallExpr{Fn: cppast.DeclRef{Name: callee.Attr}, Args: args}, nil
				}
			}
			return nil, faultf(e, "self.%s is not a callable helper function", callee.Attr)
		default:
			return cppast.CallExpr{
				Fn:   cppast.Member{Base: cppast.DeclRef{Name: base.ID}, Name: callee.Attr},
				Args: args,
			}, nil
		}
	}
	return nil, faultf(e, "unsupported call target")
}

func (v *visitor) nameCall(e *pyast.Call, name string, args []cppast.Expr) (cppast.Expr, error) {
	if native, ok := mathBuiltins[name]; ok {
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: native}, Args: args}, nil
	}
	switch name {
	case "len":
		if len(args) != 1 {
			return nil, faultf(e, "len() takes exactly one argument")
		}
		return cppast.CallExpr{
			Fn:   cppast.Member{Base: args[0], Name: "extent"},
			Args: []cppast.Expr{cppast.IntLit{Value: 0}},
		}, nil
	case "int":
		return castCall(e, ScalarInt, args)
	case "float":
		return castCall(e, ScalarDouble, args)
	case "bool":
		return castCall(e, ScalarBool, args)
	case "range":
		return nil, faultf(e, "range() is only valid as a loop bound")
	}
	if _, ok := v.members.Functions[name]; ok {
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: name}, Args: args}, nil
	}
	// Classtype constructors keep their class name.
	for _, cls := range v.members.Classtypes {
		if cls.Name == name {
			return cppast.CallExpr{Fn: cppast.DeclRef{Name: name}, Args: args}, nil
		}
	}
	return nil, faultf(e, "call to %s cannot be translated", name)
}

// kernelCall translates a recognized alias-qualified call.
func (v *visitor) kernelCall(e *pyast.Call, attr string, args []cppast.Expr) (cppast.Expr, error) {
	if native, ok := mathBuiltins[attr]; ok {
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: native}, Args: args}, nil
	}
	if scalar, ok := scalarNames[attr]; ok {
		return castCall(e, scalar, args)
	}
	switch attr {
	case "printf":
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: "printf"}, Args: args}, nil
	case "fence":
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: "Kokkos::fence"}, Args: args}, nil
	case "parallel_for", "parallel_reduce", "parallel_scan":
		return nil, faultf(e, "%s.%s is only valid inside a workload driver", v.alias, attr)
	}
	return nil, faultf(e, "%s.%s cannot be translated", v.alias, attr)
}

func castCall(e *pyast.Call, scalar Scalar, args []cppast.Expr) (cppast.Expr, error) {
	if len(args) != 1 {
		return nil, faultf(e, "typed constructor takes exactly one argument")
	}
	return cppast.Cast{Type: scalar.Cpp(), X: args[0]}, nil
}

func (v *visitor) binop(e *pyast.BinOp) (cppast.Expr, error) {
	left, err := v.expr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := v.expr(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case pyast.OpPow:
		return cppast.CallExpr{Fn: cppast.DeclRef{Name: "std::pow"}, Args: []cppast.Expr{left, right}}, nil
	case pyast.OpFloorDiv:
		return cppast.Binary{Op: "/", L: left, R: right}, nil
	case pyast.OpAnd:
		return cppast.Binary{Op: "&&", L: left, R: right}, nil
	case pyast.OpOr:
		return cppast.Binary{Op: "||", L: left, R: right}, nil
	default:
		return cppast.Binary{Op: e.Op.String(), L: left, R: right}, nil
	}
}

// annotationType renders a local declaration annotation.
func (v *visitor) annotationType(ann pyast.Expr) (cppast.Type, error) {
	if scalar, ok := scalarFromAnnotation(ann, v.alias); ok {
		return scalar.Cpp(), nil
	}
	if view, ok := viewFromAnnotation(ann, v.alias); ok {
		return view.Cpp(), nil
	}
	// A classtype name used as a local type keeps its name.
	if name, ok := ann.(*pyast.Name); ok {
		for _, cls := range v.members.Classtypes {
			if cls.Name == name.ID {
				return cppast.Type{Name: cls.Name}, nil
			}
		}
	}
	return cppast.Type{}, faultf(ann, "unsupported type annotation")
}

func floatText(f *pyast.FloatLit) string {
	text := f.Text
	if text == "" {
		text = "0.0"
	}
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text
}
