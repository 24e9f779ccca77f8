package cppast

import (
	"fmt"
	"strconv"
	"strings"
)

// Serializer renders IR declarations to C++ source text. It holds no
// state between calls, so one instance may serve concurrent compilations.
type Serializer struct{}

// Serialize renders one declaration.
func (Serializer) Serialize(d Decl) string {
	var p printer
	p.decl(d)
	return p.b.String()
}

// SerializeStmt renders one statement at top level, mainly for tests.
func (Serializer) SerializeStmt(s Stmt) string {
	var p printer
	p.stmt(s)
	return p.b.String()
}

// SerializeExpr renders one expression.
func (Serializer) SerializeExpr(e Expr) string {
	var p printer
	p.expr(e)
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.pad()
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) pad() {
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("    ")
	}
}

func (p *printer) decl(d Decl) {
	switch d := d.(type) {
	case RecordDecl:
		p.record(d)
	case MethodDecl:
		p.method(d)
	case FieldDecl:
		p.line("%s %s;", d.Type, d.Name)
	}
}

func (p *printer) record(r RecordDecl) {
	if !r.Definition {
		p.line("struct %s;", r.Name)
		return
	}
	p.line("struct %s {", r.Name)
	p.indent++
	for _, nested := range r.Records {
		if len(nested.Fields) == 0 && len(nested.Methods) == 0 {
			p.line("struct %s {};", nested.Name)
			continue
		}
		p.record(nested)
	}
	for _, f := range r.Fields {
		p.line("%s %s;", f.Type, f.Name)
	}
	for _, m := range r.Methods {
		p.method(m)
	}
	p.indent--
	p.line("};")
}

func (p *printer) method(m MethodDecl) {
	var sig strings.Builder
	for _, a := range m.Attrs {
		sig.WriteString(a)
		sig.WriteByte(' ')
	}
	if !m.Ctor {
		sig.WriteString(m.Ret.String())
		sig.WriteByte(' ')
	}
	sig.WriteString(m.Name)
	sig.WriteByte('(')
	for i, param := range m.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(param.Type.String())
		if param.Name != "" {
			sig.WriteByte(' ')
			sig.WriteString(param.Name)
		}
	}
	sig.WriteByte(')')
	if m.Const {
		sig.WriteString(" const")
	}
	if m.Ctor && len(m.Inits) > 0 {
		sig.WriteString(" : ")
		for i, init := range m.Inits {
			if i > 0 {
				sig.WriteString(", ")
			}
			sig.WriteString(init.Member)
			sig.WriteByte('(')
			sig.WriteString((Serializer{}).SerializeExpr(init.Value))
			sig.WriteByte(')')
		}
	}

	if m.Body == nil {
		p.line("%s;", sig.String())
		return
	}
	p.line("%s {", sig.String())
	p.indent++
	for _, s := range m.Body.Stmts {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case Block:
		p.line("{")
		p.indent++
		for _, inner := range s.Stmts {
			p.stmt(inner)
		}
		p.indent--
		p.line("}")
	case ExprStmt:
		p.line("%s;", p.exprStr(s.X))
	case DeclStmt:
		if s.Init != nil {
			p.line("%s %s = %s;", s.Type, s.Name, p.exprStr(s.Init))
		} else {
			p.line("%s %s;", s.Type, s.Name)
		}
	case Assign:
		p.line("%s %s %s;", p.exprStr(s.LHS), s.Op, p.exprStr(s.RHS))
	case If:
		p.line("if (%s) {", p.exprStr(s.Cond))
		p.indent++
		for _, inner := range s.Then.Stmts {
			p.stmt(inner)
		}
		p.indent--
		if s.Else != nil {
			p.line("} else {")
			p.indent++
			for _, inner := range s.Else.Stmts {
				p.stmt(inner)
			}
			p.indent--
		}
		p.line("}")
	case RangeFor:
		p.line("for (%s %s = %s; %s < %s; ++%s) {",
			s.VarType, s.Var, p.exprStr(s.From), s.Var, p.exprStr(s.To), s.Var)
		p.indent++
		for _, inner := range s.Body.Stmts {
			p.stmt(inner)
		}
		p.indent--
		p.line("}")
	case While:
		p.line("while (%s) {", p.exprStr(s.Cond))
		p.indent++
		for _, inner := range s.Body.Stmts {
			p.stmt(inner)
		}
		p.indent--
		p.line("}")
	case Return:
		if s.Value != nil {
			p.line("return %s;", p.exprStr(s.Value))
		} else {
			p.line("return;")
		}
	case Break:
		p.line("break;")
	case Continue:
		p.line("continue;")
	}
}

func (p *printer) exprStr(e Expr) string {
	var sub printer
	sub.expr(e)
	return sub.b.String()
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case DeclRef:
		p.b.WriteString(e.Name)
	case Member:
		p.expr(e.Base)
		p.b.WriteByte('.')
		p.b.WriteString(e.Name)
	case CallExpr:
		p.expr(e.Fn)
		p.b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(a)
		}
		p.b.WriteByte(')')
	case ViewAccess:
		p.expr(e.Base)
		p.b.WriteByte('(')
		for i, idx := range e.Index {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(idx)
		}
		p.b.WriteByte(')')
	case Binary:
		p.b.WriteByte('(')
		p.expr(e.L)
		p.b.WriteByte(' ')
		p.b.WriteString(e.Op)
		p.b.WriteByte(' ')
		p.expr(e.R)
		p.b.WriteByte(')')
	case Unary:
		p.b.WriteString(e.Op)
		p.b.WriteByte('(')
		p.expr(e.X)
		p.b.WriteByte(')')
	case Cast:
		p.b.WriteString("static_cast<")
		p.b.WriteString(e.Type.String())
		p.b.WriteString(">(")
		p.expr(e.X)
		p.b.WriteByte(')')
	case IntLit:
		p.b.WriteString(strconv.FormatInt(e.Value, 10))
		p.b.WriteString(e.Suffix)
	case FloatLit:
		p.b.WriteString(e.Text)
		if e.Single {
			p.b.WriteByte('f')
		}
	case BoolLit:
		if e.Value {
			p.b.WriteString("true")
		} else {
			p.b.WriteString("false")
		}
	case StrLit:
		p.b.WriteString(strconv.Quote(e.Value))
	}
}
