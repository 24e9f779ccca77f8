package parser

import (
	"pkc/internal/diag"
	"pkc/internal/pyast"
	"pkc/internal/token"
)

// parseExpr parses a full expression, lowest precedence first:
// or < and < not < comparison < additive < multiplicative < unary < power
// < postfix.
func (p *Parser) parseExpr() pyast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() pyast.Expr {
	left := p.parseAnd()
	for p.at(token.KwOr) {
		op := p.next()
		right := p.parseAnd()
		left = &pyast.BinOp{Left: left, Op: pyast.OpOr, Right: right, Loc: op.Span}
	}
	return left
}

func (p *Parser) parseAnd() pyast.Expr {
	left := p.parseNot()
	for p.at(token.KwAnd) {
		op := p.next()
		right := p.parseNot()
		left = &pyast.BinOp{Left: left, Op: pyast.OpAnd, Right: right, Loc: op.Span}
	}
	return left
}

func (p *Parser) parseNot() pyast.Expr {
	if p.at(token.KwNot) {
		op := p.next()
		operand := p.parseNot()
		return &pyast.UnaryOp{Op: pyast.OpNot, Operand: operand, Loc: op.Span}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() pyast.Expr {
	left := p.parseAdditive()
	for {
		var op pyast.BinOpKind
		switch p.peek().Kind {
		case token.EqEq:
			op = pyast.OpEq
		case token.BangEq:
			op = pyast.OpNotEq
		case token.Lt:
			op = pyast.OpLt
		case token.LtEq:
			op = pyast.OpLtEq
		case token.Gt:
			op = pyast.OpGt
		case token.GtEq:
			op = pyast.OpGtEq
		default:
			return left
		}
		tk := p.next()
		right := p.parseAdditive()
		left = &pyast.BinOp{Left: left, Op: op, Right: right, Loc: tk.Span}
	}
}

func (p *Parser) parseAdditive() pyast.Expr {
	left := p.parseMultiplicative()
	for {
		var op pyast.BinOpKind
		switch p.peek().Kind {
		case token.Plus:
			op = pyast.OpAdd
		case token.Minus:
			op = pyast.OpSub
		default:
			return left
		}
		tk := p.next()
		right := p.parseMultiplicative()
		left = &pyast.BinOp{Left: left, Op: op, Right: right, Loc: tk.Span}
	}
}

func (p *Parser) parseMultiplicative() pyast.Expr {
	left := p.parseUnary()
	for {
		var op pyast.BinOpKind
		switch p.peek().Kind {
		case token.Star:
			op = pyast.OpMul
		case token.Slash:
			op = pyast.OpDiv
		case token.SlashSlash:
			op = pyast.OpFloorDiv
		case token.Percent:
			op = pyast.OpMod
		default:
			return left
		}
		tk := p.next()
		right := p.parseUnary()
		left = &pyast.BinOp{Left: left, Op: op, Right: right, Loc: tk.Span}
	}
}

func (p *Parser) parseUnary() pyast.Expr {
	switch p.peek().Kind {
	case token.Minus:
		op := p.next()
		operand := p.parseUnary()
		return &pyast.UnaryOp{Op: pyast.OpNeg, Operand: operand, Loc: op.Span}
	case token.Plus:
		op := p.next()
		operand := p.parseUnary()
		return &pyast.UnaryOp{Op: pyast.OpPos, Operand: operand, Loc: op.Span}
	}
	return p.parsePower()
}

// parsePower parses `base ** exp` right-associatively.
func (p *Parser) parsePower() pyast.Expr {
	base := p.parsePostfix(p.parsePrimary())
	if p.at(token.StarStar) {
		tk := p.next()
		exp := p.parseUnary()
		return &pyast.BinOp{Left: base, Op: pyast.OpPow, Right: exp, Loc: tk.Span}
	}
	return base
}

// parsePostfix applies call, subscript, and attribute suffixes.
func (p *Parser) parsePostfix(x pyast.Expr) pyast.Expr {
	for {
		switch p.peek().Kind {
		case token.LParen:
			p.next()
			var args []pyast.Expr
			for !p.at(token.RParen) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if !p.at(token.Comma) {
					break
				}
				p.next()
			}
			end := p.expect(token.RParen)
			x = &pyast.Call{Func: x, Args: args, Loc: x.Span().Cover(end.Span)}
		case token.LBracket:
			p.next()
			var index []pyast.Expr
			for !p.at(token.RBracket) && !p.at(token.EOF) {
				index = append(index, p.parseExpr())
				if !p.at(token.Comma) {
					break
				}
				p.next()
			}
			end := p.expect(token.RBracket)
			x = &pyast.Subscript{Value: x, Index: index, Loc: x.Span().Cover(end.Span)}
		case token.Dot:
			p.next()
			attr := p.expectIdent()
			x = &pyast.Attribute{Value: x, Attr: attr.Text, Loc: x.Span().Cover(attr.Span)}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() pyast.Expr {
	tk := p.peek()
	switch tk.Kind {
	case token.Ident:
		p.next()
		return &pyast.Name{ID: tk.Text, Loc: tk.Span}
	case token.IntLit:
		p.next()
		return &pyast.IntLit{Value: parseIntText(tk.Text), Loc: tk.Span}
	case token.FloatLit:
		p.next()
		return &pyast.FloatLit{Value: parseFloatText(tk.Text), Text: tk.Text, Loc: tk.Span}
	case token.StringLit:
		p.next()
		return &pyast.StringLit{Value: tk.Text, Loc: tk.Span}
	case token.KwTrue:
		p.next()
		return &pyast.BoolLit{Value: true, Loc: tk.Span}
	case token.KwFalse:
		p.next()
		return &pyast.BoolLit{Value: false, Loc: tk.Span}
	case token.KwNone:
		p.next()
		return &pyast.NoneLit{Loc: tk.Span}
	case token.LParen:
		p.next()
		x := p.parseExpr()
		p.expect(token.RParen)
		return x
	case token.LBracket:
		p.next()
		lst := &pyast.ListLit{Loc: tk.Span}
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			lst.Elts = append(lst.Elts, p.parseExpr())
			if !p.at(token.Comma) {
				break
			}
			p.next()
		}
		end := p.expect(token.RBracket)
		lst.Loc = tk.Span.Cover(end.Span)
		return lst
	default:
		p.errorHere(diag.SynExpectExpression, "expected expression, found "+tk.Kind.String())
		p.next()
		return &pyast.Name{ID: "<error>", Loc: tk.Span}
	}
}
