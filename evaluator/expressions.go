package evaluator

import (
	"bytes"

	"github.com/navionguy/microbasic/arena"
	"github.com/navionguy/microbasic/berrors"
	"github.com/navionguy/microbasic/object"
	"github.com/navionguy/microbasic/token"
)

// The expression grammar, tightest binding first:
//
//	factor    literals, (expr), variables, built-in calls
//	term      * / MOD
//	expr      + - AND OR
//	relation  < > = <> <= >=
//
// Values flow up as object.Object, strings live in the scratch arena
// until somebody assigns them.

func (i *Interp) factor() object.Object {
	t := i.tok.Token()

	switch t {
	case token.STRING:
		lit := i.tok.StringLit()
		p := i.alloc(len(lit))
		copy(p, lit)
		i.accept(token.STRING)
		return &object.BStr{Value: p}

	case token.NUM:
		v := int32(i.tok.Num())
		i.accept(token.NUM)
		return &object.Integer{Value: v}

	case token.LPAREN:
		i.accept(token.LPAREN)
		v := i.expr()
		i.accept(token.RPAREN)
		return v

	case token.INTVAR:
		v := i.getInt(i.tok.VarSlot())
		i.tok.Next()
		return &object.Integer{Value: v}

	case token.STRVAR:
		b, err := i.vars.Str(i.tok.VarSlot())
		if err != nil {
			i.fail(berrors.Syntax)
		}
		i.tok.Next()
		return &object.BStr{Value: b}
	}

	if token.IntFunc(t) {
		i.accept(t)
		return i.intBuiltin(t)
	}
	if token.StringFunc(t) {
		i.accept(t)
		return i.strBuiltin(t)
	}

	i.fail(berrors.Syntax)
	return nil
}

func (i *Interp) term() object.Object {
	v := i.factor()

	for {
		op := i.tok.Token()
		if op != token.ASTERISK && op != token.SLASH && op != token.MOD {
			return v
		}
		i.tok.Next()

		l := i.typecheckInt(v)
		r := i.typecheckInt(i.factor())

		switch op {
		case token.ASTERISK:
			v = &object.Integer{Value: l * r}
		case token.SLASH:
			if r == 0 {
				i.fail(berrors.DivByZero)
			}
			v = &object.Integer{Value: l / r}
		case token.MOD:
			if r == 0 {
				i.fail(berrors.DivByZero)
			}
			v = &object.Integer{Value: l % r}
		}
	}
}

func (i *Interp) expr() object.Object {
	v := i.term()

	for {
		op := i.tok.Token()
		if op != token.PLUS && op != token.MINUS && op != token.AND && op != token.OR {
			return v
		}
		i.tok.Next()

		r := i.term()
		if op != token.PLUS {
			i.typecheckInt(v)
		}
		if v.Type() != r.Type() {
			i.fail(berrors.TypeMismatch)
		}

		switch op {
		case token.PLUS:
			if l, ok := v.(*object.Integer); ok {
				v = &object.Integer{Value: l.Value + r.(*object.Integer).Value}
			} else {
				v = i.concat(v.(*object.BStr), r.(*object.BStr))
			}
		case token.MINUS:
			v = &object.Integer{Value: v.(*object.Integer).Value - r.(*object.Integer).Value}
		case token.AND:
			v = &object.Integer{Value: v.(*object.Integer).Value & r.(*object.Integer).Value}
		case token.OR:
			v = &object.Integer{Value: v.(*object.Integer).Value | r.(*object.Integer).Value}
		}
	}
}

// relation accepts chains like A<B<C as a left to right fold over
// integer intermediates. That is not the mathematical double
// inequality and never was, programs rely on the 0/1 results.
func (i *Interp) relation() object.Object {
	v := i.expr()

	for {
		op := i.tok.Token()
		if !relOp(op) {
			return v
		}
		i.tok.Next()

		r := i.expr()
		if v.Type() != r.Type() {
			i.fail(berrors.TypeMismatch)
		}

		var n int
		if l, ok := v.(*object.Integer); ok {
			n = compareInt(l.Value, r.(*object.Integer).Value)
		} else {
			// shorter common prefix first, ties go to length
			n = bytes.Compare(v.(*object.BStr).Value, r.(*object.BStr).Value)
		}

		truth := false
		switch op {
		case token.LT:
			truth = n < 0
		case token.GT:
			truth = n > 0
		case token.EQ:
			truth = n == 0
		case token.NOT_EQ:
			truth = n != 0
		case token.LTE:
			truth = n <= 0
		case token.GTE:
			truth = n >= 0
		}

		if truth {
			v = &object.Integer{Value: 1}
		} else {
			v = &object.Integer{Value: 0}
		}
	}
}

func relOp(t token.TokenType) bool {
	switch t {
	case token.LT, token.GT, token.EQ, token.NOT_EQ, token.LTE, token.GTE:
		return true
	}
	return false
}

func compareInt(l, r int32) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// concat joins two strings in the scratch arena
func (i *Interp) concat(l, r *object.BStr) *object.BStr {
	p := i.alloc(len(l.Value) + len(r.Value))
	copy(p, l.Value)
	copy(p[len(l.Value):], r.Value)
	return &object.BStr{Value: p}
}

// intExpr evaluates an expression that has to come out an integer
func (i *Interp) intExpr() int32 {
	return i.typecheckInt(i.expr())
}

// bracketedIntExpr parses ( expr ) and checks for an integer
func (i *Interp) bracketedIntExpr() int32 {
	i.accept(token.LPAREN)
	v := i.intExpr()
	i.accept(token.RPAREN)
	return v
}

func (i *Interp) typecheckInt(v object.Object) int32 {
	n, ok := v.(*object.Integer)
	if !ok {
		i.fail(berrors.TypeMismatch)
	}
	return n.Value
}

func (i *Interp) typecheckStr(v object.Object) []byte {
	bs, ok := v.(*object.BStr)
	if !ok {
		i.fail(berrors.TypeMismatch)
	}
	return bs.Value
}

// alloc grabs scratch space, translating arena complaints into
// interpreter halts
func (i *Interp) alloc(n int) []byte {
	p, err := i.scratch.Alloc(n)
	if err == arena.ErrTooLong {
		i.fail(berrors.String2Long)
	}
	if err != nil {
		i.fail(berrors.OutOfMemory)
	}
	return p
}
