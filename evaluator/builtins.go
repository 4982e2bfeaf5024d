package evaluator

import (
	"github.com/navionguy/microbasic/berrors"
	"github.com/navionguy/microbasic/object"
	"github.com/navionguy/microbasic/token"
)

// funcArgs parses a built-in's argument list against a signature
// string, 'I' for integer, 'S' for string. "SII" is MID$'s shape.
func (i *Interp) funcArgs(sig string) []object.Object {
	i.accept(token.LPAREN)

	args := make([]object.Object, 0, len(sig))
	for n := 0; n < len(sig); n++ {
		v := i.expr()
		switch sig[n] {
		case 'I':
			i.typecheckInt(v)
		case 'S':
			i.typecheckStr(v)
		}
		args = append(args, v)

		if n+1 < len(sig) {
			i.accept(token.COMMA)
		}
	}

	i.accept(token.RPAREN)
	return args
}

func (i *Interp) intBuiltin(t token.TokenType) object.Object {
	var v int32

	switch t {
	case token.PEEK:
		args := i.funcArgs("I")
		v = i.peek(argInt(args[0]))

	case token.ABS:
		args := i.funcArgs("I")
		v = argInt(args[0])
		if v < 0 {
			v = -v
		}

	case token.INT:
		// values are already integers, INT is a courtesy
		args := i.funcArgs("I")
		v = argInt(args[0])

	case token.SGN:
		args := i.funcArgs("I")
		v = argInt(args[0])
		if v > 1 {
			v = 1
		}
		if v < 0 {
			v = -1
		}

	case token.LEN:
		args := i.funcArgs("S")
		v = int32(len(argStr(args[0])))

	case token.CODE:
		args := i.funcArgs("S")
		b := argStr(args[0])
		if len(b) > 0 {
			v = int32(b[0])
		}

	case token.VAL:
		args := i.funcArgs("S")
		v = i.valOf(argStr(args[0]))

	default:
		i.fail(berrors.Syntax)
	}

	return &object.Integer{Value: v}
}

func (i *Interp) strBuiltin(t token.TokenType) object.Object {
	switch t {
	case token.LEFTSTR:
		args := i.funcArgs("SI")
		return i.stringCut(argStr(args[0]), 1, argInt(args[1]))

	case token.RIGHTSTR:
		args := i.funcArgs("SI")
		return i.stringCutRight(argStr(args[0]), argInt(args[1]))

	case token.MIDSTR:
		args := i.funcArgs("SII")
		return i.stringCut(argStr(args[0]), argInt(args[1]), argInt(args[2]))

	case token.CHRSTR:
		args := i.funcArgs("I")
		p := i.alloc(1)
		p[0] = byte(argInt(args[0]))
		return &object.BStr{Value: p}
	}

	i.fail(berrors.Syntax)
	return nil
}

// stringCut copies up to n bytes of s starting at the 1-based
// position l into the scratch arena. A start outside the string
// yields the empty string, a length past the end is clipped.
func (i *Interp) stringCut(s []byte, l, n int32) *object.BStr {
	f := int32(len(s))
	if l < 1 || l > f {
		return &object.BStr{Value: i.alloc(0)}
	}

	f -= l - 1
	if f < n {
		n = f
	}
	if n < 0 {
		n = 0
	}

	p := i.alloc(int(n))
	copy(p, s[l-1:int(l-1)+int(n)])
	return &object.BStr{Value: p}
}

// stringCutRight takes the final r bytes. Asking for the whole string
// or more comes back empty, as it always has.
func (i *Interp) stringCutRight(s []byte, r int32) *object.BStr {
	f := int32(len(s)) - r
	if f <= 0 {
		return &object.BStr{Value: i.alloc(0)}
	}
	return i.stringCut(s, f+1, r)
}

// valOf converts string digits to an integer, an optional minus sign
// then decimal digits. Anything else is a type mismatch.
func (i *Interp) valOf(s []byte) int32 {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 {
		i.fail(berrors.TypeMismatch)
	}

	var n int32
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			i.fail(berrors.TypeMismatch)
		}
		n = 10*n + int32(ch-'0')
	}

	if neg {
		return -n
	}
	return n
}

func argInt(v object.Object) int32 {
	return v.(*object.Integer).Value
}

func argStr(v object.Object) []byte {
	return v.(*object.BStr).Value
}
