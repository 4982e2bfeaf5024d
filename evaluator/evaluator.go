// Package evaluator executes a BASIC program straight from its source
// text. There is no syntax tree and no bytecode, each statement is
// parsed and run in one recursive descent pass, and jumps simply move
// the tokenizer to a different spot in the text.
package evaluator

import (
	"math/rand"
	"time"

	"github.com/navionguy/microbasic/arena"
	"github.com/navionguy/microbasic/berrors"
	"github.com/navionguy/microbasic/console"
	"github.com/navionguy/microbasic/object"
	"github.com/navionguy/microbasic/store"
	"github.com/navionguy/microbasic/token"
	"github.com/navionguy/microbasic/tokenizer"
)

// PeekFunc reads one host address for PEEK
type PeekFunc func(addr int32) int32

// PokeFunc writes one host address for POKE
type PokeFunc func(addr int32, val int32)

const (
	maxGosubDepth = 10
	maxForDepth   = 4
)

// forFrame remembers one active FOR loop
type forFrame struct {
	lineAfter int // line to resume at on each NEXT
	slot      int // the loop variable
	to        int32
	step      int32
}

// Interp is one program mid-execution. Everything the run touches
// lives in here, so a host can keep several programs going at once.
type Interp struct {
	tok  *tokenizer.Tokenizer
	cons console.Console
	peek PeekFunc
	poke PokeFunc

	scratch *arena.Arena
	vars    *store.Store

	gosubStack []int
	forStack   []forFrame

	// line number -> tokenizer bookmark, grown as lines execute,
	// first registration wins
	lines map[int]int

	dataPos  int  // bookmark of the DATA cursor
	dataSeek bool // cursor needs a seek before the next read

	arrayBase int32 // index origin for arrays, once arrays exist

	strict bool
	rnd    *rand.Rand
	line   int // line being executed, for diagnostics
	ended  bool
	halt   *berrors.BasicError
}

// New readies a program for execution. Host hooks default to a PEEK
// of zero and a POKE that lands nowhere.
func New(program string, cons console.Console) *Interp {
	return NewWithHooks(program, cons, nil, nil)
}

// NewWithHooks also wires up the host's PEEK/POKE handlers
func NewWithHooks(program string, cons console.Console, peek PeekFunc, poke PokeFunc) *Interp {
	if peek == nil {
		peek = func(int32) int32 { return 0 }
	}
	if poke == nil {
		poke = func(int32, int32) {}
	}

	return &Interp{
		tok:      tokenizer.New(program),
		cons:     cons,
		peek:     peek,
		poke:     poke,
		scratch:  arena.New(arena.DefaultSize),
		vars:     store.New(),
		lines:    make(map[int]int),
		dataSeek: true,
		rnd:      rand.New(rand.NewSource(0)),
	}
}

// SetStrict makes the two historically silent control-flow slips,
// RETURN with no GOSUB pending and one FOR too many, fatal instead
func (i *Interp) SetStrict(on bool) {
	i.strict = on
}

// Run executes exactly one program line. The host keeps calling it
// until Finished reports true, and may do whatever it likes between
// calls. A non-nil return is the halt diagnostic, the run is over.
func (i *Interp) Run() (err error) {
	if i.halt != nil {
		return i.halt
	}

	// blank lines carry no statement
	for i.tok.Token() == token.EOL {
		i.tok.Next()
	}
	if i.tok.Finished() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*berrors.BasicError)
			if !ok {
				panic(r)
			}
			i.halt = be
			i.ended = true
			err = be
		}
	}()

	i.lineStatement()
	return nil
}

// Finished reports whether the program has stopped or run off the end
func (i *Interp) Finished() bool {
	return i.ended || i.tok.Finished()
}

// GetVariable lets the host inspect a program variable by name,
// "A", "B3" or "C$"
func (i *Interp) GetVariable(name string) (object.Object, error) {
	slot, isStr, err := store.SlotFor(name)
	if err != nil {
		return nil, err
	}

	if isStr {
		b, err := i.vars.Str(slot)
		if err != nil {
			return nil, err
		}
		own := make([]byte, len(b))
		copy(own, b)
		return &object.BStr{Value: own}, nil
	}

	v, err := i.vars.Int(slot)
	if err != nil {
		return nil, err
	}
	return &object.Integer{Value: v}, nil
}

// SetVariable lets the host inject a value before or between lines
func (i *Interp) SetVariable(name string, val object.Object) error {
	slot, isStr, err := store.SlotFor(name)
	if err != nil {
		return err
	}

	switch val := val.(type) {
	case *object.BStr:
		if !isStr {
			return berrors.NewError(berrors.TypeMismatch, 0)
		}
		return i.vars.SetStr(slot, val.Value)
	case *object.Integer:
		if isStr {
			return berrors.NewError(berrors.TypeMismatch, 0)
		}
		return i.vars.SetInt(slot, val.Value)
	}
	return berrors.NewError(berrors.TypeMismatch, 0)
}

// fail abandons the run with a diagnostic, unwound by Run
func (i *Interp) fail(code int) {
	panic(berrors.NewError(code, i.line))
}

// accept insists the current token is tt, steps past it and returns
// the type of the token now under the cursor
func (i *Interp) accept(tt token.TokenType) token.TokenType {
	if i.tok.Token() != tt {
		i.fail(berrors.Syntax)
	}
	i.tok.Next()
	return i.tok.Token()
}

// endOfStatement steps past the end of the current statement. A
// dangling ELSE means an IF already took its THEN branch, the rest
// of the line is dead.
func (i *Interp) endOfStatement() {
	if i.tok.Token() == token.ELSE {
		for i.tok.Token() != token.EOL && i.tok.Token() != token.EOF {
			i.tok.Next()
		}
	}
	if i.tok.Token() == token.EOF {
		return
	}
	i.accept(token.EOL)
}

// lineStatement registers the line in the jump index and executes it
func (i *Interp) lineStatement() {
	if i.tok.Token() != token.LINENUM {
		i.fail(berrors.Syntax)
	}
	i.line = i.tok.Num()
	i.indexAdd(i.line, i.tok.Pos())
	i.accept(token.LINENUM)
	i.statement()
}

// statement dispatches on the leading keyword. Scratch strings from
// the previous statement die here.
func (i *Interp) statement() {
	i.scratch.Reset()

	switch i.tok.Token() {
	case token.PRINT:
		i.printStatement()
	case token.IF:
		i.ifStatement()
	case token.GOTO:
		i.gotoStatement()
	case token.GOSUB:
		i.gosubStatement()
	case token.RETURN:
		i.returnStatement()
	case token.FOR:
		i.forStatement()
	case token.NEXT:
		i.nextStatement()
	case token.POKE:
		i.pokeStatement()
	case token.STOP:
		i.stopStatement()
	case token.REM:
		i.remStatement()
	case token.DATA:
		i.dataStatement()
	case token.RANDOMIZE:
		i.randomizeStatement()
	case token.OPTION:
		i.optionStatement()
	case token.INPUT:
		i.inputStatement()
	case token.RESTORE:
		i.restoreStatement()
	case token.LET:
		i.accept(token.LET)
		i.letStatement()
	case token.INTVAR, token.STRVAR:
		i.letStatement()
	default:
		i.fail(berrors.Syntax)
	}
}

// letStatement handles both LET A = ... and the bare A = ... form
func (i *Interp) letStatement() {
	isStr := i.tok.Token() == token.STRVAR
	if !isStr && i.tok.Token() != token.INTVAR {
		i.fail(berrors.Syntax)
	}
	slot := i.tok.VarSlot()
	i.tok.Next()

	i.accept(token.EQ)
	v := i.expr()
	i.assign(slot, isStr, v)
	i.endOfStatement()
}

// assign stores a value with type checking. The store copies string
// bytes, so scratch-arena values are safe to hand over.
func (i *Interp) assign(slot int, isStr bool, v object.Object) {
	if isStr {
		bs, ok := v.(*object.BStr)
		if !ok {
			i.fail(berrors.TypeMismatch)
		}
		if err := i.vars.SetStr(slot, bs.Value); err != nil {
			i.fail(berrors.String2Long)
		}
		return
	}

	n, ok := v.(*object.Integer)
	if !ok {
		i.fail(berrors.TypeMismatch)
	}
	if err := i.vars.SetInt(slot, n.Value); err != nil {
		i.fail(berrors.Syntax)
	}
}

func (i *Interp) printStatement() {
	i.accept(token.PRINT)
	nonl := false

	for {
		t := i.tok.Token()
		if t == token.EOL || t == token.EOF || t == token.ELSE {
			break
		}
		nonl = false

		switch {
		case t == token.STRING:
			// literals print straight from the token, they never
			// touch the scratch arena
			i.cons.Print(i.tok.StringLit())
			i.tok.Next()
		case t == token.COMMA:
			i.cons.Print("\t")
			nonl = true
			i.tok.Next()
		case t == token.SEMICOLON:
			nonl = true
			i.tok.Next()
		case t == token.TAB:
			i.accept(token.TAB)
			i.cons.Tab(int(i.bracketedIntExpr()))
		default:
			v := i.expr()
			switch v := v.(type) {
			case *object.Integer:
				i.cons.Print(v.Inspect())
			case *object.BStr:
				i.cons.Print(string(v.Value))
			}
		}
	}

	if !nonl {
		i.cons.Println("")
	}
	i.endOfStatement()
}

func (i *Interp) ifStatement() {
	i.accept(token.IF)
	cond := i.typecheckInt(i.relation())
	i.accept(token.THEN)

	if cond != 0 {
		i.statement()
		return
	}

	// skip ahead to the ELSE branch, or failing that the line end
	for i.tok.Token() != token.ELSE &&
		i.tok.Token() != token.EOL &&
		i.tok.Token() != token.EOF {
		i.tok.Next()
	}
	if i.tok.Token() == token.ELSE {
		i.tok.Next()
		i.statement()
	} else if i.tok.Token() == token.EOL {
		i.tok.Next()
	}
}

func (i *Interp) gotoStatement() {
	i.accept(token.GOTO)
	n := int(i.intExpr())
	i.endOfStatement()
	i.jump(n)
}

func (i *Interp) gosubStatement() {
	i.accept(token.GOSUB)
	n := int(i.intExpr())
	i.endOfStatement()

	if len(i.gosubStack) >= maxGosubDepth {
		i.fail(berrors.GosubOverflow)
	}

	// the cursor now sits on the next line, that's where RETURN
	// comes back to
	ret := 0
	if i.tok.Token() == token.LINENUM {
		ret = i.tok.Num()
	}
	i.gosubStack = append(i.gosubStack, ret)
	i.jump(n)
}

func (i *Interp) returnStatement() {
	i.accept(token.RETURN)

	if len(i.gosubStack) == 0 {
		if i.strict {
			i.fail(berrors.ReturnWoGosub)
		}
		// historically ignored
		i.endOfStatement()
		return
	}

	ret := i.gosubStack[len(i.gosubStack)-1]
	i.gosubStack = i.gosubStack[:len(i.gosubStack)-1]
	i.jump(ret)
}

func (i *Interp) forStatement() {
	i.accept(token.FOR)
	if i.tok.Token() != token.INTVAR {
		i.fail(berrors.Syntax)
	}
	slot := i.tok.VarSlot()
	i.tok.Next()
	i.accept(token.EQ)

	v := i.intExpr()
	i.setInt(slot, v)

	i.accept(token.TO)
	to := i.intExpr()

	step := int32(1)
	if i.tok.Token() == token.STEP {
		i.accept(token.STEP)
		step = i.intExpr()
	}
	i.endOfStatement()

	if len(i.forStack) >= maxForDepth {
		if i.strict {
			i.fail(berrors.ForOverflow)
		}
		// untracked, the body still runs once
		return
	}

	i.forStack = append(i.forStack, forFrame{
		lineAfter: i.tok.Num(),
		slot:      slot,
		to:        to,
		step:      step,
	})
}

func (i *Interp) nextStatement() {
	i.accept(token.NEXT)
	if i.tok.Token() != token.INTVAR {
		i.fail(berrors.Syntax)
	}
	slot := i.tok.VarSlot()
	i.tok.Next()

	// only the innermost loop is ever considered
	if len(i.forStack) == 0 || i.forStack[len(i.forStack)-1].slot != slot {
		i.fail(berrors.MismatchedNext)
	}
	fs := &i.forStack[len(i.forStack)-1]

	v := i.getInt(slot) + fs.step
	i.setInt(slot, v)

	// whether the loop is done depends on the sign of STEP
	if (fs.step >= 0 && v <= fs.to) || (fs.step < 0 && v >= fs.to) {
		i.jump(fs.lineAfter)
		return
	}

	i.forStack = i.forStack[:len(i.forStack)-1]
	i.endOfStatement()
}

func (i *Interp) pokeStatement() {
	i.accept(token.POKE)
	addr := i.intExpr()
	i.accept(token.COMMA)
	val := i.intExpr()
	i.endOfStatement()

	i.poke(addr, val)
}

func (i *Interp) stopStatement() {
	i.accept(token.STOP)
	i.endOfStatement()
	i.ended = true
}

func (i *Interp) remStatement() {
	// comment text isn't tokens, skip it raw
	i.tok.SkipLine()
}

// dataStatement validates the literal list and steps over it. The
// cursor machinery for RESTORE is in place but READ never made it
// into the dialect.
func (i *Interp) dataStatement() {
	i.accept(token.DATA)

	for {
		t := i.tok.Token()
		if t != token.STRING && t != token.NUM {
			i.fail(berrors.Syntax)
		}
		i.tok.Next()

		if i.tok.Token() == token.COMMA {
			i.tok.Next()
			continue
		}
		i.endOfStatement()
		return
	}
}

func (i *Interp) randomizeStatement() {
	t := i.accept(token.RANDOMIZE)

	seed := int32(0)
	if t != token.EOL && t != token.ELSE && t != token.EOF {
		seed = i.intExpr()
	}
	i.endOfStatement()

	// a nonzero seed asks for an unpredictable series, otherwise
	// the generator restarts on its fixed default
	if seed != 0 {
		i.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		return
	}
	i.rnd = rand.New(rand.NewSource(0))
}

func (i *Interp) optionStatement() {
	i.accept(token.OPTION)
	i.accept(token.BASE)
	base := i.intExpr()
	i.endOfStatement()

	if base < 0 || base > 1 {
		i.fail(berrors.InvalidBase)
	}
	i.arrayBase = base
}

func (i *Interp) inputStatement() {
	t := i.accept(token.INPUT)

	if t == token.STRING {
		i.cons.Print(i.tok.StringLit())
		i.tok.Next()
		if i.tok.Token() == token.COMMA {
			i.accept(token.COMMA)
		} else {
			i.accept(token.SEMICOLON)
		}
	} else {
		i.cons.Print("? ")
	}

	for {
		t = i.tok.Token()
		if t != token.INTVAR && t != token.STRVAR {
			i.fail(berrors.Syntax)
		}
		slot := i.tok.VarSlot()
		i.tok.Next()

		line, err := i.cons.ReadLine()
		if err != nil {
			i.fail(berrors.EndOfInput)
		}

		if t == token.STRVAR {
			if err := i.vars.SetStr(slot, []byte(line)); err != nil {
				i.fail(berrors.String2Long)
			}
		} else {
			i.setInt(slot, atoi(line))
		}

		t = i.tok.Token()
		if t == token.EOL || t == token.ELSE || t == token.EOF {
			break
		}
		if t != token.COMMA && t != token.SEMICOLON {
			i.fail(berrors.Syntax)
		}
		i.tok.Next()
	}
	i.endOfStatement()
}

func (i *Interp) restoreStatement() {
	t := i.accept(token.RESTORE)

	n := 0
	if t != token.EOL && t != token.ELSE && t != token.EOF {
		n = int(i.intExpr())
	}
	i.endOfStatement()

	if n != 0 {
		// find the target line without losing our place
		i.tok.Push()
		i.jump(n)
		i.dataPos = i.tok.Pos()
		i.tok.Pop()
	} else {
		i.dataPos = 0
	}
	i.dataSeek = true
}

// jump moves execution to the named line, through the index when the
// line has already been seen, otherwise by rescanning from the top
func (i *Interp) jump(n int) {
	if pos, ok := i.lines[n]; ok {
		i.tok.Goto(pos)
		return
	}
	i.jumpSlow(n)
}

// jumpSlow hunts line by line from the start of the program. Lines it
// passes over are not indexed, they get registered when they execute.
func (i *Interp) jumpSlow(n int) {
	i.tok.Reset()
	for {
		if i.tok.Token() == token.LINENUM && i.tok.Num() == n {
			return
		}
		if i.tok.Finished() {
			i.fail(berrors.UnDefinedLineNumber)
		}
		i.tok.SkipLine()
	}
}

func (i *Interp) indexAdd(n, pos int) {
	if _, ok := i.lines[n]; !ok {
		i.lines[n] = pos
	}
}

// getInt and setInt wrap the store for slots the tokenizer produced,
// which are always in range
func (i *Interp) getInt(slot int) int32 {
	v, err := i.vars.Int(slot)
	if err != nil {
		i.fail(berrors.Syntax)
	}
	return v
}

func (i *Interp) setInt(slot int, v int32) {
	if err := i.vars.SetInt(slot, v); err != nil {
		i.fail(berrors.Syntax)
	}
}

// atoi clips a leading integer off an INPUT line, zero if none
func atoi(s string) int32 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var n int32
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int32(s[i]-'0')
		i++
	}
	if neg {
		return -n
	}
	return n
}
