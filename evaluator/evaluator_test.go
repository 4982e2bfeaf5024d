package evaluator

import (
	"strings"
	"testing"

	"github.com/navionguy/microbasic/berrors"
	"github.com/navionguy/microbasic/mocks"
	"github.com/navionguy/microbasic/object"
	"github.com/stretchr/testify/assert"
)

// drive keeps calling Run the way a host would, with a step cap so a
// broken test can't spin forever
func drive(i *Interp) error {
	for n := 0; !i.Finished() && n < 10000; n++ {
		if err := i.Run(); err != nil {
			return err
		}
	}
	return nil
}

func runSrc(src string, input ...string) (*Interp, *mocks.MockTerm, error) {
	mt := mocks.NewMockTerm(input...)
	i := New(src, mt)
	err := drive(i)
	return i, mt, err
}

func TestScenarioAddition(t *testing.T) {
	src := "10 LET A=1\n20 LET B=2\n30 PRINT A+B\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "3\n", mt.Output.String())
}

func TestScenarioLeftStr(t *testing.T) {
	src := "10 LET A$=\"HELLO\"\n20 PRINT LEFT$(A$,3)\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "HEL\n", mt.Output.String())
}

func TestScenarioForLoop(t *testing.T) {
	src := "10 FOR I=1 TO 3\n20 PRINT I\n30 NEXT I\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", mt.Output.String())
}

func TestScenarioGosub(t *testing.T) {
	src := `10 GOSUB 100
20 PRINT "DONE"
30 STOP
100 PRINT "SUB"
110 RETURN
`

	i, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "SUB\nDONE\n", mt.Output.String())
	assert.True(t, i.Finished())
}

func TestScenarioDivByZero(t *testing.T) {
	src := "10 PRINT 1/0\n"

	i, _, err := runSrc(src)
	assert.EqualError(t, err, "Line 10: Division by zero error.")
	assert.True(t, i.Finished())

	// the host gets the category and line, not just text
	be, ok := err.(*berrors.BasicError)
	assert.True(t, ok)
	assert.Equal(t, berrors.DivByZero, be.Code)
	assert.Equal(t, 10, be.Line)

	// the halt is sticky
	assert.EqualError(t, i.Run(), "Line 10: Division by zero error.")
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2+3*4", "14"},
		{"(2+3)*4", "20"},
		{"10-4-3", "3"},
		{"7 MOD 4", "3"},
		{"20/4/5", "1"},
		{"6 AND 3", "2"},
		{"6 OR 1", "7"},
		{"2+4 AND 3", "2"},
	}

	for _, tt := range tests {
		_, mt, err := runSrc("10 PRINT " + tt.expr + "\n")
		assert.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want+"\n", mt.Output.String(), tt.expr)
	}
}

func TestRelationChaining(t *testing.T) {
	// 5>4 folds to 1, then 1>0 holds
	_, mt, err := runSrc("10 IF 5>4>0 THEN PRINT \"T\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "T\n", mt.Output.String())

	// 5>4 folds to 1, and 1>2 does not
	_, mt, err = runSrc("10 IF 5>4>2 THEN PRINT \"T\" ELSE PRINT \"F\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "F\n", mt.Output.String())
}

func TestIfElse(t *testing.T) {
	_, mt, err := runSrc("10 IF 1=2 THEN PRINT \"T\" ELSE PRINT \"F\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "F\n", mt.Output.String())

	// a taken THEN branch leaves the ELSE clause dead
	_, mt, err = runSrc("10 IF 1=1 THEN PRINT \"T\" ELSE PRINT \"F\"\n20 PRINT \"ON\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "T\nON\n", mt.Output.String())

	// GOTO in the taken branch wins over the dead ELSE
	_, mt, err = runSrc("10 IF 1=1 THEN GOTO 30 ELSE PRINT \"F\"\n20 PRINT \"NO\"\n30 PRINT \"YES\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "YES\n", mt.Output.String())

	// false with no ELSE just moves on
	_, mt, err = runSrc("10 IF 1=2 THEN PRINT \"T\"\n20 PRINT \"ON\"\n")
	assert.NoError(t, err)
	assert.Equal(t, "ON\n", mt.Output.String())
}

func TestStringCompare(t *testing.T) {
	tests := []struct {
		cond string
		want string
	}{
		{"\"A\" < \"B\"", "T"},
		{"\"AB\" < \"ABC\"", "T"}, // ties broken by length
		{"\"ABC\" <= \"AB\"", "F"},
		{"\"X\" = \"X\"", "T"},
		{"\"X\" <> \"X\"", "F"},
	}

	for _, tt := range tests {
		src := "10 IF " + tt.cond + " THEN PRINT \"T\" ELSE PRINT \"F\"\n"
		_, mt, err := runSrc(src)
		assert.NoError(t, err, tt.cond)
		assert.Equal(t, tt.want+"\n", mt.Output.String(), tt.cond)
	}
}

func TestMixedCompareFails(t *testing.T) {
	_, _, err := runSrc("10 IF \"A\" = 1 THEN PRINT \"T\"\n")
	assert.EqualError(t, err, "Line 10: Type mismatch error.")
}

func TestConcat(t *testing.T) {
	src := "10 LET A$=\"FOO\"+\"BAR\"\n20 PRINT A$;LEN(A$)\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "FOOBAR6\n", mt.Output.String())
}

func TestConcatTooLong(t *testing.T) {
	long := strings.Repeat("A", 200)
	src := "10 LET A$=\"" + long + "\"\n20 LET B$=A$+A$\n"

	_, _, err := runSrc(src)
	assert.EqualError(t, err, "Line 20: String too long error.")
}

func TestScratchExhaustion(t *testing.T) {
	// four literals plus two concats overflow the 512 byte arena
	// inside a single statement
	a := strings.Repeat("A", 120)
	src := "10 PRINT \"" + a + "\"+\"" + a + "\";\"" + a + "\"+\"" + a + "\"\n"

	_, _, err := runSrc(src)
	assert.EqualError(t, err, "Line 10: Out of memory error.")
}

func TestArenaSurvivesAssignment(t *testing.T) {
	// A$ is built in the arena on line 10, the store's copy has to
	// survive the arena reuse on lines 20 and 30
	src := `10 LET A$="KEEP"+"SAFE"
20 LET B$="X"+"Y"
30 PRINT A$
`

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "KEEPSAFE\n", mt.Output.String())
}

func TestVariableSlots(t *testing.T) {
	// A and A0 are different variables
	src := "10 LET A=1\n20 LET A0=2\n30 PRINT A;A0\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "12\n", mt.Output.String())
}

func TestPrintSeparators(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"10 PRINT 1,2\n", "1       2\n"},
		{"10 PRINT 1;2\n", "12\n"},
		{"10 PRINT 1;\n", "1"},
		{"10 PRINT \"A\",\n", "A       "},
		{"10 PRINT TAB(5);\"X\"\n", "     X\n"},
		{"10 PRINT\n", "\n"},
	}

	for _, tt := range tests {
		_, mt, err := runSrc(tt.src)
		assert.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, mt.Output.String(), tt.src)
	}
}

func TestGotoForward(t *testing.T) {
	src := `10 GOTO 40
20 PRINT "SKIPPED"
30 STOP
40 PRINT "HERE"
`

	i, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "HERE\n", mt.Output.String())

	// the jump target got found by the fallback scan and is now
	// registered for next time
	_, cached := i.lines[40]
	assert.True(t, cached)
	_, cached = i.lines[20]
	assert.False(t, cached, "skipped lines aren't indexed by the scan")
}

func TestGotoLoopUsesIndex(t *testing.T) {
	src := `10 LET C=C+1
20 IF C<3 THEN GOTO 10
30 PRINT C
`

	i, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "3\n", mt.Output.String())
	_, cached := i.lines[10]
	assert.True(t, cached)
}

func TestGotoUndefinedLine(t *testing.T) {
	_, _, err := runSrc("10 GOTO 99\n")
	assert.EqualError(t, err, "Line 10: Undefined line number error.")
}

func TestGosubOverflow(t *testing.T) {
	// each call to line 10 pushes another frame
	_, _, err := runSrc("10 GOSUB 10\n")
	assert.EqualError(t, err, "Line 10: GOSUB stack overflow error.")
}

func TestReturnWithoutGosub(t *testing.T) {
	src := "10 RETURN\n20 PRINT \"OK\"\n"

	// historically a no-op
	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "OK\n", mt.Output.String())

	// strict hosts get the halt instead
	mt = mocks.NewMockTerm()
	i := New(src, mt)
	i.SetStrict(true)
	err = drive(i)
	assert.EqualError(t, err, "Line 10: RETURN without GOSUB error.")
}

func TestForCountsDown(t *testing.T) {
	// no unary minus in the grammar, a negative step is written as
	// an expression
	src := "10 FOR I=3 TO 1 STEP 0-1\n20 PRINT I\n30 NEXT I\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "3\n2\n1\n", mt.Output.String())
}

func TestForBodyRunsOnceBeforeCheck(t *testing.T) {
	// the bound is only tested at NEXT, so an already-exceeded loop
	// still runs its body once
	src := "10 FOR I=5 TO 1\n20 PRINT I\n30 NEXT I\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "5\n", mt.Output.String())
}

func TestForStep(t *testing.T) {
	src := "10 FOR I=1 TO 7 STEP 3\n20 PRINT I\n30 NEXT I\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "1\n4\n7\n", mt.Output.String())
}

func TestForNested(t *testing.T) {
	src := `10 FOR I=1 TO 2
20 FOR J=1 TO 2
30 PRINT I;J
40 NEXT J
50 NEXT I
`

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "11\n12\n21\n22\n", mt.Output.String())
}

func TestForOverflow(t *testing.T) {
	src := `10 FOR A=1 TO 1
20 FOR B=1 TO 1
30 FOR C=1 TO 1
40 FOR D=1 TO 1
50 FOR E=1 TO 9
60 PRINT "X"
70 NEXT D
80 NEXT C
90 NEXT B
95 NEXT A
`

	// the fifth loop is untracked, its body runs once and NEXT D
	// still matches the real top frame
	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "X\n", mt.Output.String())

	// strict hosts halt at the fifth FOR
	mt = mocks.NewMockTerm()
	i := New(src, mt)
	i.SetStrict(true)
	err = drive(i)
	assert.EqualError(t, err, "Line 50: FOR stack overflow error.")
}

func TestMismatchedNext(t *testing.T) {
	src := "10 FOR I=1 TO 2\n20 NEXT J\n"

	_, _, err := runSrc(src)
	assert.EqualError(t, err, "Line 20: Mismatched NEXT error.")
}

func TestPeekPoke(t *testing.T) {
	mem := map[int32]int32{}
	peek := func(addr int32) int32 { return mem[addr] }
	poke := func(addr, val int32) { mem[addr] = val }

	src := "10 POKE 100,42\n20 PRINT PEEK(100);PEEK(200)\n"
	mt := mocks.NewMockTerm()
	i := NewWithHooks(src, mt, peek, poke)

	assert.NoError(t, drive(i))
	assert.Equal(t, "420\n", mt.Output.String())
	assert.Equal(t, int32(42), mem[100])
}

func TestPokeWithoutHooks(t *testing.T) {
	// default hooks read zero and drop writes
	_, mt, err := runSrc("10 POKE 1,2\n20 PRINT PEEK(1)\n")
	assert.NoError(t, err)
	assert.Equal(t, "0\n", mt.Output.String())
}

func TestInput(t *testing.T) {
	src := "10 INPUT A\n20 INPUT \"NAME\";A$\n30 PRINT A;A$\n"

	_, mt, err := runSrc(src, "7", "HELLO")
	assert.NoError(t, err)
	assert.Equal(t, "? NAME7HELLO\n", mt.Output.String())
}

func TestInputMultipleVars(t *testing.T) {
	src := "10 INPUT A,B\n20 PRINT A+B\n"

	_, mt, err := runSrc(src, "3", "4")
	assert.NoError(t, err)
	assert.Equal(t, "? 7\n", mt.Output.String())
}

func TestInputCoercion(t *testing.T) {
	// integers clip a leading number off the line, garbage reads 0
	src := "10 INPUT A,B,C\n20 PRINT A;B;C\n"

	_, mt, err := runSrc(src, "  42tail", "-7", "junk")
	assert.NoError(t, err)
	assert.Equal(t, "? 42-70\n", mt.Output.String())
}

func TestInputEOF(t *testing.T) {
	_, _, err := runSrc("10 INPUT A\n")
	assert.EqualError(t, err, "Line 10: End of input error.")
}

func TestStopEndsRun(t *testing.T) {
	src := "10 STOP\n20 PRINT \"NO\"\n"

	i, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.True(t, i.Finished())
	assert.Equal(t, "", mt.Output.String())
}

func TestRem(t *testing.T) {
	src := "10 REM ?!@# anything goes here \"\n20 PRINT \"OK\"\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "OK\n", mt.Output.String())
}

func TestData(t *testing.T) {
	src := "10 DATA 1,2,\"THREE\"\n20 PRINT \"OK\"\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "OK\n", mt.Output.String())

	// a dangling comma is not a literal list
	_, _, err = runSrc("10 DATA 1,,2\n")
	assert.EqualError(t, err, "Line 10: Syntax error.")
}

func TestRestore(t *testing.T) {
	src := `10 DATA 1,2
20 RESTORE 40
30 PRINT "MID"
40 DATA 3,4
50 RESTORE
60 PRINT "END"
`

	i, mt, err := runSrc(src)
	assert.NoError(t, err)
	// the main cursor was undisturbed by the seek on line 20
	assert.Equal(t, "MID\nEND\n", mt.Output.String())
	// line 50 put the cursor back to the program start
	assert.Equal(t, 0, i.dataPos)
	assert.True(t, i.dataSeek)
}

func TestRestoreTarget(t *testing.T) {
	src := "10 RESTORE 30\n20 STOP\n30 DATA 5\n"

	i, _, err := runSrc(src)
	assert.NoError(t, err)
	assert.NotEqual(t, 0, i.dataPos, "cursor points at line 30")
}

func TestOptionBase(t *testing.T) {
	i, _, err := runSrc("10 OPTION BASE 1\n")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), i.arrayBase)

	_, _, err = runSrc("10 OPTION BASE 2\n")
	assert.EqualError(t, err, "Line 10: Invalid base error.")
}

func TestRandomize(t *testing.T) {
	// both forms parse and run, the series itself is the host's
	// problem
	_, _, err := runSrc("10 RANDOMIZE\n")
	assert.NoError(t, err)

	_, _, err = runSrc("10 RANDOMIZE 7\n")
	assert.NoError(t, err)
}

func TestHostVariables(t *testing.T) {
	src := "10 LET B=A*2\n20 LET B$=A$+\"!\"\n"

	mt := mocks.NewMockTerm()
	i := New(src, mt)
	assert.NoError(t, i.SetVariable("A", &object.Integer{Value: 21}))
	assert.NoError(t, i.SetVariable("A$", &object.BStr{Value: []byte("HI")}))

	assert.NoError(t, drive(i))

	v, err := i.GetVariable("B")
	assert.NoError(t, err)
	assert.Equal(t, int32(42), v.(*object.Integer).Value)

	s, err := i.GetVariable("B$")
	assert.NoError(t, err)
	assert.Equal(t, "HI!", string(s.(*object.BStr).Value))

	// wrong-typed injection is refused
	assert.Error(t, i.SetVariable("A", &object.BStr{Value: []byte("X")}))
	_, err = i.GetVariable("happiness")
	assert.Error(t, err)
}

func TestSyntaxError(t *testing.T) {
	_, _, err := runSrc("10 PRINT +\n")
	assert.EqualError(t, err, "Line 10: Syntax error.")

	_, _, err = runSrc("10 WOBBLE\n")
	assert.EqualError(t, err, "Line 10: Syntax error.")
}

func TestLetTypeMismatch(t *testing.T) {
	_, _, err := runSrc("10 LET A=\"X\"\n")
	assert.EqualError(t, err, "Line 10: Type mismatch error.")

	_, _, err = runSrc("10 LET A$=5\n")
	assert.EqualError(t, err, "Line 10: Type mismatch error.")
}

func TestImplicitLet(t *testing.T) {
	src := "10 A=6\n20 A$=\"IMPLIED\"\n30 PRINT A;A$\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "6IMPLIED\n", mt.Output.String())
}

func TestBlankLinesTolerated(t *testing.T) {
	src := "10 PRINT \"A\"\n\n20 PRINT \"B\"\n\n"

	_, mt, err := runSrc(src)
	assert.NoError(t, err)
	assert.Equal(t, "A\nB\n", mt.Output.String())
}

func TestArithTypeMismatch(t *testing.T) {
	tests := []string{
		"10 PRINT 1+\"X\"\n",
		"10 PRINT \"X\"-1\n",
		"10 PRINT \"X\"*2\n",
		"10 PRINT \"A\"+1\n",
	}

	for _, src := range tests {
		_, _, err := runSrc(src)
		assert.EqualError(t, err, "Line 10: Type mismatch error.", src)
	}
}

func TestModByZero(t *testing.T) {
	_, _, err := runSrc("10 PRINT 5 MOD 0\n")
	assert.EqualError(t, err, "Line 10: Division by zero error.")
}
