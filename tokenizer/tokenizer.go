package tokenizer

import (
	"strconv"

	"github.com/navionguy/microbasic/token"
)

// Tokenizer is a cursor over the program text. It always exposes one
// current token plus its decoded payload. The evaluator moves it
// forward with Next, bookmarks it with Pos/Goto and Push/Pop, and
// rewinds it to the start of the program when it needs to hunt for a
// line that was never indexed.
type Tokenizer struct {
	input   string
	pos     int // offset where the current token starts
	readPos int // offset just past the current token
	tok     token.Token
	num     int
	varSlot int
	strLit  string
	marks   []int // saved positions for Push/Pop
}

// New creates a tokenizer and scans the first token
func New(input string) *Tokenizer {
	t := &Tokenizer{input: input}
	t.scan(0)
	return t
}

// Token reports the type of the current token
func (t *Tokenizer) Token() token.TokenType {
	return t.tok.Type
}

// Literal gives the raw text of the current token
func (t *Tokenizer) Literal() string {
	return t.tok.Literal
}

// Num is the decoded value of a NUM or LINENUM token
func (t *Tokenizer) Num() int {
	return t.num
}

// VarSlot is the store slot of an INTVAR or STRVAR token
func (t *Tokenizer) VarSlot() int {
	return t.varSlot
}

// StringLit is the body of a STRING token, quotes stripped
func (t *Tokenizer) StringLit() string {
	return t.strLit
}

// Next advances to the following token
func (t *Tokenizer) Next() {
	t.scan(t.readPos)
}

// Pos returns a bookmark for the current token. Handing it back to
// Goto reproduces the token exactly.
func (t *Tokenizer) Pos() int {
	return t.pos
}

// Goto rescans from a bookmark taken earlier with Pos
func (t *Tokenizer) Goto(pos int) {
	t.scan(pos)
}

// Reset rewinds to the start of the program text
func (t *Tokenizer) Reset() {
	t.scan(0)
}

// Push saves the current position so the cursor can wander off and
// come back, Pop restores the most recent save
func (t *Tokenizer) Push() {
	t.marks = append(t.marks, t.pos)
}

func (t *Tokenizer) Pop() {
	if len(t.marks) == 0 {
		return
	}
	pos := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	t.scan(pos)
}

// Finished reports end of input
func (t *Tokenizer) Finished() bool {
	return t.tok.Type == token.EOF
}

// SkipLine moves past the rest of the current source line without
// tokenizing it. REM needs this, comment text is not valid tokens.
func (t *Tokenizer) SkipLine() {
	i := t.pos
	for i < len(t.input) && t.input[i] != '\n' {
		i++
	}
	if i < len(t.input) {
		i++ // past the newline
	}
	t.scan(i)
}

// scan decodes the token starting at or after offset i
func (t *Tokenizer) scan(i int) {
	for i < len(t.input) && (t.input[i] == ' ' || t.input[i] == '\t' || t.input[i] == '\r') {
		i++
	}

	t.pos = i

	if i >= len(t.input) {
		t.set(token.EOF, "", i)
		return
	}

	ch := t.input[i]
	switch {
	case ch == '\n':
		t.set(token.EOL, "\n", i+1)
	case ch == '"':
		t.scanString(i)
	case isDigit(ch):
		t.scanNumber(i)
	case isLetter(ch):
		t.scanWord(i)
	default:
		t.scanOperator(i)
	}
}

func (t *Tokenizer) set(tt token.TokenType, lit string, readPos int) {
	t.tok = token.Token{Type: tt, Literal: lit}
	t.readPos = readPos
}

func (t *Tokenizer) scanString(i int) {
	j := i + 1
	for j < len(t.input) && t.input[j] != '"' && t.input[j] != '\n' {
		j++
	}
	if j >= len(t.input) || t.input[j] != '"' {
		// ran off the line without a closing quote
		t.set(token.ILLEGAL, t.input[i:j], j)
		return
	}
	t.strLit = t.input[i+1 : j]
	t.set(token.STRING, t.strLit, j+1)
}

func (t *Tokenizer) scanNumber(i int) {
	j := i
	for j < len(t.input) && isDigit(t.input[j]) {
		j++
	}
	lit := t.input[i:j]
	n, err := strconv.Atoi(lit)
	if err != nil {
		t.set(token.ILLEGAL, lit, j)
		return
	}
	t.num = n

	tt := token.TokenType(token.NUM)
	if t.atLineStart(i) {
		tt = token.LINENUM
	}
	t.set(tt, lit, j)
}

// atLineStart reports whether only blank space sits between offset i
// and the previous newline. A number there is a line number.
func (t *Tokenizer) atLineStart(i int) bool {
	for i > 0 {
		i--
		switch t.input[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (t *Tokenizer) scanWord(i int) {
	j := i
	for j < len(t.input) && isLetter(t.input[j]) {
		j++
	}

	if j-i == 1 {
		t.scanVariable(i, j)
		return
	}

	// keywords like LEFT$ carry their sigil
	if j < len(t.input) && t.input[j] == '$' {
		word := t.input[i : j+1]
		if tt := token.LookupIdent(word); tt != token.IDENT {
			t.set(tt, word, j+1)
			return
		}
	}

	word := t.input[i:j]
	t.set(token.LookupIdent(word), word, j)
}

// scanVariable decodes a single-letter name: A..Z with an optional
// digit (A0..Z9) for integers, or a $ sigil for strings
func (t *Tokenizer) scanVariable(i, j int) {
	letter := int(upper(t.input[i]) - 'A')

	if j < len(t.input) && t.input[j] == '$' {
		t.varSlot = letter
		t.set(token.STRVAR, t.input[i:j+1], j+1)
		return
	}

	// bare A lands in column 0, A0..A9 in columns 1..10
	col := 0
	if j < len(t.input) && isDigit(t.input[j]) {
		col = int(t.input[j]-'0') + 1
		j++
	}
	t.varSlot = letter*11 + col
	t.set(token.INTVAR, t.input[i:j], j)
}

func (t *Tokenizer) scanOperator(i int) {
	ch := t.input[i]
	two := byte(0)
	if i+1 < len(t.input) {
		two = t.input[i+1]
	}

	switch ch {
	case '<':
		if two == '=' {
			t.set(token.LTE, "<=", i+2)
			return
		}
		if two == '>' {
			t.set(token.NOT_EQ, "<>", i+2)
			return
		}
		t.set(token.LT, "<", i+1)
	case '>':
		if two == '=' {
			t.set(token.GTE, ">=", i+2)
			return
		}
		t.set(token.GT, ">", i+1)
	case '=':
		t.set(token.EQ, "=", i+1)
	case '+':
		t.set(token.PLUS, "+", i+1)
	case '-':
		t.set(token.MINUS, "-", i+1)
	case '*':
		t.set(token.ASTERISK, "*", i+1)
	case '/':
		t.set(token.SLASH, "/", i+1)
	case ',':
		t.set(token.COMMA, ",", i+1)
	case ';':
		t.set(token.SEMICOLON, ";", i+1)
	case '(':
		t.set(token.LPAREN, "(", i+1)
	case ')':
		t.set(token.RPAREN, ")", i+1)
	default:
		t.set(token.ILLEGAL, string(ch), i+1)
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func upper(ch byte) byte {
	if 'a' <= ch && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}
