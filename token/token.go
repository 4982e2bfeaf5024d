package token

import "strings"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	EOL     = "EOL"

	// Literals + variables
	LINENUM = "####" // 10, 15, 20, ...
	NUM     = "NUM"  // numeric literal
	STRING  = "STRING"
	INTVAR  = "INTVAR" // A, B3, Z9
	STRVAR  = "STRVAR" // A$ .. Z$
	IDENT   = "IDENT"  // anything longer that isn't a keyword

	// Operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"

	EQ     = "="
	NOT_EQ = "<>"
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"

	// Keywords
	AND       = "AND"
	BASE      = "BASE"
	DATA      = "DATA"
	ELSE      = "ELSE"
	FOR       = "FOR"
	GOSUB     = "GOSUB"
	GOTO      = "GOTO"
	IF        = "IF"
	INPUT     = "INPUT"
	LET       = "LET"
	MOD       = "MOD"
	NEXT      = "NEXT"
	OPTION    = "OPTION"
	OR        = "OR"
	POKE      = "POKE"
	PRINT     = "PRINT"
	RANDOMIZE = "RANDOMIZE"
	REM       = "REM"
	RESTORE   = "RESTORE"
	RETURN    = "RETURN"
	STEP      = "STEP"
	STOP      = "STOP"
	TAB       = "TAB"
	THEN      = "THEN"
	TO        = "TO"

	// Built-in functions
	ABS      = "ABS"
	CHRSTR   = "CHR$"
	CODE     = "CODE"
	INT      = "INT"
	LEFTSTR  = "LEFT$"
	LEN      = "LEN"
	MIDSTR   = "MID$"
	PEEK     = "PEEK"
	RIGHTSTR = "RIGHT$"
	SGN      = "SGN"
	VAL      = "VAL"
)

type Token struct {
	Type    TokenType
	Literal string
}

var keywords = map[string]TokenType{
	"abs":       ABS,
	"and":       AND,
	"base":      BASE,
	"chr$":      CHRSTR,
	"code":      CODE,
	"data":      DATA,
	"else":      ELSE,
	"for":       FOR,
	"gosub":     GOSUB,
	"goto":      GOTO,
	"if":        IF,
	"input":     INPUT,
	"int":       INT,
	"left$":     LEFTSTR,
	"len":       LEN,
	"let":       LET,
	"mid$":      MIDSTR,
	"mod":       MOD,
	"next":      NEXT,
	"option":    OPTION,
	"or":        OR,
	"peek":      PEEK,
	"poke":      POKE,
	"print":     PRINT,
	"randomize": RANDOMIZE,
	"rem":       REM,
	"restore":   RESTORE,
	"return":    RETURN,
	"right$":    RIGHTSTR,
	"sgn":       SGN,
	"step":      STEP,
	"stop":      STOP,
	"tab":       TAB,
	"then":      THEN,
	"to":        TO,
	"val":       VAL,
}

// LookupIdent maps a keyword to its token type, anything
// unknown comes back as IDENT
func LookupIdent(ident string) TokenType {

	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// StringFunc reports whether the token starts a string-valued
// built-in function call
func StringFunc(t TokenType) bool {
	switch t {
	case LEFTSTR, RIGHTSTR, MIDSTR, CHRSTR:
		return true
	}
	return false
}

// IntFunc reports whether the token starts an integer-valued
// built-in function call
func IntFunc(t TokenType) bool {
	switch t {
	case PEEK, ABS, INT, SGN, LEN, CODE, VAL:
		return true
	}
	return false
}
