// Package berrors defines the interpreter's error categories and the
// halt value handed back to the embedding host when a run dies.
package berrors

import "fmt"

const (
	Syntax = iota + 1
	TypeMismatch
	DivByZero
	OutOfMemory
	String2Long
	UnDefinedLineNumber
	MismatchedNext
	ReturnWoGosub
	GosubOverflow
	ForOverflow
	InvalidBase
	EndOfInput
)

// TextForError returns the error text based on error number
func TextForError(err int) string {
	switch err {
	case Syntax:
		return "Syntax"
	case TypeMismatch:
		return "Type mismatch"
	case DivByZero:
		return "Division by zero"
	case OutOfMemory:
		return "Out of memory"
	case String2Long:
		return "String too long"
	case UnDefinedLineNumber:
		return "Undefined line number"
	case MismatchedNext:
		return "Mismatched NEXT"
	case ReturnWoGosub:
		return "RETURN without GOSUB"
	case GosubOverflow:
		return "GOSUB stack overflow"
	case ForOverflow:
		return "FOR stack overflow"
	case InvalidBase:
		return "Invalid base"
	case EndOfInput:
		return "End of input"
	}

	return "Unprintable"
}

// BasicError reports why a run halted and on which line. The old
// interpreters printed this and killed the process, here the host
// gets it back from Run and decides.
type BasicError struct {
	Code int
	Line int
}

// NewError builds a halt value for the given category and line
func NewError(code, line int) *BasicError {
	return &BasicError{Code: code, Line: line}
}

func (be *BasicError) Error() string {
	if be.Line != 0 {
		return fmt.Sprintf("Line %d: %s error.", be.Line, TextForError(be.Code))
	}
	return fmt.Sprintf("%s error.", TextForError(be.Code))
}
