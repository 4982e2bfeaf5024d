// Package object holds the values the interpreter works on
package object

import (
	"bytes"
	"fmt"
)

// ObjectType can always be displayed as a string
type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

const (
	INTEGER_OBJ = "INTEGER"
	BSTR_OBJ    = "BSTR"
)

// MaxStrLen is the longest string value the dialect allows
const MaxStrLen = 255

// Integer values
type Integer struct {
	Value int32
}

// Type returns my type
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Inspect returns value as a string
func (i *Integer) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// BStr is a byte backed string, at most MaxStrLen bytes.
// Values built during expression evaluation point into the scratch
// arena, so they only live until the end of the statement. The store
// copies them on assignment.
type BStr struct {
	Value []byte
}

// Type returns my type BSTR_OBJ
func (bs *BStr) Type() ObjectType { return BSTR_OBJ }

// Inspect returns a displayable string, control bytes blanked
func (bs *BStr) Inspect() string {
	var out bytes.Buffer
	for _, bt := range bs.Value {
		if bt < 0x20 {
			out.WriteRune(' ')
		} else {
			out.WriteByte(bt)
		}
	}
	return out.String()
}
