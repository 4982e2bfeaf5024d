// Package store is the interpreter's long-lived variable state: the
// integer slot table and the owned string slots. It is the only place
// a string value survives past the end of a statement, so SetStr
// always takes its own copy.
package store

import (
	"errors"

	"github.com/navionguy/microbasic/object"
)

const (
	// IntSlots - A..Z each with a bare column plus columns A0..A9
	IntSlots = 26 * 11
	// StrSlots - A$..Z$
	StrSlots = 26
)

var (
	ErrBadSlot = errors.New("no such variable slot")
	ErrTooLong = errors.New("string too long")
	ErrBadName = errors.New("not a variable name")
)

// the shared sentinel for every unset string slot
var emptyStr = []byte{}

// Store holds every variable a program can touch
type Store struct {
	ints [IntSlots]int32
	strs [StrSlots][]byte
}

// New creates a store with all integers zero and all strings empty
func New() *Store {
	s := &Store{}
	for i := range s.strs {
		s.strs[i] = emptyStr
	}
	return s
}

// Int reads an integer slot
func (s *Store) Int(slot int) (int32, error) {
	if slot < 0 || slot >= IntSlots {
		return 0, ErrBadSlot
	}
	return s.ints[slot], nil
}

// SetInt writes an integer slot
func (s *Store) SetInt(slot int, v int32) error {
	if slot < 0 || slot >= IntSlots {
		return ErrBadSlot
	}
	s.ints[slot] = v
	return nil
}

// Str reads a string slot. The returned bytes belong to the store,
// callers must not modify them.
func (s *Store) Str(slot int) ([]byte, error) {
	if slot < 0 || slot >= StrSlots {
		return nil, ErrBadSlot
	}
	return s.strs[slot], nil
}

// SetStr writes a string slot with its own copy of val, so scratch
// arena values are safe to assign. No two slots ever share a buffer.
func (s *Store) SetStr(slot int, val []byte) error {
	if slot < 0 || slot >= StrSlots {
		return ErrBadSlot
	}
	if len(val) > object.MaxStrLen {
		return ErrTooLong
	}
	if len(val) == 0 {
		s.strs[slot] = emptyStr
		return nil
	}
	own := make([]byte, len(val))
	copy(own, val)
	s.strs[slot] = own
	return nil
}

// SlotFor decodes a variable name like "A", "B3" or "C$" into its
// slot number. Host code uses it to poke at program variables.
func SlotFor(name string) (slot int, isStr bool, err error) {
	if len(name) == 0 {
		return 0, false, ErrBadName
	}

	ch := name[0]
	if 'a' <= ch && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if ch < 'A' || ch > 'Z' {
		return 0, false, ErrBadName
	}
	letter := int(ch - 'A')

	switch {
	case len(name) == 1:
		return letter * 11, false, nil
	case len(name) == 2 && name[1] == '$':
		return letter, true, nil
	case len(name) == 2 && '0' <= name[1] && name[1] <= '9':
		return letter*11 + int(name[1]-'0') + 1, false, nil
	}
	return 0, false, ErrBadName
}
