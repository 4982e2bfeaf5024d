package mocks

import (
	"bytes"
	"io"
)

// MockTerm stands in for a console during tests. Output accumulates
// in a buffer and INPUT answers come from a canned script.
type MockTerm struct {
	Output *bytes.Buffer
	Lines  []string // scripted ReadLine answers
	next   int
	col    int
}

// NewMockTerm builds a mock with the given scripted input lines
func NewMockTerm(lines ...string) *MockTerm {
	return &MockTerm{Output: &bytes.Buffer{}, Lines: lines}
}

func (mt *MockTerm) Print(msg string) {
	for i := 0; i < len(msg); i++ {
		ch := msg[i]
		switch ch {
		case '\t':
			for {
				mt.Output.WriteByte(' ')
				mt.col++
				if mt.col%8 == 0 {
					break
				}
			}
		case '\r', '\n':
			mt.Output.WriteByte(ch)
			mt.col = 0
		default:
			mt.Output.WriteByte(ch)
			mt.col++
		}
	}
}

func (mt *MockTerm) Println(msg string) {
	mt.Print(msg + "\n")
}

func (mt *MockTerm) Col() int {
	return mt.col
}

func (mt *MockTerm) Tab(col int) {
	for mt.col < col {
		mt.Print(" ")
	}
}

func (mt *MockTerm) ReadLine() (string, error) {
	if mt.next >= len(mt.Lines) {
		return "", io.EOF
	}
	line := mt.Lines[mt.next]
	mt.next++
	mt.col = 0
	return line, nil
}
