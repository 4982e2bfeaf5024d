// Package console is the terminal surface the interpreter prints to
// and reads INPUT lines from.
package console

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// Console defines how to collect input and display output
type Console interface {
	Print(string)
	Println(string)

	// Col reports the current cursor column, Tab pads with spaces
	// until the cursor reaches col
	Col() int
	Tab(col int)

	// ReadLine blocks for one line of input, without its terminator
	ReadLine() (string, error)
}

// Term writes program output to a writer, tracking the cursor column
// so comma tabbing and TAB() line up, and reads INPUT from a reader.
// High bytes are displayed as their code page 437 glyphs, the way the
// old machines drew them.
type Term struct {
	out io.Writer
	in  *bufio.Reader
	col int
}

// New creates a terminal over the given writer/reader pair
func New(out io.Writer, in io.Reader) *Term {
	return &Term{out: out, in: bufio.NewReader(in)}
}

// Print sends msg to the terminal at the current cursor position
func (t *Term) Print(msg string) {
	var buf bytes.Buffer

	for i := 0; i < len(msg); i++ {
		ch := msg[i]
		switch {
		case ch == '\t':
			// pad to the next 8 column stop
			for {
				buf.WriteByte(' ')
				t.col++
				if t.col%8 == 0 {
					break
				}
			}
		case ch == '\r' || ch == '\n':
			buf.WriteByte(ch)
			t.col = 0
		case ch == 8 || ch == 127:
			buf.WriteByte(ch)
			if t.col > 0 {
				t.col--
			}
		case ch >= 0x80:
			buf.WriteRune(charmap.CodePage437.DecodeByte(ch))
			t.col++
		default:
			buf.WriteByte(ch)
			t.col++
		}
	}

	t.out.Write(buf.Bytes())
}

// Println prints the string followed by a newline
func (t *Term) Println(msg string) {
	t.Print(msg + "\n")
}

// Col reports the cursor column
func (t *Term) Col() int {
	return t.col
}

// Tab spaces over until the cursor sits at col
func (t *Term) Tab(col int) {
	for t.col < col {
		t.Print(" ")
	}
}

// ReadLine reads one line of input. The user's enter key moved the
// cursor back to the left margin.
func (t *Term) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && len(line) == 0 {
		return "", err
	}
	t.col = 0

	line = trimEOL(line)
	return line, nil
}

func trimEOL(line string) string {
	for len(line) > 0 {
		last := line[len(line)-1]
		if last != '\n' && last != '\r' {
			break
		}
		line = line[:len(line)-1]
	}
	return line
}
