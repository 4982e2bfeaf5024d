// Package cli runs one program file on the local terminal
package cli

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/navionguy/microbasic/console"
	"github.com/navionguy/microbasic/evaluator"
)

// Run loads and executes a program from disk on stdin/stdout. A
// non-nil error is either a load failure or the interpreter's halt
// diagnostic.
func Run(path string, strict bool) error {
	return runOn(path, strict, os.Stdout, os.Stdin)
}

func runOn(path string, strict bool, out io.Writer, in io.Reader) error {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	prog := evaluator.New(string(src), console.New(out, in))
	prog.SetStrict(strict)

	for !prog.Finished() {
		if err := prog.Run(); err != nil {
			return err
		}
	}
	return nil
}
