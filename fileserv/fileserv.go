// Package fileserv publishes a directory of BASIC sources over HTTP
// and can run one remotely over a websocket, streaming the program's
// terminal to the caller.
package fileserv

import (
	"io/ioutil"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
)

// Server hands out and runs the .bas files under one directory
type Server struct {
	src http.FileSystem
}

// NewServer creates a server over the given source directory
func NewServer(dir string) *Server {
	return &Server{src: http.Dir(dir)}
}

// Routes builds my mux routes, program text on one, a live run on
// the other
func (s *Server) Routes(rtr *mux.Router) {
	rtr.HandleFunc("/programs/{file}", s.serveProgram)
	rtr.HandleFunc("/run/{file}", s.runProgram)
}

// serveProgram sends the source text so a host can eyeball what it
// is about to run
func (s *Server) serveProgram(w http.ResponseWriter, r *http.Request) {
	src, err := s.loadProgram(mux.Vars(r)["file"])

	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=ASCII")
	w.Write([]byte(src))
}

// loadProgram pulls a named source file out of the directory
func (s *Server) loadProgram(fname string) (string, error) {
	if containsDotFile(fname) { // If dot file, pretend it isn't there
		return "", os.ErrPermission
	}

	hfile, err := s.src.Open(fname)
	if err != nil {
		return "", err
	}
	defer hfile.Close()

	buf, err := ioutil.ReadAll(hfile)
	if err != nil {
		return "", err
	}

	return string(buf), nil
}

// containsDotFile reports whether name contains a path element
// starting with a period.
func containsDotFile(name string) bool {
	parts := strings.Split(name, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
