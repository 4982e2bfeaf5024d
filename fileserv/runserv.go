package fileserv

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/navionguy/microbasic/console"
	"github.com/navionguy/microbasic/evaluator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// runProgram upgrades the connection and executes the named program
// with its terminal wired to the socket. PRINT output arrives as text
// messages, every INPUT variable consumes one message. The handler is
// just another embedding host, it drives the run one line at a time.
func (s *Server) runProgram(w http.ResponseWriter, r *http.Request) {
	src, err := s.loadProgram(mux.Vars(r)["file"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	log.Printf("run %s: starting %q", id, mux.Vars(r)["file"])

	cons := console.New(&wsWriter{conn: conn}, &wsReader{conn: conn})
	prog := evaluator.New(src, cons)

	for !prog.Finished() {
		if err := prog.Run(); err != nil {
			// the program died, tell both ends why
			log.Printf("run %s: %v", id, err)
			conn.WriteMessage(websocket.TextMessage, []byte(err.Error()))
			return
		}
	}
	log.Printf("run %s: finished", id)
}

// wsWriter turns console output into websocket text messages
type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// wsReader turns incoming messages into lines for INPUT
type wsReader struct {
	conn *websocket.Conn
	buf  []byte
}

func (r *wsReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		_, msg, err := r.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		r.buf = append(msg, '\n')
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
