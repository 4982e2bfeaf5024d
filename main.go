package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/navionguy/microbasic/cli"
	"github.com/navionguy/microbasic/fileserv"
)

var (
	listen = flag.String("listen", "", "serve programs on this address instead of running one")
	dir    = flag.String("dir", "./source", "directory of program sources")
	strict = flag.Bool("strict", false, "make sloppy control flow fatal")
)

func main() {
	flag.Parse()

	if *listen != "" {
		rtr := mux.NewRouter()
		fileserv.NewServer(*dir).Routes(rtr)
		log.Printf("listening on %q...", *listen)
		log.Fatal(http.ListenAndServe(*listen, rtr))
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: microbasic [flags] program.bas")
		os.Exit(2)
	}

	if err := cli.Run(flag.Arg(0), *strict); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
