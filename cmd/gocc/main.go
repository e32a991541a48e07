package main

import (
	"fmt"
	"os"

	"gocc/pkg/compiler"
	"gocc/pkg/vm"
)

func main() {
	args := os.Args[1:]
	listing := false
	debug := false
	for len(args) > 0 {
		if args[0] == "-s" {
			listing = true
			args = args[1:]
		} else if args[0] == "-d" {
			debug = true
			args = args[1:]
		} else {
			break
		}
	}
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, "usage: gocc [-s] [-d] file ...\n")
		os.Exit(-1)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open(%s)\n", args[0])
		os.Exit(-1)
	}

	opts := compiler.Options{}
	if listing {
		opts.List = os.Stdout
	}
	prog, err := compiler.Compile(src, opts)
	if err != nil {
		// Diagnostics go to standard output, one line, first error only.
		fmt.Println(err)
		os.Exit(-1)
	}
	if listing {
		return
	}

	m := vm.New(prog)
	if debug {
		m.Trace = os.Stdout
	}
	code, err := m.Run(args)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Fprintf(os.Stderr, "exit(%d) cycle = %d\n", code, m.Cycles())
	os.Exit(code)
}
