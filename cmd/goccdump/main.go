// goccdump prints what the compiler sees and emits for one source file:
// the token stream, the bytecode listing, and the surviving symbol table.
// It never executes anything.
package main

import (
	"fmt"
	"os"

	"gocc/pkg/asm"
	"gocc/pkg/compiler"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, "usage: goccdump file\n")
		os.Exit(1)
	}
	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}

	toks, err := compiler.Scan(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scan error:", err)
		os.Exit(1)
	}
	fmt.Printf("Tokens (%d)\n", len(toks))
	for _, tok := range toks {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	p := compiler.NewParser(src, compiler.Options{})
	prog, err := p.Compile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(1)
	}

	fmt.Printf("Code (%d words, main at %d)\n", len(prog.Code), prog.Main)
	fmt.Print(asm.Disassemble(prog.Code, 1))
	fmt.Println()

	fmt.Printf("Data pool: %d bytes\n\n", len(prog.Data))

	fmt.Println("Symbols")
	for _, sym := range p.Symbols() {
		if sym.Class == compiler.ClassNone {
			continue
		}
		fmt.Printf("  %-20s %-4v %-8v val=%d\n", sym.Name, sym.Class, sym.Type, sym.Val)
	}
}
