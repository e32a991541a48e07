// Package compiler turns source text for a small C dialect directly into
// stack-machine instructions. There is no syntax tree: the expression and
// statement parsers emit words into the code pool as they consume tokens,
// and the symbol table carries just enough state to resolve names and patch
// forward references.
package compiler

import (
	"fmt"
	"io"

	"gocc/pkg/vm"
)

const wordSize = vm.WordSize

// Options configure a single compilation.
type Options struct {
	// List, when non-nil, receives each source line followed by the
	// mnemonics of the instructions emitted while parsing it.
	List io.Writer
}

// dataPool is the append-only arena for string literal bytes and global
// variable storage. The first word is reserved so that address 0 never
// aliases real data.
type dataPool struct {
	buf []byte
}

func newDataPool() *dataPool {
	return &dataPool{buf: make([]byte, wordSize)}
}

func (d *dataPool) addr() int64 { return int64(len(d.buf)) }

func (d *dataPool) writeByte(b byte) { d.buf = append(d.buf, b) }

func (d *dataPool) alignWord() {
	for len(d.buf)%wordSize != 0 {
		d.buf = append(d.buf, 0)
	}
}

// allocWord reserves one zeroed word and returns its address.
func (d *dataPool) allocWord() int64 {
	addr := d.addr()
	d.buf = append(d.buf, make([]byte, wordSize)...)
	return addr
}

// Parser owns the code pool and the compilation state shared between the
// expression emitter, the statement emitter and the top-level driver.
type Parser struct {
	lx   *Lexer
	syms *SymbolTable
	data *dataPool

	// code is the emitted instruction stream. Slot 0 is a reserved pad
	// word: a symbol whose Val is 0 is thereby always unresolved, and
	// the VM never executes address 0.
	code   []int64
	lastOp int // index of the most recent opcode word, -1 when untracked

	ty  Type  // type of the value the last emitted code leaves in the accumulator
	loc int64 // frame watermark separating parameters from locals

	pending map[*Symbol]*pendingFun
	mainSym *Symbol

	list   io.Writer
	listed int
}

// pendingFun tracks call sites emitted before the callee's definition.
type pendingFun struct {
	line int
	refs []int
}

// bail carries the first (and only) compile error up to Compile; the
// emitters never recover from errors, matching the one-diagnostic policy.
type bail struct{ err error }

func (p *Parser) errf(format string, args ...any) {
	panic(bail{fmt.Errorf("%d: "+format, append([]any{p.lx.line}, args...)...)})
}

func (p *Parser) next() {
	if err := p.lx.next(); err != nil {
		panic(bail{err})
	}
}

func (p *Parser) tok() Kind { return p.lx.tk }

func (p *Parser) expect(k Kind, msg string) {
	if p.lx.tk != k {
		p.errf(msg)
	}
	p.next()
}

// emit appends a bare opcode and remembers its position for the lvalue
// rewrite discipline.
func (p *Parser) emit(op int64) {
	p.lastOp = len(p.code)
	p.code = append(p.code, op)
}

// emitOp appends an opcode with its inline operand and returns the index of
// the operand slot for backpatching.
func (p *Parser) emitOp(op, operand int64) int {
	p.emit(op)
	p.code = append(p.code, operand)
	return len(p.code) - 1
}

// here is the address the next emitted instruction will get.
func (p *Parser) here() int64 { return int64(len(p.code)) }

func (p *Parser) patch(slot int, addr int64) { p.code[slot] = addr }

func (p *Parser) lastIs(op int64) bool {
	return p.lastOp >= 0 && p.code[p.lastOp] == op
}

// rewriteLast converts the most recent load into its store/push twin.
func (p *Parser) rewriteLast(op int64) { p.code[p.lastOp] = op }

// dropLast removes the most recent instruction (always an operand-less
// load), leaving the address that fed it in the accumulator.
func (p *Parser) dropLast() {
	p.code = p.code[:p.lastOp]
	p.lastOp = -1
}

// flushListing prints the mnemonics of every instruction emitted since the
// previous source line was listed.
func (p *Parser) flushListing() {
	for p.listed < len(p.code) {
		op := p.code[p.listed]
		fmt.Fprintf(p.list, "%8.4s", vm.OpName(op))
		p.listed++
		if vm.HasOperand(op) {
			fmt.Fprintf(p.list, " %d\n", p.code[p.listed])
			p.listed++
		} else {
			fmt.Fprint(p.list, "\n")
		}
	}
}

var keywords = []struct {
	name string
	tk   Kind
}{
	{"char", Char},
	{"else", Else},
	{"enum", Enum},
	{"if", If},
	{"int", Int},
	{"return", Return},
	{"sizeof", Sizeof},
	{"while", While},
}

var builtins = []struct {
	name string
	op   int64
}{
	{"open", vm.OPEN},
	{"read", vm.READ},
	{"close", vm.CLOS},
	{"printf", vm.PRTF},
	{"malloc", vm.MALC},
	{"free", vm.FREE},
	{"memset", vm.MSET},
	{"memcmp", vm.MCMP},
	{"exit", vm.EXIT},
}

// NewParser prepares a compilation of one source buffer, seeding the symbol
// table with the keywords and the syscall names before any scanning happens.
func NewParser(src []byte, opts Options) *Parser {
	syms := NewSymbolTable()
	data := newDataPool()
	p := &Parser{
		lx:      newLexer(src, syms, data),
		syms:    syms,
		data:    data,
		code:    make([]int64, 1),
		lastOp:  -1,
		pending: make(map[*Symbol]*pendingFun),
		listed:  1,
	}

	for _, kw := range keywords {
		syms.Keyword(kw.name, kw.tk)
	}
	for _, b := range builtins {
		syms.Builtin(b.name, ClassSys, INT, b.op)
	}
	syms.Keyword("void", Char) // void declarations parse as char
	p.mainSym = syms.Intern("main")

	if opts.List != nil {
		p.list = opts.List
		p.lx.onLine = func(line int, text []byte) {
			fmt.Fprintf(p.list, "%d: %s", line, text)
			p.flushListing()
		}
	}
	return p
}

// Compile runs the parse, emitting into the code and data pools, and
// returns the finished program. The first error at any stage aborts the
// compilation; its message begins with the current line number.
func (p *Parser) Compile() (prog *vm.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bail)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()

	p.next()
	for p.tok() != EOF {
		p.declaration()
	}
	for sym, pf := range p.pending {
		return nil, fmt.Errorf("%d: undefined function %s", pf.line, sym.Name)
	}

	prog = &vm.Program{Code: p.code, Data: p.data.buf}
	if p.mainSym.Class == ClassFun {
		prog.Main = p.mainSym.Val
	}
	return prog, nil
}

// Symbols exposes the interned identifier records in first-seen order, for
// inspection tools.
func (p *Parser) Symbols() []*Symbol { return p.syms.All() }

// Compile is the one-call form of NewParser followed by Parser.Compile.
func Compile(src []byte, opts Options) (*vm.Program, error) {
	return NewParser(src, opts).Compile()
}
