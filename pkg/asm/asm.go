// Package asm assembles and disassembles the word-oriented instruction set
// of pkg/vm. The compiler never goes through text, but tests and inspection
// tools want both directions: hand-written instruction sequences in, and
// readable listings out.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"gocc/pkg/vm"
)

var opByName = map[string]int64{}

func init() {
	for op := int64(0); op < vm.NumOps; op++ {
		opByName[vm.OpName(op)] = op
	}
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operand  string
}

// parseLine splits one source line into labels, mnemonic and operand.
// Everything after ';' is a comment.
func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	for {
		i := strings.IndexByte(raw, ':')
		if i < 0 {
			break
		}
		label := strings.TrimSpace(raw[:i])
		if label == "" || strings.ContainsAny(label, " \t") {
			return p, fmt.Errorf("malformed label on line %d", lineNo)
		}
		p.labels = append(p.labels, label)
		raw = strings.TrimSpace(raw[i+1:])
	}
	if raw == "" {
		return p, nil
	}
	fields := strings.Fields(raw)
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operand = fields[1]
	}
	if len(fields) > 2 {
		return p, fmt.Errorf("trailing operands on line %d", lineNo)
	}
	return p, nil
}

// Assembler resolves labels over two passes. Labels are assigned word
// addresses counted from origin, which callers placing the output somewhere
// other than address 0 can adjust.
type Assembler struct {
	labels map[string]int64
	origin int64
}

func NewAssembler() *Assembler {
	return &Assembler{labels: make(map[string]int64)}
}

// Assemble translates mnemonic text into instruction words and returns the
// resolved label table alongside them.
func Assemble(code string) ([]int64, map[string]int64, error) {
	a := NewAssembler()
	words, err := a.assemble(code)
	if err != nil {
		return nil, nil, err
	}
	return words, a.labels, nil
}

func (a *Assembler) assemble(code string) ([]int64, error) {
	lines := strings.Split(code, "\n")
	if err := a.pass1(lines); err != nil {
		return nil, err
	}
	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	address := a.origin
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return err
		}
		for _, lbl := range p.labels {
			if _, exists := a.labels[lbl]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, p.lineNo)
			}
			a.labels[lbl] = address
		}
		if p.mnemonic == "" {
			continue
		}
		op, ok := opByName[p.mnemonic]
		if !ok {
			return fmt.Errorf("unknown instruction on line %d: %s", p.lineNo, p.mnemonic)
		}
		address++
		if vm.HasOperand(op) {
			address++
		}
	}
	return nil
}

func (a *Assembler) pass2(lines []string) ([]int64, error) {
	var words []int64
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		if p.mnemonic == "" {
			continue
		}
		op := opByName[p.mnemonic]
		words = append(words, op)
		if !vm.HasOperand(op) {
			if p.operand != "" {
				return nil, fmt.Errorf("%s takes no operand on line %d", p.mnemonic, p.lineNo)
			}
			continue
		}
		if p.operand == "" {
			return nil, fmt.Errorf("%s needs an operand on line %d", p.mnemonic, p.lineNo)
		}
		v, err := a.resolve(p.operand)
		if err != nil {
			return nil, fmt.Errorf("%v on line %d", err, p.lineNo)
		}
		words = append(words, v)
	}
	return words, nil
}

func (a *Assembler) resolve(operand string) (int64, error) {
	if v, ok := a.labels[operand]; ok {
		return v, nil
	}
	v, err := strconv.ParseInt(operand, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("unresolved operand '%s'", operand)
	}
	return v, nil
}

// BuildProgram assembles text into a runnable Program. A pad word sits at
// address 0, mirroring the compiler's layout, so code starts at address 1;
// the entry point is the label named main.
func BuildProgram(code string) (*vm.Program, error) {
	a := NewAssembler()
	a.origin = 1
	words, err := a.assemble(code)
	if err != nil {
		return nil, err
	}
	main, ok := a.labels["main"]
	if !ok {
		return nil, fmt.Errorf("no main label")
	}
	prog := &vm.Program{Code: make([]int64, 1, len(words)+1), Main: main}
	prog.Code = append(prog.Code, words...)
	return prog, nil
}

// Instr renders the instruction at pc and returns the index of the next one.
func Instr(code []int64, pc int) (string, int) {
	op := code[pc]
	if vm.HasOperand(op) {
		if pc+1 < len(code) {
			return fmt.Sprintf("%-4s %d", vm.OpName(op), code[pc+1]), pc + 2
		}
		return fmt.Sprintf("%-4s <truncated>", vm.OpName(op)), pc + 1
	}
	return vm.OpName(op), pc + 1
}

// Disassemble renders code from the given address on, one instruction per
// line, prefixed with its word address.
func Disassemble(code []int64, from int) string {
	var sb strings.Builder
	for pc := from; pc < len(code); {
		addr := pc
		text, next := Instr(code, pc)
		fmt.Fprintf(&sb, "%6d: %s\n", addr, text)
		pc = next
	}
	return sb.String()
}
