package asm

import (
	"strings"
	"testing"

	"gocc/pkg/vm"
)

func TestAssemble(t *testing.T) {
	words, _, err := Assemble("IMM 42\nPSH\nEXIT\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	expected := []int64{vm.IMM, 42, vm.PSH, vm.EXIT}
	if len(words) != len(expected) {
		t.Fatalf("word count: expected %d, got %d", len(expected), len(words))
	}
	for i := range expected {
		if words[i] != expected[i] {
			t.Errorf("word %d: expected %d, got %d", i, expected[i], words[i])
		}
	}
}

func TestAssembleLabels(t *testing.T) {
	src := `
start:	IMM 1
	BNZ done
	IMM 0
done:	PSH
	EXIT
`
	words, labels, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if labels["start"] != 0 {
		t.Errorf("start: expected address 0, got %d", labels["start"])
	}
	if labels["done"] != 6 {
		t.Errorf("done: expected address 6, got %d", labels["done"])
	}
	if words[3] != 6 {
		t.Errorf("BNZ operand: expected 6, got %d", words[3])
	}
}

func TestAssembleComments(t *testing.T) {
	words, _, err := Assemble("IMM 1 ; the immediate\n; full-line comment\nEXIT\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 3 {
		t.Errorf("expected 3 words, got %d (%v)", len(words), words)
	}
}

func TestAssembleNumericBases(t *testing.T) {
	words, _, err := Assemble("IMM 0x10\nIMM -3\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if words[1] != 16 || words[3] != -3 {
		t.Errorf("expected operands 16 and -3, got %d and %d", words[1], words[3])
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"UnknownInstruction", "FROB 1\n", "unknown instruction"},
		{"MissingOperand", "IMM\n", "needs an operand"},
		{"ExtraOperand", "PSH 3\n", "takes no operand"},
		{"UnresolvedLabel", "JMP nowhere\n", "unresolved operand"},
		{"DuplicateLabel", "a: IMM 1\na: EXIT\n", "duplicate label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Assemble(tt.src)
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err)
			}
		})
	}
}

func TestBuildProgram(t *testing.T) {
	prog, err := BuildProgram("main:\nIMM 5\nPSH\nEXIT\n")
	if err != nil {
		t.Fatalf("BuildProgram failed: %v", err)
	}
	if prog.Main != 1 {
		t.Errorf("main: expected address 1 after the pad word, got %d", prog.Main)
	}
	if prog.Code[0] != 0 {
		t.Errorf("expected a pad word at address 0, got %d", prog.Code[0])
	}
	if prog.Code[1] != vm.IMM || prog.Code[2] != 5 {
		t.Errorf("expected IMM 5 at address 1, got %d %d", prog.Code[1], prog.Code[2])
	}
}

func TestBuildProgramNeedsMain(t *testing.T) {
	if _, err := BuildProgram("IMM 1\nEXIT\n"); err == nil {
		t.Error("expected an error for a program without a main label")
	}
}

func TestDisassemble(t *testing.T) {
	code := []int64{0, vm.IMM, 7, vm.PSH, vm.EXIT}
	out := Disassemble(code, 1)
	for _, want := range []string{"1: IMM  7", "3: PSH", "4: EXIT"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly should contain %q, got:\n%s", want, out)
		}
	}
}

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	src := "IMM 3\nPSH\nIMM 4\nADD\nPSH\nEXIT\n"
	words, _, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	again, _, err := Assemble(stripAddresses(Disassemble(words, 0)))
	if err != nil {
		t.Fatalf("reassembling the disassembly failed: %v", err)
	}
	if len(again) != len(words) {
		t.Fatalf("round trip length: expected %d, got %d", len(words), len(again))
	}
	for i := range words {
		if again[i] != words[i] {
			t.Errorf("word %d: expected %d, got %d", i, words[i], again[i])
		}
	}
}

func stripAddresses(listing string) string {
	var sb strings.Builder
	for _, line := range strings.Split(listing, "\n") {
		if i := strings.IndexByte(line, ':'); i >= 0 {
			line = line[i+1:]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
