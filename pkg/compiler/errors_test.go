package compiler

import (
	"strings"
	"testing"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"BadCharacter", "int main(){ return 0; }\n@", "2: bad character"},
		{"OpenParen", "int main(){ if 1 return 0; }", "1: open paren expected"},
		{"CloseParen", "int main(){ if (1 return 0; }", "1: close paren expected"},
		{"Semicolon", "int main(){ return 0 }", "1: semicolon expected"},
		{"UndefinedVariable", "int main(){ return nope; }", "1: undefined variable"},
		{"UndefinedFunction", "int main(){ return f(1); }", "undefined function f"},
		{"DuplicateGlobal", "int a;\nint a;", "2: duplicate global definition"},
		{"DuplicateLocal", "int main(){ int x; int x; return 0; }", "1: duplicate local definition"},
		{"DuplicateParam", "int f(int x, int x) { return x; }", "1: duplicate parameter definition"},
		{"BadLvalue", "int main(){ 3 = 4; return 0; }", "1: bad lvalue in assignment"},
		{"BadPreIncrement", "int main(){ ++3; return 0; }", "1: bad lvalue in pre-increment"},
		{"BadDereference", "int main(){ return *3; }", "1: bad dereference"},
		{"BadAddressOf", "int main(){ return &7; }", "1: bad address-of"},
		{"BadEnumInitializer", "enum { A = x };", "1: bad enum initializer"},
		{"MissingColon", "int main(){ return 1 ? 2 ; }", "1: conditional missing colon"},
		{"SizeofParen", "int main(){ return sizeof int; }", "1: open paren expected in sizeof"},
		{"IndexNonPointer", "int main(){ int x; return x[0]; }", "1: pointer type expected"},
		{"UnexpectedEOF", "int main(){ return 1 +", "unexpected eof in expression"},
		{"CloseBrace", "int main(){ return 0;", "1: close brace expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.src), Options{})
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err)
			}
		})
	}
}

func TestErrorLineNumbers(t *testing.T) {
	src := "int g;\n\nint main(){\n  return missing;\n}\n"
	_, err := Compile([]byte(src), Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "4: ") {
		t.Errorf("expected the line-4 prefix, got %q", err)
	}
}
