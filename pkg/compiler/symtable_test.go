package compiler

import "testing"

func TestSymbolTable(t *testing.T) {
	t.Run("InternReturnsSameRecord", func(t *testing.T) {
		s := NewSymbolTable()
		a := s.Intern("count")
		b := s.Intern("count")
		if a != b {
			t.Error("expected the same record for the same name")
		}
		if a.Tk != Id {
			t.Errorf("fresh record token: expected Id, got %v", a.Tk)
		}
	})

	t.Run("KeywordToken", func(t *testing.T) {
		s := NewSymbolTable()
		s.Keyword("while", While)
		if s.Intern("while").Tk != While {
			t.Errorf("expected keyword token While, got %v", s.Intern("while").Tk)
		}
	})

	t.Run("BuiltinBinding", func(t *testing.T) {
		s := NewSymbolTable()
		s.Builtin("printf", ClassSys, INT, 33)
		sym := s.Intern("printf")
		if sym.Class != ClassSys || sym.Val != 33 {
			t.Errorf("expected Sys binding with val 33, got %v/%d", sym.Class, sym.Val)
		}
	})

	t.Run("ShadowAndRestore", func(t *testing.T) {
		s := NewSymbolTable()
		sym := s.Intern("x")
		sym.Class = ClassGlo
		sym.Type = CHAR + PTR
		sym.Val = 4096

		s.Shadow(sym, INT, 3)
		if sym.Class != ClassLoc || sym.Type != INT || sym.Val != 3 {
			t.Fatalf("shadow did not rebind: %+v", sym)
		}
		if sym.HClass != ClassGlo || sym.HType != CHAR+PTR || sym.HVal != 4096 {
			t.Fatalf("shadow did not park the outer binding: %+v", sym)
		}

		s.RestoreLocals()
		if sym.Class != ClassGlo || sym.Type != CHAR+PTR || sym.Val != 4096 {
			t.Errorf("restore did not bring the outer binding back: %+v", sym)
		}
	})

	t.Run("RestoreLeavesOthersAlone", func(t *testing.T) {
		s := NewSymbolTable()
		g := s.Intern("g")
		g.Class = ClassGlo
		g.Val = 8
		s.RestoreLocals()
		if g.Class != ClassGlo || g.Val != 8 {
			t.Errorf("non-local binding changed by restore: %+v", g)
		}
	})
}

func TestLocalShadowRestoredAfterCompile(t *testing.T) {
	src := `
int v;
int f(int v) { return v; }
int main() { return f(1); }`
	p := NewParser([]byte(src), Options{})
	if _, err := p.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	for _, sym := range p.Symbols() {
		if sym.Name == "v" {
			if sym.Class != ClassGlo {
				t.Errorf("v after compile: expected global binding, got %v", sym.Class)
			}
			return
		}
	}
	t.Fatal("symbol v not found")
}
