package compiler

import (
	"fmt"
	"strconv"
)

// ScannedToken is one token as reported by a standalone scanning pass.
type ScannedToken struct {
	Line int
	Kind Kind
	Text string
}

func (t ScannedToken) String() string {
	if t.Text != "" && t.Text != t.Kind.String() {
		return fmt.Sprintf("%-8v %-14q line %d", t.Kind, t.Text, t.Line)
	}
	return fmt.Sprintf("%-8v %-14s line %d", t.Kind, "", t.Line)
}

// Scan tokenizes src without compiling it. Inspection tools use it to show
// the exact token stream the emitters would consume.
func Scan(src []byte) ([]ScannedToken, error) {
	syms := NewSymbolTable()
	for _, kw := range keywords {
		syms.Keyword(kw.name, kw.tk)
	}
	l := newLexer(src, syms, newDataPool())

	var toks []ScannedToken
	for {
		if err := l.next(); err != nil {
			return toks, err
		}
		st := ScannedToken{Line: l.line, Kind: l.tk}
		switch {
		case l.tk == Num:
			st.Text = strconv.FormatInt(l.ival, 10)
		case l.tk == Str:
			st.Text = fmt.Sprintf("data+%d", l.ival)
		case l.tk == Id || l.tk >= Char && l.tk <= While:
			st.Text = l.id.Name
		}
		toks = append(toks, st)
		if l.tk == EOF {
			return toks, nil
		}
	}
}
