package compiler

import "gocc/pkg/vm"

// declaration parses one top-level construct: an enum block, or a base type
// followed by a comma-separated list of global variables and at most one
// function definition. The trailing ';' (or a function body's '}') is
// consumed here.
func (p *Parser) declaration() {
	bt := INT
	switch p.tok() {
	case Int:
		p.next()
	case Char:
		p.next()
		bt = CHAR
	case Enum:
		p.enumDecl()
	}

	for p.tok() != Semi && p.tok() != RBrace {
		ty := bt
		for p.tok() == Mul {
			p.next()
			ty += PTR
		}
		if p.tok() != Id {
			p.errf("bad global declaration")
		}
		d := p.lx.id
		forward := d.Class == ClassFun && d.Val == 0
		if d.Class != ClassNone && !forward {
			p.errf("duplicate global definition")
		}
		p.next()
		d.Type = ty
		if p.tok() == LParen {
			p.function(d)
		} else {
			if forward {
				p.errf("duplicate global definition")
			}
			d.Class = ClassGlo
			d.Val = p.data.allocWord()
		}
		if p.tok() == Comma {
			p.next()
		}
	}
	p.next()
}

// enumDecl binds each member as a Num constant, counting up from zero or
// from the most recent explicit initializer.
func (p *Parser) enumDecl() {
	p.next()
	if p.tok() != LBrace {
		p.next() // optional tag, ignored
	}
	if p.tok() != LBrace {
		return
	}
	p.next()
	v := int64(0)
	for p.tok() != RBrace {
		if p.tok() != Id {
			p.errf("bad enum identifier")
		}
		d := p.lx.id
		p.next()
		if p.tok() == Assign {
			p.next()
			if p.tok() != Num {
				p.errf("bad enum initializer")
			}
			v = p.lx.ival
			p.next()
		}
		d.Class = ClassNum
		d.Type = INT
		d.Val = v
		v++
		if p.tok() == Comma {
			p.next()
		}
	}
	p.next()
}

// function parses a definition for d: parameter list, leading local
// declarations, then the body framed by ENT/LEV. Parameters and locals
// shadow outer bindings for the duration; the closing '}' is left for the
// caller. Any JSRs already emitted against d are patched to the entry.
func (p *Parser) function(d *Symbol) {
	entry := p.here()
	if pf := p.pending[d]; pf != nil {
		for _, slot := range pf.refs {
			p.patch(slot, entry)
		}
		delete(p.pending, d)
	}
	d.Class = ClassFun
	d.Val = entry

	p.next()
	n := int64(0) // parameter slots, left to right
	for p.tok() != RParen {
		ty := INT
		if p.tok() == Int {
			p.next()
		} else if p.tok() == Char {
			p.next()
			ty = CHAR
		}
		for p.tok() == Mul {
			p.next()
			ty += PTR
		}
		if p.tok() != Id {
			p.errf("bad parameter declaration")
		}
		if p.lx.id.Class == ClassLoc {
			p.errf("duplicate parameter definition")
		}
		p.syms.Shadow(p.lx.id, ty, n)
		n++
		p.next()
		if p.tok() == Comma {
			p.next()
		}
	}
	p.next()
	if p.tok() != LBrace {
		p.errf("bad function definition")
	}
	p.next()

	// The slot between the last parameter and the first local belongs to
	// the saved pc/bp pair; LEA offsets are measured from this watermark.
	n++
	p.loc = n
	for p.tok() == Int || p.tok() == Char {
		bt := INT
		if p.tok() == Char {
			bt = CHAR
		}
		p.next()
		for p.tok() != Semi {
			ty := bt
			for p.tok() == Mul {
				p.next()
				ty += PTR
			}
			if p.tok() != Id {
				p.errf("bad local declaration")
			}
			if p.lx.id.Class == ClassLoc {
				p.errf("duplicate local definition")
			}
			n++
			p.syms.Shadow(p.lx.id, ty, n)
			p.next()
			if p.tok() == Comma {
				p.next()
			}
		}
		p.next()
	}

	p.emitOp(vm.ENT, n-p.loc)
	for p.tok() != RBrace {
		if p.tok() == EOF {
			p.errf("close brace expected")
		}
		p.stmt()
	}
	p.emit(vm.LEV)
	p.syms.RestoreLocals()
}
