package compiler

import "gocc/pkg/vm"

// stmt parses one statement, emitting its code. Forward jump targets are
// held in locals here and patched once the span they skip is emitted.
func (p *Parser) stmt() {
	switch p.tok() {
	case If:
		p.next()
		p.expect(LParen, "open paren expected")
		p.expr(Assign)
		p.expect(RParen, "close paren expected")
		falseSlot := p.emitOp(vm.BZ, 0)
		p.stmt()
		if p.tok() == Else {
			endSlot := p.emitOp(vm.JMP, 0)
			p.patch(falseSlot, p.here())
			p.next()
			p.stmt()
			p.patch(endSlot, p.here())
		} else {
			p.patch(falseSlot, p.here())
		}

	case While:
		p.next()
		top := p.here()
		p.expect(LParen, "open paren expected")
		p.expr(Assign)
		p.expect(RParen, "close paren expected")
		exitSlot := p.emitOp(vm.BZ, 0)
		p.stmt()
		p.emitOp(vm.JMP, top)
		p.patch(exitSlot, p.here())

	case Return:
		p.next()
		if p.tok() != Semi {
			p.expr(Assign)
		}
		p.emit(vm.LEV)
		p.expect(Semi, "semicolon expected")

	case LBrace:
		p.next()
		for p.tok() != RBrace {
			if p.tok() == EOF {
				p.errf("close brace expected")
			}
			p.stmt()
		}
		p.next()

	case Semi:
		p.next()

	default:
		p.expr(Assign)
		p.expect(Semi, "semicolon expected")
	}
}
