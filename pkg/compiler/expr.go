package compiler

import "gocc/pkg/vm"

// step is the pointer-arithmetic stride for the type currently in ty: word
// sized for pointers to word-sized things, one byte for char pointers and
// plain integers.
func (p *Parser) step() int64 {
	if p.ty > PTR {
		return wordSize
	}
	return 1
}

// loadAccum emits the load matching ty: bytes for char, words for
// everything else.
func (p *Parser) loadAccum() {
	if p.ty == CHAR {
		p.emit(vm.LC)
	} else {
		p.emit(vm.LI)
	}
}

// storeAccum emits the store matching ty.
func (p *Parser) storeAccum() {
	if p.ty == CHAR {
		p.emit(vm.SC)
	} else {
		p.emit(vm.SI)
	}
}

// expr parses one expression at the given minimum operator precedence and
// emits code that leaves its value in the accumulator, with ty describing
// that value. Operator Kinds are ordered by precedence, so the climb is a
// single comparison against lev.
func (p *Parser) expr(lev Kind) {
	p.primary()
	for p.tok() >= lev {
		p.binary()
	}
}

// primary handles literals, identifiers, grouping/casts and the prefix
// operators, leaving the operand value (or, for an lvalue, a trailing
// LI/LC the caller may rewrite) in the emitted stream.
func (p *Parser) primary() {
	switch p.tok() {
	case EOF:
		p.errf("unexpected eof in expression")

	case Num:
		p.emitOp(vm.IMM, p.lx.ival)
		p.next()
		p.ty = INT

	case Str:
		p.emitOp(vm.IMM, p.lx.ival)
		p.next()
		for p.tok() == Str {
			// adjacent literals: the scanner has already appended
			// their bytes to the same data run
			p.next()
		}
		p.data.writeByte(0)
		p.data.alignWord()
		p.ty = CHAR + PTR

	case Sizeof:
		p.next()
		p.expect(LParen, "open paren expected in sizeof")
		p.ty = INT
		if p.tok() == Int {
			p.next()
		} else if p.tok() == Char {
			p.next()
			p.ty = CHAR
		}
		for p.tok() == Mul {
			p.next()
			p.ty += PTR
		}
		p.expect(RParen, "close paren expected in sizeof")
		p.emitOp(vm.IMM, sizeof(p.ty))
		p.ty = INT

	case Id:
		d := p.lx.id
		p.next()
		if p.tok() == LParen {
			p.call(d)
			return
		}
		switch d.Class {
		case ClassNum:
			p.emitOp(vm.IMM, d.Val)
			p.ty = INT
		case ClassLoc:
			p.emitOp(vm.LEA, p.loc-d.Val)
			p.ty = d.Type
			p.loadAccum()
		case ClassGlo:
			p.emitOp(vm.IMM, d.Val)
			p.ty = d.Type
			p.loadAccum()
		default:
			p.errf("undefined variable")
		}

	case LParen:
		p.next()
		if p.tok() == Int || p.tok() == Char {
			t := INT
			if p.tok() == Char {
				t = CHAR
			}
			p.next()
			for p.tok() == Mul {
				p.next()
				t += PTR
			}
			p.expect(RParen, "bad cast")
			p.expr(Inc) // cast binds at unary precedence
			p.ty = t
		} else {
			p.expr(Assign)
			p.expect(RParen, "close paren expected")
		}

	case Mul: // dereference
		p.next()
		p.expr(Inc)
		if p.ty > INT {
			p.ty -= PTR
		} else {
			p.errf("bad dereference")
		}
		p.loadAccum()

	case And: // address-of: un-emit the load the operand just produced
		p.next()
		p.expr(Inc)
		if p.lastIs(vm.LC) || p.lastIs(vm.LI) {
			p.dropLast()
		} else {
			p.errf("bad address-of")
		}
		p.ty += PTR

	case Not:
		p.next()
		p.expr(Inc)
		p.emit(vm.PSH)
		p.emitOp(vm.IMM, 0)
		p.emit(vm.EQ)
		p.ty = INT

	case Tilde:
		p.next()
		p.expr(Inc)
		p.emit(vm.PSH)
		p.emitOp(vm.IMM, -1)
		p.emit(vm.XOR)
		p.ty = INT

	case Add:
		p.next()
		p.expr(Inc)
		p.ty = INT

	case Sub:
		p.next()
		if p.tok() == Num {
			p.emitOp(vm.IMM, -p.lx.ival)
			p.next()
		} else {
			p.emitOp(vm.IMM, -1)
			p.emit(vm.PSH)
			p.expr(Inc)
			p.emit(vm.MUL)
		}
		p.ty = INT

	case Inc, Dec:
		t := p.tok()
		p.next()
		p.expr(Inc)
		p.dupAddr("bad lvalue in pre-increment")
		p.emit(vm.PSH)
		p.emitOp(vm.IMM, p.step())
		if t == Inc {
			p.emit(vm.ADD)
		} else {
			p.emit(vm.SUB)
		}
		p.storeAccum()

	default:
		p.errf("bad expression")
	}
}

// dupAddr converts the trailing load of an lvalue into a push of its
// address followed by the same load, so a store can reuse the address.
func (p *Parser) dupAddr(msg string) {
	switch {
	case p.lastIs(vm.LC):
		p.rewriteLast(vm.PSH)
		p.emit(vm.LC)
	case p.lastIs(vm.LI):
		p.rewriteLast(vm.PSH)
		p.emit(vm.LI)
	default:
		p.errf(msg)
	}
}

// call emits a function or syscall invocation; the opening paren is the
// current token. Calls to names that have no definition yet become pending
// JSRs patched when the definition arrives.
func (p *Parser) call(d *Symbol) {
	p.next()
	n := int64(0)
	for p.tok() != RParen {
		p.expr(Assign)
		p.emit(vm.PSH)
		n++
		if p.tok() == Comma {
			p.next()
		}
	}
	p.next()

	if d.Class == ClassNone {
		d.Class = ClassFun
		d.Type = INT
		p.pending[d] = &pendingFun{line: p.lx.line}
	}
	switch d.Class {
	case ClassSys:
		p.emit(d.Val)
	case ClassFun:
		slot := p.emitOp(vm.JSR, d.Val)
		if d.Val == 0 {
			pf := p.pending[d]
			pf.refs = append(pf.refs, slot)
		}
	default:
		p.errf("bad function call")
	}
	if n != 0 {
		p.emitOp(vm.ADJ, n)
	}
	p.ty = d.Type
}

// binary handles one binary, postfix or conditional operator at the current
// token; the left operand's code is already emitted and its type is in ty.
func (p *Parser) binary() {
	t := p.ty // left operand type survives the recursion

	switch p.tok() {
	case Assign:
		p.next()
		if p.lastIs(vm.LC) || p.lastIs(vm.LI) {
			p.rewriteLast(vm.PSH) // keep the address, not the value
		} else {
			p.errf("bad lvalue in assignment")
		}
		p.expr(Assign)
		p.ty = t
		p.storeAccum()

	case Cond:
		p.next()
		falseSlot := p.emitOp(vm.BZ, 0)
		p.expr(Assign)
		if p.tok() != Colon {
			p.errf("conditional missing colon")
		}
		p.next()
		endSlot := p.emitOp(vm.JMP, 0)
		p.patch(falseSlot, p.here())
		p.expr(Cond)
		p.patch(endSlot, p.here())

	case Lor:
		p.next()
		slot := p.emitOp(vm.BNZ, 0)
		p.expr(Lan)
		p.patch(slot, p.here())
		p.ty = INT

	case Lan:
		p.next()
		slot := p.emitOp(vm.BZ, 0)
		p.expr(Or)
		p.patch(slot, p.here())
		p.ty = INT

	case Or:
		p.rhs(Xor, vm.OR)
	case Xor:
		p.rhs(And, vm.XOR)
	case And:
		p.rhs(Eq, vm.AND)
	case Eq:
		p.rhs(Lt, vm.EQ)
	case Ne:
		p.rhs(Lt, vm.NE)
	case Lt:
		p.rhs(Shl, vm.LT)
	case Gt:
		p.rhs(Shl, vm.GT)
	case Le:
		p.rhs(Shl, vm.LE)
	case Ge:
		p.rhs(Shl, vm.GE)
	case Shl:
		p.rhs(Add, vm.SHL)
	case Shr:
		p.rhs(Add, vm.SHR)

	case Add:
		p.next()
		p.emit(vm.PSH)
		p.expr(Mul)
		p.ty = t
		if p.ty > PTR { // pointer + int scales by the pointee size
			p.emit(vm.PSH)
			p.emitOp(vm.IMM, wordSize)
			p.emit(vm.MUL)
		}
		p.emit(vm.ADD)

	case Sub:
		p.next()
		p.emit(vm.PSH)
		p.expr(Mul)
		if t > PTR && t == p.ty { // pointer difference, in elements
			p.emit(vm.SUB)
			p.emit(vm.PSH)
			p.emitOp(vm.IMM, wordSize)
			p.emit(vm.DIV)
			p.ty = INT
		} else if p.ty = t; p.ty > PTR { // pointer - int
			p.emit(vm.PSH)
			p.emitOp(vm.IMM, wordSize)
			p.emit(vm.MUL)
			p.emit(vm.SUB)
		} else {
			p.emit(vm.SUB)
		}

	case Mul:
		p.rhs(Inc, vm.MUL)
	case Div:
		p.rhs(Inc, vm.DIV)
	case Mod:
		p.rhs(Inc, vm.MOD)

	case Inc, Dec: // postfix: adjust in place, then undo in the accumulator
		p.dupAddr("bad lvalue in post-increment")
		p.emit(vm.PSH)
		p.emitOp(vm.IMM, p.step())
		if p.tok() == Inc {
			p.emit(vm.ADD)
		} else {
			p.emit(vm.SUB)
		}
		p.storeAccum()
		p.emit(vm.PSH)
		p.emitOp(vm.IMM, p.step())
		if p.tok() == Inc {
			p.emit(vm.SUB)
		} else {
			p.emit(vm.ADD)
		}
		p.next()

	case Brak:
		p.next()
		p.emit(vm.PSH)
		p.expr(Assign)
		p.expect(RBracket, "close bracket expected")
		if t > PTR {
			p.emit(vm.PSH)
			p.emitOp(vm.IMM, wordSize)
			p.emit(vm.MUL)
		} else if t < PTR {
			p.errf("pointer type expected")
		}
		p.emit(vm.ADD)
		p.ty = t - PTR
		p.loadAccum()

	default:
		p.errf("compiler error tk=%v", p.tok())
	}
}

// rhs emits the push/parse/op tail shared by the plain binary operators.
func (p *Parser) rhs(lev Kind, op int64) {
	p.next()
	p.emit(vm.PSH)
	p.expr(lev)
	p.emit(op)
	p.ty = INT
}
