package vm

import (
	"bytes"
	"fmt"
)

// FileSystem is the closed surface behind the open/read/close syscalls.
// Every method follows the guest-visible convention: a file descriptor or
// byte count on success, -1 on failure.
type FileSystem interface {
	Open(path string, flags int) int
	Read(fd int, p []byte) int
	Close(fd int) int
}

// printfWindow is the number of stack slots the formatted-print syscall
// reads: the format string plus five value words, located through the
// operand of the ADJ instruction that follows every call site. The window
// is read whole no matter how many arguments the call actually pushed;
// guest programs depend on that exact shape.
const printfWindow = 6

func (m *Machine) sysPrintf() int64 {
	narg := m.code[m.pc+1] // operand of the trailing ADJ
	base := m.sp + narg*WordSize

	format := m.cstring(m.loadWord(base - WordSize))
	var vals [printfWindow - 1]int64
	for i := range vals {
		vals[i] = m.loadWord(base - int64(i+2)*WordSize)
	}

	var buf bytes.Buffer
	next := 0
	take := func() int64 {
		if next < len(vals) {
			v := vals[next]
			next++
			return v
		}
		return 0
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			buf.WriteByte(ch)
			continue
		}
		i++
		if i >= len(format) {
			buf.WriteByte('%')
			break
		}
		if format[i] == '%' {
			buf.WriteByte('%')
			continue
		}

		// Flags, width and precision transfer to the Go verb
		// unchanged; a '*' consumes a window slot, in C order.
		start := i
		var pre []any
		for i < len(format) && (format[i] == '-' || format[i] == '0' || format[i] == '+' || format[i] == ' ') {
			i++
		}
		if i < len(format) && format[i] == '*' {
			pre = append(pre, int(take()))
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
		}
		if i < len(format) && format[i] == '.' {
			i++
			if i < len(format) && format[i] == '*' {
				pre = append(pre, int(take()))
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					i++
				}
			}
		}
		if i >= len(format) {
			buf.WriteByte('%')
			buf.WriteString(format[start:])
			break
		}

		spec := "%" + format[start:i]
		switch format[i] {
		case 'd':
			fmt.Fprintf(&buf, spec+"d", append(pre, take())...)
		case 'x':
			fmt.Fprintf(&buf, spec+"x", append(pre, uint64(take()))...)
		case 'c':
			fmt.Fprintf(&buf, spec+"c", append(pre, rune(byte(take())))...)
		case 's':
			fmt.Fprintf(&buf, spec+"s", append(pre, m.cstring(take()))...)
		default:
			buf.WriteByte('%')
			buf.WriteString(format[start : i+1])
		}
	}

	m.out().Write(buf.Bytes())
	return int64(buf.Len())
}
