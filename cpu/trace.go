package cpu

import (
	"fmt"
	"io"
	"strings"
)

// A Tracer collects one formatted disassembly line per executed
// instruction, in execution order, for later comparison against a
// reference log (nestest being the canonical one) or for flushing to a
// file at termination.
type Tracer struct {
	lines []string
}

// NewTracer returns an empty Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Lines returns the collected trace lines, in execution order.
func (t *Tracer) Lines() []string {
	return t.lines
}

// WriteTo flushes the collected lines to w, one per line, newline
// terminated.
func (t *Tracer) WriteTo(w io.Writer) error {
	for _, line := range t.lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// emit builds and appends the trace line for the instruction about to
// execute. It must run after resolve (so addr/operand are populated) and
// before execute (so the snapshot is pre-execution).
func (t *Tracer) emit(c *Cpu) {
	raw := make([]byte, 0, 3)
	raw = append(raw, c.op.Raw)
	if c.op.Length >= 2 {
		raw = append(raw, c.b1)
	}
	if c.op.Length >= 3 {
		raw = append(raw, c.b2)
	}
	hexBytes := make([]string, len(raw))
	for i, b := range raw {
		hexBytes[i] = fmt.Sprintf("%02X", b)
	}
	bytesField := strings.Join(hexBytes, " ")

	mnemonicAndOperand := fmt.Sprintf("%s %s", c.op.Kind, operandString(c))

	line := fmt.Sprintf("%04X  %-9s %-31s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		c.PC, bytesField, mnemonicAndOperand, c.A, c.X, c.Y, c.P, c.S)

	t.lines = append(t.lines, line)
}

// isRegisterLoadStore reports whether absolute-mode disassembly of kind
// appends the memory value at the resolved address: true for every kind
// except JMP and JSR, whose address is a jump target.
func isRegisterLoadStore(k InstructionKind) bool {
	switch k {
	case JMP, JSR:
		return false
	default:
		return true
	}
}

// operandString formats the operand field per addressing mode, matching
// the nestest disassembly conventions.
func operandString(c *Cpu) string {
	switch c.op.Mode {
	case IMP:
		return ""
	case ACC:
		return "A"
	case IMM:
		return fmt.Sprintf("#$%02X", c.b1)
	case ZP0:
		return fmt.Sprintf("$%02X = %02X", c.b1, c.operand)
	case ZPX:
		return fmt.Sprintf("$%02X,X @ %02X = %02X", c.b1, c.addr, c.operand)
	case ZPY:
		return fmt.Sprintf("$%02X,Y @ %02X = %02X", c.b1, c.addr, c.operand)
	case REL:
		return fmt.Sprintf("$%04X", c.addr)
	case ABS:
		if isRegisterLoadStore(c.op.Kind) {
			return fmt.Sprintf("$%04X = %02X", c.addr, c.operand)
		}
		return fmt.Sprintf("$%04X", c.addr)
	case ABX:
		base := word(c.b1, c.b2)
		return fmt.Sprintf("$%04X,X @ %04X = %02X", base, c.addr, c.operand)
	case ABY:
		base := word(c.b1, c.b2)
		return fmt.Sprintf("$%04X,Y @ %04X = %02X", base, c.addr, c.operand)
	case IND:
		ptr := word(c.b1, c.b2)
		return fmt.Sprintf("($%04X) = %04X", ptr, c.addr)
	case IXI:
		zp := byte(c.b1 + c.X)
		return fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", c.b1, zp, c.addr, c.operand)
	case IIX:
		base := word(c.Bus.Read(uint16(c.b1)), c.Bus.Read(uint16(byte(c.b1+1))))
		return fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", c.b1, base, c.addr, c.operand)
	default:
		return ""
	}
}
