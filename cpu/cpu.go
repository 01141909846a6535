// Package cpu implements the MOS Technology 6502 microprocessor, as used in
// the NES.
package cpu

import (
	"emunes/mem"
)

// https://www.nesdev.org/wiki/CPU_ALL
// https://www.nesdev.org/wiki/Status_flags

const stackBase uint16 = 0x0100

// A Cpu is the 6502 interpreter: six registers, a Bus to read and write
// through, and the per-instruction scratch state the fetch/resolve/execute
// pipeline fills in. It carries no memory of its own.
type Cpu struct {
	Bus *mem.Bus

	PC uint16
	A  byte
	X  byte
	Y  byte
	S  byte
	P  byte

	// ResetVector, when non-nil, overrides the $FFFC/$FFFD vector on Reset.
	// Used by the nestest conformance harness, which starts execution at
	// $C000 regardless of what the image's vector says.
	ResetVector *uint16

	// Trace, when non-nil, receives one formatted line per instruction,
	// emitted immediately before that instruction executes.
	Trace *Tracer

	Cycles uint64

	op      Opcode
	b1, b2  byte
	addr    uint16
	operand byte
	crossed bool
	jumped  bool
}

// Reset puts the CPU into its post-power-on state: A/X/Y cleared, S at
// $FD, P at $24 (IRQ disabled, unused bit set), and PC loaded from the
// reset vector (or ResetVector, if set).
func (c *Cpu) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xFD
	c.P = 0x24
	if c.ResetVector != nil {
		c.PC = *c.ResetVector
	} else {
		c.PC = c.Bus.ReadWord(0xFFFC)
	}
	c.Cycles = 7
}

// Step executes exactly one instruction: fetch, decode, fetch operand
// bytes, resolve the address, trace, execute, and advance PC. It returns
// the UnknownOpcodeError if the byte at PC has no legal decoding.
func (c *Cpu) Step() error {
	raw := c.Bus.Read(c.PC)
	op, err := decode(raw)
	if err != nil {
		return err
	}
	c.op = op

	if op.Length >= 2 {
		c.b1 = c.Bus.Read(c.PC + 1)
	}
	if op.Length >= 3 {
		c.b2 = c.Bus.Read(c.PC + 2)
	}

	c.crossed = false
	c.resolve()

	if c.Trace != nil {
		c.Trace.emit(c)
	}

	c.jumped = false
	pc := c.PC
	c.execute()
	if !c.jumped {
		c.PC = pc + uint16(op.Length)
	}

	c.Cycles += uint64(op.BaseCycles)
	if c.crossed && pageCrossPenalty(op.Mode) {
		c.Cycles++
	}

	return nil
}

// pageCrossPenalty reports whether mode's indexed addressing adds a cycle
// when indexing crosses a page boundary. Taken or page-crossing branches
// add no extra cycles.
func pageCrossPenalty(mode AddressingMode) bool {
	switch mode {
	case ABX, ABY, IIX:
		return true
	default:
		return false
	}
}

// resolve computes the operand address/value for the current instruction's
// addressing mode, per the 6502's documented addressing rules. JMP
// (Indirect) reproduces the page-wrap hardware bug: if the low byte of the
// pointer is $FF, the high byte is fetched from the start of the same page
// rather than the next one.
func (c *Cpu) resolve() {
	switch c.op.Mode {
	case IMP:
		// no operand
	case ACC:
		c.operand = c.A
	case IMM:
		c.operand = c.b1
	case ZP0:
		c.addr = uint16(c.b1)
		c.operand = c.Bus.Read(c.addr)
	case ZPX:
		c.addr = uint16(byte(c.b1 + c.X))
		c.operand = c.Bus.Read(c.addr)
	case ZPY:
		c.addr = uint16(byte(c.b1 + c.Y))
		c.operand = c.Bus.Read(c.addr)
	case REL:
		offset := int8(c.b1)
		c.addr = uint16(int32(c.PC) + int32(c.op.Length) + int32(offset))
	case ABS:
		c.addr = word(c.b1, c.b2)
		c.operand = c.Bus.Read(c.addr)
	case ABX:
		base := word(c.b1, c.b2)
		c.addr = base + uint16(c.X)
		c.crossed = (base & 0xFF00) != (c.addr & 0xFF00)
		c.operand = c.Bus.Read(c.addr)
	case ABY:
		base := word(c.b1, c.b2)
		c.addr = base + uint16(c.Y)
		c.crossed = (base & 0xFF00) != (c.addr & 0xFF00)
		c.operand = c.Bus.Read(c.addr)
	case IND:
		ptr := word(c.b1, c.b2)
		lo := c.Bus.Read(ptr)
		var hi byte
		if ptr&0x00FF == 0x00FF {
			hi = c.Bus.Read(ptr & 0xFF00)
		} else {
			hi = c.Bus.Read(ptr + 1)
		}
		c.addr = word(lo, hi)
	case IXI:
		zp := byte(c.b1 + c.X)
		lo := c.Bus.Read(uint16(zp))
		hi := c.Bus.Read(uint16(byte(zp + 1)))
		c.addr = word(lo, hi)
		c.operand = c.Bus.Read(c.addr)
	case IIX:
		zp := c.b1
		lo := c.Bus.Read(uint16(zp))
		hi := c.Bus.Read(uint16(byte(zp + 1)))
		base := word(lo, hi)
		c.addr = base + uint16(c.Y)
		c.crossed = (base & 0xFF00) != (c.addr & 0xFF00)
		c.operand = c.Bus.Read(c.addr)
	}
}

// word assembles lo and hi into a little-endian 16-bit value.
func word(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Cpu) push(v byte) {
	c.Bus.Write(stackBase+uint16(c.S), v)
	c.S--
}

func (c *Cpu) pop() byte {
	c.S++
	return c.Bus.Read(stackBase + uint16(c.S))
}

func (c *Cpu) pushWord(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

func (c *Cpu) popWord() uint16 {
	lo := c.pop()
	hi := c.pop()
	return word(lo, hi)
}

// storeResult writes a computed value back to wherever the operand came
// from: the accumulator for ACC-mode instructions, or memory otherwise.
func (c *Cpu) storeResult(v byte) {
	if c.op.Mode == ACC {
		c.A = v
	} else {
		c.Bus.Write(c.addr, v)
	}
}
