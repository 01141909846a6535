// Package nes wires the bus, CPU, cartridge loader, and trace sink
// together into a runnable machine, the way original_source/src/nes/Nes.h
// wires Mmio and MOS6502.
package nes

import (
	"fmt"
	"io"

	"emunes/cartridge"
	"emunes/cpu"
	"emunes/log"
	"emunes/mem"
)

// A Machine owns the bus and CPU for one run. It is constructed once per
// cartridge and lives for the duration of the run.
type Machine struct {
	Bus *mem.Bus
	Cpu *cpu.Cpu

	maxInstructions int
}

// New constructs a Machine around path's cartridge image. The bus and CPU
// are created and wired, but not yet reset.
func New(path string) (*Machine, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, fmt.Errorf("nes: %w", err)
	}
	return newFromCartridge(cart), nil
}

func newFromCartridge(cart *cartridge.Cartridge) *Machine {
	bus := mem.New()
	bus.SetPRGROM(cart.PRGROM)
	return &Machine{
		Bus: bus,
		Cpu: &cpu.Cpu{Bus: bus, Trace: cpu.NewTracer()},
	}
}

// SetResetVectorOverride pins PC to addr on Reset, bypassing the
// cartridge's $FFFC/$FFFD vector. Mirrors the original's
// override_reset_vector, used by the nestest conformance harness.
func (m *Machine) SetResetVectorOverride(addr uint16) {
	m.Cpu.ResetVector = &addr
}

// SetMaxInstructions bounds the run to n instructions. Zero (the default)
// means unbounded: Run executes until an UnknownOpcodeError.
func (m *Machine) SetMaxInstructions(n int) {
	m.maxInstructions = n
}

// Reset powers on the CPU: registers to their post-reset state, PC from
// the vector (or override).
func (m *Machine) Reset() {
	m.Cpu.Reset()
}

// Run executes instructions until the step budget is reached (if one was
// configured) or decode fails. A decode failure is logged and returned as
// the run's error; the trace collected up to that point stays available to
// FlushTrace.
func (m *Machine) Run() error {
	steps := 0
	for m.maxInstructions == 0 || steps < m.maxInstructions {
		if err := m.Cpu.Step(); err != nil {
			log.Errorf("%s", err)
			return err
		}
		steps++
	}
	return nil
}

// FlushTrace writes the collected trace lines to w.
func (m *Machine) FlushTrace(w io.Writer) error {
	return m.Cpu.Trace.WriteTo(w)
}
