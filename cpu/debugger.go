package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// model is the bubbletea TUI state for stepping an already-reset Cpu one
// instruction at a time and inspecting its registers and surrounding
// memory pages.
type model struct {
	cpu    *Cpu
	offset uint16 // cpu.PC at start; pageTable follows the current PC instead
	prevPC uint16
	error  error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			if err := m.cpu.Step(); err != nil {
				m.error = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders one 16-byte page as a line, with the current PC's
// byte bracketed.
func (m model) renderPage(start uint16) string {
	if start%16 != 0 {
		panic("start must be a multiple of 16")
	}
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.cpu.Bus.Read(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{
		m.cpu.getN(),
		m.cpu.getV(),
		mask_unused(m.cpu),
		m.cpu.getB(),
		m.cpu.getD(),
		m.cpu.getI(),
		m.cpu.getZ(),
		m.cpu.getC(),
	} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
 A: %02x
 X: %02x
 Y: %02x
 S: %02x
N V _ B D I Z C
`,
		m.cpu.PC,
		m.prevPC,
		m.cpu.A,
		m.cpu.X,
		m.cpu.Y,
		m.cpu.S,
	) + flags
}

func mask_unused(c *Cpu) bool { return c.P&0x20 != 0 }

func (m model) pageTable() string {
	header := "page | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}

	pages := []string{header}

	base := m.cpu.PC & 0xFFF0
	offsets := []int{
		0, 16, 32, 48, 64,
		int(base),
		int(base + 16*1),
		int(base + 16*2),
		int(base + 16*3),
		int(base + 16*4),
	}
	for _, i := range offsets {
		pages = append(pages, m.renderPage(uint16(i)))
	}
	return strings.Join(pages, "\n")
}

func (m model) View() string {
	raw := m.cpu.Bus.Read(m.cpu.PC)
	op, err := decode(raw)
	dump := "?"
	if err == nil {
		dump = spew.Sdump(op)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		dump,
	)
}

// Debug starts an interactive TUI against an already-reset Cpu, stepping
// one instruction per spacebar/"j" press.
func (c *Cpu) Debug() {
	m, err := tea.NewProgram(model{cpu: c, offset: c.PC}).Run()
	if err != nil {
		panic(err)
	}
	x := m.(model)
	if x.error != nil {
		fmt.Println("Error:", x.error)
	}
}
