// Package machine wires the memory controller, PPU and CPU into a single
// runnable unit and exposes the frame/step surface that both the headless
// runner and the windowed front-end drive.
package machine

import (
	"fmt"

	"github.com/pixelcore-dev/dmgcore/internal/cart"
	"github.com/pixelcore-dev/dmgcore/internal/cpu"
	"github.com/pixelcore-dev/dmgcore/internal/ppu"
)

// Buttons is the live joypad state; true means pressed.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) pack() byte {
	// JOYP semantics are active-low: a cleared bit means pressed.
	var v byte = 0xFF
	if b.Right {
		v &^= 1 << 0
	}
	if b.Left {
		v &^= 1 << 1
	}
	if b.Up {
		v &^= 1 << 2
	}
	if b.Down {
		v &^= 1 << 3
	}
	if b.A {
		v &^= 1 << 4
	}
	if b.B {
		v &^= 1 << 5
	}
	if b.Select {
		v &^= 1 << 6
	}
	if b.Start {
		v &^= 1 << 7
	}
	return v
}

// Config holds emulation-affecting settings.
type Config struct {
	Trace bool // keep the CPU instruction logger enabled
}

// Machine owns one cartridge's worth of CPU+PPU+MBC state.
type Machine struct {
	cfg    Config
	mbc    interface {
		BatteryRAM() []byte
		LoadBatteryRAM([]byte)
	}
	ppu           *ppu.PPU
	cpu           *cpu.CPU
	header        *cart.Header
	batteryBacked bool
}

// New constructs a Machine from a loaded ROM image. Unsupported cartridge
// types are a load-time error.
func New(cfg Config, rom []byte) (*Machine, error) {
	mbc1, header, err := cart.NewController(rom)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}
	p := ppu.New(mbc1)
	c := cpu.New(p)
	c.CPULogger.Logging = cfg.Trace

	return &Machine{
		cfg:           cfg,
		mbc:           mbc1,
		ppu:           p,
		cpu:           c,
		header:        header,
		batteryBacked: cart.BatteryBacked(header.CartType),
	}, nil
}

// Header returns the parsed cartridge header.
func (m *Machine) Header() *cart.Header { return m.header }

// Step executes exactly one CPU instruction (or one halted cycle) and
// returns the T-cycles it cost.
func (m *Machine) Step() int { return m.cpu.Step() }

// StepFrame runs instructions until at least one full frame's worth of
// T-cycles (70,224, one 154x456 PPU sweep) has elapsed.
func (m *Machine) StepFrame() {
	const tCyclesPerFrame = 70224
	spent := 0
	for spent < tCyclesPerFrame {
		spent += m.Step()
	}
}

// Framebuffer returns the last rendered frame expanded to RGBA, using a
// fixed four-shade DMG palette.
func (m *Machine) Framebuffer() []byte {
	fb := m.ppu.Framebuffer()
	out := make([]byte, 160*144*4)
	palette := [4][3]byte{
		{0xE0, 0xF8, 0xD0},
		{0x88, 0xC0, 0x70},
		{0x34, 0x68, 0x56},
		{0x08, 0x18, 0x20},
	}
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			c := palette[fb[y][x]&0x03]
			i := (y*160 + x) * 4
			out[i+0] = c[0]
			out[i+1] = c[1]
			out[i+2] = c[2]
			out[i+3] = 0xFF
		}
	}
	return out
}

// SetButtons updates the joypad state read by the CPU's peripheral tick.
func (m *Machine) SetButtons(b Buttons) { m.cpu.JoypadBuffer = b.pack() }

// SetJoypad sets the raw JOYP input byte directly, for callers driving the
// core from something other than the Buttons struct (e.g. a replay log
// captured at the byte level).
func (m *Machine) SetJoypad(v byte) { m.cpu.JoypadBuffer = v }

// Halting reports whether the CPU is currently halted awaiting an
// interrupt.
func (m *Machine) Halting() bool { return m.cpu.Halting }

// SetHalting forces the CPU's halted state, letting a front-end pause and
// resume execution without an interrupt actually firing.
func (m *Machine) SetHalting(v bool) { m.cpu.Halting = v }

// SaveBattery returns a copy of the cartridge's battery-backed RAM and
// whether the cartridge is battery-backed at all. Callers should skip
// persisting when the bool is false; the byte slice is nil in that case.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if !m.batteryBacked {
		return nil, false
	}
	src := m.mbc.BatteryRAM()
	out := make([]byte, len(src))
	copy(out, src)
	return out, true
}

// LoadBattery restores previously saved battery RAM and reports whether the
// load was applied; it is a no-op returning false when the cartridge has no
// battery-backed RAM.
func (m *Machine) LoadBattery(data []byte) bool {
	if !m.batteryBacked {
		return false
	}
	m.mbc.LoadBatteryRAM(data)
	return true
}

// ExeCount returns the number of instructions executed so far.
func (m *Machine) ExeCount() uint64 { return m.cpu.ExeCount() }

// SerialOutput returns the last n entries of the serial logger's ring,
// oldest first. It does not consume them: repeated calls return
// overlapping bytes, and ring slots never written read as 0.
func (m *Machine) SerialOutput(n int) []byte {
	vals := m.cpu.SerialLogger.Reads(n)
	out := make([]byte, len(vals))
	copy(out, vals)
	return out
}
