// Package cpu implements the Sharp LR35902 instruction set, its interrupt,
// timer, serial and joypad peripherals, and the per-step T-cycle loop that
// drives the PPU alongside instruction execution.
package cpu

import (
	"github.com/pixelcore-dev/dmgcore/internal/logger"
	"github.com/pixelcore-dev/dmgcore/internal/mem"
	"github.com/pixelcore-dev/dmgcore/internal/ppu"
)

// Operand tags a register, immediate, or indirect-memory access so that
// load8/store8/load16/store16 can dispatch on a single value instead of
// every instruction body hand-rolling its own fetch/read/write sequence.
type Operand int

const (
	OpNone Operand = iota
	OpA
	OpB
	OpC
	OpD
	OpE
	OpH
	OpL
	OpAF
	OpBC
	OpDE
	OpHL
	OpSP
	OpPC
	OpN       // fetched immediate byte
	OpNN      // fetched immediate word
	OpPBC     // (BC)
	OpPDE     // (DE)
	OpPHL     // (HL)
	OpPNN     // (nn)
	OpPFF00C  // (0xFF00+C)
	OpPFF00N  // (0xFF00+n)
	OpHLI     // (HL), then HL++
	OpHLD     // (HL), then HL--
	CondNZ
	CondZ
	CondNC
	CondC
	CondAlways
)

// Snapshot is a single logged instruction: the state visible right before
// it executed, for post-mortem inspection via CPULogger.
type Snapshot struct {
	PC     uint16
	Opcode byte
	A, F   byte
	B, C   byte
	D, E   byte
	H, L   byte
	SP     uint16
	IME    bool
	IF, IE byte
}

// CPU holds the full register file and drives execution against a PPU's
// memory controller.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte
	SP   uint16
	PC   uint16

	IME     bool
	Halting bool

	// JoypadBuffer holds the live button state: bit clear means pressed.
	// Bits 0-3 are right/left/up/down, 4-7 are A/B/select/start.
	JoypadBuffer byte

	cycle      int
	sysCounter uint16
	exeCounter uint64

	ppu *ppu.PPU

	CPULogger    *logger.Logger[Snapshot]
	SerialLogger *logger.Logger[byte]
}

// New constructs a CPU with every register zeroed except SP and PC, which
// start at the cartridge entry point used by headless boot (no boot ROM is
// modeled).
func New(p *ppu.PPU) *CPU {
	return &CPU{
		SP:           0xFFFE,
		PC:           0x0100,
		JoypadBuffer: 0xFF,
		ppu:          p,
		CPULogger:    logger.New[Snapshot](64),
		SerialLogger: logger.New[byte](4096),
	}
}

func (c *CPU) ram() *mem.RAM { return c.ppu.MBC().RAM() }

func (c *CPU) read(addr uint16) byte      { return c.ppu.MBC().Read(addr) }
func (c *CPU) write(addr uint16, v byte) { c.ppu.MBC().Write(addr, v) }

// tick accounts one machine cycle (four T-cycles) of work. It is called
// only from the handful of places that actually cost time on real
// hardware: opcode/operand fetches, stack pushes and pops, and a short
// list of instructions with an extra internal cycle.
func (c *CPU) tick() { c.cycle++ }

func (c *CPU) fetch8() byte {
	v := c.read(c.PC)
	c.PC++
	c.tick()
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push8(v byte) {
	c.SP--
	c.write(c.SP, v)
	c.tick()
}

func (c *CPU) pop8() byte {
	v := c.read(c.SP)
	c.SP++
	c.tick()
	return v
}

func (c *CPU) push16(v uint16) {
	c.push8(byte(v >> 8))
	c.push8(byte(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(hi)<<8 | uint16(lo)
}

// Flag bit positions within F. The low nibble is always zero.
const (
	flagZ = 1 << 7
	flagN = 1 << 6
	flagH = 1 << 5
	flagC = 1 << 4
)

func (c *CPU) getFlag(mask byte) bool { return c.F&mask != 0 }
func (c *CPU) setFlag(mask byte, v bool) {
	if v {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

func (c *CPU) zero() bool     { return c.getFlag(flagZ) }
func (c *CPU) negative() bool { return c.getFlag(flagN) }
func (c *CPU) half() bool     { return c.getFlag(flagH) }
func (c *CPU) carry() bool    { return c.getFlag(flagC) }

func (c *CPU) setZero(v bool)     { c.setFlag(flagZ, v) }
func (c *CPU) setNegative(v bool) { c.setFlag(flagN, v) }
func (c *CPU) setHalf(v bool)     { c.setFlag(flagH, v) }
func (c *CPU) setCarry(v bool)    { c.setFlag(flagC, v) }

func (c *CPU) bc() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) de() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) hl() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) af() uint16 { return uint16(c.A)<<8 | uint16(c.F&0xF0) }

func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }

func (c *CPU) condFlag(op Operand) bool {
	switch op {
	case CondNZ:
		return !c.zero()
	case CondZ:
		return c.zero()
	case CondNC:
		return !c.carry()
	case CondC:
		return c.carry()
	default:
		return true
	}
}

// load8 reads an 8-bit operand, fetching or dereferencing as needed. Plain
// register reads cost no extra time; (HL)/(BC)/(DE)/(nn)/(FF00+n) forms
// cost whatever their fetch8 calls already charge, and no more, matching
// the memory-access model documented in DESIGN.md ("Indirect-memory tick
// cost").
func (c *CPU) load8(op Operand) byte {
	switch op {
	case OpA:
		return c.A
	case OpB:
		return c.B
	case OpC:
		return c.C
	case OpD:
		return c.D
	case OpE:
		return c.E
	case OpH:
		return c.H
	case OpL:
		return c.L
	case OpN:
		return c.fetch8()
	case OpPBC:
		return c.read(c.bc())
	case OpPDE:
		return c.read(c.de())
	case OpPHL:
		return c.read(c.hl())
	case OpPNN:
		return c.read(c.fetch16())
	case OpPFF00C:
		return c.read(0xFF00 + uint16(c.C))
	case OpPFF00N:
		n := c.fetch8()
		return c.read(0xFF00 + uint16(n))
	case OpHLI:
		hl := c.hl()
		v := c.read(hl)
		c.setHL(hl + 1)
		return v
	case OpHLD:
		hl := c.hl()
		v := c.read(hl)
		c.setHL(hl - 1)
		return v
	default:
		panic("cpu: invalid 8-bit load operand")
	}
}

func (c *CPU) store8(op Operand, v byte) {
	switch op {
	case OpA:
		c.A = v
	case OpB:
		c.B = v
	case OpC:
		c.C = v
	case OpD:
		c.D = v
	case OpE:
		c.E = v
	case OpH:
		c.H = v
	case OpL:
		c.L = v
	case OpPBC:
		c.write(c.bc(), v)
	case OpPDE:
		c.write(c.de(), v)
	case OpPHL:
		c.write(c.hl(), v)
	case OpPNN:
		c.write(c.fetch16(), v)
	case OpPFF00C:
		c.write(0xFF00+uint16(c.C), v)
	case OpPFF00N:
		n := c.fetch8()
		c.write(0xFF00+uint16(n), v)
	case OpHLI:
		hl := c.hl()
		c.write(hl, v)
		c.setHL(hl + 1)
	case OpHLD:
		hl := c.hl()
		c.write(hl, v)
		c.setHL(hl - 1)
	default:
		panic("cpu: invalid 8-bit store operand")
	}
}

func (c *CPU) load16(op Operand) uint16 {
	switch op {
	case OpBC:
		return c.bc()
	case OpDE:
		return c.de()
	case OpHL:
		return c.hl()
	case OpSP:
		return c.SP
	case OpAF:
		return c.af()
	case OpNN:
		return c.fetch16()
	default:
		panic("cpu: invalid 16-bit load operand")
	}
}

// store16 writes a 16-bit operand. The (nn) form writes its two bytes
// directly (no extra tick per byte) and then backs off one tick, so
// LD (nn),SP costs two machine cycles in all.
func (c *CPU) store16(op Operand, v uint16) {
	switch op {
	case OpBC:
		c.setBC(v)
	case OpDE:
		c.setDE(v)
	case OpHL:
		c.setHL(v)
	case OpSP:
		c.SP = v
	case OpAF:
		c.setAF(v)
	case OpPNN:
		nn := c.fetch16()
		c.write(nn, byte(v))
		c.write(nn+1, byte(v>>8))
		c.cycle--
	default:
		panic("cpu: invalid 16-bit store operand")
	}
}

func (c *CPU) snapshot(opcode byte) Snapshot {
	r := c.ram()
	return Snapshot{
		PC: c.PC - 1, Opcode: opcode,
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, IME: c.IME,
		IF: r.ReadReg(mem.RegIF), IE: r.ReadReg(mem.RegIE),
	}
}
