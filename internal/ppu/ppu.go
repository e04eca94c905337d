// Package ppu implements the dot-accurate scanline state machine and the
// full-frame background/window/sprite renderer.
package ppu

import (
	"github.com/pixelcore-dev/dmgcore/internal/mbc1"
	"github.com/pixelcore-dev/dmgcore/internal/mem"
)

const (
	dotsPerLine   = 456
	linesPerFrame = 154
	vblankLine    = 144
)

// PPU owns no memory of its own: every byte it reads or writes lives in
// the MBC1's flat RAM, obtained through the MBC. The PPU accesses that
// array directly, so the VRAM/OAM blocking gates (which only filter the
// MBC's Write) do not apply to it.
type PPU struct {
	mbc *mbc1.MBC1
	lx  int

	fb     [144][160]byte
	bufBG  [256][256]byte
	bufWin [256][256]byte
}

// New constructs a PPU driving memory through mbc.
func New(mbc *mbc1.MBC1) *PPU {
	return &PPU{mbc: mbc}
}

// Framebuffer returns the last rendered 160x144 frame, pixel values in
// {0,1,2,3}.
func (p *PPU) Framebuffer() *[144][160]byte { return &p.fb }

// MBC returns the memory controller backing this PPU, so the CPU can reach
// the same flat address space through a single owning chain.
func (p *PPU) MBC() *mbc1.MBC1 { return p.mbc }

// Tick advances the dot counter by one T-cycle, driving mode transitions,
// STAT/LYC interrupts, and (at VBlank entry) a full-frame render.
func (p *PPU) Tick() {
	ram := p.mbc.RAM()
	ly := ram.ReadReg(mem.RegLY)

	switch {
	case ly < vblankLine && p.lx == 0:
		p.enterOAMScan(ram)
	case ly < vblankLine && p.lx == 80:
		p.enterDrawing(ram)
	case ly < vblankLine && p.lx == 252:
		p.enterHBlank(ram)
	case ly == vblankLine && p.lx == 0:
		p.enterVBlank(ram)
	}

	p.lx++
	if p.lx >= dotsPerLine {
		p.lx = 0
		ly++
		if ly >= linesPerFrame {
			ly = 0
		}
		ram.WriteReg(mem.RegLY, ly)
		p.compareLYC(ram, ly)
	}
}

func (p *PPU) enterOAMScan(ram *mem.RAM) {
	p.mbc.SetOAMBlocking(true)
	stat := (ram.ReadReg(mem.RegSTAT) &^ byte(0x03)) | 2
	if stat&(1<<5) != 0 {
		ram.RaiseInterrupt(mem.IntSTAT)
	}
	ram.WriteReg(mem.RegSTAT, stat)
}

func (p *PPU) enterDrawing(ram *mem.RAM) {
	// VRAM blocking is intentionally left disabled here; see SPEC_FULL.md
	// §9 ("Drawing-mode VRAM blocking").
	p.mbc.SetOAMBlocking(true)
	stat := (ram.ReadReg(mem.RegSTAT) &^ byte(0x03)) | 3
	ram.WriteReg(mem.RegSTAT, stat)
}

func (p *PPU) enterHBlank(ram *mem.RAM) {
	p.mbc.SetOAMBlocking(false)
	p.mbc.SetVRAMBlocking(false)
	stat := ram.ReadReg(mem.RegSTAT) &^ byte(0x03)
	if stat&(1<<3) != 0 {
		ram.RaiseInterrupt(mem.IntSTAT)
	}
	ram.WriteReg(mem.RegSTAT, stat)
}

func (p *PPU) enterVBlank(ram *mem.RAM) {
	p.mbc.SetOAMBlocking(false)
	p.mbc.SetVRAMBlocking(false)
	p.draw(ram)
	ram.RaiseInterrupt(mem.IntVBlank)
	stat := (ram.ReadReg(mem.RegSTAT) &^ byte(0x03)) | 1
	if stat&(1<<4) != 0 {
		ram.RaiseInterrupt(mem.IntSTAT)
	}
	ram.WriteReg(mem.RegSTAT, stat)
}

func (p *PPU) compareLYC(ram *mem.RAM, ly byte) {
	lyc := ram.ReadReg(mem.RegLYC)
	stat := ram.ReadReg(mem.RegSTAT)
	if ly == lyc {
		stat |= 1 << 2
		if stat&(1<<6) != 0 {
			ram.RaiseInterrupt(mem.IntSTAT)
		}
	} else {
		stat &^= byte(1 << 2)
	}
	ram.WriteReg(mem.RegSTAT, stat)
}
