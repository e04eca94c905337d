// Package mbc1 translates 16-bit CPU addresses into ROM, RAM, external-RAM
// or I/O-register accesses. It owns the flat memory array and the ROM
// image; the PPU and CPU reach memory only through this package.
package mbc1

import "github.com/pixelcore-dev/dmgcore/internal/mem"

// MBC1 is the memory bank controller for ROM-only and MBC1-class
// cartridges. ROM-only cartridges are modeled as a permanently-banked-to-1
// MBC1 whose control-register writes are discarded.
type MBC1 struct {
	rom    []byte
	ram    *mem.RAM
	banked bool // false for plain ROM-only cartridges

	romBank1 byte // 5 bits, coerced to >=1
	romBank2 byte // 2 bits
	romBank  int  // (romBank2<<19)|(romBank1<<14), recomputed on write

	ramExEnable bool
	ramExBank   int

	vramBlocking bool
	oamBlocking  bool
}

// New constructs an MBC1 over rom with an external RAM window of ramExSize
// bytes. banked controls whether bank-select writes take effect; pass
// false for ROM-only cartridges.
func New(rom []byte, ramExSize int, banked bool) *MBC1 {
	m := &MBC1{
		rom:      rom,
		ram:      mem.New(ramExSize),
		banked:   banked,
		romBank1: 1,
	}
	m.recomputeBank()
	return m
}

// RAM exposes the flat memory array for components (PPU, CPU peripherals)
// that need direct register access rather than banked ROM/RAM-ex access.
func (m *MBC1) RAM() *mem.RAM { return m.ram }

func (m *MBC1) recomputeBank() {
	m.romBank = (int(m.romBank2) << 19) | (int(m.romBank1) << 14)
}

func (m *MBC1) romByte(i int) byte {
	if i < 0 || i >= len(m.rom) {
		return 0xFF
	}
	return m.rom[i]
}

// Read dispatches a CPU-address read to ROM, VRAM, external RAM or main
// RAM, per the MBC1 address map.
func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.romByte(int(addr))
	case addr < 0x8000:
		return m.romByte(m.romBank + int(addr) - 0x4000)
	case addr < 0xA000:
		return m.ram.Read(addr)
	case addr < 0xC000:
		if !m.ramExEnable {
			return 0
		}
		return m.ram.ReadEx(m.ramExBank + int(addr) - 0xA000)
	default:
		return m.ram.Read(addr)
	}
}

// Write dispatches a CPU-address write, applying MBC1 control-register
// side effects and the blocking gates the PPU asserts during rendering.
func (m *MBC1) Write(addr uint16, v byte) {
	switch {
	case addr < 0x2000:
		if m.banked {
			m.ramExEnable = v&0x0F == 0x0A
		}
	case addr < 0x4000:
		if m.banked {
			bank := v & 0x1F
			if bank == 0 {
				bank = 1
			}
			m.romBank1 = bank
			m.recomputeBank()
		}
	case addr < 0x6000:
		if m.banked {
			m.romBank2 = v & 0x03
			m.recomputeBank()
		}
	case addr < 0x8000:
		if m.banked {
			if v != 0 {
				m.ramExEnable = true
				m.ramExBank = int(m.romBank2) << 13
			} else {
				m.ramExEnable = false
				m.ramExBank = 0
			}
		}
	case addr < 0xA000:
		if !m.vramBlocking {
			m.ram.Write(addr, v)
		}
	case addr < 0xC000:
		if m.ramExEnable {
			m.ram.WriteEx(m.ramExBank+int(addr)-0xA000, v)
		}
	case addr == mem.RegDMA:
		if !m.oamBlocking {
			m.ram.TransferDMA(uint16(v) << 8)
		}
		m.ram.Write(addr, v)
	default:
		m.ram.Write(addr, v)
	}
}

// SetVRAMBlocking and SetOAMBlocking are driven by the PPU's mode
// transitions to gate CPU access during rendering.
func (m *MBC1) SetVRAMBlocking(v bool) { m.vramBlocking = v }
func (m *MBC1) SetOAMBlocking(v bool)  { m.oamBlocking = v }

// ROMBank1 and ROMBank2 expose the raw bank-select registers for testing.
func (m *MBC1) ROMBank1() byte { return m.romBank1 }
func (m *MBC1) ROMBank2() byte { return m.romBank2 }

// BatteryRAM exposes the external RAM vector for save/load of battery-
// backed cartridges.
func (m *MBC1) BatteryRAM() []byte          { return m.ram.ExternalRAM() }
func (m *MBC1) LoadBatteryRAM(data []byte) { m.ram.LoadExternalRAM(data) }
