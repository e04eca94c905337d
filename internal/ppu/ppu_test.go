package ppu

import (
	"testing"

	"github.com/pixelcore-dev/dmgcore/internal/mbc1"
	"github.com/pixelcore-dev/dmgcore/internal/mem"
	"github.com/stretchr/testify/require"
)

func newPPU() (*PPU, *mbc1.MBC1) {
	m := mbc1.New(make([]byte, 0x8000), 0, false)
	return New(m), m
}

func TestFrameCadence(t *testing.T) {
	p, m := newPPU()
	ram := m.RAM()

	for i := 0; i < 154*456; i++ {
		p.Tick()
	}

	require.Equal(t, byte(0), ram.ReadReg(mem.RegLY), "LY should wrap back to 0 after one full frame")
	require.NotZero(t, ram.ReadReg(mem.RegIF)&mem.IntVBlank, "VBlank interrupt should have fired")
}

func TestVBlankFiresExactlyOnce(t *testing.T) {
	p, m := newPPU()
	ram := m.RAM()

	fires := 0
	for i := 0; i < 154*456; i++ {
		before := ram.ReadReg(mem.RegIF)
		p.Tick()
		after := ram.ReadReg(mem.RegIF)
		if before&mem.IntVBlank == 0 && after&mem.IntVBlank != 0 {
			fires++
		}
		ram.WriteReg(mem.RegIF, after&^byte(mem.IntVBlank))
	}
	require.Equal(t, 1, fires, "VBlank interrupt should be raised exactly once per frame")
}

func TestLYCComparisonSetsAndClearsSTAT(t *testing.T) {
	p, m := newPPU()
	ram := m.RAM()
	ram.WriteReg(mem.RegLYC, 5)
	ram.WriteReg(mem.RegSTAT, 0x40) // enable LYC interrupt source

	for ram.ReadReg(mem.RegLY) != 5 {
		p.Tick()
	}
	require.NotZero(t, ram.ReadReg(mem.RegSTAT)&(1<<2), "STAT bit 2 should be set when LY==LYC")

	for ram.ReadReg(mem.RegLY) == 5 {
		p.Tick()
	}
	require.Zero(t, ram.ReadReg(mem.RegSTAT)&(1<<2), "STAT bit 2 should clear once LY!=LYC")
}

func TestReadTileDecodesBitPlanes(t *testing.T) {
	m := mbc1.New(make([]byte, 0x8000), 0, false)
	ram := m.RAM()
	// Row 0: low byte 0b10000000, high byte 0b00000000 -> leftmost pixel id 1.
	ram.Write(0x8000, 0b10000000)
	ram.Write(0x8001, 0b00000000)
	tile := readTile(ram, 0x8000)
	require.Equal(t, byte(1), tile[0][0])
	for x := 1; x < 8; x++ {
		require.Equal(t, byte(0), tile[0][x])
	}
}

func TestAddressingTileUnsignedForObjOrBit4(t *testing.T) {
	require.Equal(t, uint16(0x8000+5*16), addressingTile(0x10, 5, false))
	require.Equal(t, uint16(0x8000+5*16), addressingTile(0x00, 5, true))
}

func TestAddressingTileSignedBackground(t *testing.T) {
	require.Equal(t, uint16(0x9000), addressingTile(0x00, 0, false))
	require.Equal(t, uint16(0x9000-16), addressingTile(0x00, 0xFF, false)) // index -1
}
