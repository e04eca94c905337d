package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// minimalROM builds a 32 KiB ROM-only image with a valid header checksum
// and the given code at 0x0150 (just past the header).
func minimalROM(code ...byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0104:0x0134], []byte{
		0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
		0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
		0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
	})
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0x00 // 32 KiB
	rom[0x0149] = 0x00 // no RAM

	var sum byte
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum

	copy(rom[0x0150:], code)
	return rom
}

func TestNewRejectsUnsupportedCartridgeType(t *testing.T) {
	rom := minimalROM()
	rom[0x0147] = 0x1B // MBC5, unsupported

	var sum byte
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum

	_, err := New(Config{}, rom)
	require.Error(t, err)
}

func TestStepAdvancesProgramCounter(t *testing.T) {
	rom := minimalROM(0x3E, 0x42, 0x00) // LD A,0x42; NOP
	m, err := New(Config{}, rom)
	require.NoError(t, err)
	m.cpu.PC = 0x0150

	tc := m.Step()

	require.Equal(t, 8, tc)
	require.Equal(t, uint16(0x0152), m.cpu.PC)
	require.Equal(t, byte(0x42), m.cpu.A)
}

func TestButtonsPackToActiveLowJOYP(t *testing.T) {
	b := Buttons{A: true, Right: true}
	v := b.pack()
	require.Zero(t, v&(1<<4), "A should clear bit 4")
	require.Zero(t, v&(1<<0), "Right should clear bit 0")
	require.NotZero(t, v&(1<<5), "B should stay set")
}

func TestSetJoypadSetsRawByte(t *testing.T) {
	rom := minimalROM()
	m, err := New(Config{}, rom)
	require.NoError(t, err)

	m.SetJoypad(0x3C)

	require.Equal(t, byte(0x3C), m.cpu.JoypadBuffer)
}

func TestSetHaltingOverridesCPUState(t *testing.T) {
	rom := minimalROM()
	m, err := New(Config{}, rom)
	require.NoError(t, err)

	m.SetHalting(true)
	require.True(t, m.Halting())

	m.SetHalting(false)
	require.False(t, m.Halting())
}

func TestSaveLoadBatteryNoOpWithoutBatteryBackedCartridge(t *testing.T) {
	rom := minimalROM() // ROM only, no battery
	m, err := New(Config{}, rom)
	require.NoError(t, err)

	data, ok := m.SaveBattery()
	require.False(t, ok)
	require.Nil(t, data)

	applied := m.LoadBattery([]byte{0x01, 0x02})
	require.False(t, applied)
}

func TestSaveLoadBatteryRoundTripsWithBatteryBackedCartridge(t *testing.T) {
	rom := minimalROM()
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0149] = 0x02 // 8 KiB RAM

	var sum byte
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum

	m, err := New(Config{}, rom)
	require.NoError(t, err)

	data, ok := m.SaveBattery()
	require.True(t, ok)
	require.NotNil(t, data)

	saved := make([]byte, len(data))
	copy(saved, data)
	saved[0] = 0x7A
	applied := m.LoadBattery(saved)
	require.True(t, applied)

	reread, ok := m.SaveBattery()
	require.True(t, ok)
	require.Equal(t, byte(0x7A), reread[0])
}
