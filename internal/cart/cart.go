package cart

import (
	"fmt"

	"github.com/pixelcore-dev/dmgcore/internal/mbc1"
)

// CartridgeType is the decoded form of the header's cartridge-type byte,
// narrowed to the variants this core accepts.
type CartridgeType int

const (
	ROMOnly CartridgeType = iota
	MBC1Plain
	MBC1RAM
	MBC1RAMBattery
)

// Battery reports whether save RAM should survive a power cycle.
func (t CartridgeType) Battery() bool { return t == MBC1RAMBattery }

// Banked reports whether the cartridge type exposes switchable ROM banks.
func (t CartridgeType) Banked() bool { return t != ROMOnly }

// classify maps a header cartridge-type byte to a CartridgeType, or
// reports an error for anything this core does not support (MBC2/3/5,
// sound-capable variants, etc. are explicit non-goals).
func classify(code byte) (CartridgeType, error) {
	switch code {
	case 0x00:
		return ROMOnly, nil
	case 0x01:
		return MBC1Plain, nil
	case 0x02:
		return MBC1RAM, nil
	case 0x03:
		return MBC1RAMBattery, nil
	default:
		return 0, fmt.Errorf("cart: unsupported cartridge type %#02x", code)
	}
}

// BatteryBacked reports whether the given header cartridge-type byte
// carries battery-backed RAM, for callers that only need that one bit
// (e.g. deciding whether to persist save RAM) without re-deriving the
// full CartridgeType.
func BatteryBacked(code byte) bool {
	ct, err := classify(code)
	return err == nil && ct.Battery()
}

// NewController parses rom's header and constructs the MBC1-family
// controller that backs the whole 64 KiB address space. Unsupported
// cartridge types are a fatal load-time error, per the core's narrow
// error surface.
func NewController(rom []byte) (*mbc1.MBC1, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, err
	}
	ct, err := classify(h.CartType)
	if err != nil {
		return nil, nil, err
	}
	ramSize := 0
	if ct != ROMOnly {
		ramSize = h.RAMSizeBytes
	}
	m := mbc1.New(rom, ramSize, ct.Banked())
	return m, h, nil
}
