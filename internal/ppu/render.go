package ppu

import "github.com/pixelcore-dev/dmgcore/internal/mem"

// readTile decodes the 16-byte tile at addr into an 8x8 grid of 2-bit
// color indices. Each row is two bit-planes; bit x of the low byte is the
// color id's low bit, bit x of the high byte is its high bit, and column
// 7-x receives it (i.e. bit 7 of each byte is the leftmost pixel).
func readTile(ram *mem.RAM, addr uint16) [8][8]byte {
	var tile [8][8]byte
	for y := 0; y < 8; y++ {
		lo := ram.Read(addr + uint16(y)*2)
		hi := ram.Read(addr + uint16(y)*2 + 1)
		for x := 0; x < 8; x++ {
			bit := uint(x)
			colorID := (lo>>bit)&1 | (((hi >> bit) & 1) << 1)
			tile[y][7-x] = colorID
		}
	}
	return tile
}

// addressingTile resolves a tile index to its tile-data address. Sprites
// and backgrounds with LCDC bit 4 set use unsigned addressing from 0x8000;
// otherwise the index is signed, relative to 0x9000.
func addressingTile(lcdc, idx byte, isObj bool) uint16 {
	if isObj || lcdc&(1<<4) != 0 {
		return 0x8000 + uint16(idx)*16
	}
	return uint16(int32(0x9000) + int32(int8(idx))*16)
}

func (p *PPU) draw(ram *mem.RAM) {
	lcdc := ram.ReadReg(mem.RegLCDC)
	p.drawBackground(ram, lcdc)
	if lcdc&(1<<5) != 0 {
		p.drawWindow(ram, lcdc)
	}
	if lcdc&(1<<1) != 0 {
		p.drawOAM(ram, lcdc)
	}
}

func (p *PPU) drawBackground(ram *mem.RAM, lcdc byte) {
	bgAddr := uint16(0x9800)
	if lcdc&(1<<3) != 0 {
		bgAddr = 0x9C00
	}
	bgp := ram.ReadReg(mem.RegBGP)

	x, y := 0, 0
	for i := 0; i < 1024; i++ {
		ti := ram.Read(bgAddr + uint16(i))
		addr := addressingTile(lcdc, ti, false)
		tile := readTile(ram, addr)
		for iy := 0; iy < 8; iy++ {
			for ix := 0; ix < 8; ix++ {
				colorID := tile[iy][ix]
				color := (bgp >> (colorID * 2)) & 0b11
				yy := (y + iy) % 256
				xx := (x + ix) % 256
				p.bufBG[yy][xx] = color
			}
		}
		x += 8
		if x >= 256 {
			x = 0
			y += 8
			if y >= 256 {
				y = 0
			}
		}
	}

	scy := int(ram.ReadReg(mem.RegSCY))
	for dy := 0; dy < 144; dy++ {
		scx := int(ram.ReadReg(mem.RegSCX))
		for dx := 0; dx < 160; dx++ {
			p.fb[dy][dx] = p.bufBG[scy%256][scx%256]
			scx++
		}
		scy++
	}
}

func (p *PPU) drawWindow(ram *mem.RAM, lcdc byte) {
	wy := ram.ReadReg(mem.RegWY)
	wx := ram.ReadReg(mem.RegWX) - 6 // wraps per source, preserved as-is

	winAddr := uint16(0x9800)
	if lcdc&(1<<6) != 0 {
		winAddr = 0x9C00
	}
	bgp := ram.ReadReg(mem.RegBGP)

	x, y := int(wx), int(wy)
	for i := 0; i < 1024; i++ {
		ti := ram.Read(winAddr + uint16(i))
		addr := addressingTile(lcdc, ti, false)
		tile := readTile(ram, addr)
		for iy := 0; iy < 8; iy++ {
			for ix := 0; ix < 8; ix++ {
				colorID := tile[iy][ix]
				color := (bgp >> (colorID * 2)) & 0b11
				yy := (y + iy) % 256
				xx := (x + ix) % 256
				p.bufWin[yy][xx] = color
			}
		}
		x += 8
		if x >= 256 {
			x = 0
			y += 8
			if y >= 256 {
				y = 0
			}
		}
	}

	for dy := 0; dy < 144; dy++ {
		for dx := 0; dx < 160; dx++ {
			if wy <= byte(dy) && wx <= byte(dx) {
				p.fb[dy][dx] = p.bufWin[dy][dx]
			}
		}
	}
}

func (p *PPU) drawOAM(ram *mem.RAM, lcdc byte) {
	objSize := 1
	if lcdc&(1<<2) != 0 {
		objSize = 2
	}

	for i := 0; i < 40; i++ {
		o := uint16(0xFE00 + i*4)
		y := int(ram.Read(o))
		x := int(ram.Read(o + 1))
		t := ram.Read(o + 2)
		a := ram.Read(o + 3)

		flipY := a&(1<<6) != 0
		flipX := a&(1<<5) != 0
		palette := ram.ReadReg(mem.RegOBP0)
		if a&(1<<4) != 0 {
			palette = ram.ReadReg(mem.RegOBP1)
		}

		hidden := y == 0 || y >= 160 || x >= 168 || a&(1<<7) != 0

		for z := 0; z < objSize; z++ {
			zz := z
			if flipY && objSize == 2 {
				zz = 1 - z
			}
			ti := addressingTile(lcdc, t+byte(zz), true)
			tile := readTile(ram, ti)
			for yy := 0; yy < 8; yy++ {
				for xx := 0; xx < 8; xx++ {
					iy := yy
					if flipY {
						iy = 7 - yy
					}
					ix := xx
					if flipX {
						ix = 7 - xx
					}
					colorID := tile[iy][ix]
					color := (palette >> (colorID * 2)) & 0b11

					yyy := y - 16 + yy + z*8
					xxx := x - 8 + xx
					if !hidden && colorID != 0 && yyy >= 0 && yyy < 144 && xxx >= 0 && xxx < 160 {
						p.fb[yyy][xxx] = color
					}
				}
			}
		}
	}
}
