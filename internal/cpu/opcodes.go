package cpu

// execute decodes and runs a single unprefixed opcode. Undefined opcodes
// abort the core; the host boundary (cmd/dmgrun, cmd/dmgview) recovers
// from the panic and reports it as a fatal load/run error.
func (c *CPU) execute(opcode byte) {
	switch opcode {
	case 0x00:
		c.nop()
	case 0x01:
		c.ld16(OpBC, OpNN)
	case 0x02:
		c.ld8(OpPBC, OpA)
	case 0x03:
		c.inc16(OpBC)
	case 0x04:
		c.inc8(OpB)
	case 0x05:
		c.dec8(OpB)
	case 0x06:
		c.ld8(OpB, OpN)
	case 0x07:
		c.rlca()
	case 0x08:
		c.ld16(OpPNN, OpSP)
	case 0x09:
		c.addHL(OpBC)
	case 0x0A:
		c.ld8(OpA, OpPBC)
	case 0x0B:
		c.dec16(OpBC)
	case 0x0C:
		c.inc8(OpC)
	case 0x0D:
		c.dec8(OpC)
	case 0x0E:
		c.ld8(OpC, OpN)
	case 0x0F:
		c.rrca()

	case 0x10:
		c.fetch8() // STOP's second byte, conventionally 0x00
		c.nop()    // treated as a no-op; the original never sets halting here
	case 0x11:
		c.ld16(OpDE, OpNN)
	case 0x12:
		c.ld8(OpPDE, OpA)
	case 0x13:
		c.inc16(OpDE)
	case 0x14:
		c.inc8(OpD)
	case 0x15:
		c.dec8(OpD)
	case 0x16:
		c.ld8(OpD, OpN)
	case 0x17:
		c.rla()
	case 0x18:
		c.jr(CondAlways)
	case 0x19:
		c.addHL(OpDE)
	case 0x1A:
		c.ld8(OpA, OpPDE)
	case 0x1B:
		c.dec16(OpDE)
	case 0x1C:
		c.inc8(OpE)
	case 0x1D:
		c.dec8(OpE)
	case 0x1E:
		c.ld8(OpE, OpN)
	case 0x1F:
		c.rra()

	case 0x20:
		c.jr(CondNZ)
	case 0x21:
		c.ld16(OpHL, OpNN)
	case 0x22:
		c.ld8(OpHLI, OpA)
	case 0x23:
		c.inc16(OpHL)
	case 0x24:
		c.inc8(OpH)
	case 0x25:
		c.dec8(OpH)
	case 0x26:
		c.ld8(OpH, OpN)
	case 0x27:
		c.daa()
	case 0x28:
		c.jr(CondZ)
	case 0x29:
		c.addHL(OpHL)
	case 0x2A:
		c.ld8(OpA, OpHLI)
	case 0x2B:
		c.dec16(OpHL)
	case 0x2C:
		c.inc8(OpL)
	case 0x2D:
		c.dec8(OpL)
	case 0x2E:
		c.ld8(OpL, OpN)
	case 0x2F:
		c.cpl()

	case 0x30:
		c.jr(CondNC)
	case 0x31:
		c.ld16(OpSP, OpNN)
	case 0x32:
		c.ld8(OpHLD, OpA)
	case 0x33:
		c.inc16(OpSP)
	case 0x34:
		c.inc8(OpPHL)
	case 0x35:
		c.dec8(OpPHL)
	case 0x36:
		c.ld8(OpPHL, OpN)
	case 0x37:
		c.scf()
	case 0x38:
		c.jr(CondC)
	case 0x39:
		c.addHL(OpSP)
	case 0x3A:
		c.ld8(OpA, OpHLD)
	case 0x3B:
		c.dec16(OpSP)
	case 0x3C:
		c.inc8(OpA)
	case 0x3D:
		c.dec8(OpA)
	case 0x3E:
		c.ld8(OpA, OpN)
	case 0x3F:
		c.ccf()

	case 0x76:
		c.halt()

	case 0xC0:
		c.ret(CondNZ)
	case 0xC1:
		c.pop(OpBC)
	case 0xC2:
		c.jp(CondNZ)
	case 0xC3:
		c.jp(CondAlways)
	case 0xC4:
		c.call(CondNZ)
	case 0xC5:
		c.push(OpBC)
	case 0xC6:
		c.add(OpN)
	case 0xC7:
		c.rst(0x00)
	case 0xC8:
		c.ret(CondZ)
	case 0xC9:
		c.ret(CondAlways)
	case 0xCA:
		c.jp(CondZ)
	case 0xCB:
		c.executeCB()
	case 0xCC:
		c.call(CondZ)
	case 0xCD:
		c.call(CondAlways)
	case 0xCE:
		c.adc(OpN)
	case 0xCF:
		c.rst(0x08)

	case 0xD0:
		c.ret(CondNC)
	case 0xD1:
		c.pop(OpDE)
	case 0xD2:
		c.jp(CondNC)
	case 0xD4:
		c.call(CondNC)
	case 0xD5:
		c.push(OpDE)
	case 0xD6:
		c.sub(OpN)
	case 0xD7:
		c.rst(0x10)
	case 0xD8:
		c.ret(CondC)
	case 0xD9:
		c.reti()
	case 0xDA:
		c.jp(CondC)
	case 0xDC:
		c.call(CondC)
	case 0xDE:
		c.sbc(OpN)
	case 0xDF:
		c.rst(0x18)

	case 0xE0:
		c.ld8(OpPFF00N, OpA)
	case 0xE1:
		c.pop(OpHL)
	case 0xE2:
		c.ld8(OpPFF00C, OpA)
	case 0xE5:
		c.push(OpHL)
	case 0xE6:
		c.and_(OpN)
	case 0xE7:
		c.rst(0x20)
	case 0xE8:
		c.addSPN()
	case 0xE9:
		c.jpHL()
	case 0xEA:
		c.ld8(OpPNN, OpA)
	case 0xEE:
		c.xor(OpN)
	case 0xEF:
		c.rst(0x28)

	case 0xF0:
		c.ld8(OpA, OpPFF00N)
	case 0xF1:
		c.pop(OpAF)
	case 0xF2:
		c.ld8(OpA, OpPFF00C)
	case 0xF3:
		c.di()
	case 0xF5:
		c.push(OpAF)
	case 0xF6:
		c.or_(OpN)
	case 0xF7:
		c.rst(0x30)
	case 0xF8:
		c.ldHLSPN()
	case 0xF9:
		c.ld16(OpSP, OpHL)
	case 0xFA:
		c.ld8(OpA, OpPNN)
	case 0xFB:
		c.ei()
	case 0xFE:
		c.cp(OpN)
	case 0xFF:
		c.rst(0x38)

	default:
		c.executeGroup(opcode)
	}
}

// executeGroup handles the two dense, regularly-structured blocks: the
// LD r,r' grid (0x40-0x7F excluding HALT) and the 8-bit ALU grid
// (0x80-0xBF), both decoded from the standard register-field encoding,
// plus the undefined-opcode panic for the Game Boy's unused byte values.
func (c *CPU) executeGroup(opcode byte) {
	switch {
	case opcode >= 0x40 && opcode <= 0x7F:
		dst := reg8(int(opcode>>3) & 7)
		src := reg8(int(opcode) & 7)
		c.ld8(dst, src)
	case opcode >= 0x80 && opcode <= 0x87:
		c.add(reg8(int(opcode) & 7))
	case opcode >= 0x88 && opcode <= 0x8F:
		c.adc(reg8(int(opcode) & 7))
	case opcode >= 0x90 && opcode <= 0x97:
		c.sub(reg8(int(opcode) & 7))
	case opcode >= 0x98 && opcode <= 0x9F:
		c.sbc(reg8(int(opcode) & 7))
	case opcode >= 0xA0 && opcode <= 0xA7:
		c.and_(reg8(int(opcode) & 7))
	case opcode >= 0xA8 && opcode <= 0xAF:
		c.xor(reg8(int(opcode) & 7))
	case opcode >= 0xB0 && opcode <= 0xB7:
		c.or_(reg8(int(opcode) & 7))
	case opcode >= 0xB8 && opcode <= 0xBF:
		c.cp(reg8(int(opcode) & 7))
	default:
		panic(undefinedOpcode(opcode))
	}
}

type undefinedOpcode byte

func (o undefinedOpcode) Error() string {
	return "cpu: undefined opcode " + hexByte(byte(o))
}

func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return "0x" + string([]byte{digits[b>>4], digits[b&0x0F]})
}
