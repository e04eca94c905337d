package cpu

import "github.com/pixelcore-dev/dmgcore/internal/mem"

// Interrupt vectors, in priority order (VBlank highest).
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}
var interruptBits = [5]byte{mem.IntVBlank, mem.IntSTAT, mem.IntTimer, mem.IntSerial, mem.IntJoypad}

// timerPeriods maps TAC's low two bits to the sysCounter divisor that
// increments TIMA.
var timerPeriods = [4]uint16{1024, 16, 64, 256}

// serialPeriods maps SC's low two bits to the sysCounter divisor that
// completes a serial transfer.
var serialPeriods = [4]uint16{512, 256, 16, 8}

func (c *CPU) timer(r *mem.RAM) {
	if c.sysCounter%256 == 0 {
		r.ModifyReg(mem.RegDIV, func(v byte) byte { return v + 1 })
	}
	tac := r.ReadReg(mem.RegTAC)
	if tac&(1<<2) == 0 {
		return
	}
	period := timerPeriods[tac&0x03]
	if c.sysCounter%period != 0 {
		return
	}
	tima := r.ReadReg(mem.RegTIMA)
	if tima == 0xFF {
		r.RaiseInterrupt(mem.IntTimer)
		r.WriteReg(mem.RegTIMA, r.ReadReg(mem.RegTMA))
	} else {
		r.WriteReg(mem.RegTIMA, tima+1)
	}
}

func (c *CPU) serial(r *mem.RAM) {
	sc := r.ReadReg(mem.RegSC)
	if sc&0x80 == 0 {
		return
	}
	period := serialPeriods[sc&0x03]
	if c.sysCounter%period != 0 {
		return
	}
	c.SerialLogger.Write(r.ReadReg(mem.RegSB))
	r.WriteReg(mem.RegSC, sc&^byte(0x80))
	r.RaiseInterrupt(mem.IntSerial)
}

func (c *CPU) joypad(r *mem.RAM) {
	joyp := r.ReadReg(mem.RegJOYP)
	if joyp&(1<<4) == 0 {
		r.WriteReg(mem.RegJOYP, 0b100000|(c.JoypadBuffer&0x0F))
		r.RaiseInterrupt(mem.IntJoypad)
	}
	if joyp&(1<<5) == 0 {
		r.WriteReg(mem.RegJOYP, 0b010000|(c.JoypadBuffer>>4))
		r.RaiseInterrupt(mem.IntJoypad)
	}
}

func (c *CPU) interrupt(r *mem.RAM) {
	ie := r.ReadReg(mem.RegIE)
	iflag := r.ReadReg(mem.RegIF)
	if ie&iflag != 0 {
		c.Halting = false
	}
	if !c.IME {
		return
	}
	for i := range interruptBits {
		bit := interruptBits[i]
		if ie&bit != 0 && iflag&bit != 0 {
			c.push16(c.PC)
			c.PC = interruptVectors[i]
			c.IME = false
			c.Halting = false
			r.WriteReg(mem.RegIF, iflag&^bit)
			c.tick()
			c.tick()
			c.tick()
			return
		}
	}
}

// Step executes one instruction (or, while halted, advances one machine
// cycle waiting for an interrupt), drives the PPU and peripherals for
// every T-cycle spent, and returns the number of T-cycles the step cost.
func (c *CPU) Step() int {
	c.cycle = 0

	if c.Halting {
		c.tick()
	} else {
		opcode := c.fetch8()
		snap := c.snapshot(opcode)
		c.CPULogger.Write(snap)
		c.execute(opcode)
		c.exeCounter++
	}

	// Interrupt dispatch inside the loop adds cycles of its own, which are
	// run through the peripherals as well.
	total := 0
	r := c.ram()
	for c.cycle > 0 {
		c.cycle--
		total++
		for t := 0; t < 4; t++ {
			c.ppu.Tick()
			c.serial(r)
			c.timer(r)
			c.joypad(r)
			c.interrupt(r)
			c.sysCounter++
		}
	}
	return total * 4
}

// ExeCount returns the number of instructions executed so far, excluding
// halted cycles.
func (c *CPU) ExeCount() uint64 { return c.exeCounter }
