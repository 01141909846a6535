package cpu

import "emunes/mask"

// Status flag bit positions within the packed P register, expressed in the
// mask package's 1-indexed-from-MSB convention: I1 is bit 7, I8 is bit 0.
//
//	bit:  7 6 5 4 3 2 1 0
//	flag: N V U B D I Z C
const (
	flagN = mask.I1
	flagV = mask.I2
	flagU = mask.I3
	flagB = mask.I4
	flagD = mask.I5
	flagI = mask.I6
	flagZ = mask.I7
	flagC = mask.I8
)

func (c *Cpu) getC() bool { return mask.IsSet(c.P, flagC) }
func (c *Cpu) getZ() bool { return mask.IsSet(c.P, flagZ) }
func (c *Cpu) getI() bool { return mask.IsSet(c.P, flagI) }
func (c *Cpu) getD() bool { return mask.IsSet(c.P, flagD) }
func (c *Cpu) getB() bool { return mask.IsSet(c.P, flagB) }
func (c *Cpu) getV() bool { return mask.IsSet(c.P, flagV) }
func (c *Cpu) getN() bool { return mask.IsSet(c.P, flagN) }

func (c *Cpu) setC(v bool) {
	if v {
		c.P = mask.Set(c.P, flagC, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagC, flagC)
	}
}

func (c *Cpu) setZ(v bool) {
	if v {
		c.P = mask.Set(c.P, flagZ, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagZ, flagZ)
	}
}

func (c *Cpu) setI(v bool) {
	if v {
		c.P = mask.Set(c.P, flagI, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagI, flagI)
	}
}

func (c *Cpu) setD(v bool) {
	if v {
		c.P = mask.Set(c.P, flagD, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagD, flagD)
	}
}

func (c *Cpu) setB(v bool) {
	if v {
		c.P = mask.Set(c.P, flagB, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagB, flagB)
	}
}

func (c *Cpu) setV(v bool) {
	if v {
		c.P = mask.Set(c.P, flagV, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagV, flagV)
	}
}

func (c *Cpu) setN(v bool) {
	if v {
		c.P = mask.Set(c.P, flagN, 0x80)
	} else {
		c.P = mask.Unset(c.P, flagN, flagN)
	}
}

// setZN derives Z and N from value, the pattern nearly every load/transform
// instruction ends with.
func (c *Cpu) setZN(value byte) {
	c.setZ(value == 0)
	c.setN(value&0x80 != 0)
}
