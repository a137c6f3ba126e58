package regs

import "strconv"

// ARM mirrors struct sigcontext of 32-bit arm, which is what mcontext_t is
// on that architecture.
type ARM struct {
	TrapNo, ErrorCode, OldMask uint32
	R                          [11]uint32
	Fp, Ip, Sp, Lr, Pc         uint32
	Cpsr                       uint32
	FaultAddress               uint32
}

// cpsrThumb is the T bit of CPSR.
const cpsrThumb = 1 << 5

func (c *ARM) Arch() string { return "arm" }
func (c *ARM) PC() uint64   { return uint64(c.Pc) }
func (c *ARM) SP() uint64   { return uint64(c.Sp) }
func (c *ARM) FP() uint64   { return uint64(c.Fp) }
func (c *ARM) Width() int   { return 4 }

// Thumb reports whether the thread was executing Thumb code.
func (c *ARM) Thumb() bool { return c.Cpsr&cpsrThumb != 0 }

func (c *ARM) Fields() []Field {
	fields := make([]Field, 0, len(c.R)+7)
	for i, v := range c.R {
		fields = append(fields, Field{"r" + strconv.Itoa(i), uint64(v)})
	}
	return append(fields,
		Field{"fp", uint64(c.Fp)},
		Field{"ip", uint64(c.Ip)},
		Field{"sp", uint64(c.Sp)},
		Field{"lr", uint64(c.Lr)},
		Field{"pc", uint64(c.Pc)},
		Field{"cpsr", uint64(c.Cpsr)},
		Field{"fault", uint64(c.FaultAddress)},
	)
}
