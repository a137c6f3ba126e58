package regs

import "strconv"

// ARM64 mirrors the fixed part of the aarch64 mcontext_t (struct sigcontext
// without the trailing __reserved extension area).
type ARM64 struct {
	FaultAddress uint64
	Regs         [31]uint64
	Sp           uint64
	Pc           uint64
	Pstate       uint64
}

func (c *ARM64) Arch() string { return "arm64" }
func (c *ARM64) PC() uint64   { return c.Pc }
func (c *ARM64) SP() uint64   { return c.Sp }
func (c *ARM64) FP() uint64   { return c.Regs[29] }
func (c *ARM64) Width() int   { return 8 }

// LR is the link register, x30.
func (c *ARM64) LR() uint64 { return c.Regs[30] }

func (c *ARM64) Fields() []Field {
	fields := make([]Field, 0, len(c.Regs)+3)
	for i := 0; i < 29; i++ {
		fields = append(fields, Field{"x" + strconv.Itoa(i), c.Regs[i]})
	}
	return append(fields,
		Field{"fp", c.Regs[29]},
		Field{"lr", c.Regs[30]},
		Field{"sp", c.Sp},
		Field{"pc", c.Pc},
		Field{"pstate", c.Pstate},
	)
}
