package regs

// I386 mirrors gregs[19] of the glibc i386 mcontext_t.
type I386 struct {
	GS, FS, ES, DS            uint32
	EDI, ESI, EBP, ESP        uint32
	EBX, EDX, ECX, EAX        uint32
	TRAPNO, ERR, EIP, CS, EFL uint32
	UESP, SS                  uint32
}

func (c *I386) Arch() string { return "386" }
func (c *I386) PC() uint64   { return uint64(c.EIP) }
func (c *I386) SP() uint64   { return uint64(c.ESP) }
func (c *I386) FP() uint64   { return uint64(c.EBP) }
func (c *I386) Width() int   { return 4 }

func (c *I386) Fields() []Field {
	return []Field{
		{"eax", uint64(c.EAX)}, {"ebx", uint64(c.EBX)}, {"ecx", uint64(c.ECX)}, {"edx", uint64(c.EDX)},
		{"esi", uint64(c.ESI)}, {"edi", uint64(c.EDI)}, {"ebp", uint64(c.EBP)}, {"esp", uint64(c.ESP)},
		{"eip", uint64(c.EIP)}, {"eflags", uint64(c.EFL)}, {"cs", uint64(c.CS)}, {"ss", uint64(c.SS)},
		{"ds", uint64(c.DS)}, {"es", uint64(c.ES)}, {"fs", uint64(c.FS)}, {"gs", uint64(c.GS)},
		{"trapno", uint64(c.TRAPNO)}, {"err", uint64(c.ERR)},
	}
}
