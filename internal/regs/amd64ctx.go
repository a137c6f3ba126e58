package regs

// AMD64 mirrors the general register block of the glibc x86_64 mcontext_t
// (gregs[NGREG], in REG_* order).
type AMD64 struct {
	R8, R9, R10, R11, R12, R13, R14, R15 uint64
	RDI, RSI, RBP, RBX, RDX, RAX, RCX    uint64
	RSP, RIP, EFL                        uint64
	CSGSFS, ERR, TRAPNO, OLDMASK, CR2    uint64
}

func (c *AMD64) Arch() string { return "amd64" }
func (c *AMD64) PC() uint64   { return c.RIP }
func (c *AMD64) SP() uint64   { return c.RSP }
func (c *AMD64) FP() uint64   { return c.RBP }
func (c *AMD64) Width() int   { return 8 }

func (c *AMD64) Fields() []Field {
	return []Field{
		{"rax", c.RAX}, {"rbx", c.RBX}, {"rcx", c.RCX}, {"rdx", c.RDX},
		{"rsi", c.RSI}, {"rdi", c.RDI}, {"rbp", c.RBP}, {"rsp", c.RSP},
		{"r8", c.R8}, {"r9", c.R9}, {"r10", c.R10}, {"r11", c.R11},
		{"r12", c.R12}, {"r13", c.R13}, {"r14", c.R14}, {"r15", c.R15},
		{"rip", c.RIP}, {"eflags", c.EFL}, {"cr2", c.CR2}, {"trapno", c.TRAPNO},
		{"err", c.ERR},
	}
}
