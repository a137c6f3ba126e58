//go:build linux

package sigdesc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Sub-codes delivered in siginfo.si_code (asm-generic/siginfo.h).
const (
	ILL_ILLOPC = 1
	ILL_ILLOPN = 2
	ILL_ILLADR = 3
	ILL_ILLTRP = 4
	ILL_PRVOPC = 5
	ILL_PRVREG = 6
	ILL_COPROC = 7
	ILL_BADSTK = 8

	FPE_INTDIV = 1
	FPE_INTOVF = 2
	FPE_FLTDIV = 3
	FPE_FLTOVF = 4
	FPE_FLTUND = 5
	FPE_FLTRES = 6
	FPE_FLTINV = 7
	FPE_FLTSUB = 8

	SEGV_MAPERR  = 1
	SEGV_ACCERR  = 2
	SEGV_BNDERR  = 3
	SEGV_PKUERR  = 4
	SEGV_MTEAERR = 8
	SEGV_MTESERR = 9

	BUS_ADRALN    = 1
	BUS_ADRERR    = 2
	BUS_OBJERR    = 3
	BUS_MCEERR_AR = 4
	BUS_MCEERR_AO = 5

	TRAP_BRKPT  = 1
	TRAP_TRACE  = 2
	TRAP_BRANCH = 3
	TRAP_HWBKPT = 4

	CLD_EXITED    = 1
	CLD_KILLED    = 2
	CLD_DUMPED    = 3
	CLD_TRAPPED   = 4
	CLD_STOPPED   = 5
	CLD_CONTINUED = 6

	POLL_IN  = 1
	POLL_OUT = 2
	POLL_MSG = 3
	POLL_ERR = 4
	POLL_PRI = 5
	POLL_HUP = 6

	SI_USER    = 0
	SI_KERNEL  = 0x80
	SI_QUEUE   = -1
	SI_TIMER   = -2
	SI_MESGQ   = -3
	SI_ASYNCIO = -4
	SI_SIGIO   = -5
	SI_TKILL   = -6
)

type codeEntry struct {
	name string
	text string
}

type signalEntry struct {
	name  string
	text  string
	codes map[int32]codeEntry
}

// sigtable is keyed by signal number, then by sub-code.
var sigtable = map[int32]signalEntry{
	int32(unix.SIGILL): {"SIGILL", "Illegal operation", map[int32]codeEntry{
		ILL_ILLOPC: {"ILL_ILLOPC", "Illegal opcode"},
		ILL_ILLOPN: {"ILL_ILLOPN", "Illegal operand"},
		ILL_ILLADR: {"ILL_ILLADR", "Illegal addressing mode"},
		ILL_ILLTRP: {"ILL_ILLTRP", "Illegal trap"},
		ILL_PRVOPC: {"ILL_PRVOPC", "Privileged opcode"},
		ILL_PRVREG: {"ILL_PRVREG", "Privileged register"},
		ILL_COPROC: {"ILL_COPROC", "Coprocessor error"},
		ILL_BADSTK: {"ILL_BADSTK", "Internal stack error"},
	}},
	int32(unix.SIGFPE): {"SIGFPE", "Floating-point exception", map[int32]codeEntry{
		FPE_INTDIV: {"FPE_INTDIV", "Integer divide by zero"},
		FPE_INTOVF: {"FPE_INTOVF", "Integer overflow"},
		FPE_FLTDIV: {"FPE_FLTDIV", "Floating-point divide by zero"},
		FPE_FLTOVF: {"FPE_FLTOVF", "Floating-point overflow"},
		FPE_FLTUND: {"FPE_FLTUND", "Floating-point underflow"},
		FPE_FLTRES: {"FPE_FLTRES", "Floating-point inexact result"},
		FPE_FLTINV: {"FPE_FLTINV", "Invalid floating-point operation"},
		FPE_FLTSUB: {"FPE_FLTSUB", "Subscript out of range"},
	}},
	int32(unix.SIGSEGV): {"SIGSEGV", "Segmentation violation", map[int32]codeEntry{
		SEGV_MAPERR:  {"SEGV_MAPERR", "Address not mapped to object"},
		SEGV_ACCERR:  {"SEGV_ACCERR", "Invalid permissions for mapped object"},
		SEGV_BNDERR:  {"SEGV_BNDERR", "Failed address bound checks"},
		SEGV_PKUERR:  {"SEGV_PKUERR", "Access was denied by memory protection keys"},
		SEGV_MTEAERR: {"SEGV_MTEAERR", "Asynchronous memory tag check fault"},
		SEGV_MTESERR: {"SEGV_MTESERR", "Synchronous memory tag check fault"},
	}},
	int32(unix.SIGBUS): {"SIGBUS", "Bus error", map[int32]codeEntry{
		BUS_ADRALN:    {"BUS_ADRALN", "Invalid address alignment"},
		BUS_ADRERR:    {"BUS_ADRERR", "Nonexistent physical address"},
		BUS_OBJERR:    {"BUS_OBJERR", "Object-specific hardware error"},
		BUS_MCEERR_AR: {"BUS_MCEERR_AR", "Hardware memory error consumed on a machine check"},
		BUS_MCEERR_AO: {"BUS_MCEERR_AO", "Hardware memory error detected in process but not consumed"},
	}},
	int32(unix.SIGTRAP): {"SIGTRAP", "Trap", map[int32]codeEntry{
		TRAP_BRKPT:  {"TRAP_BRKPT", "Process breakpoint"},
		TRAP_TRACE:  {"TRAP_TRACE", "Process trace trap"},
		TRAP_BRANCH: {"TRAP_BRANCH", "Process taken branch trap"},
		TRAP_HWBKPT: {"TRAP_HWBKPT", "Hardware breakpoint or watchpoint"},
	}},
	int32(unix.SIGCHLD): {"SIGCHLD", "Child", map[int32]codeEntry{
		CLD_EXITED:    {"CLD_EXITED", "Child has exited"},
		CLD_KILLED:    {"CLD_KILLED", "Child has terminated abnormally and did not create a core file"},
		CLD_DUMPED:    {"CLD_DUMPED", "Child has terminated abnormally and created a core file"},
		CLD_TRAPPED:   {"CLD_TRAPPED", "Traced child has trapped"},
		CLD_STOPPED:   {"CLD_STOPPED", "Child has stopped"},
		CLD_CONTINUED: {"CLD_CONTINUED", "Stopped child has continued"},
	}},
	int32(unix.SIGPOLL): {"SIGPOLL", "Pollable event", map[int32]codeEntry{
		POLL_IN:  {"POLL_IN", "Data input available"},
		POLL_OUT: {"POLL_OUT", "Output buffers available"},
		POLL_MSG: {"POLL_MSG", "Input message available"},
		POLL_ERR: {"POLL_ERR", "I/O error"},
		POLL_PRI: {"POLL_PRI", "High priority input available"},
		POLL_HUP: {"POLL_HUP", "Device disconnected"},
	}},
	int32(unix.SIGABRT):   {"SIGABRT", "Process abort signal", nil},
	int32(unix.SIGALRM):   {"SIGALRM", "Alarm clock", nil},
	int32(unix.SIGCONT):   {"SIGCONT", "Continue executing, if stopped", nil},
	int32(unix.SIGHUP):    {"SIGHUP", "Hangup", nil},
	int32(unix.SIGINT):    {"SIGINT", "Terminal interrupt signal", nil},
	int32(unix.SIGKILL):   {"SIGKILL", "Kill", nil},
	int32(unix.SIGPIPE):   {"SIGPIPE", "Write on a pipe with no one to read it", nil},
	int32(unix.SIGQUIT):   {"SIGQUIT", "Terminal quit signal", nil},
	int32(unix.SIGSTOP):   {"SIGSTOP", "Stop executing", nil},
	int32(unix.SIGTERM):   {"SIGTERM", "Termination signal", nil},
	int32(unix.SIGTSTP):   {"SIGTSTP", "Terminal stop signal", nil},
	int32(unix.SIGTTIN):   {"SIGTTIN", "Background process attempting read", nil},
	int32(unix.SIGTTOU):   {"SIGTTOU", "Background process attempting write", nil},
	int32(unix.SIGUSR1):   {"SIGUSR1", "User-defined signal 1", nil},
	int32(unix.SIGUSR2):   {"SIGUSR2", "User-defined signal 2", nil},
	int32(unix.SIGPROF):   {"SIGPROF", "Profiling timer expired", nil},
	int32(unix.SIGSYS):    {"SIGSYS", "Bad system call", nil},
	int32(unix.SIGVTALRM): {"SIGVTALRM", "Virtual timer expired", nil},
	int32(unix.SIGURG):    {"SIGURG", "High bandwidth data is available at a socket", nil},
	int32(unix.SIGXCPU):   {"SIGXCPU", "CPU time limit exceeded", nil},
	int32(unix.SIGXFSZ):   {"SIGXFSZ", "File size limit exceeded", nil},
	int32(unix.SIGSTKFLT): {"SIGSTKFLT", "Stack fault on coprocessor", nil},
	int32(unix.SIGPWR):    {"SIGPWR", "Power failure", nil},
	int32(unix.SIGWINCH):  {"SIGWINCH", "Window resize", nil},
}

// sender codes apply to any signal.
var sendercodes = map[int32]codeEntry{
	SI_USER:    {"SI_USER", "Signal sent by kill()"},
	SI_KERNEL:  {"SI_KERNEL", "Signal sent by the kernel"},
	SI_QUEUE:   {"SI_QUEUE", "Signal sent by sigqueue()"},
	SI_TIMER:   {"SI_TIMER", "Signal generated by expiration of a timer set by timer_settime()"},
	SI_MESGQ:   {"SI_MESGQ", "Signal generated by arrival of a message on an empty message queue"},
	SI_ASYNCIO: {"SI_ASYNCIO", "Signal generated by completion of an asynchronous I/O request"},
	SI_SIGIO:   {"SI_SIGIO", "Signal generated by a queued SIGIO"},
	SI_TKILL:   {"SI_TKILL", "Signal sent by tkill()"},
}

const (
	withCode    = "signal: %d (%s), code: %d (%s), fault addr: 0x%016x (%s)"
	withoutCode = "signal: %d (%s), fault addr: 0x%016x (%s)"
)

// Describe returns the description line for a delivered signal.
func Describe(signal, code int32, addr uint64) string {
	sig, known := sigtable[signal]
	if !known {
		if c, ok := sendercodes[code]; ok {
			return fmt.Sprintf(withCode, signal, "Unknown", code, c.name, addr, c.text)
		}
		return fmt.Sprintf(withCode, signal, "Unknown", code, "Unknown", addr, "Unknown signal")
	}

	if c, ok := sig.codes[code]; ok {
		return fmt.Sprintf(withCode, signal, sig.name, code, c.name, addr, c.text)
	}
	if c, ok := sendercodes[code]; ok {
		return fmt.Sprintf(withCode, signal, sig.name, code, c.name, addr, sig.text+"; "+c.text)
	}
	return fmt.Sprintf(withoutCode, signal, sig.name, addr, sig.text)
}

// Name returns the short name of a signal, e.g. "SIGSEGV".
func Name(signal int32) string {
	if sig, ok := sigtable[signal]; ok {
		return sig.name
	}
	if name := unix.SignalName(unix.Signal(signal)); name != "" {
		return name
	}
	return fmt.Sprintf("signal %d", signal)
}

// Lookup resolves a signal name such as "SIGSEGV" or "segv" to its number.
func Lookup(name string) (unix.Signal, bool) {
	if sig := unix.SignalNum(normalize(name)); sig != 0 {
		return sig, true
	}
	return 0, false
}

func normalize(name string) string {
	b := []byte(name)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	if len(b) < 3 || string(b[:3]) != "SIG" {
		return "SIG" + string(b)
	}
	return string(b)
}
