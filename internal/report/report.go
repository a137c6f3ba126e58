//go:build linux

// Package report turns a fault snapshot into the text delivered to the crash
// callback.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lzhiyong/xedit-app/internal/fault"
	"github.com/lzhiyong/xedit-app/internal/regs"
	"github.com/lzhiyong/xedit-app/internal/sigdesc"
	"github.com/lzhiyong/xedit-app/internal/symbol"
)

const separator = "*** *** *** *** *** *** *** *** *** *** *** *** *** *** *** ***"

// Report is a formatted fault.
type Report struct {
	Signal      int32
	SignalName  string
	Description string
	Frames      []symbol.Frame
	Text        string
}

// New resolves and formats snap. A nil resolver means a fresh view of
// /proc/self/maps; if that cannot be read every frame is <unknown>.
func New(snap *fault.Snapshot, r *symbol.Resolver) *Report {
	if r == nil {
		var err error
		if r, err = symbol.NewResolver(); err != nil {
			r = symbol.NewResolverWithMaps(nil)
		}
	}

	rep := &Report{
		Signal:      snap.Signal,
		SignalName:  sigdesc.Name(snap.Signal),
		Description: sigdesc.Describe(snap.Signal, snap.Code, snap.Addr),
		Frames:      r.ResolveAll(snap.PCs()),
	}

	var b strings.Builder
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "pid: %d, tid: %d, name: %s  >>> %s <<<\n", os.Getpid(), snap.TID, threadName(snap.TID), cmdline())
	b.WriteString(rep.Description + "\n")
	if snap.SentByProcess() {
		fmt.Fprintf(&b, "sent by pid %d, uid %d\n", snap.SenderPID, snap.SenderUID)
	}

	if snap.Regs != nil {
		b.WriteString("\n")
		writeRegisters(&b, snap.Regs)
		if pc := snap.Regs.PC(); pc != 0 {
			thumb := false
			if a, ok := snap.Regs.(*regs.ARM); ok {
				thumb = a.Thumb()
			}
			fmt.Fprintf(&b, "\ninstruction at pc: %s\n", instructionAt(snap.Regs.Arch(), pc, thumb))
		}
	}

	fmt.Fprintf(&b, "\nbacktrace (%s):\n", snap.Unwinder)
	if len(rep.Frames) == 0 {
		b.WriteString("    <no frames>\n")
	}
	for _, f := range rep.Frames {
		b.WriteString("    " + f.String() + "\n")
	}

	rep.Text = b.String()
	return rep
}

// Format returns the report text for snap.
func Format(snap *fault.Snapshot, r *symbol.Resolver) string {
	return New(snap, r).Text
}

func writeRegisters(b *strings.Builder, ctx regs.Context) {
	const perRow = 4
	digits := ctx.Width() * 2

	fmt.Fprintf(b, "registers (%s):\n", ctx.Arch())
	for i, f := range ctx.Fields() {
		if i%perRow == 0 {
			b.WriteString("   ")
		}
		fmt.Fprintf(b, " %-6s 0x%0*x", f.Name, digits, f.Value)
		if i%perRow == perRow-1 {
			b.WriteString("\n")
		}
	}
	if n := len(ctx.Fields()); n%perRow != 0 {
		b.WriteString("\n")
	}
}

func threadName(tid int32) string {
	data, err := os.ReadFile("/proc/self/task/" + strconv.Itoa(int(tid)) + "/comm")
	if err != nil {
		return "<unknown>"
	}
	return strings.TrimSpace(string(data))
}

func cmdline() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil || len(data) == 0 {
		return "<unknown>"
	}
	data = bytes.TrimRight(data, "\x00")
	return string(bytes.ReplaceAll(data, []byte{0}, []byte{' '}))
}
