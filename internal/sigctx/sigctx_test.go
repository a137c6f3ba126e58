//go:build linux && cgo

package sigctx

import (
	"debug/elf"
	"os"
	"runtime"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lzhiyong/xedit-app/internal/fault"
)

func TestUnwindDepth(t *testing.T) {
	base := UnwindDepth(0)
	if base == 0 {
		t.Skip("unwind tables not available")
	}
	for d := 1; base+d < MaxFrames; d++ {
		if got := UnwindDepth(d) - base; got != d {
			t.Fatalf("UnwindDepth(%d) - UnwindDepth(0) = %d, want %d", d, got, d)
		}
	}
	if got := UnwindDepth(40); got != MaxFrames {
		t.Errorf("UnwindDepth(40) = %d, want %d", got, MaxFrames)
	}
}

// Stripped binaries (go test links with -s) keep only .dynsym, which must
// still name the native frames of a report.
func TestNativeSymbolsAreDynamic(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	f, err := elf.Open(exe)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	syms, err := f.DynamicSymbols()
	if err != nil {
		t.Fatalf("DynamicSymbols: %v", err)
	}
	want := map[string]bool{
		"xcrash_trigger":       false,
		"xcrash_trigger_outer": false,
		"xcrash_trigger_inner": false,
	}
	for _, s := range syms {
		if _, ok := want[s.Name]; ok && s.Section != elf.SHN_UNDEF {
			want[s.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s missing from .dynsym", name)
		}
	}
}

// fakeStack lays out depth frame records in mem, each linking to the next
// one up the stack, and returns the address of the innermost record.
func fakeStack(mem []uintptr, depth int) uintptr {
	const stride = 16
	addr := func(i int) uintptr {
		return uintptr(unsafe.Pointer(&mem[i]))
	}
	for k := 0; k < depth; k++ {
		i := 8 + k*stride
		if k == depth-1 {
			mem[i] = 0
		} else {
			mem[i] = addr(i + stride)
		}
		mem[i+1] = uintptr(0x2000 + k)
	}
	return addr(8)
}

func TestWalkFrames(t *testing.T) {
	if runtime.GOARCH == "arm" {
		t.Skip("no frame record layout on arm")
	}

	mem := make([]uintptr, 1<<15)
	sp := uintptr(unsafe.Pointer(&mem[0]))

	tests := []struct {
		depth int
		want  int
	}{
		{1, 2},
		{5, 6},
		{31, 32},
		{40, 32},
	}
	for _, tt := range tests {
		for i := range mem {
			mem[i] = 0
		}
		fp := fakeStack(mem, tt.depth)

		frames := WalkFrames(0x1000, fp, sp)
		if len(frames) != tt.want {
			t.Errorf("depth %d: got %d frames, want %d", tt.depth, len(frames), tt.want)
			continue
		}
		if frames[0] != 0x1000 {
			t.Errorf("depth %d: first frame = %#x, want the pc", tt.depth, frames[0])
		}
		for i := 1; i < len(frames); i++ {
			if frames[i] != uintptr(0x2000+i-1) {
				t.Errorf("depth %d: frame %d = %#x", tt.depth, i, frames[i])
			}
		}
	}
	runtime.KeepAlive(mem)
}

func TestWalkFramesRejectsBadChains(t *testing.T) {
	if runtime.GOARCH == "arm" {
		t.Skip("no frame record layout on arm")
	}

	mem := make([]uintptr, 1<<15)
	sp := uintptr(unsafe.Pointer(&mem[0]))
	fp := fakeStack(mem, 4)

	// Below sp.
	if got := WalkFrames(0x1000, sp-64, sp); len(got) != 1 {
		t.Errorf("fp below sp: got %d frames, want 1", len(got))
	}
	// Misaligned.
	if got := WalkFrames(0x1000, fp+1, sp); len(got) != 1 {
		t.Errorf("misaligned fp: got %d frames, want 1", len(got))
	}
	// A chain that points back down stops after the offending record.
	mem[8] = sp
	if got := WalkFrames(0x1000, fp, sp); len(got) != 2 {
		t.Errorf("descending fp: got %d frames, want 2", len(got))
	}
	if got := WalkFrames(0, fp, sp); len(got) != 0 {
		t.Errorf("zero pc: got %d frames, want 0", len(got))
	}
	runtime.KeepAlive(mem)
}

func TestCaptureUserSignal(t *testing.T) {
	if _, ok := Take(); ok {
		t.Fatal("snapshot published before any signal")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	SetWatchdog(0)
	SetNotifier(-1)
	if err := Install(int(unix.SIGUSR2)); err != nil {
		t.Fatalf("Install: %v", err)
	}
	defer Restore(int(unix.SIGUSR2))

	Raise(int(unix.SIGUSR2))

	snap, ok := Take()
	if !ok {
		t.Fatal("no snapshot after Raise")
	}
	defer Rearm()

	if snap.Signal != int32(unix.SIGUSR2) {
		t.Errorf("Signal = %d", snap.Signal)
	}
	if !snap.SentByProcess() || snap.Addr != 0 {
		t.Errorf("Code = %d, Addr = %#x", snap.Code, snap.Addr)
	}
	if snap.SenderPID != int32(os.Getpid()) {
		t.Errorf("SenderPID = %d, want %d", snap.SenderPID, os.Getpid())
	}
	if snap.TID != int32(unix.Gettid()) {
		t.Errorf("TID = %d, want %d", snap.TID, unix.Gettid())
	}
	if snap.FrameCount < 1 || snap.FrameCount > fault.MaxFrames || snap.Unwinder == fault.UnwindNone {
		t.Errorf("FrameCount = %d, Unwinder = %v", snap.FrameCount, snap.Unwinder)
	}
	if snap.Regs == nil || snap.Regs.PC() == 0 {
		t.Errorf("registers not decoded: %v", snap.Regs)
	}

	Rearm()
	if _, ok := Take(); ok {
		t.Error("snapshot still published after Rearm")
	}
}
