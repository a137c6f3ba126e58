//go:build linux && cgo

package sigctx

/*
#cgo CFLAGS: -O2 -D_GNU_SOURCE=1 -fasynchronous-unwind-tables -fno-omit-frame-pointer
#cgo linux,!android LDFLAGS: -lgcc_s
#cgo linux LDFLAGS: -rdynamic
#include "sigctx.h"
*/
import "C"

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/lzhiyong/xedit-app/internal/fault"
	"github.com/lzhiyong/xedit-app/internal/regs"
)

// MaxFrames is the frame capacity of the handler's snapshot.
const MaxFrames = int(C.XCRASH_FRAMES_MAX)

// Install points signo at the crash handler.
func Install(signo int) error {
	if rc, err := C.xcrash_install(C.int(signo)); rc != 0 {
		return errors.Wrapf(err, "sigaction(%d)", signo)
	}
	return nil
}

// Restore gives signo back its default disposition.
func Restore(signo int) error {
	if rc, err := C.xcrash_restore(C.int(signo)); rc != 0 {
		return errors.Wrapf(err, "sigaction(%d, SIG_DFL)", signo)
	}
	return nil
}

// SetAltStack installs stack as the calling thread's signal stack unless
// the thread already has one. stack must not be Go heap memory; callers map
// it with mmap. It reports whether stack is now in use.
func SetAltStack(stack []byte) (bool, error) {
	if len(stack) == 0 {
		return false, errors.New("empty alternate stack")
	}
	rc, err := C.xcrash_altstack(unsafe.Pointer(&stack[0]), C.size_t(len(stack)))
	switch rc {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, errors.Wrap(err, "sigaltstack")
	}
}

// MinAltStackSize is the platform's SIGSTKSZ.
func MinAltStackSize() int {
	return int(C.xcrash_min_altstack())
}

// SetNotifier sets the descriptor the handler writes the signal number to.
func SetNotifier(fd int) {
	C.xcrash_set_notifier(C.int(fd))
}

// SetWatchdog sets the alarm armed by the handler. d <= 0 disables it.
func SetWatchdog(d time.Duration) {
	var seconds uint
	if d > 0 {
		seconds = uint((d + time.Second - 1) / time.Second)
	}
	C.xcrash_set_watchdog(C.uint(seconds))
}

// Take copies out the published snapshot. It returns false when the
// handler has not published one since the last Rearm.
func Take() (*fault.Snapshot, bool) {
	var cs C.xcrash_snapshot_t
	if C.xcrash_take(&cs) == 0 {
		return nil, false
	}

	snap := &fault.Snapshot{
		Signal:     int32(cs.signo),
		Code:       int32(cs.code),
		Addr:       uint64(cs.addr),
		SenderPID:  int32(cs.sender_pid),
		SenderUID:  uint32(cs.sender_uid),
		TID:        int32(cs.tid),
		Unwinder:   fault.Unwinder(cs.unwinder),
		FrameCount: int(cs.frame_count),
	}
	for i := 0; i < snap.FrameCount && i < MaxFrames; i++ {
		snap.Frames[i] = uintptr(cs.frames[i])
	}

	raw := C.GoBytes(unsafe.Pointer(&cs.mcontext), C.int(unsafe.Sizeof(cs.mcontext)))
	if ctx, err := regs.Decode(regs.Native(), raw); err == nil {
		snap.Regs = ctx
	}
	return snap, true
}

// Rearm clears the published snapshot so the handler can capture again.
// It also cancels the watchdog alarm.
func Rearm() {
	C.xcrash_rearm()
}

// Raise sends signo to the calling thread from a short chain of native
// frames, so a report always has native frames to show.
func Raise(signo int) {
	C.xcrash_trigger(C.int(signo))
}

// WalkFrames follows the frame-pointer chain starting at fp the way the
// handler does when unwind tables are missing. pc becomes the first frame.
func WalkFrames(pc, fp, sp uintptr) []uintptr {
	var out [MaxFrames]C.uintptr_t
	n := int(C.xcrash_walk_frames(C.uintptr_t(pc), C.uintptr_t(fp), C.uintptr_t(sp), &out[0], C.int(MaxFrames)))

	frames := make([]uintptr, n)
	for i := range frames {
		frames[i] = uintptr(out[i])
	}
	return frames
}

// UnwindDepth recurses depth native frames and returns how many frames
// the unwind-table walk sees from the bottom, capped at MaxFrames.
func UnwindDepth(depth int) int {
	return int(C.xcrash_unwind_depth(C.int(depth)))
}
