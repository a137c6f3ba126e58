// Package fault holds the snapshot of a faulting thread as captured inside
// the signal handler.
package fault

import "github.com/lzhiyong/xedit-app/internal/regs"

// MaxFrames is the fixed frame capacity of a snapshot.
const MaxFrames = 32

// Unwinder names the strategy that produced a snapshot's frames.
type Unwinder int

const (
	UnwindNone Unwinder = iota
	UnwindTables
	UnwindFramePointers
)

func (u Unwinder) String() string {
	switch u {
	case UnwindTables:
		return "unwind tables"
	case UnwindFramePointers:
		return "frame pointers"
	default:
		return "none"
	}
}

// Snapshot is everything recorded about one fault. It is written once by
// the handler and read by the consumer after notification.
type Snapshot struct {
	Signal int32
	Code   int32
	// Addr is the faulting address for kernel-generated faults, 0 otherwise.
	Addr uint64

	// SenderPID and SenderUID are set for signals sent by a process
	// (Code <= 0).
	SenderPID int32
	SenderUID uint32

	TID      int32
	Unwinder Unwinder

	Frames     [MaxFrames]uintptr
	FrameCount int

	// Regs is nil when the machine context could not be decoded.
	Regs regs.Context
}

// PCs returns the captured program counters, innermost first.
func (s *Snapshot) PCs() []uintptr {
	n := s.FrameCount
	if n > MaxFrames {
		n = MaxFrames
	}
	if n < 0 {
		n = 0
	}
	return s.Frames[:n]
}

// SentByProcess reports whether the signal came from kill(2) and friends
// rather than from the kernel.
func (s *Snapshot) SentByProcess() bool {
	return s.Code <= 0
}
