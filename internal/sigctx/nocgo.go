//go:build linux && !cgo

package sigctx

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lzhiyong/xedit-app/internal/fault"
)

const MaxFrames = fault.MaxFrames

var errNoCgo = errors.New("crash capture requires cgo")

func Install(signo int) error                 { return errNoCgo }
func Restore(signo int) error                 { return errNoCgo }
func SetAltStack(stack []byte) (bool, error)  { return false, errNoCgo }
func MinAltStackSize() int                    { return 0 }
func SetNotifier(fd int)                      {}
func SetWatchdog(d time.Duration)             {}
func Take() (*fault.Snapshot, bool)           { return nil, false }
func Rearm()                                  {}
func Raise(signo int)                         {}
func WalkFrames(pc, fp, sp uintptr) []uintptr { return nil }
func UnwindDepth(depth int) int               { return 0 }
