//go:build linux

package crash

import (
	"runtime"
	"runtime/debug"

	"github.com/lzhiyong/xedit-app/internal/logger"
	"github.com/lzhiyong/xedit-app/internal/notify"
	"github.com/lzhiyong/xedit-app/internal/report"
	"github.com/lzhiyong/xedit-app/internal/sigctx"
)

// consume owns one OS thread for the life of the process. It sleeps on the
// notifier, formats each published snapshot and hands it to the callback.
func consume(n *notify.Notifier) {
	runtime.LockOSThread()

	for {
		value, err := n.Wait()
		if err != nil {
			logger.Errorf("crash consumer stopped: %v", err)
			return
		}

		snap, ok := sigctx.Take()
		if !ok {
			logger.Warnf("crash notification %d without a captured fault", value)
			continue
		}
		if value != uint64(snap.Signal) {
			// Several writes coalesced in the counter; the snapshot is
			// authoritative.
			logger.Warnf("crash notification value %d, captured signal %d", value, snap.Signal)
		}

		rep := report.Format(snap, nil)
		logger.Msg("native crash report:\n" + rep)
		logger.Sync()

		deliver(currentCallback(), int(snap.Signal), rep)
		sigctx.Rearm()
	}
}

func deliver(cb Callback, signal int, rep string) {
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("crash callback panicked: %v\n%s", r, debug.Stack())
		}
	}()
	cb(signal, rep)
}
