//go:build linux

package crash

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/lzhiyong/xedit-app/internal/logger"
	"github.com/lzhiyong/xedit-app/internal/notify"
	"github.com/lzhiyong/xedit-app/internal/sigctx"
	"github.com/lzhiyong/xedit-app/internal/sigdesc"
)

// Signals is the default set of captured signals.
var Signals = []unix.Signal{
	unix.SIGHUP,
	unix.SIGINT,
	unix.SIGQUIT,
	unix.SIGILL,
	unix.SIGTRAP,
	unix.SIGABRT,
	unix.SIGBUS,
	unix.SIGSEGV,
}

const (
	DefaultWatchdog     = 8 * time.Second
	DefaultAltStackSize = 64 << 10
)

// Callback receives the signal number and the formatted report. It runs on
// the consumer thread, never inside the signal handler.
type Callback func(signal int, report string)

type Config struct {
	// Signals to capture; empty means Signals.
	Signals []unix.Signal
	// Watchdog is the alarm armed by the handler. 0 means DefaultWatchdog,
	// negative disables it.
	Watchdog time.Duration
	// AltStackSize is the size of the alternate signal stack. 0 means
	// DefaultAltStackSize.
	AltStackSize int
}

func DefaultConfig() Config {
	return Config{
		Signals:      append([]unix.Signal(nil), Signals...),
		Watchdog:     DefaultWatchdog,
		AltStackSize: DefaultAltStackSize,
	}
}

// StepError is one failed setup step.
type StepError struct {
	Step string
	Err  error
}

// SetupError lists the setup steps that failed. Capture still works for
// every signal whose step is not listed.
type SetupError struct {
	Steps []StepError
}

func (e *SetupError) Error() string {
	parts := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		parts[i] = s.Step + ": " + s.Err.Error()
	}
	return "crash setup incomplete: " + strings.Join(parts, "; ")
}

func (e *SetupError) add(step string, err error) {
	logger.Warnf("crash setup: %s: %v", step, err)
	e.Steps = append(e.Steps, StepError{Step: step, Err: err})
}

var (
	mu       sync.Mutex
	callback Callback
	notifier *notify.Notifier
	altstack []byte
	started  bool
)

// Init installs the handlers for the default signal set with the default
// watchdog.
func Init(cb Callback) error {
	return InitWithConfig(DefaultConfig(), cb)
}

// InitWithConfig installs the handlers described by cfg. It may be called
// again: the notifier, alternate stack and consumer are reused, the
// handlers re-installed and cb replaces the previous callback.
//
// A *SetupError means some steps failed and coverage is partial; it is not
// fatal.
func InitWithConfig(cfg Config, cb Callback) error {
	if cb == nil {
		return errors.New("crash: nil callback")
	}
	if len(cfg.Signals) == 0 {
		cfg.Signals = Signals
	}
	if cfg.Watchdog == 0 {
		cfg.Watchdog = DefaultWatchdog
	}
	if cfg.AltStackSize <= 0 {
		cfg.AltStackSize = DefaultAltStackSize
	}

	mu.Lock()
	defer mu.Unlock()

	callback = cb
	setup := &SetupError{}

	if notifier == nil {
		n, err := notify.New()
		if err != nil {
			// Nothing could be delivered; leave the runtime's handlers alone.
			setup.add("notifier", err)
			return setup
		}
		notifier = n
	}
	sigctx.SetNotifier(notifier.Fd())
	sigctx.SetWatchdog(cfg.Watchdog)

	if altstack == nil {
		if err := installAltStack(cfg.AltStackSize); err != nil {
			setup.add("alternate stack", err)
		}
	}

	installed := 0
	for _, sig := range cfg.Signals {
		if err := sigctx.Install(int(sig)); err != nil {
			setup.add(sigdesc.Name(int32(sig)), err)
			continue
		}
		installed++
	}

	if err := unblock(unix.SIGQUIT); err != nil {
		setup.add("unblock SIGQUIT", err)
	}

	if !started {
		started = true
		go consume(notifier)
	}

	logger.Infof("crash handlers installed for %d of %d signals (watchdog %v)", installed, len(cfg.Signals), watchdogText(cfg.Watchdog))
	if len(setup.Steps) > 0 {
		return setup
	}
	return nil
}

func watchdogText(d time.Duration) string {
	if d < 0 {
		return "off"
	}
	return d.String()
}

// installAltStack maps a signal stack and installs it on the calling thread
// unless that thread already has one, as every Go-created thread does.
func installAltStack(size int) error {
	if minSize := sigctx.MinAltStackSize(); size < minSize {
		size = minSize
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_STACK)
	if err != nil {
		return errors.Wrap(err, "mmap")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	inUse, err := sigctx.SetAltStack(mem)
	if err != nil {
		unix.Munmap(mem)
		return err
	}
	if !inUse {
		logger.Infof("thread %d already has a signal stack, keeping it", unix.Gettid())
		unix.Munmap(mem)
		return nil
	}
	// The mapping is never released: the thread may take a signal at any time.
	altstack = mem
	return nil
}

// Reset restores the default disposition of sig, so the embedding program
// can re-raise it after the callback returns.
func Reset(sig unix.Signal) error {
	return sigctx.Restore(int(sig))
}

// Trigger raises sig on the calling thread from a short chain of native
// frames. Used to check the pipeline end to end; without Init it kills the
// process with sig's default action.
func Trigger(sig unix.Signal) {
	sigctx.Raise(int(sig))
}

// Signal looks up a signal by name ("SIGSEGV", "segv").
func Signal(name string) (unix.Signal, error) {
	sig, ok := sigdesc.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("unknown signal %q", name)
	}
	return sig, nil
}

func currentCallback() Callback {
	mu.Lock()
	defer mu.Unlock()
	return callback
}
