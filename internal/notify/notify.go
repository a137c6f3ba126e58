//go:build linux

// Package notify is the wake-up channel between the signal handler and the
// consumer thread: an eventfd counter the handler can bump with a single
// write(2), read back with a blocking read.
package notify

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Notifier wraps an eventfd counter. It is never closed: the handler may
// write to the descriptor at any moment, and a reused descriptor number
// would receive that write.
type Notifier struct {
	fd int
}

// New creates the counter with an initial value of zero.
func New() (*Notifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "eventfd")
	}
	return &Notifier{fd: fd}, nil
}

// Fd is the descriptor the signal handler writes to.
func (n *Notifier) Fd() int {
	return n.fd
}

// Wait blocks until the counter is non-zero, then returns and resets it.
// Reads interrupted by a signal are retried.
func (n *Notifier) Wait() (uint64, error) {
	var buf [8]byte
	for {
		_, err := unix.Read(n.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, errors.Wrap(err, "read eventfd")
		}
		return binary.NativeEndian.Uint64(buf[:]), nil
	}
}

// Post adds v to the counter. It is what the handler does in C; Go code uses
// it to wake the consumer.
func (n *Notifier) Post(v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	for {
		_, err := unix.Write(n.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return errors.Wrap(err, "write eventfd")
	}
}
