//go:build linux

package crash

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func sigaddset(set *unix.Sigset_t, sig unix.Signal) {
	n := uint(sig) - 1
	bits := uint(unsafe.Sizeof(set.Val[0]) * 8)
	set.Val[n/bits] |= 1 << (n % bits)
}

// unblock removes sigs from the calling thread's signal mask.
func unblock(sigs ...unix.Signal) error {
	var set unix.Sigset_t
	for _, sig := range sigs {
		sigaddset(&set, sig)
	}
	return errors.Wrap(unix.PthreadSigmask(unix.SIG_UNBLOCK, &set, nil), "pthread_sigmask")
}
