//go:build linux

package sigdesc

import (
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		signal int32
		code   int32
		addr   uint64
		want   string
	}{
		{
			name:   "segv maperr",
			signal: int32(unix.SIGSEGV),
			code:   SEGV_MAPERR,
			addr:   0,
			want:   "signal: 11 (SIGSEGV), code: 1 (SEGV_MAPERR), fault addr: 0x0000000000000000 (Address not mapped to object)",
		},
		{
			name:   "segv accerr",
			signal: int32(unix.SIGSEGV),
			code:   SEGV_ACCERR,
			addr:   0xdeadbeef,
			want:   "signal: 11 (SIGSEGV), code: 2 (SEGV_ACCERR), fault addr: 0x00000000deadbeef (Invalid permissions for mapped object)",
		},
		{
			name:   "fpe divide by zero",
			signal: int32(unix.SIGFPE),
			code:   FPE_INTDIV,
			addr:   0x401000,
			want:   "signal: 8 (SIGFPE), code: 1 (FPE_INTDIV), fault addr: 0x0000000000401000 (Integer divide by zero)",
		},
		{
			name:   "abort sent by tkill",
			signal: int32(unix.SIGABRT),
			code:   SI_TKILL,
			want:   "signal: 6 (SIGABRT), code: -6 (SI_TKILL), fault addr: 0x0000000000000000 (Process abort signal; Signal sent by tkill())",
		},
		{
			name:   "known signal unknown code",
			signal: int32(unix.SIGILL),
			code:   99,
			want:   "signal: 4 (SIGILL), fault addr: 0x0000000000000000 (Illegal operation)",
		},
		{
			name:   "unknown signal with sender code",
			signal: 63,
			code:   SI_QUEUE,
			want:   "signal: 63 (Unknown), code: -1 (SI_QUEUE), fault addr: 0x0000000000000000 (Signal sent by sigqueue())",
		},
		{
			name:   "unknown signal unknown code",
			signal: 200,
			code:   12345,
			addr:   0x10,
			want:   "signal: 200 (Unknown), code: 12345 (Unknown), fault addr: 0x0000000000000010 (Unknown signal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.signal, tt.code, tt.addr)
			if got != tt.want {
				t.Errorf("Describe(%d, %d, %#x)\n got: %s\nwant: %s", tt.signal, tt.code, tt.addr, got, tt.want)
			}
		})
	}
}

func TestDescribeIsTotal(t *testing.T) {
	for sig := int32(-2); sig < 70; sig++ {
		for code := int32(-8); code < 12; code++ {
			got := Describe(sig, code, 0xabc)
			if got == "" {
				t.Fatalf("Describe(%d, %d) returned empty text", sig, code)
			}
			if !strings.Contains(got, "0x0000000000000abc") {
				t.Fatalf("Describe(%d, %d) = %q, missing hex fault address", sig, code, got)
			}
		}
	}
}

func TestName(t *testing.T) {
	if got := Name(int32(unix.SIGBUS)); got != "SIGBUS" {
		t.Errorf("Name(SIGBUS) = %q", got)
	}
	if got := Name(200); got != "signal 200" {
		t.Errorf("Name(200) = %q", got)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"SIGSEGV", "segv", "SegV", "sigsegv"} {
		sig, ok := Lookup(name)
		if !ok || sig != unix.SIGSEGV {
			t.Errorf("Lookup(%q) = %v, %v", name, sig, ok)
		}
	}
	if _, ok := Lookup("SIGNOPE"); ok {
		t.Error("Lookup(SIGNOPE) succeeded")
	}
}
