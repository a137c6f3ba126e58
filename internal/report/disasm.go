package report

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

// maxInstLen is the longest x86 instruction; other targets use 4 bytes.
const maxInstLen = 15

// readText reads up to len(buf) bytes of the process's own memory at addr.
// It goes through /proc/self/mem so an unmapped address is an error rather
// than a fault.
func readText(addr uint64, buf []byte) (int, error) {
	f, err := os.Open("/proc/self/mem")
	if err != nil {
		return 0, errors.Wrap(err, "open /proc/self/mem")
	}
	defer f.Close()

	n, err := f.ReadAt(buf, int64(addr))
	if n > 0 {
		return n, nil
	}
	// A read straddling into an unmapped page fails as a whole.
	if len(buf) > 4 {
		if n, err2 := f.ReadAt(buf[:4], int64(addr)); n > 0 && err2 == nil {
			return n, nil
		}
	}
	return 0, errors.Wrapf(err, "read %#x", addr)
}

// Disassemble decodes the instruction at the start of code, which was read
// from pc, in GNU syntax.
func Disassemble(arch string, code []byte, pc uint64, thumb bool) (string, error) {
	switch arch {
	case "amd64", "386":
		mode := 64
		if arch == "386" {
			mode = 32
		}
		inst, err := x86asm.Decode(code, mode)
		if err != nil {
			return "", errors.Wrap(err, "x86 decode")
		}
		return x86asm.GNUSyntax(inst, pc, nil), nil
	case "arm64":
		inst, err := arm64asm.Decode(code)
		if err != nil {
			return "", errors.Wrap(err, "arm64 decode")
		}
		return arm64asm.GNUSyntax(inst), nil
	case "arm":
		mode := armasm.ModeARM
		if thumb {
			mode = armasm.ModeThumb
		}
		inst, err := armasm.Decode(code, mode)
		if err != nil {
			return "", errors.Wrap(err, "arm decode")
		}
		return armasm.GNUSyntax(inst), nil
	}
	return "", errors.Errorf("no disassembler for %s", arch)
}

// instructionAt reads and decodes the instruction at pc. Undecodable bytes
// are shown raw.
func instructionAt(arch string, pc uint64, thumb bool) string {
	buf := make([]byte, maxInstLen)
	n, err := readText(pc, buf)
	if err != nil {
		return "<unreadable>"
	}
	code := buf[:n]
	if text, err := Disassemble(arch, code, pc, thumb); err == nil {
		return text
	}
	if len(code) > 4 {
		code = code[:4]
	}
	return fmt.Sprintf("<undecodable: % x>", code)
}
