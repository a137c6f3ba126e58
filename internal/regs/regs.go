// Package regs decodes the machine context saved by the kernel at signal
// delivery into a named register set.
//
// Every layout is compiled on every host; the one to use is picked by
// architecture name, so a context captured on one machine can be decoded
// and printed on another.
package regs

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/pkg/errors"
)

// Field is one named register value.
type Field struct {
	Name  string
	Value uint64
}

// Context is the register set of an interrupted thread.
type Context interface {
	// Arch is the GOARCH name of the layout.
	Arch() string
	// Fields lists the registers in the order they are printed.
	Fields() []Field
	PC() uint64
	SP() uint64
	// FP is the frame pointer register, or 0 when the layout has none.
	FP() uint64
	// Width is the register width in bytes.
	Width() int
}

// ErrShortContext is returned when the raw machine context is smaller than
// the layout it is decoded as.
var ErrShortContext = errors.New("machine context too short")

// Native returns the architecture name Decode expects for the running binary.
func Native() string {
	return runtime.GOARCH
}

// Decode reads raw mcontext_t bytes as the layout of arch.
func Decode(arch string, raw []byte) (Context, error) {
	var ctx Context
	switch arch {
	case "amd64":
		ctx = new(AMD64)
	case "386":
		ctx = new(I386)
	case "arm64":
		ctx = new(ARM64)
	case "arm":
		ctx = new(ARM)
	default:
		return nil, errors.Errorf("unsupported architecture %q", arch)
	}

	if len(raw) < binary.Size(ctx) {
		return nil, errors.Wrapf(ErrShortContext, "%s needs %d bytes, got %d", arch, binary.Size(ctx), len(raw))
	}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, ctx); err != nil {
		return nil, errors.Wrapf(err, "decode %s context", arch)
	}
	return ctx, nil
}

// Encode writes ctx back in its raw little-endian layout.
func Encode(ctx Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, ctx); err != nil {
		return nil, errors.Wrapf(err, "encode %s context", ctx.Arch())
	}
	return buf.Bytes(), nil
}
