package symbol

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/ianlancetaylor/demangle"
)

// Frame is one resolved backtrace entry.
type Frame struct {
	Index int
	PC    uint64
	// RelPC is PC relative to the module's load address; equal to PC for
	// anonymous and unmapped memory.
	RelPC  uint64
	Module string
	// Symbol is empty when no enclosing function is known.
	Symbol string
	Offset uint64
}

func (f Frame) String() string {
	s := fmt.Sprintf("#%02d pc 0x%016x %s", f.Index, f.RelPC, f.Module)
	if f.Symbol != "" {
		s += fmt.Sprintf(" (%s+%d)", f.Symbol, f.Offset)
	}
	return s
}

// Resolver resolves program counters against a fixed view of the address
// space. Objects are opened lazily and cached, failures included.
type Resolver struct {
	maps []Mapping
	exe  string

	mu      sync.Mutex
	objects map[string]*object
}

// NewResolver snapshots /proc/self/maps.
func NewResolver() (*Resolver, error) {
	maps, err := ReadMaps()
	if err != nil {
		return nil, err
	}
	return NewResolverWithMaps(maps), nil
}

// NewResolverWithMaps resolves against the given mappings.
func NewResolverWithMaps(maps []Mapping) *Resolver {
	exe, _ := os.Executable()
	return &Resolver{
		maps:    maps,
		exe:     exe,
		objects: make(map[string]*object),
	}
}

// Resolve resolves the pc of backtrace entry index. Entries after the first
// are return addresses, so the address one byte before is looked up to stay
// inside the calling function.
func (r *Resolver) Resolve(index int, pc uint64) Frame {
	f := Frame{Index: index, PC: pc, RelPC: pc, Module: "<unknown>"}

	lookup := pc
	if index > 0 && pc > 0 {
		lookup = pc - 1
	}

	m, ok := FindMapping(r.maps, lookup)
	if !ok {
		return f
	}
	if m.Anonymous() {
		f.Module = fmt.Sprintf("<anonymous:0x%x>", m.Start)
		return r.resolveGo(f, lookup)
	}
	f.Module = m.Path
	f.RelPC = pc - (m.Start - m.Offset)

	path := m.File()
	if path == "" {
		return f
	}
	if path == r.exe {
		if g := r.resolveGo(f, lookup); g.Symbol != "" {
			return g
		}
	}

	obj := r.object(path)
	if obj == nil {
		return f
	}
	bias, ok := obj.bias(m)
	if !ok {
		return f
	}
	f.RelPC = pc - bias
	if sym, ok := obj.lookup(lookup - bias); ok {
		f.Symbol = demangleName(sym.Name)
		f.Offset = pc - bias - sym.Value
	}
	return f
}

// ResolveAll resolves pcs as a backtrace, innermost first.
func (r *Resolver) ResolveAll(pcs []uintptr) []Frame {
	frames := make([]Frame, len(pcs))
	for i, pc := range pcs {
		frames[i] = r.Resolve(i, uint64(pc))
	}
	return frames
}

func (r *Resolver) resolveGo(f Frame, lookup uint64) Frame {
	fn := runtime.FuncForPC(uintptr(lookup))
	if fn == nil || uint64(fn.Entry()) > lookup {
		return f
	}
	f.Symbol = fn.Name()
	f.Offset = f.PC - uint64(fn.Entry())
	return f
}

func (r *Resolver) object(path string) *object {
	r.mu.Lock()
	defer r.mu.Unlock()

	if obj, ok := r.objects[path]; ok {
		return obj
	}
	obj, err := openObject(path)
	if err != nil {
		obj = nil
	}
	r.objects[path] = obj
	return obj
}

func demangleName(name string) string {
	if !strings.HasPrefix(name, "_Z") {
		return name
	}
	if s, err := demangle.ToString(name); err == nil {
		return s
	}
	return name
}
