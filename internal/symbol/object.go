package symbol

import (
	"debug/elf"
	"sort"

	"github.com/pkg/errors"
)

const pageSize = 4096

// object is the symbol view of one ELF file.
type object struct {
	loads []elf.ProgHeader
	funcs []elf.Symbol
}

func isFunc(s elf.Symbol) bool {
	switch elf.ST_TYPE(s.Info) {
	case elf.STT_FUNC, elf.STT_LOOS: // STT_LOOS is STT_GNU_IFUNC on Linux
		return s.Value != 0 && s.Section != elf.SHN_UNDEF
	}
	return false
}

func openObject(path string) (*object, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	obj := &object{}
	for _, p := range f.Progs {
		if p.Type == elf.PT_LOAD {
			obj.loads = append(obj.loads, p.ProgHeader)
		}
	}

	seen := make(map[uint64]bool)
	add := func(syms []elf.Symbol) {
		for _, s := range syms {
			if isFunc(s) && !seen[s.Value] {
				seen[s.Value] = true
				obj.funcs = append(obj.funcs, s)
			}
		}
	}
	// .symtab first, it carries the local functions .dynsym leaves out.
	if syms, err := f.Symbols(); err == nil {
		add(syms)
	}
	if syms, err := f.DynamicSymbols(); err == nil {
		add(syms)
	}
	sort.Slice(obj.funcs, func(i, j int) bool { return obj.funcs[i].Value < obj.funcs[j].Value })
	return obj, nil
}

// bias is the difference between runtime and link-time addresses for the
// segment mapped by m.
func (o *object) bias(m Mapping) (uint64, bool) {
	for _, p := range o.loads {
		lo := p.Off &^ (pageSize - 1)
		if m.Offset >= lo && m.Offset < p.Off+p.Filesz {
			return (m.Start - m.Offset) - (p.Vaddr - p.Off), true
		}
	}
	return 0, false
}

// lookup finds the function containing the link-time address addr.
func (o *object) lookup(addr uint64) (elf.Symbol, bool) {
	i := sort.Search(len(o.funcs), func(i int) bool { return o.funcs[i].Value > addr })
	if i == 0 {
		return elf.Symbol{}, false
	}
	s := o.funcs[i-1]
	if s.Size != 0 && addr >= s.Value+s.Size {
		return elf.Symbol{}, false
	}
	return s, true
}
