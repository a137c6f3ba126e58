package symbol

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mapping is one line of /proc/<pid>/maps.
type Mapping struct {
	Start  uint64
	End    uint64
	Perms  string
	Offset uint64
	Inode  uint64
	Path   string
}

// Contains reports whether addr falls inside the mapping.
func (m Mapping) Contains(addr uint64) bool {
	return m.Start <= addr && addr < m.End
}

// Executable reports whether the mapping has the x permission.
func (m Mapping) Executable() bool {
	return len(m.Perms) > 2 && m.Perms[2] == 'x'
}

// Anonymous reports whether the mapping has no backing file and no kernel
// name such as [stack] or [vdso].
func (m Mapping) Anonymous() bool {
	return m.Path == ""
}

// File is the path to open for the mapping's backing object, or "" when
// there is none.
func (m Mapping) File() string {
	if m.Path == "" || strings.HasPrefix(m.Path, "[") {
		return ""
	}
	return strings.TrimSuffix(m.Path, " (deleted)")
}

// ReadMaps parses /proc/self/maps.
func ReadMaps() ([]Mapping, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, errors.Wrap(err, "open maps")
	}
	defer f.Close()
	return ParseMaps(f)
}

// ParseMaps reads mappings in the /proc/<pid>/maps text format. The result
// is sorted by start address.
func ParseMaps(r io.Reader) ([]Mapping, error) {
	var maps []Mapping
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		m, err := parseMapping(text)
		if err != nil {
			return nil, errors.Wrapf(err, "maps line %d", line)
		}
		maps = append(maps, m)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read maps")
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].Start < maps[j].Start })
	return maps, nil
}

func parseMapping(text string) (Mapping, error) {
	var m Mapping
	var fields [5]string
	rest := text
	for i := range fields {
		rest = strings.TrimLeft(rest, " \t")
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			if i < len(fields)-1 {
				return m, errors.Errorf("malformed mapping %q", text)
			}
			end = len(rest)
		}
		fields[i] = rest[:end]
		rest = rest[end:]
	}

	lo, hi, ok := strings.Cut(fields[0], "-")
	if !ok {
		return m, errors.Errorf("malformed address range %q", fields[0])
	}
	var err error
	if m.Start, err = strconv.ParseUint(lo, 16, 64); err != nil {
		return m, errors.Wrap(err, "start address")
	}
	if m.End, err = strconv.ParseUint(hi, 16, 64); err != nil {
		return m, errors.Wrap(err, "end address")
	}
	m.Perms = fields[1]
	if m.Offset, err = strconv.ParseUint(fields[2], 16, 64); err != nil {
		return m, errors.Wrap(err, "offset")
	}
	if m.Inode, err = strconv.ParseUint(fields[4], 10, 64); err != nil {
		return m, errors.Wrap(err, "inode")
	}
	m.Path = strings.TrimSpace(rest)
	return m, nil
}

// FindMapping returns the mapping containing addr. maps must be sorted.
func FindMapping(maps []Mapping, addr uint64) (Mapping, bool) {
	i := sort.Search(len(maps), func(i int) bool { return maps[i].End > addr })
	if i < len(maps) && maps[i].Contains(addr) {
		return maps[i], true
	}
	return Mapping{}, false
}
