package catalog

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Denylist is a set of names the entity tagger also reads as ordinary
// words or other entity kinds. Matching is exact.
type Denylist map[string]struct{}

// NewDenylist builds a denylist from names, ignoring blanks.
func NewDenylist(names ...string) Denylist {
	d := make(Denylist, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			d[n] = struct{}{}
		}
	}
	return d
}

// ReadDenylist parses one name per line. Blank lines, "#" comments and a
// leading "name" header are skipped.
func ReadDenylist(r io.Reader) (Denylist, error) {
	d := Denylist{}
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if strings.EqualFold(line, "name") {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d[strings.Trim(line, `"`)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}
	return d, nil
}

// Contains reports whether name is listed. Empty names never are.
func (d Denylist) Contains(name string) bool {
	if name == "" || d == nil {
		return false
	}
	_, ok := d[name]
	return ok
}

// Names returns the sorted entries.
func (d Denylist) Names() []string {
	out := make([]string, 0, len(d))
	for n := range d {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
