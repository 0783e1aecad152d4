package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// File is a catalog import document:
//
//	[[work]]
//	id = "tt0109830"
//	title = "Forrest Gump"
//
//	[[name]]
//	id = "nm0000158"
//	name = "Tom Hanks"
//
//	[[principal]]
//	work_id = "tt0109830"
//	name_id = "nm0000158"
//	category = "actor"
//	character = "Forrest"
type File struct {
	Works      []Work      `toml:"work"`
	Names      []Name      `toml:"name"`
	Principals []Principal `toml:"principal"`
}

// DecodeFile parses a catalog import document.
func DecodeFile(r io.Reader) (File, error) {
	var f File
	if err := toml.NewDecoder(r).Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode catalog file: %w", err)
	}
	return f, nil
}

// Records joins principals to their works and names. Principals that
// reference an unknown work or name are returned as errors; works without
// principals still produce a record.
func (f File) Records() ([]Record, error) {
	names := make(map[string]Name, len(f.Names))
	for _, n := range f.Names {
		names[strings.TrimSpace(n.ID)] = n
	}
	index := make(map[string]int, len(f.Works))
	records := make([]Record, 0, len(f.Works))
	for _, w := range f.Works {
		w.ID = strings.TrimSpace(w.ID)
		if w.ID == "" {
			return nil, fmt.Errorf("work %q has no id", w.PrimaryTitle)
		}
		if _, dup := index[w.ID]; dup {
			return nil, fmt.Errorf("work %s listed twice", w.ID)
		}
		index[w.ID] = len(records)
		records = append(records, Record{Work: w})
	}
	for _, p := range f.Principals {
		i, ok := index[strings.TrimSpace(p.WorkID)]
		if !ok {
			return nil, fmt.Errorf("principal %s references unknown work %s", p.NameID, p.WorkID)
		}
		n, ok := names[strings.TrimSpace(p.NameID)]
		if !ok {
			return nil, fmt.Errorf("principal of %s references unknown name %s", p.WorkID, p.NameID)
		}
		records[i].Credits = append(records[i].Credits, Credit{Principal: p, Name: n})
	}
	return records, nil
}
