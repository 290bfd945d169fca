package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"course-graph/internal/domain"
)

// LoadCatalog reads a catalog file shaped as
// {"<id>": {"name": "...", "prerequisites": ["<id>", ...]}}.
func LoadCatalog(path string) (domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open catalog: %w", err)
	}
	defer f.Close()

	catalog, err := DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return catalog, nil
}

// ErrDuplicateCourseID is returned when two catalog keys trim to the same id.
var ErrDuplicateCourseID = errors.New("duplicate course id")

// DecodeCatalog parses the catalog JSON format. Course ids are trimmed and
// copied into Course.ID; a missing prerequisites list decodes as empty.
func DecodeCatalog(r io.Reader) (domain.Catalog, error) {
	var raw map[string]domain.Course
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := make(domain.Catalog, len(raw))
	for key, course := range raw {
		id := strings.TrimSpace(key)
		if id == "" {
			continue
		}
		if _, dup := catalog[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCourseID, id)
		}
		course.ID = id
		prereqs := make([]string, 0, len(course.Prerequisites))
		for _, p := range course.Prerequisites {
			if p = strings.TrimSpace(p); p != "" {
				prereqs = append(prereqs, p)
			}
		}
		course.Prerequisites = prereqs
		catalog[id] = course
	}
	return catalog, nil
}

// EncodeCatalog writes the catalog as indented JSON with non-ASCII names kept
// as-is.
func EncodeCatalog(w io.Writer, catalog domain.Catalog) error {
	out := make(map[string]domain.Course, len(catalog))
	for id, course := range catalog {
		if course.Prerequisites == nil {
			course.Prerequisites = []string{}
		}
		out[id] = course
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

// SaveCatalog writes the catalog to path through a temp file + rename so a
// crashed run never leaves a truncated catalog behind.
func SaveCatalog(path string, catalog domain.Catalog) error {
	var buf bytes.Buffer
	if err := EncodeCatalog(&buf, catalog); err != nil {
		return fmt.Errorf("store: encode catalog: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}
