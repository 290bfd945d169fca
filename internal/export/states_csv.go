package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"course-graph/internal/domain"
	"course-graph/internal/prereq"
)

// Keep header order exact; downstream sheets index by position.
var statesHeader = []string{
	"COURSE_ID",
	"COURSE_NAME",
	"STATE",
	"PREREQUISITES",
	"RESOLVED_PREREQUISITES",
	"UNMET_PREREQUISITES",
}

const listSep = " | "

// WriteStatesCSV writes one row per catalog course with its state and the
// declared, resolved and unmet prerequisite lists.
func WriteStatesCSV(w io.Writer, catalog domain.Catalog, res prereq.Result) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(statesHeader); err != nil {
		return err
	}
	for _, id := range catalog.IDs() {
		if err := cw.Write(toStatesRow(catalog, res, id)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toStatesRow(catalog domain.Catalog, res prereq.Result, id string) []string {
	course, _ := catalog.Get(id)
	return []string{
		id,                             // COURSE_ID
		strings.TrimSpace(course.Name), // COURSE_NAME
		string(res.Nodes[id]),          // STATE
		joinList(course.Prerequisites), // PREREQUISITES
		joinList(res.Resolved[id]),     // RESOLVED_PREREQUISITES
		joinList(res.Unmet(id)),        // UNMET_PREREQUISITES
	}
}

// joinList drops blanks; " | " keeps cells free of commas.
func joinList(in []string) string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, listSep)
}

// WriteStatesCSVFile writes the report to path, creating parent directories.
func WriteStatesCSVFile(path string, catalog domain.Catalog, res prereq.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: mkdir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteStatesCSV(f, catalog, res); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}
