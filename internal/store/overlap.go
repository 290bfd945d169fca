package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"course-graph/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the overlap file format by extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadOverlapGroups reads a list of overlap groups, e.g. [["20109","20425"], ...].
func LoadOverlapGroups(path string) ([]domain.OverlapGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open overlap groups: %w", err)
	}
	defer f.Close()

	groups, err := DecodeOverlapGroups(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return groups, nil
}

// DecodeOverlapGroups parses groups in the given format. Groups with fewer
// than two distinct ids cannot substitute anything and are skipped.
func DecodeOverlapGroups(r io.Reader, format Format) ([]domain.OverlapGroup, error) {
	var raw [][]string
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode overlap groups yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode overlap groups json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported overlap format %q", format)
	}

	groups := make([]domain.OverlapGroup, 0, len(raw))
	for _, ids := range raw {
		seen := map[string]bool{}
		var group domain.OverlapGroup
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			group = append(group, id)
		}
		if len(group) < 2 {
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}
