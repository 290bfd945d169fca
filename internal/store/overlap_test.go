package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-graph/internal/domain"
)

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("groups.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("groups.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("groups.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("groups"))
}

func TestDecodeOverlapGroupsJSON(t *testing.T) {
	groups, err := DecodeOverlapGroups(strings.NewReader(`[["20109","20425"],["20474"," 20475 ","20474"],["20999"],[]]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []domain.OverlapGroup{{"20109", "20425"}, {"20474", "20475"}}, groups)
}

func TestDecodeOverlapGroupsYAML(t *testing.T) {
	input := `
- [20109, 20425]
- - "20474"
  - "20475"
  - "20477"
`
	groups, err := DecodeOverlapGroups(strings.NewReader(input), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []domain.OverlapGroup{{"20109", "20425"}, {"20474", "20475", "20477"}}, groups)
}

func TestDecodeOverlapGroupsEmptyYAML(t *testing.T) {
	groups, err := DecodeOverlapGroups(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDecodeOverlapGroupsErrors(t *testing.T) {
	_, err := DecodeOverlapGroups(strings.NewReader(`{"a": 1}`), FormatJSON)
	assert.Error(t, err)

	_, err = DecodeOverlapGroups(strings.NewReader(`[]`), Format("toml"))
	assert.ErrorContains(t, err, "unsupported overlap format")
}

func TestLoadOverlapGroups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "final_overlapping_groups.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- [A, B]\n"), 0o644))

	groups, err := LoadOverlapGroups(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.OverlapGroup{{"A", "B"}}, groups)

	_, err = LoadOverlapGroups(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "store: open overlap groups")
}
