package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"course-graph/internal/domain"
	"course-graph/internal/prereq"
	"course-graph/internal/render"
)

func TestResolveFormat(t *testing.T) {
	testCases := []struct {
		format   string
		out      string
		expected string
		wantErr  bool
	}{
		{"", "graph.png", "png", false},
		{"", "out/graph.DOT", "dot", false},
		{"", "graph.gv", "dot", false},
		{"", "report.csv", "csv", false},
		{"", "graph", "png", false},
		{"CSV", "graph.png", "csv", false},
		{"svg", "graph.svg", "", true},
		{"", "graph.svg", "", true},
	}

	for _, tc := range testCases {
		got, err := resolveFormat(tc.format, tc.out)
		if (err != nil) != tc.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v, wantErr %v", tc.format, tc.out, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tc.format, tc.out, got, tc.expected)
		}
	}
}

func TestParseIDs(t *testing.T) {
	got := parseIDs(" 20441, 20476 ,,20407\t20417 ")
	want := []string{"20441", "20476", "20407", "20417"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseIDs = %v, want %v", got, want)
	}
	if got := parseIDs(""); len(got) != 0 {
		t.Errorf("Expected no ids, got %v", got)
	}
}

func TestReadIDs(t *testing.T) {
	got, err := readIDs(strings.NewReader("# semester 1\n20441\n\n20476, 20407\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := []string{"20441", "20476", "20407"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readIDs = %v, want %v", got, want)
	}

	for _, input := range []string{"", "# nothing completed yet\n", "\n\n"} {
		got, err := readIDs(strings.NewReader(input))
		if err != nil {
			t.Errorf("readIDs(%q) error = %v, want nil", input, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("readIDs(%q) = %#v, want empty slice", input, got)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	catalog := domain.Catalog{
		"A": {Name: "Intro"},
		"B": {Name: "Data Structures", Prerequisites: []string{"A"}},
	}
	res := prereq.Analyze(catalog, prereq.BuildOverlapIndex(nil), domain.NewCompletedSet("A"))
	dir := t.TempDir()

	for _, format := range []string{"png", "dot", "csv"} {
		path := filepath.Join(dir, "nested", "graph."+format)
		if err := writeOutput(path, format, catalog, res, render.PNGOptions{}); err != nil {
			t.Fatalf("writeOutput(%s) error: %v", format, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Errorf("Expected %s output, got empty file", format)
		}
	}

	dot, _ := os.ReadFile(filepath.Join(dir, "nested", "graph.dot"))
	if !strings.Contains(string(dot), `"A" -> "B"`) {
		t.Errorf("Expected edge in dot output, got %s", dot)
	}
	csv, _ := os.ReadFile(filepath.Join(dir, "nested", "graph.csv"))
	if !strings.Contains(string(csv), "B,Data Structures,available,A,A,\r\n") {
		t.Errorf("Unexpected csv output: %q", csv)
	}
}

func TestReadIDsFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completed.txt")
	if err := os.WriteFile(path, []byte("# first semester\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ids, err := readIDsFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	catalog := domain.Catalog{"A": {Name: "Intro"}}
	res := prereq.Analyze(catalog, prereq.BuildOverlapIndex(nil), domain.NewCompletedSet(ids...))
	if res.Nodes["A"] != prereq.Available {
		t.Errorf("Expected A available with nothing completed, got %q", res.Nodes["A"])
	}
}
