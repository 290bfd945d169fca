package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course-graph/internal/config"
	"course-graph/internal/domain"
	"course-graph/internal/export"
	"course-graph/internal/logger"
	"course-graph/internal/prereq"
	"course-graph/internal/render"
	"course-graph/internal/sftpclient"
	"course-graph/internal/store"
)

func main() {
	cfg := config.Load()

	var (
		catalogPath   = flag.String("catalog", cfg.CatalogPath, "catalog json path")
		overlapPath   = flag.String("overlaps", cfg.OverlapPath, "overlap groups (json or yaml); empty for none")
		completedIDs  = flag.String("completed", "", "comma separated completed course ids")
		completedFile = flag.String("completed-file", "", "file with completed course ids")
		outPath       = flag.String("out", "graph.png", "output path")
		format        = flag.String("format", "", "png, dot or csv (default: from -out extension)")
		fontPath      = flag.String("font", cfg.RenderFont, "ttf font for png labels")
		uploadSFTP    = flag.Bool("sftp", false, "upload the output via SFTP")
	)
	flag.Parse()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	outFormat, err := resolveFormat(*format, *outPath)
	if err != nil {
		log.Fatal("invalid format", "error", err)
	}

	catalog, err := store.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatal("load catalog failed", "path", *catalogPath, "error", err)
	}
	var groups []domain.OverlapGroup
	if *overlapPath != "" {
		groups, err = store.LoadOverlapGroups(*overlapPath)
		if err != nil {
			log.Fatal("load overlap groups failed", "path", *overlapPath, "error", err)
		}
	}

	ids := parseIDs(*completedIDs)
	if *completedFile != "" {
		fromFile, err := readIDsFile(*completedFile)
		if err != nil {
			log.Fatal("read completed courses failed", "path", *completedFile, "error", err)
		}
		ids = append(ids, fromFile...)
	}
	completed := domain.NewCompletedSet(ids...)

	res := prereq.Analyze(catalog, prereq.BuildOverlapIndex(groups), completed)
	counts := res.Counts()
	log.Info("courses classified",
		"courses", len(catalog),
		"overlap_groups", len(groups),
		"completed", counts[prereq.Completed],
		"available", counts[prereq.Available],
		"locked", counts[prereq.Locked],
	)
	log.Debug("next courses", "ids", prereq.NextCourses(res.Nodes))

	if err := writeOutput(*outPath, outFormat, catalog, res, render.PNGOptions{FontPath: *fontPath}); err != nil {
		log.Fatal("write output failed", "path", *outPath, "error", err)
	}
	log.Info("output written", "path", *outPath, "format", outFormat)

	if *uploadSFTP {
		remoteName := filepath.Base(*outPath)
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			KnownHostsPath:        cfg.SFTPKnownHosts,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := sftpclient.UploadFile(ctx, upCfg, *outPath, remoteName); err != nil {
			log.Fatal("sftp upload failed", "error", err)
		}
		log.Info("uploaded", "host", upCfg.Host, "port", upCfg.Port, "remote_dir", upCfg.RemoteDir, "file", remoteName)
	}
}

// resolveFormat picks the explicit format or infers it from the extension.
func resolveFormat(format, outPath string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
		if f == "gv" {
			f = "dot"
		}
	}
	switch f {
	case "png", "dot", "csv":
		return f, nil
	case "":
		return "png", nil
	}
	return "", fmt.Errorf("unsupported format %q, want png, dot or csv", f)
}

func writeOutput(path, format string, catalog domain.Catalog, res prereq.Result, opts render.PNGOptions) error {
	if format == "csv" {
		return export.WriteStatesCSVFile(path, catalog, res)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	g := render.Build(catalog, res)
	if format == "dot" {
		err = render.WriteDOT(f, g)
	} else {
		err = render.RenderPNG(f, g, opts)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseIDs splits a comma or whitespace separated id list.
func parseIDs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// readIDsFile reads ids separated by commas or newlines. Lines starting with
// '#' are comments. A file with no ids means nothing is completed yet.
func readIDsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readIDs(f)
}

func readIDs(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, parseIDs(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
