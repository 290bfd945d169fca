package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	LogMode string

	// Files
	CatalogPath string
	OverlapPath string

	// HTTP frontend
	HTTPAddr     string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Open University scraper
	OpenUBaseURL    string
	OpenUProgramURL string
	ScrapeWorkers   int
	ScrapeTimeout   time.Duration

	// Rendering; empty uses the embedded Go font
	RenderFont string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		LogMode: getenv("LOG_MODE", "dev"),

		// Files
		CatalogPath: getenv("CATALOG_PATH", "course_dependencies_with_names.json"),
		OverlapPath: getenv("OVERLAP_PATH", "final_overlapping_groups.json"),

		// HTTP frontend
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		CORSOrigins:  getenvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		ReadTimeout:  getenvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getenvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),

		// Open University scraper
		OpenUBaseURL:    getenv("OPENU_BASE_URL", "https://www.openu.ac.il"),
		OpenUProgramURL: getenv("OPENU_PROGRAM_URL", "https://academic.openu.ac.il/cs/computer/program/M6.aspx"),
		ScrapeWorkers:   getenvInt("SCRAPE_WORKERS", 8),
		ScrapeTimeout:   getenvDuration("SCRAPE_TIMEOUT", 30*time.Minute),

		RenderFont: os.Getenv("RENDER_FONT"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

// getenvDuration accepts Go durations ("90s") or plain seconds ("90").
func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func getenvList(k string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
