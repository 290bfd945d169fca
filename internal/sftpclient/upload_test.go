package sftpclient

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg, err := Config{Host: "test-host", User: "test-user", Pass: "test-pass"}.withDefaults()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != 22 {
		t.Errorf("Expected default Port to be 22, got %d", cfg.Port)
	}
	if cfg.RemoteDir != "/" {
		t.Errorf("Expected default RemoteDir to be '/', got %q", cfg.RemoteDir)
	}

	if _, err := (Config{Host: "test-host"}).withDefaults(); err != ErrMissingCredentials {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
}

func TestHostKeyCallback(t *testing.T) {
	if _, err := (Config{InsecureIgnoreHostKey: true}).hostKeyCallback(); err != nil {
		t.Errorf("Expected insecure callback, got %v", err)
	}

	if _, err := (Config{}).hostKeyCallback(); err == nil || !strings.Contains(err.Error(), "SFTP_KNOWN_HOSTS") {
		t.Errorf("Expected known hosts error, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "known_hosts")
	if _, err := (Config{KnownHostsPath: missing}).hostKeyCallback(); err == nil || !strings.Contains(err.Error(), "load known_hosts") {
		t.Errorf("Expected load error, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (Config{KnownHostsPath: empty}).hostKeyCallback(); err != nil {
		t.Errorf("Expected empty known_hosts to load, got %v", err)
	}
}

func TestUploadFileValidation(t *testing.T) {
	ctx := context.Background()

	const (
		testHost = "127.0.0.1"
		testUser = "test-user"
		testPass = "test-pass"
		testFile = "test.txt"
	)

	local := filepath.Join(t.TempDir(), testFile)
	if err := os.WriteFile(local, []byte("COURSE_ID\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name           string
		cfg            Config
		localPath      string
		remoteFileName string
		errorContains  string
	}{
		{
			name:           "Missing credentials",
			cfg:            Config{},
			localPath:      local,
			remoteFileName: testFile,
			errorContains:  "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS",
		},
		{
			name:           "Non-existent local file",
			cfg:            Config{Host: testHost, User: testUser, Pass: testPass, InsecureIgnoreHostKey: true},
			localPath:      filepath.Join(t.TempDir(), "non_existent_file.txt"),
			remoteFileName: testFile,
			errorContains:  "sftp: open local file",
		},
		{
			name:           "No host key policy",
			cfg:            Config{Host: testHost, User: testUser, Pass: testPass},
			localPath:      local,
			remoteFileName: testFile,
			errorContains:  "host key verification",
		},
		{
			name:           "Nothing listening",
			cfg:            Config{Host: testHost, Port: 1, User: testUser, Pass: testPass, InsecureIgnoreHostKey: true},
			localPath:      local,
			remoteFileName: testFile,
			errorContains:  "sftp: dial error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UploadFile(ctx, tc.cfg, tc.localPath, tc.remoteFileName)
			if err == nil {
				t.Fatalf("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("Expected error to contain %q, got %q", tc.errorContains, err.Error())
			}
		})
	}
}

func TestUploadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Host: "192.0.2.1", User: "u", Pass: "p", InsecureIgnoreHostKey: true}
	err := Upload(ctx, cfg, strings.NewReader("x"), "x.csv")
	if err == nil || !strings.Contains(err.Error(), "dial canceled") {
		t.Errorf("Expected dial canceled, got %v", err)
	}
}
