package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/milkminder/internal/config"
	"github.com/iwvelando/milkminder/internal/iofc"
	"github.com/iwvelando/milkminder/pkg/testutil"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name        string
		config      config.LoggingConfig
		override    string
		expectError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
		{"Log file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "milkminder.log")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			_ = logger.Sync()
		})
	}
}

func writeWorkbook(t *testing.T, cells map[string]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farm.xlsx")
	if err := os.WriteFile(path, testutil.WorkbookBytes(t, cells), 0600); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommandJSON(t *testing.T) {
	path := writeWorkbook(t, testutil.FarmCells())

	out, err := execute(t, "report", path, "--output-format", "json")
	if err != nil {
		t.Fatalf("report command error = %v", err)
	}

	var report iofc.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode report output: %v\n%s", err, out)
	}
	if report.MilkTotal != 1050 {
		t.Errorf("expected milk total 1050, got %v", report.MilkTotal)
	}
	if report.IOFCMonth != -1100 {
		t.Errorf("expected IOFC month -1100, got %v", report.IOFCMonth)
	}
	if len(report.Feed) != 1 || report.Feed[0].Type != "corn" {
		t.Errorf("unexpected feed lines: %+v", report.Feed)
	}
}

func TestReportCommandPretty(t *testing.T) {
	path := writeWorkbook(t, testutil.FarmCells())

	out, err := execute(t, "report", path)
	if err != nil {
		t.Fatalf("report command error = %v", err)
	}
	if !strings.Contains(out, "--- Results for 30 days ---") {
		t.Errorf("expected pretty header, got:\n%s", out)
	}
	if !strings.Contains(out, "1.050,00") {
		t.Errorf("expected Italian-formatted milk total, got:\n%s", out)
	}
}

func TestReportCommandErrors(t *testing.T) {
	cells := testutil.FarmCells()
	cells["B3"] = "mille"
	badHeader := writeWorkbook(t, cells)
	good := writeWorkbook(t, testutil.FarmCells())

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"Header not a number", []string{"report", badHeader}, "cell B3"},
		{"Unsupported extension", []string{"report", "farm.ods"}, "farm.ods"},
		{"Unknown output format", []string{"report", good, "--output-format", "yaml"}, "yaml"},
		{"Unknown sheet", []string{"report", good, "--sheet", "Dicembre"}, "Dicembre"},
		{"Missing argument", []string{"report"}, "arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if strings.TrimSpace(out) != "milkminder dev" {
		t.Errorf("expected \"milkminder dev\", got %q", out)
	}
}

func TestLoadServerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("address: 127.0.0.1:9000\nmaxUploadSize: 2M\n"), 0600); err != nil {
		t.Fatalf("failed to write server config: %v", err)
	}

	tests := []struct {
		name          string
		opts          serveOptions
		sheet         string
		expectAddress string
		expectSize    int64
		expectSheet   string
		expectError   bool
	}{
		{
			name:          "File values",
			opts:          serveOptions{configPath: path},
			expectAddress: "127.0.0.1:9000",
			expectSize:    2 * 1024 * 1024,
		},
		{
			name:          "Flag overrides",
			opts:          serveOptions{configPath: path, address: ":9090", maxUploadSize: "256K"},
			sheet:         "Foglio1",
			expectAddress: ":9090",
			expectSize:    256 * 1024,
			expectSheet:   "Foglio1",
		},
		{
			name:          "Missing file uses defaults",
			opts:          serveOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml")},
			expectAddress: ":8080",
			expectSize:    10 * 1024 * 1024,
		},
		{
			name:        "Invalid size",
			opts:        serveOptions{configPath: path, maxUploadSize: "lots"},
			expectError: true,
		},
		{
			name:        "Zero size",
			opts:        serveOptions{configPath: path, maxUploadSize: "0"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadServerConfig(tt.opts, config.WorkbookConfig{Sheet: tt.sheet})
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadServerConfig() error = %v", err)
			}
			if cfg.Address != tt.expectAddress {
				t.Errorf("expected address %s, got %s", tt.expectAddress, cfg.Address)
			}
			if cfg.UploadSizeBytes() != tt.expectSize {
				t.Errorf("expected upload size %d, got %d", tt.expectSize, cfg.UploadSizeBytes())
			}
			if cfg.Workbook.Sheet != tt.expectSheet {
				t.Errorf("expected sheet %q, got %q", tt.expectSheet, cfg.Workbook.Sheet)
			}
		})
	}
}
