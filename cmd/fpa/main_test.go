package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carbocation/fpa"
)

func newFS(out *bytes.Buffer) *flag.FlagSet {
	fs := flag.NewFlagSet("fpa", flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func mustParse(t *testing.T, args ...string) config {
	t.Helper()
	var out bytes.Buffer
	cfg, err := parseArgs(newFS(&out), args)
	if err != nil {
		t.Fatalf("parse err: %v\n%s", err, out.String())
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := mustParse(t)
	if cfg.In != "In_FPA.txt" || cfg.Out != "Out_FPA.txt" || cfg.MinNc != 20.0 || cfg.CV != 5.991 {
		t.Errorf("Got %+v", cfg)
	}
	if cfg.Strict || cfg.DB != "" || cfg.Threads != 0 {
		t.Errorf("Optional features should be off by default, got %+v", cfg)
	}
}

func TestAnalysisOptions(t *testing.T) {
	cfg := mustParse(t, "-in", "a.txt", "-out", "b.txt", "-min_Nc", "12.5", "-cv", "3.84")
	if cfg.In != "a.txt" || cfg.Out != "b.txt" || cfg.MinNc != 12.5 || cfg.CV != 3.84 {
		t.Errorf("Got %+v", cfg)
	}
}

func TestHelpPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs(newFS(&out), []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Got %v, expected flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "USAGE:") || !strings.Contains(out.String(), "-min_Nc") {
		t.Errorf("Usage text missing:\n%s", out.String())
	}
}

func TestUnknownOption(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs(newFS(&out), []string{"-bogus"})
	if err == nil {
		t.Fatalf("Expected an error for an unknown option")
	}
	if !strings.Contains(out.String(), "-bogus") || !strings.Contains(out.String(), "USAGE:") {
		t.Errorf("Expected the option and the usage text:\n%s", out.String())
	}
}

func TestConfigFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fpa.yaml")
	conf := "in: from_config.txt\nmin_Nc: 10\ncv: 2.5\nstrict: true\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FPA_THREADS", "3")

	cfg := mustParse(t, "-config", path, "-cv", "7")

	if cfg.In != "from_config.txt" || cfg.MinNc != 10 || !cfg.Strict {
		t.Errorf("Config file values not applied: %+v", cfg)
	}
	if cfg.CV != 7 {
		t.Errorf("Explicit flag should win over the config file, got cv %v", cfg.CV)
	}
	if cfg.Threads != 3 {
		t.Errorf("Environment not applied, got threads %d", cfg.Threads)
	}
	if cfg.Out != "Out_FPA.txt" {
		t.Errorf("Unset option lost its default: %q", cfg.Out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	var out bytes.Buffer
	if _, err := parseArgs(newFS(&out), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Errorf("Expected an error for a missing config file")
	}
}

const runInput = "scaffold site ref_nuc " +
	"n1 n2 cov Nc p q err H ll n1 n2 cov Nc p q err H ll\n" +
	"scaf1 100 A A NA 30 25 0.9 0.0 0.01 0.0 0.0 T NA 30 22 0.8 0.0 0.01 0.0 0.0\n" +
	"scaf1 101 A A NA 30 25 1.0 0.0 0.01 0.0 0.0 A NA 30 22 1.0 0.0 0.01 0.0 0.0\n" +
	"scaf1 102 G G NA 9 15 1.0 0.0 0.01 0.0 0.0 C NA 30 22 1.0 0.0 0.01 0.0 0.0\n"

func TestRun(t *testing.T) {
	now = func() time.Time { return time.Unix(1637150400, 0) }
	defer func() { now = time.Now }()

	dir := t.TempDir()
	in := filepath.Join(dir, "In_FPA.txt")
	if err := os.WriteFile(in, []byte(runInput), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := mustParse(t,
		"-in", in,
		"-out", filepath.Join(dir, "Out_FPA.txt"),
		"-db", filepath.Join(dir, "pa.sqlite"),
		"-progress",
	)
	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.Out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, expected a header and 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "scaf1\t100\tA\t60\t2\t2\tA\t1\t0.900000\t0.450000\t") ||
		!strings.HasPrefix(lines[2], "scaf1\t100\tA\t60\t2\t2\tT\t2\t0.800000\t0.400000\t") {
		t.Errorf("Unexpected rows:\n%s", data)
	}

	idx, err := fpa.OpenIndex(cfg.DB)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	rows, err := idx.PrivateAlleles("")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("Got %d indexed rows, expected 2", len(rows))
	}
	if got := time.Time(idx.Metadata.IndexCreationTime).Unix(); got != 1637150400 {
		t.Errorf("IndexCreationTime: Got %d", got)
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := mustParse(t, "-in", filepath.Join(dir, "missing.txt"), "-out", filepath.Join(dir, "out.txt"))

	err := run(cfg)
	if err == nil || !strings.Contains(err.Error(), "Cannot open") {
		t.Errorf("Got %v, expected a failure to open the input", err)
	}
	if _, statErr := os.Stat(cfg.Out); !os.IsNotExist(statErr) {
		t.Errorf("Output should not be created when the input cannot be opened")
	}
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte(runInput), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := mustParse(t, "-in", in, "-out", filepath.Join(dir, "no", "such", "dir", "out.txt"))

	if err := run(cfg); err == nil || !strings.Contains(err.Error(), "Cannot open") {
		t.Errorf("Got %v, expected a failure to open the output", err)
	}
}
