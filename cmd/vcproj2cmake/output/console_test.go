package output

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type fakeTTY struct{ tty bool }

func (f fakeTTY) IsTTY(io.Writer) bool { return f.tty }

func TestConsole_Printf(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, VerbosityNormal)
	c.Printf("Wrote %s\n", "CMakeLists.txt")
	if got := out.String(); got != "Wrote CMakeLists.txt\n" {
		t.Errorf("Printf() = %q, want %q", got, "Wrote CMakeLists.txt\n")
	}
}

func TestConsole_QuietSuppressesReports(t *testing.T) {
	var out, errBuf bytes.Buffer
	c := NewConsole(&out, &errBuf, VerbosityQuiet)
	c.SetColors(false)
	c.Printf("Wrote %s\n", "CMakeLists.txt")
	c.Warning("ignored")
	c.Info("ignored")
	c.Error("still shown")
	if out.Len() != 0 {
		t.Errorf("quiet console wrote to stdout: %q", out.String())
	}
	if !strings.Contains(errBuf.String(), "Error: still shown") {
		t.Errorf("Error() output = %q", errBuf.String())
	}
}

func TestConsole_Error(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	c := NewConsole(&outBuf, &errBuf, VerbosityNormal)
	c.SetColors(false)
	c.Error("conversion of %s failed", "app.vcproj")
	if got := errBuf.String(); got != "Error: conversion of app.vcproj failed\n" {
		t.Errorf("Error() = %q", got)
	}
	if outBuf.Len() != 0 {
		t.Errorf("Error() wrote to stdout: %q", outBuf.String())
	}
}

func TestConsole_Warning(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, VerbosityNormal)
	c.SetColors(false)
	c.Warning("%s lists no Visual C++ projects", "all.sln")
	if got := out.String(); got != "Warning: all.sln lists no Visual C++ projects\n" {
		t.Errorf("Warning() = %q", got)
	}
}

func TestConsole_VerbosityLevels(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  Verbosity
		wantDetail bool
		wantDebug  bool
	}{
		{"normal", VerbosityNormal, false, false},
		{"detailed", VerbosityDetailed, true, false},
		{"diagnostic", VerbosityDiagnostic, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConsole(&out, &out, tt.verbosity)
			c.SetColors(false)
			c.Detail("detail")
			c.Debug("debug")
			got := out.String()
			if strings.Contains(got, "detail") != tt.wantDetail {
				t.Errorf("Detail() shown = %v, want %v", !tt.wantDetail, tt.wantDetail)
			}
			if strings.Contains(got, "[DEBUG] debug") != tt.wantDebug {
				t.Errorf("Debug() shown = %v, want %v", !tt.wantDebug, tt.wantDebug)
			}
		})
	}
}

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in      string
		want    Verbosity
		wantErr bool
	}{
		{"quiet", VerbosityQuiet, false},
		{"q", VerbosityQuiet, false},
		{"minimal", VerbosityNormal, false},
		{"Normal", VerbosityNormal, false},
		{"", VerbosityNormal, false},
		{"detailed", VerbosityDetailed, false},
		{"diag", VerbosityDiagnostic, false},
		{"loud", VerbosityNormal, true},
	}
	for _, tt := range tests {
		got, err := ParseVerbosity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVerbosity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVerbosity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsColorEnabled(t *testing.T) {
	saved := DefaultTTYDetector
	defer func() { DefaultTTYDetector = saved }()

	DefaultTTYDetector = fakeTTY{tty: false}
	if IsColorEnabled(&bytes.Buffer{}) {
		t.Error("colors enabled for a non-terminal")
	}

	DefaultTTYDetector = fakeTTY{tty: true}
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	if !IsColorEnabled(&bytes.Buffer{}) {
		t.Error("colors disabled for a terminal")
	}

	t.Setenv("NO_COLOR", "1")
	if IsColorEnabled(&bytes.Buffer{}) {
		t.Error("NO_COLOR ignored")
	}

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	if IsColorEnabled(&bytes.Buffer{}) {
		t.Error("dumb terminal got colors")
	}
}
