package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nstehr/ordnance/model"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit bool
		wantErr  bool
		check    func(t *testing.T, o options)
	}{
		{name: "positional file", args: []string{"-top", "3", "ship.hcl"}, check: func(t *testing.T, o options) {
			if o.configPath != "ship.hcl" || o.top != 3 {
				t.Errorf("options = %+v", o)
			}
		}},
		{name: "config flag wins", args: []string{"-config", "a.hcl", "b.hcl"}, check: func(t *testing.T, o options) {
			if o.configPath != "a.hcl" {
				t.Errorf("config = %q, want a.hcl", o.configPath)
			}
		}},
		{name: "service mode", args: []string{"-socket", "/tmp/x.sock", "-log-format", "JSON"}, check: func(t *testing.T, o options) {
			if o.socket != "/tmp/x.sock" || o.logFormat != "json" {
				t.Errorf("options = %+v", o)
			}
		}},
		{name: "bare invocation", args: nil, wantExit: true},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "bad format", args: []string{"-log-format", "xml", "a.hcl"}, wantErr: true},
		{name: "negative top", args: []string{"-top", "-1", "a.hcl"}, wantErr: true},
		{name: "unknown flag", args: []string{"-warp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, exit, err := parseFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if exit != tt.wantExit {
				t.Errorf("exit = %v, want %v", exit, tt.wantExit)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		l := newLogger(tt.level, "text", io.Discard)
		if !l.Enabled(context.Background(), tt.want) {
			t.Errorf("%s: level %v disabled", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && l.Enabled(context.Background(), tt.want-4) {
			t.Errorf("%s: level below %v enabled", tt.level, tt.want)
		}
	}

	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json logger wrote %q", buf.String())
	}
}

func TestRunSearch(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("examples", "ship-killer.hcl"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ship-killer.hcl")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	opts := options{configPath: path, top: 2, style: "card", info: "MR()", stats: true}
	if err := runSearch(opts, &out); err != nil {
		t.Fatalf("runSearch: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Warhead candidates: 2\n",
		"MR candidates: 14\n",
		"candidates:\n\n",
		"Missile Size: 12 MSP",
		"5k km/s 45.8%",
		"  MR() = 20\n",
		"accepted: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "Missile Size:"); n != 2 {
		t.Errorf("listed %d designs, want 2", n)
	}
}

func TestRunSearchErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join("examples", "ship-killer.hcl")
	tests := []struct {
		name string
		opts options
	}{
		{"missing file", options{configPath: filepath.Join(dir, "nope.hcl")}},
		{"bad style", options{configPath: good, style: "poster"}},
		{"bad info", options{configPath: good, info: "Armor()"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runSearch(tt.opts, io.Discard); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInfoLine(t *testing.T) {
	info, err := infoLine("")
	if err != nil || info != nil {
		t.Fatalf("empty expression = %p, %v; want nil", info, err)
	}
	info, err = infoLine("Size() * 5")
	if err != nil {
		t.Fatalf("infoLine: %v", err)
	}
	m := model.Missile{WarheadMSP: 1, FuelMSP: 0.5}
	if got := info(m); got != "Size() * 5 = 7.5" {
		t.Errorf("info = %q", got)
	}
}
