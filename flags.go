package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type options struct {
	configPath  string
	top         int
	style       string
	info        string
	stats       bool
	socket      string
	metricsAddr string
	logLevel    string
	logFormat   string
}

// parseFlags reads the command line. exit is true when the caller should
// stop without error, after -h or a bare invocation.
func parseFlags(args []string, output io.Writer) (opts options, exit bool, err error) {
	fs := flag.NewFlagSet("ordnance", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
Ordnance - missile design-space optimizer.

Usage:
  ordnance [options] SEARCH_FILE
  ordnance -socket PATH [-metrics-addr ADDR]

Options:
`)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to the HCL search file.")
	fs.IntVar(&opts.top, "top", 0, "Number of designs to list. 0 keeps the file's setting.")
	fs.StringVar(&opts.style, "style", "summary", "Design rendering. Options: 'summary' or 'card'.")
	fs.StringVar(&opts.info, "info", "", "Expression printed under each design, e.g. 'Cth(100000.0)'.")
	fs.BoolVar(&opts.stats, "stats", false, "Print enumeration statistics after the listing.")
	fs.StringVar(&opts.socket, "socket", "", "Serve search requests on this unix socket instead of running one search.")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint in service mode.")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, true, nil
		}
		return opts, false, err
	}

	if opts.configPath == "" && fs.NArg() > 0 {
		opts.configPath = fs.Arg(0)
	}
	if opts.configPath == "" && opts.socket == "" {
		fs.Usage()
		return opts, true, nil
	}
	if opts.top < 0 {
		return opts, false, fmt.Errorf("invalid top: %d", opts.top)
	}

	opts.logFormat = strings.ToLower(opts.logFormat)
	if opts.logFormat != "text" && opts.logFormat != "json" {
		return opts, false, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	opts.logLevel = strings.ToLower(opts.logLevel)
	return opts, false, nil
}

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
