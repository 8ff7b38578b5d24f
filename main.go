package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/ordnance/agent"
	"github.com/nstehr/ordnance/config"
	"github.com/nstehr/ordnance/metrics"
	"github.com/nstehr/ordnance/model"
	"github.com/nstehr/ordnance/optimizer"
	"github.com/nstehr/ordnance/report"
)

const banner = `
  ___  ___ ___  _  _   _   _  _  ___ ___
 / _ \| _ \   \| \| | /_\ | \| |/ __| __|
| (_) |   / |) | .  |/ _ \| .  | (__| _|
 \___/|_|_\___/|_|\_/_/ \_\_|\_|\___|___|

Missile Design-Space Optimizer`

func main() {
	opts, exit, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if exit {
		return
	}

	slog.SetDefault(newLogger(opts.logLevel, opts.logFormat, os.Stderr))

	if opts.socket == "" {
		if err := runSearch(opts, os.Stdout); err != nil {
			slog.Error("search failed", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(os.Stderr, banner)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, opts); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

// runSearch loads one search file, runs it and writes the listing to w.
func runSearch(opts options, w io.Writer) error {
	s, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.top > 0 {
		s.Top = opts.top
	}
	style, err := report.ParseStyle(opts.style)
	if err != nil {
		return err
	}
	info, err := infoLine(opts.info)
	if err != nil {
		return err
	}

	opt, key, err := s.Build()
	if err != nil {
		return err
	}
	start := time.Now()
	top, err := opt.TopCandidates(key, !s.Ascending, s.Top)
	if err != nil {
		return fmt.Errorf("search %s: %w", opts.configPath, err)
	}
	stats := opt.Stats()
	slog.Info("search finished",
		"file", opts.configPath,
		"candidates", stats.Accepted,
		"elapsed", time.Since(start),
	)

	listing := report.Listing{
		Counts:  opt.CandidateCounts(),
		Total:   stats.Accepted,
		Designs: top,
		Style:   style,
		Info:    info,
	}
	if _, err := listing.WriteTo(w); err != nil {
		return err
	}
	if opts.stats {
		_, err = io.WriteString(w, report.Stats(stats))
	}
	return err
}

// infoLine turns an -info expression into a per-design annotation.
func infoLine(src string) (func(model.Missile) string, error) {
	if src == "" {
		return nil, nil
	}
	key, err := optimizer.CompileKeys([]string{src})
	if err != nil {
		return nil, fmt.Errorf("info expression: %w", err)
	}
	return func(m model.Missile) string {
		vals, err := key(m)
		if err != nil {
			return fmt.Sprintf("%s: %v", src, err)
		}
		return fmt.Sprintf("%s = %v", src, model.Round(vals[0], model.Precision))
	}, nil
}

// serve answers search requests on a unix socket until ctx is done.
func serve(ctx context.Context, opts options) error {
	slog.Info("starting ordnance")

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("serving metrics", "addr", opts.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(opts.socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", opts.socket, err)
	}

	listener, err := net.Listen("unix", opts.socket)
	if err != nil {
		return fmt.Errorf("listen on socket %s: %w", opts.socket, err)
	}
	defer os.Remove(opts.socket)

	slog.Info("listening on domain socket", "path", opts.socket)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				slog.Info("shutting down")
				return nil
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go agent.Serve(conn, collector)
	}
}
