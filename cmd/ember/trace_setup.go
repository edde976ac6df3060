package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ember/internal/trace"
)

// setupTracing reads the --trace-* persistent flags, builds a trace.Tracer,
// attaches it to ctx, and wires a signal handler that dumps the ring buffer
// (if any) before the process exits on SIGINT/SIGTERM. It returns the
// context carrying the tracer and a cleanup closure that stops the
// heartbeat, unregisters the signal handler, and flushes/closes the tracer.
func setupTracing(cmd *cobra.Command, ctx context.Context) (context.Context, func(), error) {
	tracer, err := buildTracer(cmd)
	if err != nil {
		return ctx, nil, err
	}
	ctx = trace.WithTracer(ctx, tracer)

	var heartbeat *trace.Heartbeat
	if tracer.Enabled() {
		secs, err := cmd.Root().PersistentFlags().GetInt("trace-heartbeat")
		if err == nil && secs > 0 {
			heartbeat = trace.StartHeartbeat(tracer, time.Duration(secs)*time.Second)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			dumpRingOnSignal(tracer)
			heartbeat.Stop()
			_ = tracer.Close()
			if sig == syscall.SIGINT {
				os.Exit(130)
			}
			os.Exit(143)
		case <-done:
		}
	}()

	cleanup := func() {
		close(done)
		signal.Stop(sigCh)
		heartbeat.Stop()
		_ = tracer.Flush()
		_ = tracer.Close()
	}
	return ctx, cleanup, nil
}

// buildTracer turns the --trace-* persistent flags into a trace.Tracer,
// defaulting to a disabled tracer so untraced commands pay no overhead.
func buildTracer(cmd *cobra.Command) (trace.Tracer, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		return trace.New(trace.Config{Level: trace.LevelOff})
	}

	modeStr, err := cmd.Root().PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	output, err := cmd.Root().PersistentFlags().GetString("trace-output")
	if err != nil {
		return nil, err
	}
	ringSize, err := cmd.Root().PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, err
	}

	return trace.New(trace.Config{Level: level, Mode: mode, OutputPath: output, RingSize: ringSize})
}

// findRingTracer unwraps t looking for a *trace.RingTracer, either directly
// or nested inside a *trace.MultiTracer.
func findRingTracer(t trace.Tracer) *trace.RingTracer {
	switch tr := t.(type) {
	case *trace.RingTracer:
		return tr
	case *trace.MultiTracer:
		for _, inner := range tr.Tracers() {
			if rt, ok := inner.(*trace.RingTracer); ok {
				return rt
			}
		}
	}
	return nil
}

// dumpRingOnSignal writes the ring tracer's buffered events to a sibling
// dump file so a hang can be diagnosed after the fact.
func dumpRingOnSignal(t trace.Tracer) {
	rt := findRingTracer(t)
	if rt == nil {
		return
	}
	path := generateDumpPath("signal")
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: failed to write trace dump: %v\n", err)
		return
	}
	defer f.Close()
	if err := rt.Dump(f, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "ember: failed to write trace dump: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "ember: trace dump written to %s\n", path)
}

// generateDumpPath derives a trace dump file name for the given reason,
// falling back to a bare "ember.<reason>.trace" in the working directory.
func generateDumpPath(reason string) string {
	base := "ember"
	if exe, err := os.Executable(); err == nil {
		base = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	}
	return fmt.Sprintf("%s.%s.trace", base, reason)
}
