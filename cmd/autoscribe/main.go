package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/internal/locker"
	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/media"
	"github.com/autoscribe-io/autoscribe/internal/probe"
	"github.com/autoscribe-io/autoscribe/internal/processor"
	"github.com/autoscribe-io/autoscribe/internal/repetition"
	"github.com/autoscribe-io/autoscribe/internal/scanner"
	"github.com/autoscribe-io/autoscribe/internal/scheduler"
	"github.com/autoscribe-io/autoscribe/internal/summarizer"
	"github.com/autoscribe-io/autoscribe/internal/watcher"
	"github.com/autoscribe-io/autoscribe/pkg/executor"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	monitorDir := flag.String("dir", "", "override the monitored root directory")
	showQueue := flag.Bool("queue", false, "list pending files and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *monitorDir != "" {
		cfg.Monitor.Root = *monitorDir
	}

	log := logger.NewWithSink(cfg.Logging)

	// The monitored root must exist before anything else starts.
	fi, err := os.Stat(cfg.Monitor.Root)
	if err != nil {
		log.Error(ctx, "Monitored root inaccessible: %v", err)
		return 1
	}
	if !fi.IsDir() {
		log.Error(ctx, "Monitored root is not a directory: %s", cfg.Monitor.Root)
		return 1
	}

	scan := scanner.New(cfg.Monitor, log)

	if *showQueue {
		items, err := scan.Scan(ctx)
		if err != nil {
			log.Error(ctx, "Scan failed: %v", err)
			return 1
		}
		scan.LogQueue(ctx, items)
		return 0
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "autoscribe: unattended transcription")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Monitoring: %s (recursive: %v)", cfg.Monitor.Root, cfg.Monitor.Recursive)
	log.Info(ctx, "Language: %s, model: %s", cfg.Whisper.Language, cfg.Whisper.Model)
	log.Info(ctx, "Max concurrent pipelines: %d", cfg.Workers.MaxConcurrent)

	locks, err := locker.New(cfg.Locks.Dir, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize lock manager: %v", err)
		return 1
	}
	// Leftover markers belong to a previous unclean shutdown.
	if err := locks.SweepStale(ctx); err != nil {
		log.Error(ctx, "Failed to sweep stale locks: %v", err)
		return 1
	}

	exec := executor.New()
	prober := probe.New(cfg, exec)
	detector := repetition.New(cfg.Repetition)

	var summ summarizer.Summarizer
	if cfg.Summary.Enabled() {
		summ = summarizer.New(cfg.Summary, log)
		log.Info(ctx, "Post-transcription summaries enabled (%s)", cfg.Summary.Model)
	}

	proc := processor.New(cfg, exec, prober, detector, locks, summ, log)

	sched := scheduler.New(cfg.Workers.MaxConcurrent, proc, log)

	w, err := watcher.New(cfg.Monitor, func(ctx context.Context, item media.Item) error {
		return sched.Submit(ctx, item)
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to establish file watch: %v", err)
		return 1
	}
	defer w.Stop()

	// Admission (watcher, backlog) is cancelled on the first shutdown
	// signal; in-flight executions keep running until the grace deadline,
	// which the scheduler enforces itself.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched.Start(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	// Feed the backlog through the same admission path as live events.
	go func() {
		items, err := scan.Scan(ctx)
		if err != nil {
			errChan <- err
			return
		}
		scan.LogQueue(ctx, items)
		for _, item := range items {
			if err := sched.Submit(ctx, item); err != nil {
				return
			}
		}
	}()

	log.Info(ctx, "Pipeline is ready, press Ctrl+C to stop")

	exitCode := 0
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Fatal: %v", err)
		exitCode = 1
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()
	stats := sched.Shutdown(cfg.Workers.ShutdownGrace.Std())

	log.Info(ctx, "Done: %d completed, %d skipped, %d failed", stats.Completed, stats.Skipped, stats.Failed)
	return exitCode
}
