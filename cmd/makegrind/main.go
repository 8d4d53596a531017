package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/makegrind/makegrind/pkg/config"
	"github.com/makegrind/makegrind/pkg/export"
	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/logging"
	"github.com/makegrind/makegrind/pkg/output"
	"github.com/makegrind/makegrind/pkg/report"
	"github.com/makegrind/makegrind/pkg/trace"
	"github.com/makegrind/makegrind/pkg/watcher"
	"github.com/makegrind/makegrind/pkg/web"
)

func main() {
	f := pflag.NewFlagSet("makegrind", pflag.ExitOnError)
	f.String("trace", ".", "Trace file, or directory to scan for profile files")
	f.StringSlice("reports", []string{"summary"}, fmt.Sprintf("Reports to generate %v", report.Names()))
	f.String("format", "console", "Output format: console, yaml, or json")
	f.String("callgrind", "", "Write a callgrind profile to this file")
	f.String("tracing", "", "Write a Chrome tracing profile to this file")
	f.StringSlice("targets", nil, "Waypoint target names for the path report")
	f.Int("entries", 10, "Maximum entries in top-N reports")
	f.Int("children", 5, "Maximum children listed per path step")
	f.String("prefix", "", "Directory prefix stripped from reported paths")
	f.Bool("web", false, "Serve reports over HTTP instead of printing")
	f.Int("port", 8080, "Port for the web server")
	f.Bool("watch", false, "Reload the trace when profile files change (web mode)")
	f.String("verbosity", "", "Log level: debug, info, warning, or error")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Verbosity, cfg.VerboseCnt)

	if cfg.WebMode {
		if err := runWeb(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	bg, err := trace.Load(cfg.Trace)
	if err != nil {
		return fmt.Errorf("loading trace %s: %w", cfg.Trace, err)
	}

	if cfg.Callgrind != "" {
		if err := exportTo(cfg.Callgrind, bg, export.Callgrind); err != nil {
			return fmt.Errorf("writing callgrind profile: %w", err)
		}
	}
	if cfg.Tracing != "" {
		if err := exportTo(cfg.Tracing, bg, export.ChromeTracing); err != nil {
			return fmt.Errorf("writing tracing profile: %w", err)
		}
	}

	opts := report.Options{
		MaxEntries: cfg.MaxEntries,
		Children:   cfg.Children,
		Prefix:     cfg.Prefix,
		Targets:    cfg.Targets,
	}
	reports := make([]report.Report, 0, len(cfg.Reports))
	for _, name := range cfg.Reports {
		r, err := report.New(name, bg, opts)
		if err != nil {
			return fmt.Errorf("building %s report: %w", name, err)
		}
		reports = append(reports, r)
	}

	switch cfg.Format {
	case "yaml":
		return output.WriteYAML(os.Stdout, reports...)
	case "json":
		return output.WriteJSON(os.Stdout, reports...)
	case "console":
		return output.PrintReports(os.Stdout, reports...)
	default:
		return fmt.Errorf("unknown format %q (expected console, yaml, or json)", cfg.Format)
	}
}

func exportTo(path string, bg *graph.BuildGraph, write func(*graph.BuildGraph, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(bg, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runWeb(cfg *config.Config) error {
	server := web.NewServer()

	// Load the trace in the background so the server is reachable
	// immediately; subscribers see the status flip once it is ready.
	go func() {
		server.PublishStatus("loading", fmt.Sprintf("loading trace from %s", cfg.Trace))
		bg, err := trace.Load(cfg.Trace)
		if err != nil {
			logging.Error("loading trace", "path", cfg.Trace, "error", err)
			server.PublishStatus("error", err.Error())
			return
		}
		server.SetGraph(bg)
	}()

	if cfg.Watch {
		tw, err := watcher.NewTraceWatcher(cfg.Trace, trace.ProfileName)
		if err != nil {
			return fmt.Errorf("creating trace watcher: %w", err)
		}
		if err := tw.Start(context.Background()); err != nil {
			return fmt.Errorf("starting trace watcher: %w", err)
		}
		defer tw.Stop()

		go func() {
			for event := range tw.Events() {
				logging.Info("trace changed, reloading", "files", len(event.Paths))
				server.PublishStatus("loading", "reloading trace")
				bg, err := trace.Load(cfg.Trace)
				if err != nil {
					logging.Error("reloading trace", "error", err)
					server.PublishStatus("error", err.Error())
					continue
				}
				server.SetGraph(bg)
			}
		}()
	}

	fmt.Printf("Serving reports on http://localhost:%d\n", cfg.Port)
	return server.Start(cfg.Port)
}
