// Command selectron loads an HTML, Markdown, Word or PDF document, places a
// selection in it and prints what the selectron derives from it as JSON. With
// -op check it runs check scripts against the document instead, and with
// -serve it answers the same questions over HTTP.
//
// Node paths are child indexes joined by "/" and are relative to the document
// body. A boundary is a path followed by ":" and a local offset.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chrisuehlinger/selectron/check"
	"github.com/chrisuehlinger/selectron/html"
	"github.com/chrisuehlinger/selectron/inspect"
	"github.com/chrisuehlinger/selectron/network"
)

type options struct {
	file      string
	scope     string
	start     string
	end       string
	ref       string
	offset    int
	selector  string
	partly    bool
	countAll  bool
	op        string
	strip     bool
	jsonOut   bool
	logLevel  string
	logFormat string
	timeout   time.Duration
	serve     string
	scripts   []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("selectron", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.file, "file", "", "Document path, http(s) URL or data URL (.html, .md, .docx or .pdf)")
	fs.StringVar(&opts.scope, "scope", "", "Path of the scope element (default: the body)")
	fs.StringVar(&opts.start, "start", "", "Selection start as path:offset")
	fs.StringVar(&opts.end, "end", "", "Selection end as path:offset (default: collapsed at start)")
	fs.StringVar(&opts.ref, "ref", "", "Path of the node to count up to (count)")
	fs.IntVar(&opts.offset, "offset", 0, "Linear offset to resolve (uncount)")
	fs.StringVar(&opts.selector, "selector", "", "CSS selector for contained (default: sections)")
	fs.BoolVar(&opts.partly, "partly", true, "Accept partly contained nodes (contained)")
	fs.BoolVar(&opts.countAll, "count-all", false, "Count every node instead of sections and text")
	fs.StringVar(&opts.op, "op", "positions", "Operation: count, uncount, positions, contained, styles or check")
	fs.BoolVar(&opts.strip, "strip", true, "Drop formatting whitespace when parsing HTML")
	fs.BoolVar(&opts.jsonOut, "json", false, "Output check results as JSON")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for loading and checks")
	fs.StringVar(&opts.serve, "serve", "", "Serve the HTTP API on this address instead (e.g. :8080)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: selectron -file <document> [options] [check-script...]\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  selectron -file page.html -start 0/0:2 -end 1/0:3\n")
		fmt.Fprintf(stderr, "  selectron -file notes.md -op uncount -offset 12\n")
		fmt.Fprintf(stderr, "  selectron -file page.html -op check checks/count.js\n")
		fmt.Fprintf(stderr, "  selectron -serve :8080\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	opts.scripts = fs.Args()
	if opts.file == "" && opts.serve == "" {
		fs.Usage()
		return 2
	}

	log, err := newLogger(stderr, opts.logFormat, opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	loader, err := newDocumentLoader(opts, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.serve != "" {
		if err := serve(opts.serve, loader, opts.timeout, log); err != nil {
			log.Error("server error", "error", err)
			return 1
		}
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if opts.op == "check" {
		return runChecks(ctx, loader, opts, log, stdout)
	}

	out, err := inspect.Do(ctx, loader, inspect.Request{
		File:     opts.file,
		Op:       opts.op,
		Scope:    opts.scope,
		Start:    opts.start,
		End:      opts.end,
		Ref:      opts.ref,
		Offset:   opts.offset,
		Selector: opts.selector,
		Partly:   opts.partly,
		CountAll: opts.countAll,
	}, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func newDocumentLoader(opts options, log *slog.Logger) (*network.DocumentLoader, error) {
	client, err := network.NewClient(network.WithTimeout(opts.timeout))
	if err != nil {
		return nil, err
	}
	loader := network.NewLoader(client,
		network.WithCache(network.NewCache(0)),
		network.WithLogger(log),
	)
	return network.NewDocumentLoader(loader, html.ParseOptions{StripFormatting: opts.strip}), nil
}

func runChecks(ctx context.Context, loader *network.DocumentLoader, opts options, log *slog.Logger, stdout io.Writer) int {
	runner := check.NewRunner(loader, log)
	runner.Timeout = opts.timeout
	result := runner.Run(ctx, opts.file, opts.scripts...)

	if opts.jsonOut {
		data, err := runner.ExportJSON()
		if err != nil {
			log.Error("exporting results", "error", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		printResult(stdout, result)
		passed, failed := runner.Summary()
		fmt.Fprintf(stdout, "\nSummary: %d passed, %d failed\n", passed, failed)
	}

	if _, failed := runner.Summary(); failed > 0 {
		return 1
	}
	return 0
}

func printResult(w io.Writer, result check.SuiteResult) {
	fmt.Fprintf(w, "%s (%s, %.2fs)\n", result.File, result.HarnessStatus, result.Duration.Seconds())
	if result.Error != "" {
		fmt.Fprintf(w, "  ERROR: %s\n", result.Error)
	}
	for _, test := range result.Tests {
		fmt.Fprintf(w, "  %s %s\n", statusSymbol(test.Status), test.Name)
		if test.Message != "" && test.Status != check.StatusPass {
			for _, line := range strings.Split(test.Message, "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
}

func statusSymbol(status check.TestStatus) string {
	switch status {
	case check.StatusPass:
		return "✓"
	case check.StatusFail:
		return "✗"
	case check.StatusTimeout:
		return "⏱"
	default:
		return "!"
	}
}
