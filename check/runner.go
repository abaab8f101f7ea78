// Package check runs check scripts against documents. A check script uses
// test() and the assert_* functions with the document and selectron globals
// of the js package, and each test() call becomes one result.
package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/js"
	"github.com/chrisuehlinger/selectron/network"
	"github.com/chrisuehlinger/selectron/selectron"
	"github.com/dop251/goja"
)

// TestResult is the result of one test() call.
type TestResult struct {
	Name    string
	Status  TestStatus
	Message string
}

// TestStatus represents the status of a test.
type TestStatus int

const (
	StatusPass TestStatus = iota
	StatusFail
	StatusTimeout
	StatusError
)

// SuiteResult is the result of running the checks for one document.
type SuiteResult struct {
	File          string
	HarnessStatus string
	Tests         []TestResult
	Duration      time.Duration
	Error         string
}

// Runner runs check scripts against documents.
type Runner struct {
	Results []SuiteResult
	Timeout time.Duration // per document

	loader *network.DocumentLoader
	log    *slog.Logger
}

// NewRunner creates a runner that loads documents with loader. A nil logger
// discards output.
func NewRunner(loader *network.DocumentLoader, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		Timeout: 30 * time.Second,
		loader:  loader,
		log:     log,
	}
}

// RunFile loads the document at docRef and runs its embedded scripts followed
// by the scripts at scriptRefs. The selectron is scoped to the document body
// and starts without a selection.
func (r *Runner) RunFile(ctx context.Context, docRef string, scriptRefs ...string) SuiteResult {
	start := time.Now()
	result := SuiteResult{File: docRef}
	fail := func(status, format string, args ...any) SuiteResult {
		result.HarnessStatus = status
		result.Error = fmt.Sprintf(format, args...)
		result.Duration = time.Since(start)
		r.log.Warn("check failed", "file", docRef, "status", status, "error", result.Error)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	doc, err := r.loader.Load(ctx, docRef)
	if err != nil {
		return fail("ERROR", "failed to load document: %v", err)
	}
	scripts := doc.Scripts
	for _, ref := range scriptRefs {
		script, err := r.loader.LoadScript(ctx, ref)
		if err != nil {
			return fail("ERROR", "failed to load script: %v", err)
		}
		scripts = append(scripts, script)
	}

	runtime := js.NewRuntime(r.log.With("file", docRef))
	harness := NewHarness(runtime)
	if err := harness.Setup(); err != nil {
		return fail("ERROR", "failed to set up harness: %v", err)
	}
	binder := js.NewBinder(runtime)
	binder.BindDocument(doc.Root)
	sel := dom.NewSelection()
	binder.BindSelection(sel)
	binder.BindSelectron(selectron.New(sel,
		selectron.WithElement(doc.Body),
		selectron.WithLogger(r.log),
	))

	stop := context.AfterFunc(ctx, func() {
		runtime.VM().Interrupt("check timed out")
	})
	defer stop()

	for i, script := range scripts {
		name := script.URL
		if script.Inline {
			name = fmt.Sprintf("%s#script%d", docRef, i)
		}
		if err := runtime.ExecuteScript(script.Content, name); err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				result.Tests = harness.Results()
				return fail("TIMEOUT", "%s: %v", name, err)
			}
			result.Tests = harness.Results()
			return fail("ERROR", "%s: %v", name, err)
		}
	}

	result.Tests = harness.Results()
	result.HarnessStatus = "OK"
	result.Duration = time.Since(start)
	r.log.Debug("checks finished", "file", docRef, "tests", len(result.Tests), "duration", result.Duration)
	return result
}

// Run runs RunFile and records the result.
func (r *Runner) Run(ctx context.Context, docRef string, scriptRefs ...string) SuiteResult {
	result := r.RunFile(ctx, docRef, scriptRefs...)
	r.Results = append(r.Results, result)
	return result
}

// Summary counts the recorded test results. Suites that failed before
// reporting any test count as one failure.
func (r *Runner) Summary() (passed, failed int) {
	for _, suite := range r.Results {
		if suite.HarnessStatus != "OK" && len(suite.Tests) == 0 {
			failed++
		}
		for _, test := range suite.Tests {
			if test.Status == StatusPass {
				passed++
			} else {
				failed++
			}
		}
	}
	return
}

// JSONResult is the exported form of a SuiteResult.
type JSONResult struct {
	File     string        `json:"file"`
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration int64         `json:"duration"`
	Subtests []JSONSubtest `json:"subtests"`
}

// JSONSubtest is the exported form of a TestResult.
type JSONSubtest struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// JSON returns the exported form of the suite.
func (suite SuiteResult) JSON() JSONResult {
	jr := JSONResult{
		File:     suite.File,
		Status:   suite.HarnessStatus,
		Message:  suite.Error,
		Duration: suite.Duration.Milliseconds(),
		Subtests: make([]JSONSubtest, 0, len(suite.Tests)),
	}
	for _, test := range suite.Tests {
		jr.Subtests = append(jr.Subtests, JSONSubtest{
			Name:    test.Name,
			Status:  test.Status.String(),
			Message: test.Message,
		})
	}
	return jr
}

// ExportJSON exports the recorded results as indented JSON.
func (r *Runner) ExportJSON() ([]byte, error) {
	results := make([]JSONResult, 0, len(r.Results))
	for _, suite := range r.Results {
		results = append(results, suite.JSON())
	}
	return json.MarshalIndent(results, "", "  ")
}

func (s TestStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
