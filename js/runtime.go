// Package js runs scripts against a content tree and a selectron. It uses
// the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// Runtime wraps a goja runtime. Scripts run one at a time.
type Runtime struct {
	vm      *goja.Runtime
	log     *slog.Logger
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime whose console writes to log. A nil logger
// discards console output.
func NewRuntime(log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Runtime{
		vm:     goja.New(),
		log:    log,
		errors: make([]error, 0),
	}
	r.setupConsole()
	r.vm.Set("globalThis", r.vm.GlobalObject())
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs code and returns the value of its last expression.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code named src in sloppy mode. Scripts that
// need strict mode should include a "use strict" directive.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.recordError(err)
	}
	return err
}

// recordError must be called with r.mu held.
func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.log.Warn("script error", "error", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole creates the console object. Each method logs at the matching
// slog level with the formatted arguments as the message.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"trace": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.log.Log(context.Background(), level, formatArgs(call.Arguments), "source", "console")
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			r.log.Error(msg, "source", "console")
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		counts[label]++
		r.log.Info(fmt.Sprintf("%s: %d", label, counts[label]), "source", "console")
		return goja.Undefined()
	})
	console.Set("countReset", func(call goja.FunctionCall) goja.Value {
		delete(counts, labelArg(call))
		return goja.Undefined()
	})

	times := make(map[string]time.Time)
	console.Set("time", func(call goja.FunctionCall) goja.Value {
		times[labelArg(call)] = time.Now()
		return goja.Undefined()
	})
	console.Set("timeEnd", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		if start, ok := times[label]; ok {
			r.log.Info(label, "source", "console", "elapsed", time.Since(start))
			delete(times, label)
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

func labelArg(call goja.FunctionCall) string {
	if len(call.Arguments) > 0 {
		return call.Arguments[0].String()
	}
	return "default"
}

// formatArgs formats console arguments for output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for console output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
