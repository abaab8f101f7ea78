package js

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRuntimeBasic(t *testing.T) {
	r := NewRuntime(nil)

	result, err := r.Execute("1 + 2")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 3 {
		t.Errorf("Expected 3, got %v", result.ToInteger())
	}
}

func TestRuntimeFunctions(t *testing.T) {
	r := NewRuntime(nil)

	_, err := r.Execute(`
		function add(a, b) {
			return a + b;
		}
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	result, err := r.Execute("add(3, 4)")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 7 {
		t.Errorf("Expected 7, got %v", result.ToInteger())
	}
}

func TestRuntimeConsole(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRuntime(log)

	_, err := r.Execute(`
		console.log("hello", 42, null);
		console.warn("careful");
		console.debug("details");
		console.assert(1 === 2, "math is broken");
		console.count("x");
		console.count("x");
	`)
	if err != nil {
		t.Fatalf("console methods failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`level=INFO msg="hello 42 null" source=console`,
		`level=WARN msg=careful`,
		`level=DEBUG msg=details`,
		`level=ERROR msg="math is broken"`,
		`msg="x: 2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestRuntimeErrorHandling(t *testing.T) {
	r := NewRuntime(nil)

	var seen []error
	r.SetOnError(func(err error) { seen = append(seen, err) })

	_, err := r.Execute("this is not valid javascript")
	if err == nil {
		t.Error("Expected error for invalid JavaScript")
	}

	errors := r.Errors()
	if len(errors) != 1 || len(seen) != 1 {
		t.Errorf("Expected one recorded error, got %d (callback saw %d)", len(errors), len(seen))
	}

	r.ClearErrors()
	if n := len(r.Errors()); n != 0 {
		t.Errorf("Expected errors to be cleared, got %d", n)
	}
}

func TestRuntimeGlobalThis(t *testing.T) {
	r := NewRuntime(nil)

	result, err := r.Execute("typeof globalThis.console")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "object" {
		t.Errorf("Expected console on globalThis, got %v", result.String())
	}
}

func TestRuntimeExecuteScript(t *testing.T) {
	r := NewRuntime(nil)

	if err := r.ExecuteScript(`var loaded = true;`, "setup.js"); err != nil {
		t.Fatalf("ExecuteScript failed: %v", err)
	}
	result, err := r.Execute("loaded")
	if err != nil || !result.ToBoolean() {
		t.Errorf("script globals not visible: %v, %v", result, err)
	}

	err = r.ExecuteScript(`throw new Error("boom")`, "broken.js")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected boom error, got %v", err)
	}

	// the runtime stays usable after an error
	result, err = r.Execute("1 + 1")
	if err != nil || result.ToInteger() != 2 {
		t.Errorf("runtime unusable after error: %v, %v", result, err)
	}
}
