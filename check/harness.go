package check

import (
	"github.com/chrisuehlinger/selectron/js"
	"github.com/dop251/goja"
)

// Harness collects the results reported by the script harness.
type Harness struct {
	runtime *js.Runtime
	results []TestResult
}

// NewHarness creates a harness for the runtime.
func NewHarness(runtime *js.Runtime) *Harness {
	return &Harness{runtime: runtime}
}

// Setup installs the result callback and the harness functions: test,
// assert_true, assert_false, assert_equals, assert_not_equals,
// assert_array_equals, assert_throws and assert_unreached.
func (h *Harness) Setup() error {
	h.runtime.VM().Set("result_callback", func(call goja.FunctionCall) goja.Value {
		h.handleResult(call)
		return goja.Undefined()
	})
	_, err := h.runtime.Execute(harnessJS)
	return err
}

func (h *Harness) handleResult(call goja.FunctionCall) {
	if len(call.Arguments) < 1 {
		return
	}
	obj := call.Arguments[0].ToObject(h.runtime.VM())

	result := TestResult{Status: StatusError}
	if name := obj.Get("name"); name != nil && !goja.IsUndefined(name) {
		result.Name = name.String()
	}
	if status := obj.Get("status"); status != nil && !goja.IsUndefined(status) {
		switch status.ToInteger() {
		case 0:
			result.Status = StatusPass
		case 1:
			result.Status = StatusFail
		}
	}
	if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) && !goja.IsNull(msg) {
		result.Message = msg.String()
	}
	h.results = append(h.results, result)
}

// Results returns the collected results in report order.
func (h *Harness) Results() []TestResult {
	return h.results
}

const harnessJS = `
function _fail(description, message) {
    throw new Error((description ? description + ': ' : '') + message);
}

function _show(v) {
    if (v && typeof v === 'object' && v.nodeName !== undefined) {
        return v.nodeName;
    }
    return JSON.stringify(v);
}

function test(func, name) {
    var t = { name: name || '', status: 0, message: null };
    try {
        func(t);
    } catch (e) {
        t.status = 1;
        t.message = (e && e.message) || String(e);
    }
    result_callback(t);
}

function assert_true(actual, description) {
    if (actual !== true) _fail(description, 'expected true but got ' + _show(actual));
}

function assert_false(actual, description) {
    if (actual !== false) _fail(description, 'expected false but got ' + _show(actual));
}

function assert_equals(actual, expected, description) {
    if (actual !== expected) {
        _fail(description, 'expected ' + _show(expected) + ' but got ' + _show(actual));
    }
}

function assert_not_equals(actual, expected, description) {
    if (actual === expected) _fail(description, 'expected not ' + _show(expected));
}

function assert_array_equals(actual, expected, description) {
    if (actual.length !== expected.length) {
        _fail(description, 'lengths differ: ' + actual.length + ' vs ' + expected.length);
    }
    for (var i = 0; i < actual.length; i++) {
        if (actual[i] !== expected[i]) {
            _fail(description, 'differ at index ' + i + ': ' + _show(actual[i]) + ' vs ' + _show(expected[i]));
        }
    }
}

function assert_throws(func, description) {
    var threw = false;
    try {
        func();
    } catch (e) {
        threw = true;
    }
    if (!threw) _fail(description, 'expected an exception');
}

function assert_unreached(description) {
    _fail(description, 'should not be reached');
}
`
