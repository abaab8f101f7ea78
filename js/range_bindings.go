package js

import (
	"github.com/chrisuehlinger/selectron/dom"
	"github.com/dop251/goja"
)

// BindSelection sets the global getSelection function. Every call returns the
// same script object, backed by sel.
func (b *Binder) BindSelection(sel *dom.Selection) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()

	getter := func(name string, get func() interface{}) {
		obj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(get())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	getter("rangeCount", func() interface{} { return sel.RangeCount() })
	getter("isCollapsed", func() interface{} { return sel.IsCollapsed() })
	getter("type", func() interface{} { return sel.Type() })

	endpoint := func(name string, get func(dom.Endpoints) (*dom.Node, int)) {
		obj.DefineAccessorProperty(name+"Node", vm.ToValue(func(call goja.FunctionCall) goja.Value {
			ep, ok := sel.ActiveRange()
			if !ok {
				return goja.Null()
			}
			n, _ := get(ep)
			return b.BindNode(n)
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
		obj.DefineAccessorProperty(name+"Offset", vm.ToValue(func(call goja.FunctionCall) goja.Value {
			ep, _ := sel.ActiveRange()
			_, off := get(ep)
			return vm.ToValue(off)
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	endpoint("anchor", func(ep dom.Endpoints) (*dom.Node, int) { return ep.StartContainer, ep.StartOffset })
	endpoint("focus", func(ep dom.Endpoints) (*dom.Node, int) { return ep.EndContainer, ep.EndOffset })

	obj.Set("getRangeAt", func(call goja.FunctionCall) goja.Value {
		r, err := sel.GetRangeAt(int(call.Argument(0).ToInteger()))
		if err != nil {
			b.throwError(err)
		}
		return b.bindRange(r)
	})
	obj.Set("addRange", func(call goja.FunctionCall) goja.Value {
		sel.AddRange(b.rangeArg(call.Argument(0)))
		return goja.Undefined()
	})
	obj.Set("removeAllRanges", func(call goja.FunctionCall) goja.Value {
		sel.RemoveAllRanges()
		return goja.Undefined()
	})
	obj.Set("collapse", func(call goja.FunctionCall) goja.Value {
		if err := sel.Collapse(b.nodeArg(call, 0), int(call.Argument(1).ToInteger())); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("setBaseAndExtent", func(call goja.FunctionCall) goja.Value {
		err := sel.SetBaseAndExtent(
			b.nodeArg(call, 0), int(call.Argument(1).ToInteger()),
			b.nodeArg(call, 2), int(call.Argument(3).ToInteger()),
		)
		if err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("containsNode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(sel.ContainsNode(b.nodeArg(call, 0), call.Argument(1).ToBoolean()))
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(sel.String())
	})

	vm.Set("getSelection", func(call goja.FunctionCall) goja.Value {
		return obj
	})
	return obj
}

// bindRange wraps r. The script object is live: it reads r on every access.
func (b *Binder) bindRange(r *dom.Range) goja.Value {
	if r == nil {
		return goja.Null()
	}
	vm := b.runtime.vm
	obj := vm.NewObject()
	obj.Set("_goRange", r)

	node := func(name string, get func() *dom.Node) {
		obj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.BindNode(get())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	value := func(name string, get func() interface{}) {
		obj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(get())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	node("startContainer", r.StartContainer)
	node("endContainer", r.EndContainer)
	node("commonAncestorContainer", r.CommonAncestorContainer)
	value("startOffset", func() interface{} { return r.StartOffset() })
	value("endOffset", func() interface{} { return r.EndOffset() })
	value("collapsed", func() interface{} { return r.Collapsed() })

	boundary := func(set func(*dom.Node, int) error) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if err := set(b.nodeArg(call, 0), int(call.Argument(1).ToInteger())); err != nil {
				b.throwError(err)
			}
			return goja.Undefined()
		}
	}
	obj.Set("setStart", boundary(r.SetStart))
	obj.Set("setEnd", boundary(r.SetEnd))

	selectFn := func(sel func(*dom.Node) error) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if err := sel(b.nodeArg(call, 0)); err != nil {
				b.throwError(err)
			}
			return goja.Undefined()
		}
	}
	obj.Set("selectNode", selectFn(r.SelectNode))
	obj.Set("selectNodeContents", selectFn(r.SelectNodeContents))

	obj.Set("collapse", func(call goja.FunctionCall) goja.Value {
		r.Collapse(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("cloneRange", func(call goja.FunctionCall) goja.Value {
		return b.bindRange(r.Clone())
	})
	obj.Set("intersectsNode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(r.IntersectsNode(b.nodeArg(call, 0)))
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(r.String())
	})
	return obj
}

func (b *Binder) rangeArg(v goja.Value) *dom.Range {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	goRange := obj.Get("_goRange")
	if goRange == nil || goja.IsUndefined(goRange) {
		return nil
	}
	r, _ := goRange.Export().(*dom.Range)
	return r
}
