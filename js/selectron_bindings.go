package js

import (
	"strconv"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/selectron"
	"github.com/dop251/goja"
)

// BindSelectron sets the global selectron object. Positions cross into
// scripts as {ref, offset} objects and position pairs as {start, end}.
func (b *Binder) BindSelectron(s *selectron.Selectron) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()

	obj.Set("count", func(call goja.FunctionCall) goja.Value {
		n, err := selectron.Count(b.nodeArg(call, 0), b.nodeArg(call, 1), call.Argument(2).ToBoolean())
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(n)
	})
	obj.Set("uncount", func(call goja.FunctionCall) goja.Value {
		p := selectron.Uncount(b.nodeArg(call, 0), int(call.Argument(1).ToInteger()), call.Argument(2).ToBoolean())
		return b.positionValue(p)
	})
	obj.Set("offset", func(call goja.FunctionCall) goja.Value {
		caret := b.caretArg(call.Argument(1))
		n, err := s.Offset(b.nodeArg(call, 0), caret, call.Argument(2).ToBoolean())
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(n)
	})

	// get(caret, element, countAll) returns one position. get(element,
	// countAll) returns both. get(caret, true) returns the raw endpoint.
	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		first := call.Argument(0)
		if _, ok := first.Export().(string); !ok {
			ps, err := s.GetPositions(b.getGoNode(first), call.Argument(1).ToBoolean())
			if err != nil {
				b.throwError(err)
			}
			return b.positionsValue(ps)
		}
		caret := b.caretArg(first)
		if el := call.Argument(1); el.StrictEquals(vm.ToValue(true)) {
			p, err := s.Raw(caret)
			if err != nil {
				b.throwError(err)
			}
			return b.positionValue(p)
		}
		p, err := s.Get(caret, b.nodeArg(call, 1), call.Argument(2).ToBoolean())
		if err != nil {
			b.throwError(err)
		}
		return b.positionValue(p)
	})

	obj.Set("set", func(call goja.FunctionCall) goja.Value {
		if err := s.Set(b.positionsArg(call.Argument(0)), call.Argument(1).ToBoolean()); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("restore", func(call goja.FunctionCall) goja.Value {
		if err := s.Restore(b.positionsArg(call.Argument(0)), call.Argument(1).ToBoolean()); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("select", func(call goja.FunctionCall) goja.Value {
		if err := s.Select(b.nodeArg(call, 0)); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})

	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(s.Contains(b.nodeArg(call, 0), call.Argument(1).ToBoolean()))
	})
	obj.Set("contained", func(call goja.FunctionCall) goja.Value {
		nodes, err := s.Contained(b.selectorArg(call.Argument(0)), call.Argument(1).ToBoolean())
		if err != nil {
			b.throwError(err)
		}
		return b.bindNodes(nodes)
	})
	obj.Set("containsEvery", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(s.ContainsEvery(b.nodeList(call.Argument(0)), call.Argument(1).ToBoolean()))
	})
	obj.Set("containsSome", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(s.ContainsSome(b.nodeList(call.Argument(0)), call.Argument(1).ToBoolean()))
	})

	obj.Set("normalize", func(call goja.FunctionCall) goja.Value {
		if err := s.Normalize(); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("isAtStartOfSection", func(call goja.FunctionCall) goja.Value {
		ok, err := s.IsAtStartOfSection(b.nodeArg(call, 0))
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(ok)
	})
	obj.Set("isAtEndOfSection", func(call goja.FunctionCall) goja.Value {
		ok, err := s.IsAtEndOfSection(b.nodeArg(call, 0))
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(ok)
	})

	// update(positions, updateContained, updateStyles). Passing false as
	// positions keeps the cached ones.
	obj.Set("update", func(call goja.FunctionCall) goja.Value {
		var opts selectron.UpdateOptions
		switch arg := call.Argument(0); {
		case arg.StrictEquals(vm.ToValue(false)):
			opts.KeepPositions = true
		case isObject(arg):
			p := b.positionsArg(arg)
			opts.Positions = &p
		}
		opts.SkipContained = isFalse(call.Argument(1))
		opts.SkipStyles = isFalse(call.Argument(2))
		if err := s.Update(opts); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})
	obj.Set("setElement", func(call goja.FunctionCall) goja.Value {
		s.SetElement(b.nodeArg(call, 0))
		return goja.Undefined()
	})
	obj.Set("element", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(s.Element())
	})
	obj.Set("range", func(call goja.FunctionCall) goja.Value {
		ep, ok := s.Range()
		if !ok {
			return goja.Null()
		}
		r := vm.NewObject()
		r.Set("startContainer", b.BindNode(ep.StartContainer))
		r.Set("startOffset", ep.StartOffset)
		r.Set("endContainer", b.BindNode(ep.EndContainer))
		r.Set("endOffset", ep.EndOffset)
		r.Set("collapsed", ep.Collapsed)
		return r
	})

	obj.Set("positions", func(call goja.FunctionCall) goja.Value {
		p, err := s.Positions()
		if err != nil {
			b.throwError(err)
		}
		return b.positionsValue(p)
	})
	obj.Set("collections", func(call goja.FunctionCall) goja.Value {
		c, err := s.Collections()
		if err != nil {
			b.throwError(err)
		}
		out := vm.NewObject()
		out.Set("sections", b.bindNodes(c.Sections))
		out.Set("listItems", b.bindNodes(c.ListItems))
		out.Set("lists", b.bindNodes(c.Lists))
		out.Set("blocks", b.bindNodes(c.Blocks))
		out.Set("textNodes", b.bindNodes(c.TextNodes))
		return out
	})
	obj.Set("styles", func(call goja.FunctionCall) goja.Value {
		st, err := s.Styles()
		if err != nil {
			b.throwError(err)
		}
		out := vm.NewObject()
		out.Set("alignment", st.Alignment)
		out.Set("formats", stringArray(vm, st.Formats))
		out.Set("blocks", stringArray(vm, st.Blocks))
		return out
	})

	vm.Set("selectron", obj)
	return obj
}

func (b *Binder) caretArg(v goja.Value) selectron.Caret {
	c, err := selectron.ParseCaret(v.String())
	if err != nil {
		b.throwError(err)
	}
	return c
}

func (b *Binder) positionValue(p selectron.Position) goja.Value {
	obj := b.runtime.vm.NewObject()
	obj.Set("ref", b.BindNode(p.Ref))
	obj.Set("offset", p.Offset)
	return obj
}

func (b *Binder) positionsValue(p selectron.Positions) goja.Value {
	obj := b.runtime.vm.NewObject()
	obj.Set("start", b.positionValue(p.Start))
	obj.Set("end", b.positionValue(p.End))
	return obj
}

func (b *Binder) positionArg(v goja.Value) selectron.Position {
	if !isObject(v) {
		return selectron.Position{}
	}
	obj := v.(*goja.Object)
	p := selectron.Position{Ref: b.getGoNode(obj.Get("ref"))}
	if off := obj.Get("offset"); off != nil {
		p.Offset = int(off.ToInteger())
	}
	return p
}

// positionsArg accepts {start, end}, {start} or a single {ref, offset}.
func (b *Binder) positionsArg(v goja.Value) selectron.Positions {
	if !isObject(v) {
		return selectron.Positions{}
	}
	obj := v.(*goja.Object)
	if start := obj.Get("start"); start != nil && !goja.IsUndefined(start) {
		return selectron.Positions{Start: b.positionArg(start), End: b.positionArg(obj.Get("end"))}
	}
	return selectron.Positions{Start: b.positionArg(v)}
}

// nodeList reads an array of bound nodes, skipping anything else.
func (b *Binder) nodeList(v goja.Value) []*dom.Node {
	if !isObject(v) {
		return nil
	}
	obj := v.(*goja.Object)
	length := obj.Get("length")
	if length == nil {
		return nil
	}
	n := int(length.ToInteger())
	nodes := make([]*dom.Node, 0, n)
	for i := 0; i < n; i++ {
		if node := b.getGoNode(obj.Get(strconv.Itoa(i))); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// selectorArg converts the script forms of a node selector:
//
//	[n1, n2]                     explicit nodes
//	function (node) { ... }      predicate over the scope's descendants
//	{sections: true, element}    section elements
//	{selector: "ul,ol", element} CSS selector matches
//	{nodeType: 3, element}       text nodes
func (b *Binder) selectorArg(v goja.Value) selectron.NodeSelector {
	vm := b.runtime.vm
	if fn, ok := goja.AssertFunction(v); ok {
		return selectron.FilterPredicate{Match: func(n *dom.Node) bool {
			res, err := fn(goja.Undefined(), b.BindNode(n))
			if err != nil {
				panic(err)
			}
			return res.ToBoolean()
		}}
	}
	if !isObject(v) {
		panic(vm.NewTypeError("unsupported node selector: %s", v.String()))
	}
	obj := v.(*goja.Object)
	if obj.ClassName() == "Array" {
		return selectron.ExplicitList{Nodes: b.nodeList(v)}
	}

	root := b.getGoNode(obj.Get("element"))
	if sections := obj.Get("sections"); sections != nil && sections.ToBoolean() {
		return selectron.SectionShortcut{Root: root}
	}
	if sel := obj.Get("selector"); sel != nil && !goja.IsUndefined(sel) {
		f, err := selectron.SelectorFilter(root, sel.String())
		if err != nil {
			b.throwError(err)
		}
		return f
	}
	if nt := obj.Get("nodeType"); nt != nil && nt.StrictEquals(vm.ToValue(int(dom.TextNode))) {
		return selectron.TextFilter(root)
	}
	return selectron.FilterPredicate{Root: root}
}

func isObject(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	_, ok := v.(*goja.Object)
	return ok
}

func isFalse(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !v.ToBoolean()
}

func stringArray(vm *goja.Runtime, values []string) goja.Value {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return vm.NewArray(out...)
}
