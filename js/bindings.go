package js

import (
	"errors"

	"github.com/chrisuehlinger/selectron/css"
	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/html"
	"github.com/dop251/goja"
)

// Binder exposes content nodes to scripts. The same node always maps to the
// same script object, so identity comparisons work in scripts.
type Binder struct {
	runtime *Runtime
	nodeMap map[*dom.Node]*goja.Object
}

// NewBinder creates a binder for the given runtime.
func NewBinder(runtime *Runtime) *Binder {
	return &Binder{
		runtime: runtime,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
}

// ClearCache forgets every bound node, for use after the tree is replaced.
func (b *Binder) ClearCache() {
	b.nodeMap = make(map[*dom.Node]*goja.Object)
}

// BindNode returns the script object for node, or null.
func (b *Binder) BindNode(node *dom.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsNode := vm.NewObject()
	jsNode.Set("_goNode", node)
	jsNode.Set("nodeType", int(node.NodeType()))
	jsNode.Set("nodeName", node.NodeName())
	if node.IsElement() {
		jsNode.Set("tagName", node.NodeName())
	}

	jsNode.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.TextContent())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	if node.IsText() {
		jsNode.DefineAccessorProperty("data", vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(node.Data())
		}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				node.SetData(call.Arguments[0].String())
			}
			return goja.Undefined()
		}), goja.FLAG_FALSE, goja.FLAG_TRUE)
		jsNode.DefineAccessorProperty("length", vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(node.Length())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	b.bindNodeProperties(jsNode, node)
	b.nodeMap[node] = jsNode
	return jsNode
}

// bindNodeProperties adds tree navigation accessors and methods.
func (b *Binder) bindNodeProperties(jsObj *goja.Object, node *dom.Node) {
	vm := b.runtime.vm

	accessor := func(name string, get func() *dom.Node) {
		jsObj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.BindNode(get())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	accessor("parentNode", node.ParentNode)
	accessor("firstChild", node.FirstChild)
	accessor("lastChild", node.LastChild)
	accessor("previousSibling", node.PreviousSibling)
	accessor("nextSibling", node.NextSibling)

	jsObj.DefineAccessorProperty("childNodes", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindNodes(node.ChildNodes())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.Set("hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.HasChildNodes())
	})
	jsObj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.Contains(b.nodeArg(call, 0)))
	})
	jsObj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !node.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(node.GetAttribute(name))
	})
	jsObj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelector(node, call.Argument(0).String())
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(found)
	})
	jsObj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelectorAll(node, call.Argument(0).String())
		if err != nil {
			b.throwError(err)
		}
		return b.bindNodes(found)
	})
}

// BindDocument sets the global document object for a tree whose root is
// root. document.body is the BODY element, or root when there is none.
func (b *Binder) BindDocument(root *dom.Node) *goja.Object {
	vm := b.runtime.vm
	doc := vm.NewObject()
	doc.Set("root", b.BindNode(root))

	body := html.Body(root)
	if body == nil {
		body = root
	}
	doc.Set("body", b.BindNode(body))

	doc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelector(root, call.Argument(0).String())
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(found)
	})
	doc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelectorAll(root, call.Argument(0).String())
		if err != nil {
			b.throwError(err)
		}
		return b.bindNodes(found)
	})
	doc.Set("createRange", func(call goja.FunctionCall) goja.Value {
		return b.bindRange(dom.NewRange(root))
	})
	doc.Set("nodeAtPath", func(call goja.FunctionCall) goja.Value {
		n, err := root.NodeAtPath(call.Argument(0).String())
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(n)
	})
	doc.Set("pathOf", func(call goja.FunctionCall) goja.Value {
		path, ok := b.nodeArg(call, 0).Path(root)
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(path)
	})

	vm.Set("document", doc)
	return doc
}

func (b *Binder) bindNodes(nodes []*dom.Node) goja.Value {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = b.BindNode(n)
	}
	return b.runtime.vm.NewArray(out...)
}

// getGoNode returns the node behind a bound script object, or nil.
func (b *Binder) getGoNode(v goja.Value) *dom.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if goNode := obj.Get("_goNode"); goNode != nil && !goja.IsUndefined(goNode) {
		if node, ok := goNode.Export().(*dom.Node); ok {
			return node
		}
	}
	return nil
}

func (b *Binder) nodeArg(call goja.FunctionCall, i int) *dom.Node {
	return b.getGoNode(call.Argument(i))
}

// createException builds an Error-like object carrying a DOM error name.
func (b *Binder) createException(name, message string) *goja.Object {
	vm := b.runtime.vm
	exc, err := vm.New(vm.Get("Error"), vm.ToValue(message))
	if err != nil {
		exc = vm.NewObject()
		exc.Set("message", message)
	}
	exc.Set("name", name)
	return exc
}

// throwError raises err in the calling script. DOM errors keep their name.
func (b *Binder) throwError(err error) {
	var domErr *dom.DOMError
	if errors.As(err, &domErr) {
		panic(b.createException(domErr.Name, err.Error()))
	}
	panic(b.runtime.vm.NewGoError(err))
}
