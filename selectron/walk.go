package selectron

import "github.com/chrisuehlinger/selectron/dom"

// forwardWalker visits the filtered subtree of root in pre-order. root itself
// is never returned.
type forwardWalker struct {
	root    *dom.Node
	current *dom.Node
	filter  Filter
}

func newForwardWalker(root *dom.Node, filter Filter) *forwardWalker {
	return &forwardWalker{root: root, current: root, filter: filter}
}

// next returns the following accepted node, or nil at the end of the subtree.
func (w *forwardWalker) next() *dom.Node {
	node := w.current
	descend := node == w.root || !w.filter(node).SkipSubtree

	for {
		var candidate *dom.Node
		if descend && node.FirstChild() != nil {
			candidate = node.FirstChild()
		} else {
			for n := node; n != nil && n != w.root; n = n.ParentNode() {
				if sib := n.NextSibling(); sib != nil {
					candidate = sib
					break
				}
			}
			if candidate == nil {
				return nil
			}
		}

		node = candidate
		d := w.filter(node)
		if d.Accept {
			w.current = node
			return node
		}
		descend = !d.SkipSubtree
	}
}

// backwardWalker visits nodes in reverse pre-order, starting just before
// current and stopping before root.
type backwardWalker struct {
	root    *dom.Node
	current *dom.Node
	filter  Filter
}

func newBackwardWalker(root, from *dom.Node, filter Filter) *backwardWalker {
	return &backwardWalker{root: root, current: from, filter: filter}
}

// previous returns the preceding accepted node, or nil once root is reached.
func (w *backwardWalker) previous() *dom.Node {
	node := w.current

	for node != w.root {
		for sib := node.PreviousSibling(); sib != nil; sib = node.PreviousSibling() {
			node = sib
			d := w.filter(node)
			// the last node of a subtree in pre-order is its deepest last descendant
			for !d.SkipSubtree && node.LastChild() != nil {
				node = node.LastChild()
				d = w.filter(node)
			}
			if d.Accept {
				w.current = node
				return node
			}
		}

		parent := node.ParentNode()
		if parent == nil || parent == w.root {
			return nil
		}
		node = parent
		if w.filter(node).Accept {
			w.current = node
			return node
		}
	}
	return nil
}
