package selectron

import (
	"fmt"

	"github.com/chrisuehlinger/selectron/dom"
)

// Count returns the linear offset from root to ref. With a nil ref it returns
// the total linear length of root's content.
//
// Walking backward from ref, every visited node except root adds one unit
// when counting all nodes or when it is a section or line break. Every text
// node other than ref adds its UTF-16 length. ref adds its own unit only if
// the filter accepts it.
//
// A ref outside root, or hidden inside a subtree the filter skips, yields an
// error wrapping ErrUnreachable.
func Count(root, ref *dom.Node, countAll bool) (int, error) {
	if root == nil {
		return 0, fmt.Errorf("count: %w", ErrInvalidPosition)
	}
	m := modeFor(countAll)

	if ref == nil {
		return m.countForward(root), nil
	}
	if ref == root {
		return 0, nil
	}
	if err := m.reachable(root, ref); err != nil {
		return 0, err
	}

	off := 0
	if m.filter(ref).Accept && m.unit(ref) {
		off++
	}
	w := newBackwardWalker(root, ref, m.filter)
	for node := w.previous(); node != nil; node = w.previous() {
		if m.unit(node) {
			off++
		}
		if node.IsText() {
			off += node.Length()
		}
	}
	return off, nil
}

func (m mode) countForward(root *dom.Node) int {
	off := 0
	if root.IsText() {
		off += root.Length()
	}
	w := newForwardWalker(root, m.filter)
	for node := w.next(); node != nil; node = w.next() {
		if m.unit(node) {
			off++
		}
		if node.IsText() {
			off += node.Length()
		}
	}
	return off
}

// reachable checks that ref lies inside root and that no ancestor between
// them hides it from the walk.
func (m mode) reachable(root, ref *dom.Node) error {
	if !root.Contains(ref) {
		return fmt.Errorf("count %s from %s: %w", ref, root, ErrUnreachable)
	}
	for n := ref.ParentNode(); n != nil && n != root; n = n.ParentNode() {
		if m.filter(n).SkipSubtree {
			return fmt.Errorf("count %s from %s: inside %s: %w", ref, root, n, ErrUnreachable)
		}
	}
	return nil
}

// hiddenBy returns the outermost ancestor of ref below root whose subtree the
// filter skips, or nil.
func (m mode) hiddenBy(root, ref *dom.Node) *dom.Node {
	if !root.Contains(ref) {
		return nil
	}
	var hidden *dom.Node
	for n := ref.ParentNode(); n != nil && n != root; n = n.ParentNode() {
		if m.filter(n).SkipSubtree {
			hidden = n
		}
	}
	return hidden
}

// Uncount resolves a linear offset relative to root into a tree position. It
// is the inverse of Count under the same mode.
//
// A text root is returned as is with the offset. An offset past the end of
// root's content yields a position that may be out of bounds; Set discards
// such positions.
func Uncount(root *dom.Node, offset int, countAll bool) Position {
	if offset < 0 {
		offset = 0
	}
	if root == nil || root.IsText() {
		return Position{Ref: root, Offset: offset}
	}

	m := modeFor(countAll)
	remaining := offset
	ref := root

	w := newForwardWalker(root, m.filter)
	for node := w.next(); node != nil; node = w.next() {
		if m.unit(node) {
			if remaining == 0 {
				break
			}
			remaining--
		}
		ref = node
		if node.IsText() {
			if l := node.Length(); remaining > l {
				remaining -= l
			} else {
				break
			}
		}
	}

	// a line break cannot host a caret; place it after the break instead
	if ref.Kind() == dom.KindLineBreak && ref.ParentNode() != nil {
		return Position{Ref: ref.ParentNode(), Offset: ref.Index() + 1}
	}
	return Position{Ref: ref, Offset: remaining}
}

// Resolve returns the linear offset of pos relative to root. An element
// position after child N is read as the end of child N's text. A position
// inside a subtree the filter skips resolves to the outermost skipped
// ancestor, which adds nothing to the count.
func Resolve(root *dom.Node, pos Position, countAll bool) (int, error) {
	if pos.Ref == nil {
		return 0, fmt.Errorf("resolve: %w", ErrInvalidPosition)
	}
	ref, off := pos.Ref, pos.Offset
	if !ref.IsText() && off > 0 {
		child := ref.ChildAt(off - 1)
		if child == nil {
			return 0, fmt.Errorf("resolve %s: %w", pos, dom.ErrIndexSize(fmt.Sprintf("no child at index %d", off-1)))
		}
		ref, off = child, child.TextLength()
	}
	if hidden := modeFor(countAll).hiddenBy(root, ref); hidden != nil {
		ref, off = hidden, 0
	}
	n, err := Count(root, ref, countAll)
	if err != nil {
		return 0, err
	}
	return n + off, nil
}
