package dom

import "strings"

// Range represents a fragment of a tree between two boundary points.
type Range struct {
	startContainer *Node
	startOffset    int
	endContainer   *Node
	endOffset      int
}

// NewRange creates a new Range with both boundary points at (node, 0).
func NewRange(node *Node) *Range {
	return &Range{
		startContainer: node,
		endContainer:   node,
	}
}

// StartContainer returns the node where the range starts.
func (r *Range) StartContainer() *Node {
	return r.startContainer
}

// StartOffset returns the offset within the start container.
func (r *Range) StartOffset() int {
	return r.startOffset
}

// EndContainer returns the node where the range ends.
func (r *Range) EndContainer() *Node {
	return r.endContainer
}

// EndOffset returns the offset within the end container.
func (r *Range) EndOffset() int {
	return r.endOffset
}

// Collapsed returns true if start and end are the same point.
func (r *Range) Collapsed() bool {
	return r.startContainer == r.endContainer && r.startOffset == r.endOffset
}

// CommonAncestorContainer returns the deepest node that contains both boundary points.
func (r *Range) CommonAncestorContainer() *Node {
	return CommonAncestor(r.startContainer, r.endContainer)
}

// CommonAncestor returns the deepest inclusive ancestor shared by a and b, or
// nil if they are in different trees.
func CommonAncestor(a, b *Node) *Node {
	startAncestors := make(map[*Node]bool)
	for node := a; node != nil; node = node.parentNode {
		startAncestors[node] = true
	}
	for node := b; node != nil; node = node.parentNode {
		if startAncestors[node] {
			return node
		}
	}
	return nil
}

// SetStart sets the start boundary point of the range.
func (r *Range) SetStart(node *Node, offset int) error {
	if err := checkBoundary(node, offset); err != nil {
		return err
	}
	r.startContainer = node
	r.startOffset = offset

	// If start is after end, or in another tree, collapse to start
	if r.endContainer == nil || node.GetRootNode() != r.endContainer.GetRootNode() ||
		ComparePoints(r.startContainer, r.startOffset, r.endContainer, r.endOffset) > 0 {
		r.endContainer = r.startContainer
		r.endOffset = r.startOffset
	}
	return nil
}

// SetEnd sets the end boundary point of the range.
func (r *Range) SetEnd(node *Node, offset int) error {
	if err := checkBoundary(node, offset); err != nil {
		return err
	}
	r.endContainer = node
	r.endOffset = offset

	// If end is before start, or in another tree, collapse to end
	if r.startContainer == nil || node.GetRootNode() != r.startContainer.GetRootNode() ||
		ComparePoints(r.startContainer, r.startOffset, r.endContainer, r.endOffset) > 0 {
		r.startContainer = r.endContainer
		r.startOffset = r.endOffset
	}
	return nil
}

func checkBoundary(node *Node, offset int) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	if offset < 0 || offset > nodeLength(node) {
		return ErrIndexSize("The offset is out of range.")
	}
	return nil
}

// Collapse collapses the range to one of its boundary points.
// If toStart is true, collapses to the start; otherwise to the end.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.endContainer = r.startContainer
		r.endOffset = r.startOffset
	} else {
		r.startContainer = r.endContainer
		r.startOffset = r.endOffset
	}
}

// SelectNodeContents sets the range to contain the contents of the given node.
func (r *Range) SelectNodeContents(node *Node) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	r.startContainer = node
	r.startOffset = 0
	r.endContainer = node
	r.endOffset = nodeLength(node)
	return nil
}

// SelectNode sets the range to contain the given node and its contents.
func (r *Range) SelectNode(node *Node) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	parent := node.parentNode
	if parent == nil {
		return ErrInvalidNodeType("The node has no parent.")
	}
	index := indexOfChild(parent, node)
	r.startContainer = parent
	r.startOffset = index
	r.endContainer = parent
	r.endOffset = index + 1
	return nil
}

// Clone returns an independent copy of the range.
func (r *Range) Clone() *Range {
	c := *r
	return &c
}

// IntersectsNode reports whether any part of node lies within the range.
func (r *Range) IntersectsNode(node *Node) bool {
	if node == nil || node.GetRootNode() != r.startContainer.GetRootNode() {
		return false
	}
	parent := node.parentNode
	if parent == nil {
		return true
	}
	offset := indexOfChild(parent, node)
	return ComparePoints(parent, offset, r.endContainer, r.endOffset) < 0 &&
		ComparePoints(parent, offset+1, r.startContainer, r.startOffset) > 0
}

// ContainsNode reports whether node lies entirely within the range.
func (r *Range) ContainsNode(node *Node) bool {
	parent := node.parentNode
	if parent == nil || node.GetRootNode() != r.startContainer.GetRootNode() {
		return false
	}
	index := indexOfChild(parent, node)
	return ComparePoints(parent, index, r.startContainer, r.startOffset) >= 0 &&
		ComparePoints(parent, index+1, r.endContainer, r.endOffset) <= 0
}

// String returns the text covered by the range.
func (r *Range) String() string {
	if r.Collapsed() {
		return ""
	}
	if r.startContainer == r.endContainer && r.startContainer.nodeType == TextNode {
		return UTF16Substring(r.startContainer.data, r.startOffset, r.endOffset)
	}

	var sb strings.Builder
	if r.startContainer.nodeType == TextNode {
		sb.WriteString(UTF16Substring(r.startContainer.data, r.startOffset, UTF16Length(r.startContainer.data)))
	}
	root := r.CommonAncestorContainer()
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.firstChild; c != nil; c = c.nextSibling {
			if c.nodeType == TextNode && r.ContainsNode(c) {
				sb.WriteString(c.data)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	if r.endContainer.nodeType == TextNode {
		sb.WriteString(UTF16Substring(r.endContainer.data, 0, r.endOffset))
	}
	return sb.String()
}

// ComparePoints compares two boundary points in tree order.
// Returns -1 if (nodeA, offsetA) is before (nodeB, offsetB), 0 if equal, 1 if after.
// Both points must be in the same tree.
func ComparePoints(nodeA *Node, offsetA int, nodeB *Node, offsetB int) int {
	if nodeA == nodeB {
		switch {
		case offsetA < offsetB:
			return -1
		case offsetA > offsetB:
			return 1
		}
		return 0
	}

	// If nodeA is an ancestor of nodeB, compare the offset with the child holding nodeB
	if isAncestor(nodeA, nodeB) {
		child := nodeB
		for child.parentNode != nodeA {
			child = child.parentNode
		}
		if indexOfChild(nodeA, child) < offsetA {
			return 1
		}
		return -1
	}

	if isAncestor(nodeB, nodeA) {
		child := nodeA
		for child.parentNode != nodeB {
			child = child.parentNode
		}
		if indexOfChild(nodeB, child) < offsetB {
			return -1
		}
		return 1
	}

	return compareTreeOrder(nodeA, nodeB)
}

// compareTreeOrder compares two nodes, neither an ancestor of the other, by
// the order of their diverging ancestors.
func compareTreeOrder(nodeA, nodeB *Node) int {
	var pathA, pathB []*Node
	for n := nodeA; n != nil; n = n.parentNode {
		pathA = append(pathA, n)
	}
	for n := nodeB; n != nil; n = n.parentNode {
		pathB = append(pathB, n)
	}

	// Walk both paths from the root until they diverge
	i, j := len(pathA)-1, len(pathB)-1
	for i >= 0 && j >= 0 && pathA[i] == pathB[j] {
		i--
		j--
	}
	if i < 0 || j < 0 || i+1 >= len(pathA) {
		return 0
	}

	ancestorA, ancestorB := pathA[i], pathB[j]
	for child := ancestorA.parentNode.firstChild; child != nil; child = child.nextSibling {
		if child == ancestorA {
			return -1
		}
		if child == ancestorB {
			return 1
		}
	}
	return 0
}
