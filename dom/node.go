package dom

import (
	"strconv"
	"strings"
)

// Attribute is a name/value pair on an element.
type Attribute struct {
	Key   string
	Value string
}

// Node represents a node in the content tree. Element, Text and Document nodes
// share this type; NodeType and Kind tell them apart.
type Node struct {
	nodeType NodeType
	nodeName string
	kind     Kind
	data     string // text content for Text nodes
	attrs    []Attribute

	parentNode *Node

	// First/last child and sibling pointers for efficient traversal
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node
}

// NewDocument creates an empty document node.
func NewDocument() *Node {
	return &Node{nodeType: DocumentNode, nodeName: "#document", kind: KindGeneric}
}

// NewElement creates an element with the given tag name and appends children to it.
// The tag name is stored uppercased, as HTML element nodeNames are.
func NewElement(tagName string, children ...*Node) *Node {
	name := strings.ToUpper(tagName)
	n := &Node{nodeType: ElementNode, nodeName: name, kind: kindOfTag(name)}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// NewText creates a text node.
func NewText(data string) *Node {
	return &Node{nodeType: TextNode, nodeName: "#text", kind: KindText, data: data}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
// For documents, this is "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// Kind returns how the node takes part in offset counting.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n.nodeType == ElementNode
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.nodeType == TextNode
}

// IsSection reports whether n is a section element.
func (n *Node) IsSection() bool {
	return n.kind == KindSection
}

// Is reports whether n is an element with one of the given tag names.
func (n *Node) Is(tagNames ...string) bool {
	if n.nodeType != ElementNode {
		return false
	}
	for _, t := range tagNames {
		if strings.EqualFold(n.nodeName, t) {
			return true
		}
	}
	return false
}

// Data returns the character data of a text node.
func (n *Node) Data() string {
	return n.data
}

// SetData replaces the character data of a text node.
func (n *Node) SetData(value string) {
	if n.nodeType == TextNode {
		n.data = value
	}
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot slice of the child nodes.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		count++
	}
	return count
}

// ChildAt returns the child at index i, or nil if there is none.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// Index returns the position of n among its parent's children, or -1 for a root.
func (n *Node) Index() int {
	if n.parentNode == nil {
		return -1
	}
	return indexOfChild(n.parentNode, n)
}

// Length returns the node length used to bound boundary-point offsets: the
// UTF-16 length for text nodes, the child count otherwise.
func (n *Node) Length() int {
	return nodeLength(n)
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode:
		return n.data
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.data)
		case ElementNode:
			child.collectTextContent(sb)
		}
	}
}

// TextLength returns the UTF-16 length of the node's text content.
func (n *Node) TextLength() int {
	if n.nodeType == TextNode {
		return UTF16Length(n.data)
	}
	total := 0
	for child := n.firstChild; child != nil; child = child.nextSibling {
		total += child.TextLength()
	}
	return total
}

// GetAttribute returns the value of the specified attribute, or empty string if not found.
func (n *Node) GetAttribute(key string) string {
	for _, attr := range n.attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// HasAttribute returns true if the node has the specified attribute.
func (n *Node) HasAttribute(key string) bool {
	for _, attr := range n.attrs {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// SetAttribute sets an attribute value, creating it if it doesn't exist.
func (n *Node) SetAttribute(key, value string) {
	for i, attr := range n.attrs {
		if attr.Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Value: value})
}

// Attributes returns a copy of the element's attributes.
func (n *Node) Attributes() []Attribute {
	return append([]Attribute(nil), n.attrs...)
}

// AppendChild adds a node to the end of the list of children of this node.
// A child that already has a parent is moved.
func (n *Node) AppendChild(c *Node) *Node {
	return n.InsertBefore(c, nil)
}

// InsertBefore inserts newChild before refChild. If refChild is nil, the node
// is appended to the end. Insertion into a text node or of an ancestor is ignored.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	if newChild == nil || n.nodeType == TextNode || newChild.Contains(n) {
		return nil
	}
	if refChild != nil && refChild.parentNode != n {
		return nil
	}
	if newChild == refChild {
		return newChild
	}
	if newChild.parentNode != nil {
		newChild.parentNode.RemoveChild(newChild)
	}
	newChild.parentNode = n
	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return newChild
	}
	newChild.nextSibling = refChild
	newChild.prevSibling = refChild.prevSibling
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
	return newChild
}

// RemoveChild removes a child node from this node's children.
func (n *Node) RemoveChild(c *Node) *Node {
	if c == nil || c.parentNode != n {
		return nil
	}
	if c.prevSibling != nil {
		c.prevSibling.nextSibling = c.nextSibling
	} else {
		n.firstChild = c.nextSibling
	}
	if c.nextSibling != nil {
		c.nextSibling.prevSibling = c.prevSibling
	} else {
		n.lastChild = c.prevSibling
	}
	c.parentNode = nil
	c.prevSibling = nil
	c.nextSibling = nil
	return c
}

// Contains returns true if other is this node or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// Closest returns the nearest inclusive ancestor for which match is true.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for node := n; node != nil; node = node.parentNode {
		if match(node) {
			return node
		}
	}
	return nil
}

// ClosestSection returns the nearest inclusive ancestor that is a section element.
func (n *Node) ClosestSection() *Node {
	return n.Closest((*Node).IsSection)
}

// Descendants returns every descendant of n in tree order, n excluded.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.firstChild; c != nil; c = c.nextSibling {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// Path returns the child-index path from root to n, such as "0/2/1". The path
// of root itself is the empty string. ok is false when n is not inside root.
func (n *Node) Path(root *Node) (path string, ok bool) {
	var idx []string
	node := n
	for node != root {
		if node == nil || node.parentNode == nil {
			return "", false
		}
		idx = append(idx, strconv.Itoa(node.Index()))
		node = node.parentNode
	}
	for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
		idx[i], idx[j] = idx[j], idx[i]
	}
	return strings.Join(idx, "/"), true
}

// NodeAtPath resolves a path produced by Path.
func (n *Node) NodeAtPath(path string) (*Node, error) {
	node := n
	if path == "" {
		return node, nil
	}
	for _, part := range strings.Split(path, "/") {
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, ErrSyntax("invalid path segment " + strconv.Quote(part))
		}
		child := node.ChildAt(i)
		if child == nil {
			return nil, ErrNotFound("no child " + part + " under " + node.nodeName)
		}
		node = child
	}
	return node, nil
}

// String returns a short description of the node for logs and test failures.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.nodeType {
	case TextNode:
		return strconv.Quote(n.data)
	case ElementNode:
		return "<" + strings.ToLower(n.nodeName) + ">"
	default:
		return n.nodeName
	}
}

// nodeLength returns the boundary length of a node: UTF-16 units for text, child count otherwise.
func nodeLength(node *Node) int {
	if node.nodeType == TextNode {
		return UTF16Length(node.data)
	}
	count := 0
	for child := node.firstChild; child != nil; child = child.nextSibling {
		count++
	}
	return count
}

// indexOfChild returns the index of a child within its parent.
func indexOfChild(parent, child *Node) int {
	index := 0
	for c := parent.firstChild; c != nil; c = c.nextSibling {
		if c == child {
			return index
		}
		index++
	}
	return -1
}

// isAncestor returns true if ancestor is a strict ancestor of node.
func isAncestor(ancestor, node *Node) bool {
	for n := node.parentNode; n != nil; n = n.parentNode {
		if n == ancestor {
			return true
		}
	}
	return false
}
