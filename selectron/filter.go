package selectron

import "github.com/chrisuehlinger/selectron/dom"

// Decision is a traversal filter's verdict on one node.
type Decision struct {
	// Accept means the node is visited and may contribute to the count.
	Accept bool
	// SkipSubtree means none of the node's descendants are visited.
	SkipSubtree bool
}

// Filter decides which nodes take part in a traversal. The root of a
// traversal is never passed to it.
type Filter func(n *dom.Node) Decision

// Filtered is the default filter. It rejects list containers together with
// their subtree, and rejects a line break whose next sibling is a list
// container, since that break only separates a paragraph from the list.
func Filtered(n *dom.Node) Decision {
	switch n.Kind() {
	case dom.KindContainer:
		return Decision{SkipSubtree: true}
	case dom.KindLineBreak:
		if next := n.NextSibling(); next != nil && next.Kind() == dom.KindContainer {
			return Decision{}
		}
	}
	return Decision{Accept: true}
}

// CountAll accepts every node.
func CountAll(*dom.Node) Decision {
	return Decision{Accept: true}
}

// mode bundles the filter with the matching counting rule. Count and Uncount
// both obtain theirs from modeFor so they can never disagree.
type mode struct {
	countAll bool
	filter   Filter
}

func modeFor(countAll bool) mode {
	if countAll {
		return mode{countAll: true, filter: CountAll}
	}
	return mode{filter: Filtered}
}

// unit reports whether n contributes one unit of its own when visited.
func (m mode) unit(n *dom.Node) bool {
	if m.countAll {
		return true
	}
	k := n.Kind()
	return k == dom.KindSection || k == dom.KindLineBreak
}
