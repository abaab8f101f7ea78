package css

import (
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
)

// Match tests if a selector matches a node. Only elements can match.
func (s *Selector) Match(n *dom.Node) bool {
	if n == nil || !n.IsElement() {
		return false
	}
	for _, cs := range s.ComplexSelectors {
		if cs.Match(n) {
			return true
		}
	}
	return false
}

// Match tests if a complex selector matches an element.
func (cs *ComplexSelector) Match(el *dom.Node) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	// Start from the last compound selector (the subject)
	i := len(cs.Compounds) - 1
	if !cs.Compounds[i].Match(el) {
		return false
	}
	return cs.matchFrom(i, el)
}

// matchFrom matches compounds [0, i) against the context of el, which has
// already matched compound i. Descendant and subsequent-sibling combinators
// backtrack over every candidate.
func (cs *ComplexSelector) matchFrom(i int, el *dom.Node) bool {
	if i == 0 {
		return true
	}
	prev := cs.Compounds[i-1]

	switch prev.Combinator {
	case CombinatorDescendant:
		for ancestor := parentElement(el); ancestor != nil; ancestor = parentElement(ancestor) {
			if prev.Match(ancestor) && cs.matchFrom(i-1, ancestor) {
				return true
			}
		}
	case CombinatorChild:
		parent := parentElement(el)
		return parent != nil && prev.Match(parent) && cs.matchFrom(i-1, parent)
	case CombinatorNextSibling:
		sib := previousElementSibling(el)
		return sib != nil && prev.Match(sib) && cs.matchFrom(i-1, sib)
	case CombinatorSubsequentSibling:
		for sib := previousElementSibling(el); sib != nil; sib = previousElementSibling(sib) {
			if prev.Match(sib) && cs.matchFrom(i-1, sib) {
				return true
			}
		}
	}
	return false
}

// Match tests if a compound selector matches an element.
func (c *CompoundSelector) Match(el *dom.Node) bool {
	if !el.IsElement() {
		return false
	}
	if c.TypeName != "" && c.TypeName != "*" && !strings.EqualFold(el.NodeName(), c.TypeName) {
		return false
	}
	for _, id := range c.IDSelectors {
		if el.GetAttribute("id") != id {
			return false
		}
	}
	for _, class := range c.ClassSelectors {
		if !containsWord(el.GetAttribute("class"), class, false) {
			return false
		}
	}
	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(pc, el) {
			return false
		}
	}
	return true
}

func matchAttributeSelector(attr *AttributeMatcher, el *dom.Node) bool {
	if !el.HasAttribute(attr.Name) {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	attrValue := el.GetAttribute(attr.Name)
	matchValue := attr.Value
	if attr.CaseInsensitive {
		attrValue = strings.ToLower(attrValue)
		matchValue = strings.ToLower(matchValue)
	}

	switch attr.Operator {
	case AttrEquals:
		return attrValue == matchValue
	case AttrIncludes:
		return containsWord(attrValue, matchValue, false)
	case AttrDashMatch:
		return attrValue == matchValue || strings.HasPrefix(attrValue, matchValue+"-")
	case AttrPrefix:
		return matchValue != "" && strings.HasPrefix(attrValue, matchValue)
	case AttrSuffix:
		return matchValue != "" && strings.HasSuffix(attrValue, matchValue)
	case AttrSubstring:
		return matchValue != "" && strings.Contains(attrValue, matchValue)
	}
	return false
}

func matchPseudoClass(pc *PseudoClassSelector, el *dom.Node) bool {
	switch pc.Name {
	case "first-child":
		return previousElementSibling(el) == nil
	case "last-child":
		return nextElementSibling(el) == nil
	case "only-child":
		return previousElementSibling(el) == nil && nextElementSibling(el) == nil
	case "empty":
		for c := el.FirstChild(); c != nil; c = c.NextSibling() {
			if c.IsElement() || c.Data() != "" {
				return false
			}
		}
		return true
	case "not":
		return !pc.Selector.Match(el)
	case "is":
		return pc.Selector.Match(el)
	}
	return false
}

func containsWord(list, word string, fold bool) bool {
	for _, w := range strings.Fields(list) {
		if w == word || (fold && strings.EqualFold(w, word)) {
			return true
		}
	}
	return false
}

func parentElement(n *dom.Node) *dom.Node {
	if p := n.ParentNode(); p != nil && p.IsElement() {
		return p
	}
	return nil
}

func previousElementSibling(n *dom.Node) *dom.Node {
	for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

func nextElementSibling(n *dom.Node) *dom.Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

// QuerySelectorAll returns all descendant elements of root matching the
// selector, in tree order.
func QuerySelectorAll(root *dom.Node, selectorStr string) ([]*dom.Node, error) {
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil, err
	}
	return selector.Filter(root.Descendants()), nil
}

// QuerySelector returns the first descendant element of root matching the selector.
func QuerySelector(root *dom.Node, selectorStr string) (*dom.Node, error) {
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil, err
	}
	for _, n := range root.Descendants() {
		if selector.Match(n) {
			return n, nil
		}
	}
	return nil, nil
}

// Filter returns the nodes that match the selector, preserving order.
func (s *Selector) Filter(nodes []*dom.Node) []*dom.Node {
	var results []*dom.Node
	for _, n := range nodes {
		if s.Match(n) {
			results = append(results, n)
		}
	}
	return results
}
