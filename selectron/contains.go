package selectron

import "github.com/chrisuehlinger/selectron/dom"

// Contains reports whether node lies inside the active range. With
// partlyContained set, overlapping the range is enough. Text nodes are always
// tested for partial containment.
//
// Both intervals are measured in count-all mode from the range's common
// ancestor element. Boundaries are compared inclusively.
func (s *Selectron) Contains(node *dom.Node, partlyContained bool) bool {
	if node == nil {
		return false
	}
	if node.IsText() {
		partlyContained = true
	}
	ep, err := s.activeRange()
	if err != nil {
		return false
	}

	element := dom.CommonAncestor(ep.StartContainer, ep.EndContainer)
	if element != nil && element.IsText() {
		element = element.ParentNode()
	}
	if element == nil {
		return false
	}
	if !element.Contains(node) {
		return partlyContained && node.Contains(element)
	}

	rs, err := Resolve(element, endpoint(ep, CaretStart), true)
	if err != nil {
		s.log.Debug("contains: resolving range start", "error", err)
		return false
	}
	re, err := Resolve(element, endpoint(ep, CaretEnd), true)
	if err != nil {
		s.log.Debug("contains: resolving range end", "error", err)
		return false
	}
	if rs > re {
		rs, re = re, rs
	}

	so, err := Count(element, node, true)
	if err != nil {
		return false
	}
	var eo int
	if node.IsText() {
		eo = so + node.Length()
	} else {
		inner, _ := Count(node, nil, true)
		eo = so + inner + 1
	}

	if so >= rs && eo <= re {
		return true
	}
	return partlyContained && (rs >= so && rs <= eo || re >= so && re <= eo)
}

// Contained returns the candidates chosen by sel that Contains accepts.
func (s *Selectron) Contained(sel NodeSelector, partlyContained bool) ([]*dom.Node, error) {
	candidates, err := sel.candidates(func() (*dom.Node, error) { return s.scope(nil) })
	if err != nil {
		return nil, err
	}
	var nodes []*dom.Node
	for _, n := range candidates {
		if s.Contains(n, partlyContained) {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// ContainsEvery reports whether every node is contained. It is true for no
// nodes.
func (s *Selectron) ContainsEvery(nodes []*dom.Node, partlyContained bool) bool {
	for _, n := range nodes {
		if !s.Contains(n, partlyContained) {
			return false
		}
	}
	return true
}

// ContainsSome reports whether any node is contained.
func (s *Selectron) ContainsSome(nodes []*dom.Node, partlyContained bool) bool {
	for _, n := range nodes {
		if s.Contains(n, partlyContained) {
			return true
		}
	}
	return false
}
