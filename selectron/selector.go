package selectron

import (
	"github.com/chrisuehlinger/selectron/css"
	"github.com/chrisuehlinger/selectron/dom"
)

// NodeSelector chooses the candidate nodes for Contained. It is one of
// ExplicitList, FilterPredicate or SectionShortcut.
type NodeSelector interface {
	candidates(scope func() (*dom.Node, error)) ([]*dom.Node, error)
}

// ExplicitList checks exactly the given nodes.
type ExplicitList struct {
	Nodes []*dom.Node
}

func (l ExplicitList) candidates(func() (*dom.Node, error)) ([]*dom.Node, error) {
	return l.Nodes, nil
}

// FilterPredicate checks the descendants of Root accepted by Match. A nil
// Root means the scope element; a nil Match accepts every descendant.
type FilterPredicate struct {
	Root  *dom.Node
	Match func(*dom.Node) bool
}

func (f FilterPredicate) candidates(scope func() (*dom.Node, error)) ([]*dom.Node, error) {
	root := f.Root
	if root == nil {
		var err error
		if root, err = scope(); err != nil {
			return nil, err
		}
	}
	var out []*dom.Node
	for _, n := range root.Descendants() {
		if f.Match == nil || f.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// SectionShortcut checks every section element below Root, or below the
// scope element when Root is nil.
type SectionShortcut struct {
	Root *dom.Node
}

func (s SectionShortcut) candidates(scope func() (*dom.Node, error)) ([]*dom.Node, error) {
	return FilterPredicate{Root: s.Root, Match: (*dom.Node).IsSection}.candidates(scope)
}

// SelectorFilter matches the descendants of root that match a CSS selector
// such as "UL,OL" or "p.lead".
func SelectorFilter(root *dom.Node, selector string) (FilterPredicate, error) {
	sel, err := css.ParseSelector(selector)
	if err != nil {
		return FilterPredicate{}, err
	}
	return FilterPredicate{Root: root, Match: sel.Match}, nil
}

// TextFilter matches the text leaves below root.
func TextFilter(root *dom.Node) FilterPredicate {
	return FilterPredicate{Root: root, Match: (*dom.Node).IsText}
}
