package selectron

import (
	"github.com/chrisuehlinger/selectron/dom"
)

// snapshot is one generation of cached selection state. Update replaces it
// wholesale; it is never patched.
type snapshot struct {
	positions   *Positions
	collections *Collections
	styles      *Styles
}

// Collections are the nodes spanned by the selection when Update ran.
type Collections struct {
	// Sections are the partly contained section elements of the scope.
	Sections []*dom.Node
	// ListItems are the LI elements among Sections.
	ListItems []*dom.Node
	// Lists are the partly contained UL and OL children of the scope.
	Lists []*dom.Node
	// Blocks are the Sections that are not list items.
	Blocks []*dom.Node
	// TextNodes are the text leaves under the range's common ancestor.
	TextNodes []*dom.Node
}

// Styles are facts shared by everything the selection spans.
type Styles struct {
	// Alignment is the text-align of every block, with "start" reported as
	// "left". It is empty when blocks disagree or there are none.
	Alignment string
	// Formats are the inline tags wrapping every selected text node, or
	// wrapping the caret when the selection is collapsed.
	Formats []string
	// Blocks are the distinct tag names of the blocks.
	Blocks []string
}

// UpdateOptions control what Update recomputes.
type UpdateOptions struct {
	// Positions are stored as is instead of being read from the selection.
	Positions *Positions
	// KeepPositions carries the previous snapshot's positions forward.
	KeepPositions bool
	// SkipContained leaves Collections and Styles unset.
	SkipContained bool
	// SkipStyles leaves Styles unset.
	SkipStyles bool
}

// Update rebuilds the snapshot from the live selection and tree.
func (s *Selectron) Update(opts UpdateOptions) error {
	prev := s.snap
	snap := &snapshot{}

	switch {
	case opts.Positions != nil:
		p := opts.Positions.normalized()
		snap.positions = &p
	case opts.KeepPositions:
		if prev != nil {
			snap.positions = prev.positions
		}
	default:
		p, err := s.positions(nil, false, false)
		if err != nil {
			return err
		}
		snap.positions = &p
	}

	ep, err := s.activeRange()
	if err != nil {
		return err
	}

	if !opts.SkipContained {
		c, err := s.collect(ep)
		if err != nil {
			return err
		}
		snap.collections = c
		if !opts.SkipStyles {
			snap.styles = s.aggregate(ep, c)
		}
	}

	s.snap = snap
	if snap.positions != nil {
		s.log.Debug("selection updated",
			"start", snap.positions.Start.Offset,
			"end", snap.positions.End.Offset,
			"collapsed", ep.Collapsed,
		)
	}
	return nil
}

// Positions returns the positions stored by the last Update.
func (s *Selectron) Positions() (Positions, error) {
	if s.snap == nil || s.snap.positions == nil {
		return Positions{}, &StateError{Field: "positions"}
	}
	return *s.snap.positions, nil
}

// Collections returns the contained nodes computed by the last Update.
func (s *Selectron) Collections() (Collections, error) {
	if s.snap == nil || s.snap.collections == nil {
		return Collections{}, &StateError{Field: "contained nodes"}
	}
	return *s.snap.collections, nil
}

// Styles returns the style facts computed by the last Update.
func (s *Selectron) Styles() (Styles, error) {
	if s.snap == nil || s.snap.styles == nil {
		return Styles{}, &StateError{Field: "styles"}
	}
	return *s.snap.styles, nil
}

func (s *Selectron) collect(ep dom.Endpoints) (*Collections, error) {
	scope, err := s.scope(nil)
	if err != nil {
		return nil, err
	}
	c := &Collections{}

	if c.Sections, err = s.Contained(SectionShortcut{Root: scope}, true); err != nil {
		return nil, err
	}
	seen := make(map[*dom.Node]bool)
	for _, n := range c.Sections {
		if n.Is("li") {
			if !seen[n] {
				seen[n] = true
				c.ListItems = append(c.ListItems, n)
			}
			continue
		}
		c.Blocks = append(c.Blocks, n)
	}

	var lists []*dom.Node
	for child := scope.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Kind() == dom.KindContainer {
			lists = append(lists, child)
		}
	}
	if c.Lists, err = s.Contained(ExplicitList{Nodes: lists}, true); err != nil {
		return nil, err
	}

	if ca := dom.CommonAncestor(ep.StartContainer, ep.EndContainer); ca != nil {
		if ca.IsText() {
			c.TextNodes = []*dom.Node{ca}
		} else if c.TextNodes, err = s.Contained(TextFilter(ca), true); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *Selectron) aggregate(ep dom.Endpoints, c *Collections) *Styles {
	st := &Styles{}

	for i, b := range c.Blocks {
		a := s.style.TextAlign(b)
		if a == "start" {
			a = "left"
		}
		if i == 0 {
			st.Alignment = a
		} else if a != st.Alignment {
			st.Alignment = ""
			break
		}
	}

	seen := make(map[string]bool)
	for _, b := range c.Blocks {
		if name := b.NodeName(); !seen[name] {
			seen[name] = true
			st.Blocks = append(st.Blocks, name)
		}
	}

	scope, _ := s.scope(nil)
	for _, tag := range s.formats {
		if len(c.TextNodes) > 0 && everyWrapped(c.TextNodes, tag, scope) ||
			ep.Collapsed && (ep.StartContainer.Is(tag) || wrapped(ep.StartContainer, tag, scope)) {
			st.Formats = append(st.Formats, tag)
		}
	}
	return st
}

// wrapped reports whether an ancestor of n below stop has the given tag.
func wrapped(n *dom.Node, tag string, stop *dom.Node) bool {
	for p := n.ParentNode(); p != nil && p != stop; p = p.ParentNode() {
		if p.Is(tag) {
			return true
		}
	}
	return false
}

func everyWrapped(nodes []*dom.Node, tag string, stop *dom.Node) bool {
	for _, n := range nodes {
		if !wrapped(n, tag, stop) {
			return false
		}
	}
	return true
}
