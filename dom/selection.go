package dom

// Endpoints is a plain snapshot of a range's boundary points. Start is not
// guaranteed to precede End; a platform may report either order.
type Endpoints struct {
	StartContainer *Node
	StartOffset    int
	EndContainer   *Node
	EndOffset      int
	Collapsed      bool
}

// Endpoints returns the range's boundary points.
func (r *Range) Endpoints() Endpoints {
	return Endpoints{
		StartContainer: r.startContainer,
		StartOffset:    r.startOffset,
		EndContainer:   r.endContainer,
		EndOffset:      r.endOffset,
		Collapsed:      r.Collapsed(),
	}
}

// Selection is an in-memory stand-in for a platform selection. Like most
// browsers it holds at most one range.
type Selection struct {
	ranges []*Range
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ranges: make([]*Range, 0, 1)}
}

// RangeCount returns the number of ranges in the selection.
func (s *Selection) RangeCount() int {
	return len(s.ranges)
}

// IsCollapsed returns true if the selection's start and end points are at the same position.
func (s *Selection) IsCollapsed() bool {
	if len(s.ranges) == 0 {
		return true
	}
	return s.ranges[0].Collapsed()
}

// Type returns "None", "Caret" or "Range".
func (s *Selection) Type() string {
	if len(s.ranges) == 0 {
		return "None"
	}
	if s.ranges[0].Collapsed() {
		return "Caret"
	}
	return "Range"
}

// GetRangeAt returns the range at the given index.
func (s *Selection) GetRangeAt(index int) (*Range, error) {
	if index < 0 || index >= len(s.ranges) {
		return nil, ErrIndexSize("Index out of range")
	}
	return s.ranges[index], nil
}

// AddRange adds a Range to the selection. A second range is ignored.
func (s *Selection) AddRange(r *Range) {
	if r == nil {
		return
	}
	if len(s.ranges) == 0 {
		s.ranges = append(s.ranges, r)
	}
}

// RemoveAllRanges removes all ranges from the selection.
func (s *Selection) RemoveAllRanges() {
	s.ranges = s.ranges[:0]
}

// Collapse collapses the selection to a single point. A nil node empties it.
func (s *Selection) Collapse(node *Node, offset int) error {
	if node == nil {
		s.RemoveAllRanges()
		return nil
	}
	r := NewRange(node)
	if err := r.SetStart(node, offset); err != nil {
		return err
	}
	r.Collapse(true)
	s.ranges = []*Range{r}
	return nil
}

// SetBaseAndExtent replaces the selection with a range between two points.
// Points given in reverse order produce a range collapsed at the end point,
// as setStart followed by setEnd does.
func (s *Selection) SetBaseAndExtent(anchorNode *Node, anchorOffset int, focusNode *Node, focusOffset int) error {
	if anchorNode == nil || focusNode == nil {
		return ErrNotFound("Node is null")
	}
	r := NewRange(anchorNode)
	if err := r.SetStart(anchorNode, anchorOffset); err != nil {
		return err
	}
	if err := r.SetEnd(focusNode, focusOffset); err != nil {
		return err
	}
	s.ranges = []*Range{r}
	return nil
}

// ContainsNode indicates if a certain node is part of the selection.
func (s *Selection) ContainsNode(node *Node, partialContainment bool) bool {
	if node == nil || len(s.ranges) == 0 {
		return false
	}
	if partialContainment {
		return s.ranges[0].IntersectsNode(node)
	}
	return s.ranges[0].ContainsNode(node)
}

// String returns the text covered by the selection.
func (s *Selection) String() string {
	if len(s.ranges) == 0 {
		return ""
	}
	return s.ranges[0].String()
}

// ActiveRange returns the endpoints of the first range, if any.
func (s *Selection) ActiveRange() (Endpoints, bool) {
	if len(s.ranges) == 0 {
		return Endpoints{}, false
	}
	return s.ranges[0].Endpoints(), true
}

// CommitRange replaces the active range, the way removeAllRanges followed by
// addRange does on a platform selection.
func (s *Selection) CommitRange(startRef *Node, startOffset int, endRef *Node, endOffset int) error {
	r := NewRange(startRef)
	if err := r.SetStart(startRef, startOffset); err != nil {
		return err
	}
	if err := r.SetEnd(endRef, endOffset); err != nil {
		return err
	}
	s.RemoveAllRanges()
	s.AddRange(r)
	return nil
}
