package selectron

import (
	"testing"

	"github.com/chrisuehlinger/selectron/dom"
)

// fakeSource reports a fixed range, possibly with start after end, the way
// a backwards drag does on some platforms.
type fakeSource struct {
	ep      dom.Endpoints
	ok      bool
	commits int
}

func (f *fakeSource) ActiveRange() (dom.Endpoints, bool) {
	return f.ep, f.ok
}

func (f *fakeSource) CommitRange(startRef *dom.Node, startOffset int, endRef *dom.Node, endOffset int) error {
	f.commits++
	f.ep = dom.Endpoints{
		StartContainer: startRef,
		StartOffset:    startOffset,
		EndContainer:   endRef,
		EndOffset:      endOffset,
		Collapsed:      startRef == endRef && startOffset == endOffset,
	}
	f.ok = true
	return nil
}

func selectRange(t *testing.T, sel *dom.Selection, sc *dom.Node, so int, ec *dom.Node, eo int) {
	t.Helper()
	if err := sel.CommitRange(sc, so, ec, eo); err != nil {
		t.Fatalf("CommitRange failed: %v", err)
	}
}

func threeParagraphs(t *testing.T) (root, p1, p2, p3, t1, t2 *dom.Node) {
	root = fragment(t, `<p>Hello</p><p>World</p><p>!</p>`)
	return root, at(t, root, "0"), at(t, root, "1"), at(t, root, "2"), at(t, root, "0/0"), at(t, root, "1/0")
}

func TestContainsAcrossParagraphs(t *testing.T) {
	root, p1, p2, p3, t1, t2 := threeParagraphs(t)
	sel := dom.NewSelection()
	selectRange(t, sel, t1, 2, t2, 3)
	s := New(sel, WithElement(root))

	tests := []struct {
		name   string
		node   *dom.Node
		partly bool
		want   bool
	}{
		{"first paragraph, full", p1, false, false},
		{"first paragraph, partly", p1, true, true},
		{"second paragraph, partly", p2, true, true},
		{"third paragraph, partly", p3, true, false},
		{"first text", t1, false, true},
		{"second text", t2, false, true},
		{"root, partly", root, true, true},
		{"nil node", nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.node, tt.partly); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.node, tt.partly, got, tt.want)
			}
		})
	}
}

func TestContainsElementBoundaries(t *testing.T) {
	root, p1, p2, p3, _, t2 := threeParagraphs(t)
	sel := dom.NewSelection()
	selectRange(t, sel, root, 0, root, 2)
	s := New(sel)

	if !s.Contains(p1, false) {
		t.Error("first paragraph should be fully contained")
	}
	// the range ends after the text of the second paragraph, one unit short
	// of its end
	if s.Contains(p2, false) {
		t.Error("second paragraph should not be fully contained")
	}
	if !s.Contains(p2, true) {
		t.Error("second paragraph should be partly contained")
	}
	if !s.Contains(t2, false) {
		t.Error("second text should be contained")
	}
	if s.Contains(p3, true) {
		t.Error("third paragraph should not be contained")
	}

	if s.ContainsEvery([]*dom.Node{p1, p2}, false) {
		t.Error("ContainsEvery(full) should be false")
	}
	if !s.ContainsEvery([]*dom.Node{p1, p2}, true) {
		t.Error("ContainsEvery(partly) should be true")
	}
	if !s.ContainsEvery(nil, false) {
		t.Error("ContainsEvery of no nodes should be true")
	}
	if s.ContainsSome([]*dom.Node{p3}, true) {
		t.Error("ContainsSome([p3]) should be false")
	}
	if !s.ContainsSome([]*dom.Node{p3, p1}, false) {
		t.Error("ContainsSome([p3, p1]) should be true")
	}
}

func TestContainsCollapsed(t *testing.T) {
	root, p1, p2, p3, t1, t2 := threeParagraphs(t)
	sel := dom.NewSelection()
	selectRange(t, sel, t2, 2, t2, 2)
	s := New(sel, WithElement(root))

	if !s.Contains(t2, false) {
		t.Error("caret text should be contained")
	}
	for _, n := range []*dom.Node{p1, p3, t1} {
		if s.Contains(n, true) {
			t.Errorf("disjoint node %v reported as contained", n)
		}
	}
	if s.Contains(p2, false) {
		t.Error("a caret cannot fully contain its paragraph")
	}
	if !s.Contains(p2, true) {
		t.Error("the caret's paragraph should be partly contained")
	}
}

func TestContainsNoRange(t *testing.T) {
	root, p1, _, _, _, _ := threeParagraphs(t)
	s := New(dom.NewSelection(), WithElement(root))
	if s.Contains(p1, true) {
		t.Error("Contains without a range should be false")
	}
	if nodes, err := s.Contained(SectionShortcut{}, true); err != nil || len(nodes) != 0 {
		t.Errorf("Contained without a range = %v, %v; want none", nodes, err)
	}
}

func TestContainsReversedRange(t *testing.T) {
	root, p1, p2, p3, t1, t2 := threeParagraphs(t)

	forward := &fakeSource{ok: true, ep: dom.Endpoints{
		StartContainer: t1, StartOffset: 2, EndContainer: t2, EndOffset: 3,
	}}
	backward := &fakeSource{ok: true, ep: dom.Endpoints{
		StartContainer: t2, StartOffset: 3, EndContainer: t1, EndOffset: 2,
	}}
	fs, bs := New(forward, WithElement(root)), New(backward, WithElement(root))

	for _, n := range []*dom.Node{root, p1, p2, p3, t1, t2} {
		for _, partly := range []bool{false, true} {
			if f, b := fs.Contains(n, partly), bs.Contains(n, partly); f != b {
				t.Errorf("Contains(%v, %v): forward %v, backward %v", n, partly, f, b)
			}
		}
	}
}

// Full containment implies partial containment for every node and range.
func TestContainsConsistency(t *testing.T) {
	root := fragment(t, `<p>ab<em>cd</em></p><ul><li>e</li><li>f</li></ul><p>g<br>h</p>`)
	nodes := append([]*dom.Node{root}, root.Descendants()...)

	var points []Position
	for _, n := range nodes {
		for off := 0; off <= n.Length(); off++ {
			points = append(points, Position{n, off})
		}
	}

	sel := dom.NewSelection()
	s := New(sel, WithElement(root))
	for i, a := range points {
		for _, b := range points[i:] {
			if err := sel.CommitRange(a.Ref, a.Offset, b.Ref, b.Offset); err != nil {
				t.Fatalf("CommitRange failed: %v", err)
			}
			for _, n := range nodes {
				if s.Contains(n, false) && !s.Contains(n, true) {
					t.Errorf("range %v-%v: %v fully but not partly contained", a, b, n)
				}
			}
		}
	}
}

func TestContained(t *testing.T) {
	root := fragment(t, `<p>a</p><ul><li>b</li><li>c</li></ul><ol><li>d</li></ol><p>e</p>`)
	b := at(t, root, "1/0/0")
	c := at(t, root, "1/1/0")
	sel := dom.NewSelection()
	selectRange(t, sel, b, 0, c, 1)
	s := New(sel, WithElement(root))

	sections, err := s.Contained(SectionShortcut{}, true)
	if err != nil {
		t.Fatalf("Contained failed: %v", err)
	}
	if len(sections) != 2 || sections[0] != at(t, root, "1/0") || sections[1] != at(t, root, "1/1") {
		t.Errorf("sections = %v, want both items of the first list", sections)
	}

	lists, err := SelectorFilter(nil, "ul, ol")
	if err != nil {
		t.Fatalf("SelectorFilter failed: %v", err)
	}
	got, err := s.Contained(lists, true)
	if err != nil {
		t.Fatalf("Contained failed: %v", err)
	}
	if len(got) != 1 || got[0] != at(t, root, "1") {
		t.Errorf("lists = %v, want the UL", got)
	}

	texts, err := s.Contained(TextFilter(nil), true)
	if err != nil {
		t.Fatalf("Contained failed: %v", err)
	}
	if len(texts) != 2 || texts[0] != b || texts[1] != c {
		t.Errorf("texts = %v, want [b c]", texts)
	}

	explicit, _ := s.Contained(ExplicitList{Nodes: []*dom.Node{at(t, root, "0"), at(t, root, "1/1")}}, true)
	if len(explicit) != 1 || explicit[0] != at(t, root, "1/1") {
		t.Errorf("explicit = %v, want the second item", explicit)
	}

	if _, err := SelectorFilter(root, "p["); err == nil {
		t.Error("SelectorFilter accepted an invalid selector")
	}
}
