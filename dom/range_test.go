package dom

import (
	"errors"
	"testing"
)

func TestNewRange(t *testing.T) {
	div := NewElement("div")
	r := NewRange(div)

	if r.StartContainer() != div || r.EndContainer() != div {
		t.Error("containers should be the node")
	}
	if r.StartOffset() != 0 || r.EndOffset() != 0 {
		t.Error("offsets should be 0")
	}
	if !r.Collapsed() {
		t.Error("Range should be collapsed")
	}
}

func TestRange_SetStartEnd(t *testing.T) {
	text := NewText("Hello World")
	NewElement("div", text)
	r := NewRange(text)

	if err := r.SetStart(text, 0); err != nil {
		t.Fatalf("SetStart failed: %v", err)
	}
	if err := r.SetEnd(text, 5); err != nil {
		t.Fatalf("SetEnd failed: %v", err)
	}
	if r.Collapsed() {
		t.Error("Range should not be collapsed")
	}
	if got := r.String(); got != "Hello" {
		t.Errorf("String() = %q, want %q", got, "Hello")
	}

	// start after end collapses to start
	if err := r.SetStart(text, 8); err != nil {
		t.Fatalf("SetStart failed: %v", err)
	}
	if !r.Collapsed() || r.EndOffset() != 8 {
		t.Errorf("expected collapse at 8, got end %d", r.EndOffset())
	}

	// end before start collapses to end
	if err := r.SetEnd(text, 2); err != nil {
		t.Fatalf("SetEnd failed: %v", err)
	}
	if !r.Collapsed() || r.StartOffset() != 2 {
		t.Errorf("expected collapse at 2, got start %d", r.StartOffset())
	}
}

func TestRange_SetStartErrors(t *testing.T) {
	text := NewText("abc")
	r := NewRange(text)

	if err := r.SetStart(text, 4); !errors.Is(err, IndexSizeError) {
		t.Errorf("SetStart(4) error = %v, want IndexSizeError", err)
	}
	if err := r.SetEnd(text, -1); !errors.Is(err, IndexSizeError) {
		t.Errorf("SetEnd(-1) error = %v, want IndexSizeError", err)
	}
	if err := r.SetStart(nil, 0); !errors.Is(err, NotFoundError) {
		t.Errorf("SetStart(nil) error = %v, want NotFoundError", err)
	}
}

func TestRange_OtherTree(t *testing.T) {
	a := NewElement("p", NewText("a"))
	b := NewElement("p", NewText("b"))
	r := NewRange(a)
	if err := r.SetEnd(a, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetEnd(b, 1); err != nil {
		t.Fatal(err)
	}
	if r.StartContainer() != b || !r.Collapsed() {
		t.Error("setting an end in another tree should collapse to it")
	}
}

func TestRange_SelectNode(t *testing.T) {
	root := sampleTree()
	ul := root.ChildAt(1)
	r := NewRange(root)

	if err := r.SelectNode(ul); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	if r.StartContainer() != root || r.StartOffset() != 1 || r.EndOffset() != 2 {
		t.Errorf("SelectNode range = %v:%d-%d", r.StartContainer(), r.StartOffset(), r.EndOffset())
	}
	if err := r.SelectNode(root); !errors.Is(err, InvalidNodeTypeError) {
		t.Errorf("SelectNode(root) error = %v, want InvalidNodeTypeError", err)
	}

	if err := r.SelectNodeContents(root.FirstChild()); err != nil {
		t.Fatalf("SelectNodeContents failed: %v", err)
	}
	if got := r.String(); got != "Hello world" {
		t.Errorf("String() = %q, want %q", got, "Hello world")
	}
}

func TestRange_Collapse(t *testing.T) {
	text := NewText("Hello")
	r := NewRange(text)
	r.SetEnd(text, 4)
	r.SetStart(text, 1)

	c := r.Clone()
	c.Collapse(true)
	if c.EndOffset() != 1 || !c.Collapsed() {
		t.Error("Collapse(true) should move end to start")
	}
	r.Collapse(false)
	if r.StartOffset() != 4 {
		t.Error("Collapse(false) should move start to end")
	}
}

func TestCommonAncestor(t *testing.T) {
	root := sampleTree()
	hello := root.FirstChild().FirstChild()
	world := root.FirstChild().LastChild().FirstChild()
	x := root.ChildAt(1).FirstChild().FirstChild()

	tests := []struct {
		a, b *Node
		want *Node
	}{
		{hello, world, root.FirstChild()},
		{hello, x, root},
		{world, world, world},
		{root, x, root},
		{hello, NewText("detached"), nil},
	}
	for _, tt := range tests {
		if got := CommonAncestor(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonAncestor(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	r := NewRange(hello)
	r.SetEnd(x, 1)
	if r.CommonAncestorContainer() != root {
		t.Error("CommonAncestorContainer should be the root")
	}
}

func TestComparePoints(t *testing.T) {
	root := sampleTree()
	p := root.FirstChild()
	hello := p.FirstChild()
	world := p.LastChild().FirstChild()

	tests := []struct {
		name   string
		nodeA  *Node
		offA   int
		nodeB  *Node
		offB   int
		expect int
	}{
		{"same node before", hello, 1, hello, 3, -1},
		{"same node equal", hello, 2, hello, 2, 0},
		{"same node after", hello, 4, hello, 0, 1},
		{"ancestor before child", p, 0, hello, 0, -1},
		{"ancestor after child", p, 1, hello, 3, 1},
		{"child before ancestor offset", hello, 5, p, 1, -1},
		{"child after ancestor offset", world, 0, p, 1, 1},
		{"siblings in order", hello, 5, world, 0, -1},
		{"siblings reversed", world, 0, hello, 5, 1},
		{"across subtrees", root.ChildAt(1), 0, hello, 0, 1},
	}
	for _, tt := range tests {
		if got := ComparePoints(tt.nodeA, tt.offA, tt.nodeB, tt.offB); got != tt.expect {
			t.Errorf("%s: ComparePoints = %d, want %d", tt.name, got, tt.expect)
		}
	}
}

func TestRange_IntersectsAndContains(t *testing.T) {
	root := sampleTree()
	p, ul, br := root.ChildAt(0), root.ChildAt(1), root.ChildAt(2)
	hello := p.FirstChild()
	x := ul.FirstChild().FirstChild()

	r := NewRange(hello)
	r.SetStart(hello, 2)
	r.SetEnd(x, 1)

	if !r.IntersectsNode(p) || r.ContainsNode(p) {
		t.Error("P should intersect but not be contained")
	}
	if !r.IntersectsNode(ul) || r.ContainsNode(ul) {
		t.Error("UL should intersect but not be contained")
	}
	if !r.ContainsNode(p.LastChild()) {
		t.Error("EM should be contained")
	}
	if r.IntersectsNode(br) {
		t.Error("BR lies after the range")
	}
	if !r.IntersectsNode(root) {
		t.Error("a root always intersects")
	}
	if got := r.String(); got != "llo worldx" {
		t.Errorf("String() = %q, want %q", got, "llo worldx")
	}
}
