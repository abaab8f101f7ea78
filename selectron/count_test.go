package selectron

import (
	"errors"
	"testing"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/html"
)

func fragment(t *testing.T, src string) *dom.Node {
	t.Helper()
	root, err := html.ParseFragment(src)
	if err != nil {
		t.Fatalf("ParseFragment(%q) failed: %v", src, err)
	}
	return root
}

func at(t *testing.T, root *dom.Node, path string) *dom.Node {
	t.Helper()
	n, err := root.NodeAtPath(path)
	if err != nil {
		t.Fatalf("NodeAtPath(%q) failed: %v", path, err)
	}
	return n
}

var fixtures = []string{
	`<p>Hello world</p>`,
	`<p>ab</p><ul><li>c</li><li>d<ul><li>e</li></ul></li></ul><p>f<br>g</p>`,
	`<ul><li>a<br><ul><li>b</li></ul></li></ul><p>c</p>`,
	`<h1>T<em>it</em>le</h1><p><strong>bold</strong> and <em>it</em></p><p></p><h2>x</h2>`,
	`<p>line<br></p><ol><li>one</li></ol><p>tail<br>end</p>`,
	"<p>café \U0001F600 ok</p><div><span>x</span><p>y</p></div>",
}

func TestCountHelloWorld(t *testing.T) {
	body := dom.NewElement("body", dom.NewElement("p", dom.NewText("Hello world")))
	text := body.FirstChild().FirstChild()

	got, err := Count(body, text, false)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Count(body, text) = %d, want 1", got)
	}

	total, _ := Count(body, nil, false)
	if total != 12 {
		t.Errorf("Count(body) = %d, want 12", total)
	}

	off, err := Resolve(body, Position{Ref: text, Offset: 5}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if off != 6 {
		t.Errorf("offset after \"Hello\" = %d, want 6", off)
	}

	if got, _ := Count(body, body, false); got != 0 {
		t.Errorf("Count(root, root) = %d, want 0", got)
	}
}

func TestCountLists(t *testing.T) {
	root := fragment(t, `<p>ab</p><ul><li>c</li><li>d</li></ul>`)

	tests := []struct {
		countAll bool
		want     int
	}{
		// p + "ab"
		{false, 3},
		// p, "ab", ul, li, "c", li, "d": one unit each plus text
		{true, 11},
	}
	for _, tt := range tests {
		got, err := Count(root, nil, tt.countAll)
		if err != nil {
			t.Fatalf("Count(countAll=%v) failed: %v", tt.countAll, err)
		}
		if got != tt.want {
			t.Errorf("Count(countAll=%v) = %d, want %d", tt.countAll, got, tt.want)
		}
	}
}

func TestCountLineBreakBeforeList(t *testing.T) {
	before := dom.NewElement("div", dom.NewElement("li",
		dom.NewText("a"),
		dom.NewElement("br"),
		dom.NewElement("ul", dom.NewElement("li", dom.NewText("x"))),
	))
	plain := dom.NewElement("div", dom.NewElement("p",
		dom.NewText("a"),
		dom.NewElement("br"),
		dom.NewText("b"),
	))

	if got, _ := Count(before, nil, false); got != 2 {
		t.Errorf("break before list: Count = %d, want 2", got)
	}
	if got, _ := Count(plain, nil, false); got != 4 {
		t.Errorf("break before text: Count = %d, want 4", got)
	}

	br := before.FirstChild().ChildAt(1)
	if d := Filtered(br); d.Accept {
		t.Error("Filtered accepted a break followed by a list")
	}
	if d := Filtered(plain.FirstChild().ChildAt(1)); !d.Accept {
		t.Error("Filtered rejected a break followed by text")
	}
}

func TestCountUnreachable(t *testing.T) {
	root := fragment(t, `<p>a</p><ul><li>b</li></ul>`)
	p := at(t, root, "0")
	inList := at(t, root, "1/0/0")
	other := dom.NewText("elsewhere")

	if _, err := Count(p, at(t, root, "1"), false); !errors.Is(err, ErrUnreachable) {
		t.Errorf("ref outside root: got %v, want ErrUnreachable", err)
	}
	if _, err := Count(root, other, true); !errors.Is(err, ErrUnreachable) {
		t.Errorf("detached ref: got %v, want ErrUnreachable", err)
	}
	if _, err := Count(root, inList, false); !errors.Is(err, ErrUnreachable) {
		t.Errorf("ref inside skipped list: got %v, want ErrUnreachable", err)
	}
	// "b", li, ul, "a" with its unit, p
	if got, err := Count(root, inList, true); err != nil || got != 6 {
		t.Errorf("count-all into list = %d, %v; want 6, nil", got, err)
	}
}

func TestUncount(t *testing.T) {
	root := fragment(t, `<p>a<br>b</p><p>c<br></p>`)
	a := at(t, root, "0/0")
	b := at(t, root, "0/2")
	c := at(t, root, "1/0")
	p2 := at(t, root, "1")

	tests := []struct {
		offset int
		want   Position
	}{
		{-3, Position{root, 0}},
		{0, Position{root, 0}},
		{1, Position{a, 0}},
		{2, Position{a, 1}},
		{3, Position{b, 0}},
		{4, Position{b, 1}},
		{5, Position{c, 0}},
		{6, Position{c, 1}},
		// after the trailing break
		{7, Position{p2, 2}},
	}
	for _, tt := range tests {
		if got := Uncount(root, tt.offset, false); got != tt.want {
			t.Errorf("Uncount(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	if got := Uncount(c, 4, false); got != (Position{c, 4}) {
		t.Errorf("Uncount on text root = %v, want it unchanged", got)
	}
	short := fragment(t, `<p>ab</p>`)
	if got := Uncount(short, 99, false); got.InBounds() {
		t.Errorf("Uncount past the end = %v, want an out of bounds position", got)
	}
}

func TestResolveElementOffset(t *testing.T) {
	root := fragment(t, `<p>ab</p><p>cd</p>`)

	got, err := Resolve(root, Position{Ref: root, Offset: 1}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// after the first paragraph's text
	if got != 3 {
		t.Errorf("Resolve(root:1) = %d, want 3", got)
	}

	if _, err := Resolve(root, Position{Ref: root, Offset: 5}, false); !errors.Is(err, dom.IndexSizeError) {
		t.Errorf("Resolve past last child: got %v, want IndexSizeError", err)
	}
	if _, err := Resolve(root, Position{}, false); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Resolve without ref: got %v, want ErrInvalidPosition", err)
	}
}

func TestResolveInsideSkippedList(t *testing.T) {
	root := fragment(t, `<p>para</p><ul><li>item</li></ul><p>x</p>`)
	ul, item := at(t, root, "1"), at(t, root, "1/0/0")

	tests := []struct {
		name     string
		pos      Position
		countAll bool
		want     int
	}{
		// p and "para", the list adds nothing
		{"caret in item", Position{item, 2}, false, 5},
		{"after the item", Position{ul, 1}, false, 5},
		{"before the list", Position{root, 1}, false, 5},
		// p, "para" with its unit, ul, li, the unit of "item" and two characters
		{"count all", Position{item, 2}, true, 11},
	}
	for _, tt := range tests {
		got, err := Resolve(root, tt.pos, tt.countAll)
		if err != nil {
			t.Errorf("%s: Resolve failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Resolve(%v) = %d, want %d", tt.name, tt.pos, got, tt.want)
		}
	}

	other := fragment(t, `<p>elsewhere</p>`)
	if _, err := Resolve(root, Position{at(t, other, "0/0"), 1}, false); !errors.Is(err, ErrUnreachable) {
		t.Errorf("position outside root: got %v, want ErrUnreachable", err)
	}
}

// Every offset in a tree resolves to a position that counts back to the same
// offset, in both modes.
func TestUncountInverse(t *testing.T) {
	for _, src := range fixtures {
		root := fragment(t, src)
		for _, countAll := range []bool{false, true} {
			total, err := Count(root, nil, countAll)
			if err != nil {
				t.Fatalf("%s: Count failed: %v", src, err)
			}
			for off := 0; off <= total; off++ {
				pos := Uncount(root, off, countAll)
				if !pos.InBounds() {
					t.Errorf("%s countAll=%v: Uncount(%d) = %v is out of bounds", src, countAll, off, pos)
					continue
				}
				got, err := Resolve(root, pos, countAll)
				if err != nil {
					t.Errorf("%s countAll=%v: Resolve(%v) failed: %v", src, countAll, pos, err)
					continue
				}
				if got != off {
					t.Errorf("%s countAll=%v: Resolve(Uncount(%d)) = %d", src, countAll, off, got)
				}
			}

			for _, ref := range root.Descendants() {
				off, err := Count(root, ref, countAll)
				if errors.Is(err, ErrUnreachable) {
					continue
				}
				if err != nil {
					t.Fatalf("%s: Count(%v) failed: %v", src, ref, err)
				}
				got, err := Resolve(root, Uncount(root, off, countAll), countAll)
				if err != nil || got != off {
					t.Errorf("%s countAll=%v: ref %v counted %d, round trip gave %d (%v)", src, countAll, ref, off, got, err)
				}
			}
		}
	}
}

func TestUncountLandsOnText(t *testing.T) {
	root := fragment(t, `<p>Hello world</p>`)
	text := at(t, root, "0/0")

	off, _ := Count(root, text, false)
	if got := Uncount(root, off, false); got != (Position{text, 0}) {
		t.Errorf("Uncount(Count(text)) = %v, want %v", got, Position{text, 0})
	}
}

func TestCountMonotonic(t *testing.T) {
	for _, src := range fixtures {
		root := fragment(t, src)
		for _, countAll := range []bool{false, true} {
			prev := -1
			var prevNode *dom.Node
			for _, n := range root.Descendants() {
				off, err := Count(root, n, countAll)
				if errors.Is(err, ErrUnreachable) {
					continue
				}
				if off < prev {
					t.Errorf("%s countAll=%v: Count(%v) = %d < Count(%v) = %d", src, countAll, n, off, prevNode, prev)
				}
				prev, prevNode = off, n
			}
		}
	}
}

func TestCountUTF16(t *testing.T) {
	root := fragment(t, "<p>\U0001F600a</p>")
	// p, then one surrogate pair and one unit
	if got, _ := Count(root, nil, false); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
}
