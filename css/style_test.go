package css

import (
	"testing"

	"github.com/chrisuehlinger/selectron/dom"
)

func TestParseDeclarations(t *testing.T) {
	d := ParseDeclarations("Text-Align: center; color: red !important;; bogus; : x; margin:")

	tests := []struct {
		property string
		want     string
	}{
		{"text-align", "center"},
		{"TEXT-ALIGN", "center"},
		{"color", "red"},
		{"bogus", ""},
		{"margin", ""},
	}
	for _, tt := range tests {
		if got := d.Get(tt.property); got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.property, got, tt.want)
		}
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}

	// later declarations win
	if got := ParseDeclarations("color: red; color: blue").Get("color"); got != "blue" {
		t.Errorf("duplicate property = %q, want blue", got)
	}
}

func TestComputedStyleTextAlign(t *testing.T) {
	styled := func(tag, attr, value string, children ...*dom.Node) *dom.Node {
		el := dom.NewElement(tag, children...)
		el.SetAttribute(attr, value)
		return el
	}

	plain := dom.NewElement("p", dom.NewText("a"))
	centered := styled("p", "style", "text-align: CENTER")
	legacy := styled("p", "align", "right")
	inherits := dom.NewElement("li", dom.NewText("b"))
	inheritKeyword := styled("p", "style", "text-align: inherit")
	root := styled("div", "style", "text-align: justify",
		plain, centered, legacy,
		dom.NewElement("ul", inherits),
		inheritKeyword,
	)
	dom.NewElement("body", root)

	tests := []struct {
		node *dom.Node
		want string
	}{
		{plain, "justify"},
		{plain.FirstChild(), "justify"},
		{centered, "center"},
		{legacy, "right"},
		{inherits, "justify"},
		{inheritKeyword, "justify"},
		{dom.NewElement("p"), "start"},
		{dom.NewText("loose"), "start"},
	}
	var style ComputedStyle
	for _, tt := range tests {
		if got := style.TextAlign(tt.node); got != tt.want {
			t.Errorf("TextAlign(%v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}
