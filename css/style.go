package css

import (
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
)

// Declarations holds the properties of an inline style attribute.
type Declarations struct {
	values map[string]string
	order  []string
}

// ParseDeclarations parses a style attribute string such as
// "text-align: center; color: red".
func ParseDeclarations(styleAttr string) *Declarations {
	d := &Declarations{values: make(map[string]string)}
	for _, part := range strings.Split(styleAttr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Split by first colon
		colonIdx := strings.Index(part, ":")
		if colonIdx == -1 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colonIdx]))
		value := strings.TrimSpace(part[colonIdx+1:])
		if property == "" || value == "" {
			continue
		}
		if i := strings.Index(strings.ToLower(value), "!important"); i >= 0 {
			value = strings.TrimSpace(value[:i])
		}
		if _, exists := d.values[property]; !exists {
			d.order = append(d.order, property)
		}
		d.values[property] = value
	}
	return d
}

// Get returns the value of a property, or "" if unset.
func (d *Declarations) Get(property string) string {
	return d.values[strings.ToLower(property)]
}

// Len returns the number of properties set.
func (d *Declarations) Len() int {
	return len(d.order)
}

// ComputedStyle resolves inherited properties from inline style attributes
// and legacy presentational attributes. There is no cascade from style sheets.
type ComputedStyle struct{}

// TextAlign returns the computed text-align of n: the nearest inline
// declaration or align attribute on n or an ancestor, else "start".
func (ComputedStyle) TextAlign(n *dom.Node) string {
	for node := n; node != nil; node = node.ParentNode() {
		if !node.IsElement() {
			continue
		}
		if v := ParseDeclarations(node.GetAttribute("style")).Get("text-align"); v != "" && v != "inherit" {
			return strings.ToLower(v)
		}
		if v := node.GetAttribute("align"); v != "" {
			return strings.ToLower(v)
		}
	}
	return "start"
}
