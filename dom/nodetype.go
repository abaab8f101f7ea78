// Package dom provides the read-mostly content tree that selection offsets are
// counted over: a linked node tree, boundary-point ranges and an in-memory
// platform selection.
package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// NodeType represents the type of a Node. The values match the DOM constants.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}

// Kind classifies a node by how it takes part in offset counting.
type Kind uint8

const (
	// KindGeneric is any element without counting rules of its own, and the document.
	KindGeneric Kind = iota
	// KindText is a text leaf.
	KindText
	// KindSection is a block-level unit: P, H1-H6 and LI.
	KindSection
	// KindLineBreak is a BR element.
	KindLineBreak
	// KindContainer is a list grouping: UL and OL.
	KindContainer
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSection:
		return "section"
	case KindLineBreak:
		return "linebreak"
	case KindContainer:
		return "container"
	default:
		return "generic"
	}
}

// SectionTags lists the tag names that are section elements, in the order a
// selector list would name them.
var SectionTags = []string{"P", "H1", "H2", "H3", "H4", "H5", "H6", "LI"}

// kindOfTag classifies an element by its tag name.
func kindOfTag(tagName string) Kind {
	switch atom.Lookup([]byte(strings.ToLower(tagName))) {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Li:
		return KindSection
	case atom.Br:
		return KindLineBreak
	case atom.Ul, atom.Ol:
		return KindContainer
	default:
		return KindGeneric
	}
}
