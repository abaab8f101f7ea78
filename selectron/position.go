package selectron

import (
	"fmt"

	"github.com/chrisuehlinger/selectron/dom"
)

// Position is a caret location: a reference node and a number of steps from
// its start. After Get the offset is linear, counted from Ref. After Uncount
// it is local: a UTF-16 index for text, a child index for elements.
type Position struct {
	Ref    *dom.Node
	Offset int
}

// InBounds reports whether the position can be committed as a local boundary
// point.
func (p Position) InBounds() bool {
	return p.Ref != nil && p.Offset >= 0 && p.Offset <= p.Ref.Length()
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Ref, p.Offset)
}

// Positions holds both carets of a selection. A nil End.Ref means the
// selection is collapsed at Start.
type Positions struct {
	Start Position
	End   Position
}

// normalized returns p with End filled in from Start when it is unset.
func (p Positions) normalized() Positions {
	if p.End.Ref == nil {
		p.End = p.Start
	}
	return p
}

// Caret selects one boundary of a range.
type Caret int

const (
	CaretStart Caret = iota
	CaretEnd
)

func (c Caret) String() string {
	if c == CaretStart {
		return "start"
	}
	return "end"
}

// ParseCaret parses "start" or "end".
func ParseCaret(s string) (Caret, error) {
	switch s {
	case "start":
		return CaretStart, nil
	case "end":
		return CaretEnd, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidCaret)
}

// endpoint returns the container and local offset of one caret.
func endpoint(ep dom.Endpoints, c Caret) Position {
	if c == CaretStart {
		return Position{Ref: ep.StartContainer, Offset: ep.StartOffset}
	}
	return Position{Ref: ep.EndContainer, Offset: ep.EndOffset}
}
