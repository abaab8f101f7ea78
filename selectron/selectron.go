// Package selectron maps carets between linear offsets and tree positions,
// so a selection can be saved as plain numbers and restored after the tree
// has been rebuilt. It also answers containment queries over the active
// selection and caches aggregate facts about what it spans.
package selectron

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrisuehlinger/selectron/css"
	"github.com/chrisuehlinger/selectron/dom"
)

// SelectionSource is the platform selection a Selectron reads from and
// commits to. *dom.Selection implements it.
type SelectionSource interface {
	// ActiveRange returns the endpoints of the first range. ok is false
	// when the selection is empty.
	ActiveRange() (ep dom.Endpoints, ok bool)
	// CommitRange replaces the active range.
	CommitRange(startRef *dom.Node, startOffset int, endRef *dom.Node, endOffset int) error
}

// StyleResolver computes the styles Update aggregates.
type StyleResolver interface {
	TextAlign(n *dom.Node) string
}

// DefaultFormats are the inline tags reported by Styles.
var DefaultFormats = []string{"strong", "u", "em", "strike"}

// Selectron tracks one selection. It is not safe for concurrent use.
type Selectron struct {
	source  SelectionSource
	element *dom.Node
	log     *slog.Logger
	style   StyleResolver
	formats []string

	snap *snapshot
}

// Option configures a Selectron.
type Option func(*Selectron)

// WithElement sets the scope element offsets are reported relative to.
func WithElement(el *dom.Node) Option {
	return func(s *Selectron) { s.element = el }
}

// WithLogger sets the logger for debug events. The default discards.
func WithLogger(log *slog.Logger) Option {
	return func(s *Selectron) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStyleResolver replaces css.ComputedStyle as the source of alignment.
func WithStyleResolver(r StyleResolver) Option {
	return func(s *Selectron) {
		if r != nil {
			s.style = r
		}
	}
}

// WithFormats sets the inline tags Update checks for, replacing DefaultFormats.
func WithFormats(tags ...string) Option {
	return func(s *Selectron) { s.formats = tags }
}

// New creates a Selectron reading from source.
func New(source SelectionSource, opts ...Option) *Selectron {
	s := &Selectron{
		source:  source,
		log:     slog.New(slog.DiscardHandler),
		style:   css.ComputedStyle{},
		formats: DefaultFormats,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Element returns the scope element, which may be nil.
func (s *Selectron) Element() *dom.Node {
	return s.element
}

// SetElement changes the scope element and discards the cached snapshot.
func (s *Selectron) SetElement(el *dom.Node) {
	s.element = el
	s.snap = nil
}

// Range returns the endpoints of the active range.
func (s *Selectron) Range() (dom.Endpoints, bool) {
	return s.source.ActiveRange()
}

func (s *Selectron) activeRange() (dom.Endpoints, error) {
	ep, ok := s.source.ActiveRange()
	if !ok || ep.StartContainer == nil || ep.EndContainer == nil {
		return dom.Endpoints{}, ErrNoRange
	}
	return ep, nil
}

// scope resolves the element offsets are counted from: el, else the
// configured element, else the BODY of the tree holding the active range.
func (s *Selectron) scope(el *dom.Node) (*dom.Node, error) {
	if el != nil {
		return el, nil
	}
	if s.element != nil {
		return s.element, nil
	}
	ep, ok := s.source.ActiveRange()
	if !ok || ep.StartContainer == nil {
		return nil, ErrNoScope
	}
	root := ep.StartContainer.GetRootNode()
	if body := bodyOf(root); body != nil {
		return body, nil
	}
	return root, nil
}

func bodyOf(root *dom.Node) *dom.Node {
	if root.Is("body") {
		return root
	}
	for _, n := range root.Descendants() {
		if n.Is("body") {
			return n
		}
	}
	return nil
}

// Offset returns the linear offset of one caret of the active range relative
// to element. A nil element means the section enclosing the caret.
func (s *Selectron) Offset(element *dom.Node, caret Caret, countAll bool) (int, error) {
	ep, err := s.activeRange()
	if err != nil {
		return 0, err
	}
	pos := endpoint(ep, caret)
	if element == nil {
		if element = pos.Ref.ClosestSection(); element == nil {
			return 0, fmt.Errorf("%s caret in %s: %w", caret, pos.Ref, ErrNoSection)
		}
	}
	return Resolve(element, pos, countAll)
}

// Get returns the position of one caret as a linear offset from element, or
// from the scope when element is nil. For the configured scope element the
// positions cached by the last Update are returned.
func (s *Selectron) Get(caret Caret, element *dom.Node, countAll bool) (Position, error) {
	return s.get(caret, element, countAll, true)
}

func (s *Selectron) get(caret Caret, element *dom.Node, countAll, cached bool) (Position, error) {
	if _, err := s.activeRange(); err != nil {
		return Position{}, err
	}
	el, err := s.scope(element)
	if err != nil {
		return Position{}, err
	}
	if cached && el == s.element && s.snap != nil && s.snap.positions != nil {
		if caret == CaretStart {
			return s.snap.positions.Start, nil
		}
		return s.snap.positions.End, nil
	}
	off, err := s.Offset(el, caret, countAll)
	if err != nil {
		return Position{}, err
	}
	return Position{Ref: el, Offset: off}, nil
}

// GetPositions returns both carets. The end is resolved first and reused for
// the start of a collapsed range.
func (s *Selectron) GetPositions(element *dom.Node, countAll bool) (Positions, error) {
	return s.positions(element, countAll, true)
}

func (s *Selectron) positions(element *dom.Node, countAll, cached bool) (Positions, error) {
	ep, err := s.activeRange()
	if err != nil {
		return Positions{}, err
	}
	end, err := s.get(CaretEnd, element, countAll, cached)
	if err != nil {
		return Positions{}, err
	}
	if ep.Collapsed {
		return Positions{Start: end, End: end}, nil
	}
	start, err := s.get(CaretStart, element, countAll, cached)
	if err != nil {
		return Positions{}, err
	}
	return Positions{Start: start, End: end}, nil
}

// Raw returns one caret exactly as the selection source reports it.
func (s *Selectron) Raw(caret Caret) (Position, error) {
	ep, err := s.activeRange()
	if err != nil {
		return Position{}, err
	}
	return endpoint(ep, caret), nil
}

// Set commits local positions to the selection source. If either position is
// out of bounds nothing is committed and no error is returned. With update
// set, the snapshot is rebuilt afterwards.
func (s *Selectron) Set(p Positions, update bool) error {
	p = p.normalized()
	if p.Start.Ref == nil {
		return fmt.Errorf("set: %w", ErrInvalidPosition)
	}
	if !p.Start.InBounds() || !p.End.InBounds() {
		s.log.Debug("discarding out of bounds selection", "start", p.Start.String(), "end", p.End.String())
		return nil
	}
	if err := s.source.CommitRange(p.Start.Ref, p.Start.Offset, p.End.Ref, p.End.Offset); err != nil {
		return fmt.Errorf("commit range: %w", err)
	}
	if update {
		return s.Update(UpdateOptions{})
	}
	return nil
}

// Restore resolves linear positions with Uncount and commits them. With
// update set, the given positions are stored in the new snapshot.
func (s *Selectron) Restore(p Positions, update bool) error {
	if p.Start.Ref == nil {
		return fmt.Errorf("restore: %w", ErrInvalidPosition)
	}
	start := Uncount(p.Start.Ref, p.Start.Offset, false)
	end := start
	if p.End.Ref != nil && p.End != p.Start {
		end = Uncount(p.End.Ref, p.End.Offset, false)
	}
	if err := s.Set(Positions{Start: start, End: end}, false); err != nil {
		return err
	}
	if update {
		p = p.normalized()
		return s.Update(UpdateOptions{Positions: &p})
	}
	return nil
}

// Select selects all text inside node, or places a caret at its start when
// it holds no text.
func (s *Selectron) Select(node *dom.Node) error {
	if node == nil {
		return fmt.Errorf("select: %w", ErrInvalidPosition)
	}
	var texts []*dom.Node
	if node.IsText() {
		texts = []*dom.Node{node}
	} else {
		for _, n := range node.Descendants() {
			if n.IsText() {
				texts = append(texts, n)
			}
		}
	}
	if len(texts) == 0 {
		return s.Set(Positions{Start: Position{Ref: node}}, false)
	}
	first, last := texts[0], texts[len(texts)-1]
	return s.Set(Positions{
		Start: Position{Ref: first, Offset: 0},
		End:   Position{Ref: last, Offset: last.Length()},
	}, false)
}

// unreachable reports whether err only says that a caret lies outside the
// counted part of the tree.
func unreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
