package selectron

import (
	"fmt"

	"github.com/chrisuehlinger/selectron/dom"
)

// Normalize re-anchors boundaries that could land on either side of a
// section edge.
//
// A range ending at offset 0 of a section is pulled back to the end of the
// content before that section, so it does not spill into it. A caret at
// offset 0 of a text node is moved to the end of the preceding content in the
// same section.
func (s *Selectron) Normalize() error {
	ep, err := s.activeRange()
	if err != nil {
		return err
	}

	if !ep.Collapsed {
		if !ep.EndContainer.IsSection() || ep.EndOffset != 0 {
			return nil
		}
		ref := ep.EndContainer
		for ref.PreviousSibling() == nil {
			if ref = ref.ParentNode(); ref == nil {
				return nil
			}
		}
		prev := ref.PreviousSibling()

		start, err := s.Get(CaretStart, ep.StartContainer.ClosestSection(), false)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		total, err := Count(prev, nil, false)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		s.log.Debug("normalize: pulling range end out of section", "section", ep.EndContainer.String(), "before", prev.String())
		return s.Restore(Positions{Start: start, End: Position{Ref: prev, Offset: total}}, false)
	}

	if !ep.EndContainer.IsText() || ep.EndOffset != 0 {
		return nil
	}
	end, err := s.Get(CaretEnd, ep.EndContainer.ClosestSection(), false)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	s.log.Debug("normalize: re-anchoring caret", "container", ep.EndContainer.String())
	return s.Restore(Positions{Start: end}, false)
}

// IsAtEndOfSection reports whether the range ends at the end of section's
// own content. Content of a nested list does not count. A nil section means
// the section enclosing the end caret.
func (s *Selectron) IsAtEndOfSection(section *dom.Node) (bool, error) {
	ep, err := s.activeRange()
	if err != nil {
		return false, err
	}
	if section != nil {
		if !section.Contains(ep.EndContainer) {
			return false, nil
		}
	} else if section = ep.EndContainer.ClosestSection(); section == nil {
		return false, fmt.Errorf("end caret in %s: %w", ep.EndContainer, ErrNoSection)
	}

	// a caret inside a nested list is not in the section's own content
	if modeFor(false).hiddenBy(section, ep.EndContainer) != nil {
		return false, nil
	}
	off, err := Resolve(section, endpoint(ep, CaretEnd), false)
	if unreachable(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var total int
	if list := firstList(section); list != nil {
		total, err = Count(section, list, false)
	} else {
		total, err = Count(section, nil, false)
	}
	if err != nil {
		return false, err
	}
	return off == total, nil
}

// IsAtStartOfSection reports whether the range starts at offset 0 of section,
// or of the section enclosing the start caret when section is nil.
func (s *Selectron) IsAtStartOfSection(section *dom.Node) (bool, error) {
	ep, err := s.activeRange()
	if err != nil {
		return false, err
	}
	if section == nil {
		if section = ep.StartContainer.ClosestSection(); section == nil {
			return false, fmt.Errorf("start caret in %s: %w", ep.StartContainer, ErrNoSection)
		}
	}
	if modeFor(false).hiddenBy(section, ep.StartContainer) != nil {
		return false, nil
	}
	off, err := Resolve(section, endpoint(ep, CaretStart), false)
	if unreachable(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return off == 0, nil
}

func firstList(section *dom.Node) *dom.Node {
	for c := section.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() == dom.KindContainer {
			return c
		}
	}
	return nil
}
