// Package inspect answers one-shot questions about a selection placed in a
// loaded document. It backs both the command line and the HTTP server.
//
// Node paths are child indexes joined by "/" and are relative to the document
// body. A boundary is a path followed by ":" and a local offset.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
	"github.com/chrisuehlinger/selectron/network"
	"github.com/chrisuehlinger/selectron/selectron"
)

// Operations lists the supported values of Request.Op.
var Operations = []string{"count", "uncount", "positions", "contained", "styles"}

// ErrUnknownOperation is returned for an Op not in Operations.
var ErrUnknownOperation = errors.New("unknown operation")

// Request describes a document, a selection in it and what to derive.
type Request struct {
	File     string
	Op       string
	Scope    string // path of the scope element, empty for the body
	Start    string // selection start as path:offset
	End      string // selection end, empty for collapsed at Start
	Ref      string // node to count up to, empty for the whole scope
	Offset   int    // linear offset to resolve
	Selector string // filter for contained, empty for sections
	Partly   bool
	CountAll bool
}

// Position is a position with its reference node given as a path.
type Position struct {
	Path   string `json:"path"`
	Node   string `json:"node"`
	Offset int    `json:"offset"`
}

// Styles is the JSON form of selectron.Styles.
type Styles struct {
	Alignment string   `json:"alignment"`
	Formats   []string `json:"formats"`
	Blocks    []string `json:"blocks"`
}

// Do loads req.File and runs req.Op against it. The result is ready to be
// encoded as JSON.
func Do(ctx context.Context, loader *network.DocumentLoader, req Request, log *slog.Logger) (any, error) {
	doc, err := loader.Load(ctx, req.File)
	if err != nil {
		return nil, err
	}
	body := doc.Body
	scope, err := body.NodeAtPath(req.Scope)
	if err != nil {
		return nil, fmt.Errorf("scope: %w", err)
	}

	sel := dom.NewSelection()
	s := selectron.New(sel, selectron.WithElement(scope), selectron.WithLogger(log))
	if req.Start != "" {
		if err := placeSelection(body, sel, req.Start, req.End); err != nil {
			return nil, err
		}
	}
	pos := func(p selectron.Position) Position {
		path, _ := p.Ref.Path(body)
		return Position{Path: path, Node: p.Ref.NodeName(), Offset: p.Offset}
	}

	switch req.Op {
	case "count":
		var ref *dom.Node
		if req.Ref != "" {
			if ref, err = body.NodeAtPath(req.Ref); err != nil {
				return nil, fmt.Errorf("ref: %w", err)
			}
		}
		n, err := selectron.Count(scope, ref, req.CountAll)
		if err != nil {
			return nil, err
		}
		return map[string]int{"count": n}, nil

	case "uncount":
		return pos(selectron.Uncount(scope, req.Offset, req.CountAll)), nil

	case "positions":
		ps, err := s.GetPositions(scope, req.CountAll)
		if err != nil {
			return nil, err
		}
		return map[string]Position{"start": pos(ps.Start), "end": pos(ps.End)}, nil

	case "contained":
		var filter selectron.NodeSelector = selectron.SectionShortcut{Root: scope}
		if req.Selector != "" {
			if filter, err = selectron.SelectorFilter(scope, req.Selector); err != nil {
				return nil, err
			}
		}
		nodes, err := s.Contained(filter, req.Partly)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(nodes))
		for _, n := range nodes {
			path, _ := n.Path(body)
			paths = append(paths, path)
		}
		return map[string][]string{"contained": paths}, nil

	case "styles":
		if err := s.Update(selectron.UpdateOptions{}); err != nil {
			return nil, err
		}
		st, err := s.Styles()
		if err != nil {
			return nil, err
		}
		return Styles{
			Alignment: st.Alignment,
			Formats:   nonNil(st.Formats),
			Blocks:    nonNil(st.Blocks),
		}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOperation, req.Op)
}

func placeSelection(body *dom.Node, sel *dom.Selection, start, end string) error {
	startNode, startOffset, err := ParseBoundary(body, start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	endNode, endOffset := startNode, startOffset
	if end != "" {
		if endNode, endOffset, err = ParseBoundary(body, end); err != nil {
			return fmt.Errorf("end: %w", err)
		}
	}
	return sel.CommitRange(startNode, startOffset, endNode, endOffset)
}

// ParseBoundary parses "path:offset" relative to body. The offset defaults
// to 0 and is bounds-checked when a range is committed.
func ParseBoundary(body *dom.Node, s string) (*dom.Node, int, error) {
	path, offsetStr, found := strings.Cut(s, ":")
	offset := 0
	if found {
		var err error
		if offset, err = strconv.Atoi(offsetStr); err != nil {
			return nil, 0, fmt.Errorf("invalid offset %q", offsetStr)
		}
	}
	node, err := body.NodeAtPath(path)
	if err != nil {
		return nil, 0, err
	}
	return node, offset, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
