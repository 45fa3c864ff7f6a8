package pdfreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/observability"
	"github.com/lvillar/pdfreport/style"
)

// sectionAttrs are the section settings read by startSection.
var sectionAttrs = map[string]bool{
	"id":         true,
	"y_start":    true,
	"row_height": true,
	"y_end":      true,
	"page":       true,
}

// startSection finds or creates the section of node n, applies the
// geometry declared on it and runs its query unless a row is already
// loaded. A nested section re-entered for the next page of its parent
// thus keeps its position, and its page index moves to that page.
func (r *Report) startSection(ctx context.Context, n *doctpl.Node) (*Section, error) {
	id := strings.TrimSpace(n.String("id", ""))
	if id == "" {
		return nil, newReportError("StartSection", elementError(fmt.Errorf("%w: id", ErrMissingAttribute), n.Key()))
	}

	sec, ok := r.sections[id]
	if !ok {
		sec = r.SetSection(id, nil, nil)
	}
	a := r.attrs(n)
	sec.YStart = a.num("y_start", DefaultYStart)
	sec.RowHeight = a.num("row_height", DefaultRowHeight)
	sec.YEnd = a.num("y_end", DefaultYEnd)
	if err := a.err("StartSection"); err != nil {
		return nil, err
	}
	if err := sec.checkGeometry(); err != nil {
		return nil, newReportError("StartSection", elementError(fmt.Errorf("%w: %v", ErrInvalidParam, err), id))
	}
	if p := strings.TrimSpace(n.String("page", "")); p != "" {
		r.page = style.ParsePage(p, r.page)
		page := r.page
		sec.Page = &page
	}

	if sec.Row() == nil {
		sec.SetQuery(r.Resolve(sec.QueryRaw()))
	}
	if _, err := sec.ExecuteQuery(ctx); err != nil {
		return nil, newReportError("StartSection", fmt.Errorf("section %q: %w", id, err))
	}
	r.log.Debug("section started",
		observability.String("section", id),
		observability.Int("records", sec.RecordCount()),
	)
	return sec, nil
}

// processSection renders the section of node n page after page. Each pass
// of the loop adds the section page, when it has one, renders the section
// children for the current record and moves to the next record. The loop
// ends when the section reaches the end of a page or of its data.
//
// A section that stops at a page break is remembered as the previous
// section. Its parent then keeps its own record for the next page, and a
// sibling section continues on the same page instead of forcing a break.
func (r *Report) processSection(ctx context.Context, n *doctpl.Node) error {
	sec, err := r.startSection(ctx, n)
	if err != nil {
		return err
	}
	r.active = append(r.active, sec)
	defer func() { r.active = r.active[:len(r.active)-1] }()

	if r.prevSec != nil && r.prevSec.ID() == sec.ID() {
		r.prevSec = nil
	}

	for {
		r.loopCount++
		if r.loopCount > r.cfg.maxLoops {
			return newReportError("ProcessSection", elementError(ErrRunawayTemplate, sec.ID()))
		}
		if sec.Page != nil {
			r.addPage(*sec.Page)
		}

		// A bound provider without rows leaves nothing to render.
		if sec.Provider() == nil || sec.Row() != nil {
			if err := r.processSectionChildren(ctx, sec, n); err != nil {
				return err
			}
		}

		if r.prevSec == nil || (r.prevSec.ID() != sec.ID() && r.prevSec.EndOfData()) {
			if err := sec.NextRecord(ctx); err != nil {
				return newReportError("ProcessSection", fmt.Errorf("section %q: %w", sec.ID(), err))
			}
		}
		if sec.EndOfPage() {
			break
		}
	}

	if sec.EndOfData() {
		r.prevSec = nil
	} else {
		sec.ResetPageBreak()
		r.prevSec = sec
	}
	return nil
}

func (r *Report) processSectionChildren(ctx context.Context, sec *Section, n *doctpl.Node) error {
	for _, c := range n.Children {
		switch c.Name {
		case "rem", "comment":
		case "print_content":
			if err := r.processContent(ctx, c); err != nil {
				return err
			}
		case "output":
			if err := r.processOutput(c); err != nil {
				return err
			}
		case "section":
			if err := r.processSection(ctx, c); err != nil {
				return err
			}
		case "var", "setvar":
			if err := r.processVar(c); err != nil {
				return err
			}
		default:
			if c.IsScalar() && sectionAttrs[c.Name] {
				continue
			}
			return newReportError("ProcessSection", elementError(ErrUnsupportedElement, sec.ID()+"/"+c.Key()))
		}
	}
	return nil
}

// checkNesting rejects a section holding more than one nested section
// anywhere in the template.
func checkNesting(root *doctpl.Node) error {
	var err error
	root.Walk(func(n *doctpl.Node) bool {
		if err != nil {
			return false
		}
		if n.Name == "section" && len(n.ChildrenNamed("section")) > 1 {
			err = newReportError("ProcessSection", elementError(ErrNestedSections, n.String("id", n.Key())))
		}
		return err == nil
	})
	return err
}
