package pdfreport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lvillar/pdfreport/canvas"
	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/observability"
	"github.com/lvillar/pdfreport/style"
)

// Report builds a PDF document from a template and the data providers bound
// to its sections and datalists. A Report is not safe for concurrent use.
type Report struct {
	cfg     *reportConfig
	log     observability.Logger
	surface canvas.Surface

	tpl      *doctpl.Node
	contents map[string]*doctpl.Node

	vars         Vars
	sections     map[string]*Section
	sectionOrder []*Section
	lists        map[string]*Datalist
	listOrder    []*Datalist

	// active holds the sections being processed, innermost last.
	active    []*Section
	prevSec   *Section
	loopCount int
	pageIndex int
	pageCount int

	page    style.Page
	font    style.Font
	line    style.Line
	fill    style.Fill
	barcode style.Barcode
	opacity float64
}

// New returns an empty Report configured by opts.
func New(opts ...Option) *Report {
	cfg := newConfig(opts)
	r := &Report{
		cfg:      cfg,
		log:      cfg.logger,
		sections: make(map[string]*Section),
		lists:    make(map[string]*Datalist),
		contents: make(map[string]*doctpl.Node),
	}
	r.resetStyles()
	return r
}

// SetTemplate loads an XML template.
func (r *Report) SetTemplate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return newReportError("SetTemplate", ErrNoTemplate)
	}
	root, err := doctpl.ParseXMLBytes(data)
	if err != nil {
		return newReportError("SetTemplate", fmt.Errorf("%w: %v", ErrInvalidTemplate, err))
	}
	return r.setRoot("SetTemplate", root)
}

// SetTemplateJSON loads a template written as JSON.
func (r *Report) SetTemplateJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return newReportError("SetTemplateJSON", ErrNoTemplate)
	}
	root, err := doctpl.ParseJSON(data)
	if err != nil {
		return newReportError("SetTemplateJSON", fmt.Errorf("%w: %v", ErrInvalidTemplate, err))
	}
	return r.setRoot("SetTemplateJSON", root)
}

// LoadTemplate reads a template file. Files ending in .json are read as
// JSON, anything else as XML.
func (r *Report) LoadTemplate(path string) error {
	root, err := doctpl.LoadFile(r.path(path))
	if err != nil {
		return newReportError("LoadTemplate", fmt.Errorf("%w: %v", ErrInvalidTemplate, err))
	}
	return r.setRoot("LoadTemplate", root)
}

func (r *Report) setRoot(op string, root *doctpl.Node) error {
	if root.Name != "pdf" {
		return newReportError(op, fmt.Errorf("%w: root element is %q, want \"pdf\"", ErrInvalidTemplate, root.Name))
	}
	r.tpl = root
	return nil
}

// Template returns the loaded template tree, or nil.
func (r *Report) Template() *doctpl.Node { return r.tpl }

// SetVar stores a user variable, resolved in text as {KEY}. Keys are case
// insensitive. An existing variable is replaced only when overwrite is
// true. SetVar reports false for an empty key.
func (r *Report) SetVar(key string, value any, overwrite bool) bool {
	return r.vars.Set(key, value, overwrite)
}

// Var returns the value of a user variable.
func (r *Report) Var(key string) (any, bool) { return r.vars.Get(key) }

// SetSection binds p to the template section id. page, when not nil, makes
// the section add a page of that format for every record. Binding an id
// again replaces the previous section.
func (r *Report) SetSection(id string, p dataprovider.Provider, page *style.Page) *Section {
	s := NewSection(id, p, page)
	s.SetLogger(r.log)
	r.bindLogger(p)
	if old, ok := r.sections[id]; ok {
		for i, o := range r.sectionOrder {
			if o == old {
				r.sectionOrder[i] = s
			}
		}
	} else {
		r.sectionOrder = append(r.sectionOrder, s)
	}
	r.sections[id] = s
	return s
}

// Section returns the section bound to id, or nil.
func (r *Report) Section(id string) *Section { return r.sections[id] }

// SetDatalist binds p to the datalist id used by chart data.
func (r *Report) SetDatalist(id string, p dataprovider.Provider) *Datalist {
	d := NewDatalist(id, p)
	d.SetLogger(r.log)
	r.bindLogger(p)
	if old, ok := r.lists[id]; ok {
		for i, o := range r.listOrder {
			if o == old {
				r.listOrder[i] = d
			}
		}
	} else {
		r.listOrder = append(r.listOrder, d)
	}
	r.lists[id] = d
	return d
}

// Datalist returns the datalist bound to id, or nil.
func (r *Report) Datalist(id string) *Datalist { return r.lists[id] }

func (r *Report) bindLogger(p dataprovider.Provider) {
	if ls, ok := p.(dataprovider.LoggerSetter); ok {
		ls.SetLogger(r.log)
	}
}

// PageIndex is the number of pages the template added so far.
func (r *Report) PageIndex() int { return r.pageIndex }

// PageCount is the total of pages added by the last Build.
func (r *Report) PageCount() int { return r.pageCount }

// Surface returns the surface of the last Build, or nil.
func (r *Report) Surface() canvas.Surface { return r.surface }

// Resolve replaces the {tags} of text with the current values of the
// constants, the variables and the section and datalist rows.
func (r *Report) Resolve(text string) string {
	rv := Resolver{
		Now:       r.cfg.now(),
		Rand:      r.cfg.rnd,
		PageIndex: r.pageIndex,
		PageCount: r.pageCount,
		Vars:      &r.vars,
		Active:    r.current(),
		Sections:  r.sectionOrder,
		Lists:     r.listOrder,
	}
	if r.surface != nil {
		rv.TotalAlias = r.surface.TotalPagesAlias()
	}
	return rv.Resolve(text)
}

// Build lays out the whole template: it reads the default page, the
// document info and the content blocks, then processes every top-level
// section in document order.
func (r *Report) Build(ctx context.Context) error {
	if r.tpl == nil {
		return newReportError("Build", ErrNoTemplate)
	}
	r.log.Info("build begin")
	if err := checkNesting(r.tpl); err != nil {
		r.log.Error("build failed", observability.Error("error", err))
		return err
	}

	r.reset()
	if def := r.tpl.Child("default"); def != nil {
		r.page = style.Page{
			Format:      def.String("format", r.page.Format),
			Orientation: strings.ToUpper(def.String("orientation", r.page.Orientation)),
			Unit:        def.String("unit", r.page.Unit),
		}
	}
	r.surface = r.cfg.surface
	if r.surface == nil {
		r.surface = canvas.NewPDF(r.page, r.cfg.fontDir)
	}
	if info := r.tpl.Child("info"); info != nil {
		r.surface.SetInfo(canvas.Info{
			Creator:  r.Resolve(info.String("creator", "")),
			Author:   r.Resolve(info.String("author", "")),
			Title:    r.Resolve(info.String("title", "")),
			Subject:  r.Resolve(info.String("subject", "")),
			Keywords: r.Resolve(info.String("keywords", "")),
		})
	}
	r.surface.SetFont(r.font)
	r.surface.SetLineStyle(r.line)
	r.surface.SetFillColor(r.fill.Start)

	for _, c := range r.tpl.ChildrenNamed("content") {
		if id := strings.ToLower(strings.TrimSpace(c.String("id", ""))); id != "" {
			r.contents[id] = c
		}
	}

	for _, n := range r.tpl.Children {
		if n.Name != "section" {
			continue
		}
		if err := r.processSection(ctx, n); err != nil {
			r.log.Error("build failed", observability.Error("error", err))
			return err
		}
		// A top-level section stopped at a page break has no parent to
		// re-enter it on the next page.
		if r.prevSec != nil {
			err := newReportError("ProcessSection", fmt.Errorf(
				"%w: section %q overflows y_end outside a section with a page format",
				ErrRunawayTemplate, r.prevSec.ID()))
			r.log.Error("build failed", observability.Error("error", err))
			return err
		}
	}
	if err := r.surface.Err(); err != nil {
		return newReportError("Build", err)
	}
	r.log.Info("build end", observability.Int("pages", r.pageCount))
	return nil
}

// reset prepares the report for a new build. Bound sections and datalists
// are rewound so that a second Build reads the data again.
func (r *Report) reset() {
	r.resetStyles()
	r.contents = make(map[string]*doctpl.Node)
	r.active = nil
	r.prevSec = nil
	r.loopCount = 0
	r.pageIndex = 0
	r.pageCount = 0
	for _, s := range r.sectionOrder {
		s.Reset()
	}
	for _, l := range r.listOrder {
		l.Reset()
	}
}

func (r *Report) resetStyles() {
	r.page = style.DefaultPage()
	r.font = style.DefaultFont()
	r.line = style.DefaultLine()
	r.fill = style.DefaultFill()
	r.barcode = style.DefaultBarcode()
	r.opacity = 1
}

// Output writes the built document to w.
func (r *Report) Output(w io.Writer) error {
	if r.surface == nil {
		return newReportError("Output", fmt.Errorf("%w: the report has not been built", ErrInvalidParam))
	}
	if err := r.surface.Output(w); err != nil {
		return newReportError("Output", err)
	}
	return nil
}

// OutputFile writes the built document to path, relative to the base
// directory when one is configured.
func (r *Report) OutputFile(path string) error {
	if r.surface == nil {
		return newReportError("OutputFile", fmt.Errorf("%w: the report has not been built", ErrInvalidParam))
	}
	if err := r.writeFile(path); err != nil {
		return newReportError("OutputFile", err)
	}
	return nil
}

func (r *Report) writeFile(path string) error {
	f, err := os.Create(r.path(path))
	if err != nil {
		return err
	}
	if err := r.surface.Output(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Report) path(p string) string {
	if r.cfg.baseDir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.cfg.baseDir, p)
}

// current returns the innermost section being processed.
func (r *Report) current() *Section {
	if len(r.active) == 0 {
		return nil
	}
	return r.active[len(r.active)-1]
}

// addPage starts a page of format p and counts it.
func (r *Report) addPage(p style.Page) {
	if p.Unit == "" {
		p.Unit = r.page.Unit
	}
	r.surface.AddPage(p)
	r.pageIndex++
	r.pageCount++
	r.log.Debug("page added",
		observability.Int("page", r.pageIndex),
		observability.String("format", p.Format),
		observability.String("orientation", p.Orientation),
	)
}
