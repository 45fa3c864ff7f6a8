package pdfreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/lvillar/pdfreport/chart"
	"github.com/lvillar/pdfreport/doctpl"
	"github.com/lvillar/pdfreport/style"
)

// chartBox reads the required container corners of a chart, without the
// content offset.
func chartBox(a *attrReader) (x1, y1, x2, y2 float64) {
	return a.reqNum("x1"), a.reqNum("y1"), a.reqNum("x2"), a.reqNum("y2")
}

// chartFont reads the optional font child called name.
func (r *Report) chartFont(n *doctpl.Node, name string) (style.Font, error) {
	if c := n.Child(name); c != nil && !c.IsScalar() {
		return r.readFont(c, r.font)
	}
	return r.font, nil
}

func (r *Report) processPieChart(ctx context.Context, el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1, y1, x2, y2 := chartBox(a)
	pie := &chart.Pie{
		Radius: a.num("r|radius", 0),
		Border: a.bool("border", false),
		Style:  a.upper("style", chart.PieDonuts),
	}
	if err := a.err("ProcessPieChart"); err != nil {
		return err
	}
	font, err := r.chartFont(el, "font")
	if err != nil {
		return err
	}
	pie.Font = font
	if pie.Legend, err = r.readLegend(el, off, x1, y1, x2, y2); err != nil {
		return err
	}
	pie.X1, pie.Y1, pie.X2, pie.Y2 = x1+off.x, y1+off.y, x2+off.x, y2+off.y
	if pie.Items, err = r.loadDataItems(ctx, el); err != nil {
		return err
	}
	if err := pie.Draw(painter{r}); err != nil {
		return newReportError("ProcessPieChart", elementError(err, el.Key()))
	}
	return nil
}

func (r *Report) processSingleBarChart(ctx context.Context, el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1, y1, x2, y2 := chartBox(a)
	bar := &chart.SingleBar{
		Vertical: strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.str("orientation", "horizontal"))), "v"),
		Min:      a.num("minvalue", 0),
		Max:      a.num("maxvalue", 0),
		Title:    a.text("title", ""),
	}
	if err := a.err("ProcessSingleBarChart"); err != nil {
		return err
	}
	font, err := r.chartFont(el, "font")
	if err != nil {
		return err
	}
	bar.TitleFont = font
	if bar.Legend, err = r.readLegend(el, off, x1, y1, x2, y2); err != nil {
		return err
	}
	bar.X1, bar.Y1, bar.X2, bar.Y2 = x1+off.x, y1+off.y, x2+off.x, y2+off.y
	if bar.Items, err = r.loadDataItems(ctx, el); err != nil {
		return err
	}
	if err := bar.Draw(painter{r}); err != nil {
		return newReportError("ProcessSingleBarChart", elementError(err, el.Key()))
	}
	return nil
}

func (r *Report) processGaugeChart(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1, y1, x2, y2 := chartBox(a)
	g := &chart.Gauge{
		X1: x1 + off.x, Y1: y1 + off.y, X2: x2 + off.x, Y2: y2 + off.y,
		Title:  a.text("title", ""),
		Radius: a.num("r|radius", 0),
		Border: a.bool("border", false),
		Style:  a.upper("style", chart.PieDonuts),
		Value:  a.reqNum("value"),
		Min:    a.num("minvalue", 0),
		Max:    a.num("maxvalue", 100),
	}
	if err := a.err("ProcessGaugeChart"); err != nil {
		return err
	}
	var err error
	if g.TitleFont, err = r.chartFont(el, "titlefont"); err != nil {
		return err
	}
	if g.Segments, err = r.readSegments(el); err != nil {
		return err
	}
	if len(g.Segments) == 0 {
		def := chart.DefaultSegment(g.Value)
		def.Start, def.End = g.Min, g.Max
		g.Segments = []chart.Segment{def}
	}
	if err := g.Draw(painter{r}); err != nil {
		return newReportError("ProcessGaugeChart", elementError(err, el.Key()))
	}
	return nil
}

func (r *Report) processKPIChart(el *doctpl.Node, off offset) error {
	a := r.attrs(el)
	x1, y1, x2, y2 := chartBox(a)
	k := &chart.KPI{
		X1: x1 + off.x, Y1: y1 + off.y, X2: x2 + off.x, Y2: y2 + off.y,
		Title:  a.text("title", ""),
		Radius: a.num("r|radius", 0),
		Border: a.bool("border", false),
		Value:  a.reqNum("value"),
	}
	if err := a.err("ProcessKpiChart"); err != nil {
		return err
	}
	var err error
	if k.TitleFont, err = r.chartFont(el, "titlefont"); err != nil {
		return err
	}
	if k.Segments, err = r.readSegments(el); err != nil {
		return err
	}
	if err := k.Draw(painter{r}); err != nil {
		return newReportError("ProcessKpiChart", elementError(err, el.Key()))
	}
	return nil
}

// readSegments reads the segment children of the segmentlist of a gauge
// or KPI chart. A segment without a fill color gets a random one.
func (r *Report) readSegments(el *doctpl.Node) ([]chart.Segment, error) {
	list := el.Child("segmentlist")
	if list == nil {
		return nil, nil
	}
	var out []chart.Segment
	for _, n := range list.ChildrenNamed("segment") {
		a := r.attrs(n)
		s := chart.Segment{
			Label:  a.text("label", ""),
			Fill:   style.SolidFill(r.colorOrRandom(a, "fillcolor")),
			Start:  a.num("startvalue", 0),
			End:    a.num("endvalue", 100),
			Symbol: a.text("symbol", ""),
		}
		if err := a.err("ProcessSegment"); err != nil {
			return nil, err
		}
		font, err := r.chartFont(n, "font")
		if err != nil {
			return nil, err
		}
		s.Font = font
		out = append(out, s)
	}
	return out, nil
}

// readLegend reads the optional legend child of a chart. The legend box
// defaults to the chart container; the content offset applies to both.
// Without a legend child the legend is hidden.
func (r *Report) readLegend(el *doctpl.Node, off offset, x1, y1, x2, y2 float64) (chart.Legend, error) {
	n := el.Child("legend")
	if n == nil || n.IsScalar() {
		return chart.Legend{}, nil
	}
	a := r.attrs(n)
	l := chart.NewLegend(
		a.num("x1", x1)+off.x,
		a.num("y1", y1)+off.y,
		a.num("x2", x2)+off.x,
		a.num("y2", y2)+off.y,
	)
	l.Vertical = strings.HasPrefix(a.upper("orientation", "HORIZ"), "V")
	l.Radius = a.num("r|radius", 0)
	l.Visible = a.bool("visibile|visible", true)
	switch a.upper("position", "BOTTOM") {
	case "N", "NONE":
		l.Visible = false
	}
	l.Opacity = clamp01(a.num("opacity", 1))
	l.Title = a.text("title", "")
	if err := a.err("ProcessLegend"); err != nil {
		return l, err
	}
	var err error
	if l.Font, l.Line, l.Fill, err = r.childStyles(n); err != nil {
		return l, err
	}
	return l, nil
}

// loadDataItems reads the chart items of the datalist child of el. A
// datalist with an id walks the bound Datalist and resolves its data row
// template once per record; one without an id lists static data rows.
func (r *Report) loadDataItems(ctx context.Context, el *doctpl.Node) ([]chart.Item, error) {
	var items []chart.Item
	list := el.Child("datalist")
	if list != nil && !list.IsScalar() {
		id := strings.TrimSpace(list.String("id", ""))
		if id == "" {
			for _, d := range list.ChildrenNamed("data") {
				it, err := r.dataItem(d)
				if err != nil {
					return nil, err
				}
				items = append(items, it)
			}
		} else if dl := r.lists[id]; dl != nil {
			tpl := list.Child("data")
			if tpl == nil {
				return nil, newReportError("LoadDataItems", elementError(fmt.Errorf("%w: data", ErrMissingAttribute), list.Key()))
			}
			dl.Reset()
			dl.SetQuery(r.Resolve(dl.QueryRaw()))
			if _, err := dl.ExecuteQuery(ctx); err != nil {
				return nil, newReportError("LoadDataItems", fmt.Errorf("datalist %q: %w", id, err))
			}
			for !dl.EndOfData() {
				it, err := r.dataItem(tpl)
				if err != nil {
					return nil, err
				}
				items = append(items, it)
				if err := dl.NextRecord(ctx); err != nil {
					return nil, newReportError("LoadDataItems", fmt.Errorf("datalist %q: %w", id, err))
				}
			}
		}
	}
	if len(items) == 0 {
		return nil, newReportError("LoadDataItems", elementError(ErrNoChartData, el.Key()))
	}
	return items, nil
}

func (r *Report) dataItem(d *doctpl.Node) (chart.Item, error) {
	a := r.attrs(d)
	label := a.required("label")
	it := chart.Item{
		Label: r.Resolve(label),
		Value: a.reqNum("value"),
		Fill:  style.SolidFill(r.colorOrRandom(a, "color")),
	}
	return it, a.err("LoadDataItems")
}

// colorOrRandom reads the color keys, or picks a random color when the
// element has none.
func (r *Report) colorOrRandom(a *attrReader, keys string) style.Color {
	if a.has(keys) {
		return a.color(keys, style.Black)
	}
	return r.randomColor()
}

func (r *Report) randomColor() style.Color {
	return style.Color{R: r.cfg.rnd.Intn(256), G: r.cfg.rnd.Intn(256), B: r.cfg.rnd.Intn(256)}
}
