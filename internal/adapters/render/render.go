// Package render draws the pitch map and the wagon wheel as SVG from mapper
// geometry and classified marks.
package render

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// ContentType is the media type of every rendered chart.
const ContentType = "image/svg+xml"

//go:embed templates/*.svg.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"num":    num,
	"points": points,
}).ParseFS(templateFS, "templates/*.svg.tmpl"))

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func points(ps []geometry.Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

type line struct {
	A, B geometry.Point
	Dash string
}

type label struct {
	At     geometry.Point
	Text   string
	Anchor string
}

type band struct {
	Quad    []geometry.Point
	Fill    string
	Opacity float64
}

type pitchView struct {
	Width, Height float64
	Outline       []geometry.Point
	Bands         []band
	Lines         []line
	Labels        []label
	Marks         []pitch.Result
}

type fieldView struct {
	Width, Height       float64
	Center              geometry.Point
	Radius, InnerRadius float64
	Lines               []line
	Labels              []label
	Shots               []geometry.Point
}

// PitchMap writes the pitch with its zone and column grid and one dot per mark.
func PitchMap(w io.Writer, m *pitch.Mapper, size geometry.Size, marks ...pitch.Result) error {
	return execute(w, "pitch.svg.tmpl", pitchGrid(m, size, marks))
}

// PitchHeatmap writes the pitch map shaded by runs conceded per cell, with
// optional marks drawn on top.
func PitchHeatmap(w io.Writer, m *pitch.Mapper, size geometry.Size, zones []analytics.ZoneRow, marks ...pitch.Result) error {
	v := pitchGrid(m, size, marks)
	peak := 0
	for _, row := range zones {
		for _, c := range row.Cells {
			peak = max(peak, c.Runs)
		}
	}
	if peak > 0 {
		for _, row := range zones {
			for _, c := range row.Cells {
				if c.Balls == 0 {
					continue
				}
				v.Bands = append(v.Bands, band{
					Quad:    cellQuad(m.Trapezoid(), row.LengthZone, c.LineColumn),
					Fill:    "#c0392b",
					Opacity: 0.15 + 0.7*float64(c.Runs)/float64(peak),
				})
			}
		}
	}
	return execute(w, "pitch.svg.tmpl", v)
}

func pitchGrid(m *pitch.Mapper, size geometry.Size, marks []pitch.Result) pitchView {
	corners := m.Trapezoid().Corners()
	v := pitchView{
		Width:   size.Width,
		Height:  size.Height,
		Outline: corners[:],
		Marks:   marks,
	}
	for i := 1; i < pitch.ZoneCount; i++ {
		a, b := m.ZoneBoundary(i)
		v.Lines = append(v.Lines, line{A: a, B: b, Dash: "4 3"})
	}
	for i := 1; i < pitch.ColumnCount; i++ {
		a, b := m.ColumnBoundary(i)
		v.Lines = append(v.Lines, line{A: a, B: b, Dash: "2 4"})
	}
	for _, z := range pitch.Zones() {
		at := m.ZoneLabelAnchor(z)
		v.Labels = append(v.Labels, label{At: geometry.Pt(at.X-6, at.Y+4), Text: z.String(), Anchor: "end"})
	}
	for _, c := range pitch.Columns() {
		at := m.ColumnLabelAnchor(c)
		v.Labels = append(v.Labels, label{At: geometry.Pt(at.X, at.Y+16), Text: columnAbbrev(c), Anchor: "middle"})
	}
	return v
}

// cellQuad returns the four corners of one zone/column cell.
func cellQuad(t pitch.Trapezoid, z pitch.LengthZone, c pitch.LineColumn) []geometry.Point {
	at := func(row, col float64) geometry.Point {
		far := geometry.Lerp(t.FarLeft, t.FarRight, col)
		near := geometry.Lerp(t.NearLeft, t.NearRight, col)
		return geometry.Lerp(far, near, row)
	}
	r0, r1 := float64(z)/pitch.ZoneCount, float64(z+1)/pitch.ZoneCount
	c0, c1 := float64(c)/pitch.ColumnCount, float64(c+1)/pitch.ColumnCount
	return []geometry.Point{at(r0, c0), at(r0, c1), at(r1, c1), at(r1, c0)}
}

func columnAbbrev(c pitch.LineColumn) string {
	words := strings.Fields(c.String())
	var b strings.Builder
	for _, w := range words {
		b.WriteByte(w[0])
	}
	return b.String()
}

// WagonWheel writes the field with its sector spokes and one line per shot.
func WagonWheel(w io.Writer, m *field.Mapper, size geometry.Size, shots ...field.Result) error {
	c := m.Circle()
	v := fieldView{
		Width:       size.Width,
		Height:      size.Height,
		Center:      c.Center,
		Radius:      c.Radius,
		InnerRadius: c.InnerRadius,
	}
	for _, s := range field.Sectors() {
		a, b := m.SectorBoundary(s)
		v.Lines = append(v.Lines, line{A: a, B: b, Dash: "3 3"})
		v.Labels = append(v.Labels, label{At: m.SectorLabelAnchor(s), Text: s.String(), Anchor: "middle"})
	}
	for _, r := range shots {
		v.Shots = append(v.Shots, m.ShotEnd(r))
	}
	return execute(w, "field.svg.tmpl", v)
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
