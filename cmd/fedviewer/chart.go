package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mhaugland/ReactionEnergyDiagrams/cmd/fedviewer/uihelpers"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/fedplot"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

// defaultPalette colors the groups when the style file carries no
// palette of its own.
var defaultPalette = []string{"blue", "orange", "green", "purple", "brown", "magenta", "olive", "cyan"}

var namedColors = map[string]drawing.Color{
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"brown":   {R: 165, G: 42, B: 42, A: 255},
	"pink":    {R: 255, G: 192, B: 203, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
}

// parseColor resolves a series color: a known name or an
// "rgb(r, g, b)" triple. Unrecognized values fall back to gray.
func parseColor(s string) drawing.Color {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "rgb(") && strings.HasSuffix(name, ")") {
		body := strings.TrimSuffix(strings.TrimPrefix(name, "rgb("), ")")
		parts := strings.Split(body, ",")
		if len(parts) == 3 {
			var vals [3]uint8
			ok := true
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil || n < 0 || n > 255 {
					ok = false
					break
				}
				vals[i] = uint8(n)
			}
			if ok {
				return drawing.Color{R: vals[0], G: vals[1], B: vals[2], A: 255}
			}
		}
	}
	if name != "" {
		dataset.Warnf("unknown series color %q, using gray", s)
	}
	return namedColors["gray"]
}

// dashPattern maps the descriptor dash names onto stroke dash arrays.
func dashPattern(dash string) []float64 {
	switch dash {
	case "dash":
		return []float64{5, 5}
	case "dot":
		return []float64{2, 2}
	case "dashdot":
		return []float64{5, 2, 2, 2}
	}
	return nil
}

// splitKnownRuns cuts a point sequence at every unknown energy,
// returning the consecutive known runs. Break points between flat tops
// carry unknown energies, so each top comes back as its own run.
func splitKnownRuns(xs []float64, ys []dataset.Energy) ([][]float64, [][]float64) {
	var runsX [][]float64
	var runsY [][]float64
	var curX []float64
	var curY []float64
	flush := func() {
		if len(curX) > 0 {
			runsX = append(runsX, curX)
			runsY = append(runsY, curY)
			curX, curY = nil, nil
		}
	}
	for i, x := range xs {
		v, ok := ys[i].Value()
		if !ok {
			flush()
			continue
		}
		curX = append(curX, x)
		curY = append(curY, v)
	}
	flush()
	return runsX, runsY
}

// chartSeriesFor converts one descriptor series into go-chart series.
// Step segments become one short series per flat top so no line
// crosses the gaps; the connected line skips break points instead.
// Hover markers are interactive-only and render nothing here.
func chartSeriesFor(s fedplot.Series) []chart.Series {
	style := chart.Style{
		StrokeColor:     parseColor(s.Color),
		StrokeWidth:     s.Width,
		StrokeDashArray: dashPattern(s.Dash),
	}
	switch s.Kind {
	case fedplot.KindMarkers:
		return nil
	case fedplot.KindConnectedLine:
		var xs []float64
		var ys []float64
		for i, x := range s.X {
			if v, ok := s.Y[i].Value(); ok {
				xs = append(xs, x)
				ys = append(ys, v)
			}
		}
		if len(xs) < 2 {
			return nil
		}
		return []chart.Series{chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style}}
	default:
		runsX, runsY := splitKnownRuns(s.X, s.Y)
		out := make([]chart.Series, 0, len(runsX))
		for i := range runsX {
			if len(runsX[i]) < 2 {
				continue
			}
			out = append(out, chart.ContinuousSeries{Name: s.Name, XValues: runsX[i], YValues: runsY[i], Style: style})
		}
		return out
	}
}

type legendEntry struct {
	Label string
	Color drawing.Color
	Dash  []float64
}

// collectLegend gathers one entry per legend-carrying series, first
// occurrence per label.
func collectLegend(series []fedplot.Series) []legendEntry {
	seen := map[string]bool{}
	var out []legendEntry
	for _, s := range series {
		if !s.ShowLegend || s.Name == "" || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		out = append(out, legendEntry{Label: s.Name, Color: parseColor(s.Color), Dash: dashPattern(s.Dash)})
	}
	return out
}

// renderFigure renders descriptor series into a PNG-backed image of
// the given size. Render failures fall back to a blank image so the
// UI still visibly updates.
func renderFigure(series []fedplot.Series, l fedplot.Layout, cw, chh int) image.Image {
	var converted []chart.Series
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		if s.Kind == fedplot.KindMarkers {
			continue
		}
		for i, x := range s.X {
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if v, ok := s.Y[i].Value(); ok {
				if v < minY {
					minY = v
				}
				if v > maxY {
					maxY = v
				}
			}
		}
		converted = append(converted, chartSeriesFor(s)...)
	}
	if len(converted) == 0 || minY == math.MaxFloat64 {
		return blank(cw, chh)
	}

	yLo, yHi := l.YMin, l.YMax
	if yHi <= yLo {
		yLo, yHi = uihelpers.NiceEnergyBounds(minY, maxY)
	}
	yTicks := make([]chart.Tick, 0, 8)
	for _, v := range uihelpers.BuildEnergyTicks(yLo, yHi, 6) {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: uihelpers.FormatEnergyTick(v)})
	}

	var xRange chart.ContinuousRange
	if l.XMax > 0 {
		xRange = chart.ContinuousRange{Min: 0, Max: l.XMax}
	} else {
		pad := (maxX - minX) * 0.04
		if pad <= 0 {
			pad = 0.5
		}
		xRange = chart.ContinuousRange{Min: minX - pad, Max: maxX + pad}
	}
	xTicks := make([]chart.Tick, 0, len(l.TickValues))
	for i, v := range l.TickValues {
		label := ""
		if i < len(l.TickLabels) {
			label = l.TickLabels[i]
		}
		xTicks = append(xTicks, chart.Tick{Value: v, Label: label})
	}

	ch := chart.Chart{
		Title:      l.Title,
		TitleStyle: chart.Style{FontSize: float64(l.TitleFontSize)},
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		Width:      cw,
		Height:     chh,
		XAxis: chart.XAxis{
			Name:      l.XTitle,
			NameStyle: chart.Style{FontSize: float64(l.AxisFontSize)},
			Style:     chart.Style{FontSize: float64(l.TickFontSize)},
			Ticks:     xTicks,
			Range:     &xRange,
		},
		YAxis: chart.YAxis{
			Name:      l.YTitle,
			NameStyle: chart.Style{FontSize: float64(l.AxisFontSize)},
			Style:     chart.Style{FontSize: float64(l.TickFontSize)},
			Ticks:     yTicks,
			Range:     &chart.ContinuousRange{Min: yLo, Max: yHi},
		},
		Series: converted,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] chart render error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] chart decode error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	if !l.HideLegend {
		if entries := collectLegend(series); len(entries) > 0 {
			img = drawLegendBox(img, entries)
		}
	}
	return img
}

// drawLegendBox composites a legend into the image's top-right corner.
// go-chart's built-in legend lists every series, and the broken-step
// rendering splits each diagram into many short series, so the legend
// is drawn from one entry per diagram instead.
func drawLegendBox(img image.Image, entries []legendEntry) image.Image {
	if img == nil || len(entries) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	pad := 6
	glyphW := 22
	gap := 6
	rowH := face.Metrics().Height.Ceil() + 4
	meas := &font.Drawer{Face: face}
	maxW := 0
	for _, e := range entries {
		if w := meas.MeasureString(e.Label).Ceil(); w > maxW {
			maxW = w
		}
	}
	boxW := pad + glyphW + gap + maxW + pad
	boxH := 2*pad + rowH*len(entries)
	x0 := b.Max.X - boxW - 18
	y0 := b.Min.Y + 34
	if x0 < b.Min.X {
		x0 = b.Min.X
	}

	bg := image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 235})
	draw.Draw(rgba, image.Rect(x0, y0, x0+boxW, y0+boxH), bg, image.Point{}, draw.Over)
	border := image.NewUniform(color.RGBA{R: 120, G: 120, B: 120, A: 255})
	draw.Draw(rgba, image.Rect(x0, y0, x0+boxW, y0+1), border, image.Point{}, draw.Over)
	draw.Draw(rgba, image.Rect(x0, y0+boxH-1, x0+boxW, y0+boxH), border, image.Point{}, draw.Over)
	draw.Draw(rgba, image.Rect(x0, y0, x0+1, y0+boxH), border, image.Point{}, draw.Over)
	draw.Draw(rgba, image.Rect(x0+boxW-1, y0, x0+boxW, y0+boxH), border, image.Point{}, draw.Over)

	textCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 255})
	for i, e := range entries {
		top := y0 + pad + i*rowH
		midY := top + rowH/2
		drawDashedHLine(rgba, x0+pad, midY, glyphW, 3, color.RGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255}, e.Dash)
		d := &font.Drawer{
			Dst:  rgba,
			Src:  textCol,
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(x0 + pad + glyphW + gap), Y: fixed.I(top + face.Metrics().Ascent.Ceil())},
		}
		d.DrawString(e.Label)
	}
	return rgba
}

// drawDashedHLine draws a horizontal line glyph of the given width and
// thickness, honoring a dash pattern (on/off pixel lengths).
func drawDashedHLine(dst *image.RGBA, x, y, w, thick int, col color.RGBA, dash []float64) {
	total := 0.0
	for _, d := range dash {
		total += d
	}
	for dx := 0; dx < w; dx++ {
		on := true
		if total > 0 {
			pos := math.Mod(float64(dx), total)
			acc := 0.0
			for i, d := range dash {
				acc += d
				if pos < acc {
					on = i%2 == 0
					break
				}
			}
		}
		if !on {
			continue
		}
		for dy := -thick / 2; dy <= thick/2; dy++ {
			dst.SetRGBA(x+dx, y+dy, col)
		}
	}
}

// drawCaption draws a small caption string onto the image near the
// bottom-left, with a shadow and a dark backdrop for readability.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

// fedCaption summarizes each group's overpotential and limiting step
// for the caption line under the diagram.
func fedCaption(diagrams []orr.GroupDiagram) string {
	var parts []string
	for _, gd := range diagrams {
		res, err := gd.Diagram.Overpotential()
		if err != nil {
			parts = append(parts, fmt.Sprintf("%s: OP n/a", gd.Key))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: OP %.2f eV (%s -> %s)", gd.Key, res.Value, res.LimitingStep[0], res.LimitingStep[1]))
	}
	if len(parts) > 3 {
		parts = append(parts[:3], fmt.Sprintf("+%d more", len(parts)-3))
	}
	return strings.Join(parts, " | ")
}

// buildPeroxideSeries assembles the two-electron branch for each group
// that carries both a bulk and an ooh row. Groups without the branch
// are skipped.
func buildPeroxideSeries(diagrams []orr.GroupDiagram, palette []string, rules []fedplot.FormatRule) []fedplot.Series {
	if len(palette) == 0 {
		palette = defaultPalette
	}
	var series []fedplot.Series
	for i, gd := range diagrams {
		branch, err := gd.Diagram.PeroxideBranch()
		if err != nil {
			dataset.Debugf("peroxide branch for %s: %v", gd.Key, err)
			continue
		}
		name := gd.Key
		if op, err := gd.Diagram.PeroxideOverpotential(); err == nil {
			name = fmt.Sprintf("%s (H2O2 OP: %.2f)", gd.Key, op)
		}
		g := fedplot.Expand(branch.Energies, fedplot.DefaultSpacing, fedplot.DefaultStepSize)
		override := fedplot.ApplyRules(rules, gd.Diagram.Table.Rows())
		series = append(series, fedplot.BuildSeries(g, fedplot.ModeAll, name, palette[i%len(palette)], override, nil)...)
	}
	return series
}
