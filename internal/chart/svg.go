package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// SVGConfig holds rendering parameters for SVG output.
type SVGConfig struct {
	Width        int    // SVG width in pixels (default: 1000)
	Height       int    // SVG height in pixels (default: 600)
	MarginTop    int    // top margin (default: 80)
	MarginRight  int    // right margin (default: 70)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
}

// DefaultSVGConfig returns sensible defaults matching the figure layout.
func DefaultSVGConfig() SVGConfig {
	return SVGConfig{
		Width:        1000,
		Height:       600,
		MarginTop:    80,
		MarginRight:  70,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c SVGConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// CSS equivalents of the named Plotly colours.
var cssColors = map[string]string{
	"royalblue":   "#4169e1",
	"forestgreen": "#228b22",
	"crimson":     "#dc143c",
	"darkorange":  "#ff8c00",
	"gray":        "#808080",
}

func cssColor(name string) string {
	if c, ok := cssColors[name]; ok {
		return c
	}
	return name
}

type valueRange struct{ min, max float64 }

func (r *valueRange) add(v float64) {
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

// pad widens the range by 5% on each side.
func (r valueRange) pad() valueRange {
	span := r.max - r.min
	if span < 0.001 {
		span = 1
	}
	return valueRange{r.min - span*0.05, r.max + span*0.05}
}

// SVG renders spec as a static dual-axis line chart with recession bands.
func SVG(spec *Spec, cfg SVGConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultSVGConfig()
	}

	// Time domain covers every plotted date and every shading band.
	var tMin, tMax time.Time
	extend := func(s string) {
		t, err := utils.ParseDate(s)
		if err != nil {
			return
		}
		if tMin.IsZero() || t.Before(tMin) {
			tMin = t
		}
		if tMax.IsZero() || t.After(tMax) {
			tMax = t
		}
	}

	left := valueRange{math.MaxFloat64, -math.MaxFloat64}
	right := valueRange{math.MaxFloat64, -math.MaxFloat64}
	points := 0
	for _, tr := range spec.Data {
		for i, y := range tr.Y {
			if y == nil {
				continue
			}
			points++
			extend(tr.X[i])
			if tr.YAxis == "y2" {
				right.add(*y)
			} else {
				left.add(*y)
			}
		}
	}
	if points == 0 {
		return emptySVG(cfg, "No data points")
	}
	for _, sh := range spec.Layout.Shapes {
		extend(sh.X0)
		extend(sh.X1)
	}
	if left.min > left.max {
		left = valueRange{0, 1}
	}
	if right.min > right.max {
		right = valueRange{0, 1}
	}
	left, right = left.pad(), right.pad()

	px, py, pw, ph := cfg.plotArea()
	span := tMax.Sub(tMin).Seconds()
	if span <= 0 {
		span = 1
	}
	xOf := func(s string) float64 {
		t, _ := utils.ParseDate(s)
		return float64(px) + t.Sub(tMin).Seconds()/span*float64(pw)
	}
	yOf := func(v float64, r valueRange) float64 {
		return float64(py+ph) - (v-r.min)/(r.max-r.min)*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="24" font-size="16" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(spec.Layout.Title.Text)))

	// Recession bands
	for _, sh := range spec.Layout.Shapes {
		x0, x1 := xOf(sh.X0), xOf(sh.X1)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s" opacity="%.2f"/>`,
			x0, py, math.Max(x1-x0, 0.5), ph, cssColor(sh.FillColor), sh.Opacity))
	}

	// Y-axis grid, left and right tick labels
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		lv := left.min + (left.max-left.min)*float64(i)/float64(gridLines)
		rv := right.min + (right.max-right.min)*float64(i)/float64(gridLines)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.0f</text>`,
			px-5, y+4, cfg.FontSize, cssColor(primaryColor), lv))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="start">%.1f</text>`,
			px+pw+5, y+4, cfg.FontSize, cssColor(secondaryColor), rv))
	}

	// Axis titles
	sb.WriteString(fmt.Sprintf(`<text x="16" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90,16,%d)">%s</text>`,
		py+ph/2, cfg.FontSize+1, cssColor(primaryColor), py+ph/2, escapeXML(spec.Layout.YAxis.Title.Text)))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(90,%d,%d)">%s</text>`,
		cfg.Width-16, py+ph/2, cfg.FontSize+1, cssColor(secondaryColor), cfg.Width-16, py+ph/2, escapeXML(spec.Layout.YAxis2.Title.Text)))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
		px+pw/2, cfg.Height-8, cfg.FontSize+1, cfg.TextColor, escapeXML(spec.Layout.XAxis.Title.Text)))

	// X-axis year labels
	step := 1
	if years := tMax.Year() - tMin.Year(); years > 10 {
		step = years / 10
	}
	for year := tMin.Year(); year <= tMax.Year(); year += step {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		if t.Before(tMin) {
			continue
		}
		x := xOf(utils.FormatDate(t))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%d</text>`,
			x, py+ph+18, cfg.FontSize-1, cfg.TextColor, year))
	}

	// Series
	for si, tr := range spec.Data {
		r := left
		if tr.YAxis == "y2" {
			r = right
		}
		color := cssColor(tr.Line.Color)

		var pathParts []string
		for i, y := range tr.Y {
			if y == nil {
				continue
			}
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, xOf(tr.X[i]), yOf(*y, r)))
		}
		dash := ""
		if tr.Line.Dash == "dot" {
			dash = ` stroke-dasharray="2,4"`
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%.0f"%s/>`,
				strings.Join(pathParts, " "), color, tr.Line.Width, dash))
		}

		// Legend, top right, horizontal
		lx := px + pw - (len(spec.Data)-si)*150
		ly := py - 14
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"%s/>`,
			lx, ly, lx+20, ly, color, dash))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			lx+25, ly+4, cfg.TextColor, escapeXML(tr.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg SVGConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg SVGConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
