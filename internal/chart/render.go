package chart

import (
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// Title is the figure title.
const Title = "US Economic Indicators (1970-Present)"

// Axis colours; each y axis takes the colour of its lead series.
const (
	primaryColor   = "royalblue"
	secondaryColor = "crimson"
)

// TraceStyle describes how one catalog series is drawn.
type TraceStyle struct {
	Column string
	Color  string
	Dash   string
	YAxis  string // "y" (debt & GDP) or "y2" (rates)
}

// Styles lists the traces in drawing order.
var Styles = []TraceStyle{
	{Column: econdata.NationalDebt, Color: primaryColor, Dash: "solid", YAxis: "y"},
	{Column: econdata.GDP, Color: "forestgreen", Dash: "dot", YAxis: "y"},
	{Column: econdata.FedFundsRate, Color: secondaryColor, Dash: "solid", YAxis: "y2"},
	{Column: econdata.Inflation, Color: "darkorange", Dash: "solid", YAxis: "y2"},
}

// Render builds the figure for tbl. When cutoff is non-nil only rows dated on
// or before it are plotted; recession shading and layout are unaffected. A
// cutoff before the first observation yields empty traces. Render does not
// modify tbl.
func Render(tbl *timeseries.Table, cutoff *time.Time) *Spec {
	view := tbl
	if cutoff != nil && tbl != nil {
		view = tbl.Until(*cutoff)
	}

	spec := &Spec{
		Data:   make([]Trace, 0, len(Styles)),
		Layout: layout(),
	}

	dates := make([]string, view.Len())
	for i := 0; i < view.Len(); i++ {
		dates[i] = utils.FormatDate(view.Dates[i])
	}

	for _, st := range Styles {
		tr := Trace{
			Type:  "scatter",
			Mode:  "lines",
			Name:  st.Column,
			X:     []string{},
			Y:     []*float64{},
			YAxis: st.YAxis,
			Line:  Line{Color: st.Color, Width: 2, Dash: st.Dash},
		}
		if view.Len() > 0 {
			if values, err := view.Column(st.Column); err == nil {
				tr.X = dates
				tr.Y = timeseries.NullableFloats(values)
			}
		}
		spec.Data = append(spec.Data, tr)
	}

	spec.Layout.Shapes = recessionShapes(tbl)
	return spec
}

func layout() Layout {
	return Layout{
		Title: Text{Text: Title},
		XAxis: Axis{Title: Text{Text: "Year"}},
		YAxis: Axis{
			Title:    Text{Text: "Debt & GDP (Billions $)", Font: &Font{Color: primaryColor}},
			TickFont: &Font{Color: primaryColor},
			Side:     "left",
		},
		YAxis2: Axis{
			Title:      Text{Text: "Interest & Inflation (%)", Font: &Font{Color: secondaryColor}},
			TickFont:   &Font{Color: secondaryColor},
			Side:       "right",
			Overlaying: "y",
		},
		HoverMode: "x unified",
		Legend: Legend{
			Orientation: "h",
			YAnchor:     "bottom",
			Y:           1.02,
			XAnchor:     "right",
			X:           1,
		},
		Height: 600,
		Margin: Margin{L: 50, R: 50, T: 80, B: 50},
	}
}

// recessionShapes returns one band per recession, clipped to the date range of
// tbl. Bands wholly outside the range are dropped. With no rows the bands are
// returned unclipped.
func recessionShapes(tbl *timeseries.Table) []Shape {
	first, okFirst := tbl.FirstDate()
	last, okLast := tbl.LastDate()
	clip := okFirst && okLast

	shapes := make([]Shape, 0, len(econdata.Recessions()))
	for _, r := range econdata.Recessions() {
		start, end := r.Start, r.End
		if clip {
			if end.Before(first) || start.After(last) {
				continue
			}
			if start.Before(first) {
				start = first
			}
			if end.After(last) {
				end = last
			}
		}
		shapes = append(shapes, Shape{
			Type:      "rect",
			XRef:      "x",
			YRef:      "paper",
			X0:        utils.FormatDate(start),
			X1:        utils.FormatDate(end),
			Y0:        0,
			Y1:        1,
			FillColor: "gray",
			Opacity:   0.2,
			Layer:     "below",
			Line:      ShapeLine{Width: 0},
		})
	}
	return shapes
}
