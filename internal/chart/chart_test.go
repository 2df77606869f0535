package chart

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata/econtest"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

func cleanTable(t *testing.T) *timeseries.Table {
	t.Helper()
	tbl, err := econdata.Clean(econtest.RawTable(econdata.SeriesIDs()))
	require.NoError(t, err)
	return tbl
}

// wideTable spans 1970-2024 so that every recession band is inside the range.
func wideTable(t *testing.T) *timeseries.Table {
	t.Helper()
	var dates []time.Time
	for d := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2025; d = d.AddDate(0, 3, 0) {
		dates = append(dates, d)
	}
	cols := make([][]float64, 4)
	for c := range cols {
		cols[c] = make([]float64, len(dates))
		for i := range dates {
			cols[c][i] = float64(i + c)
		}
	}
	return &timeseries.Table{Dates: dates, Columns: econdata.Names(), Values: cols}
}

func TestRenderTraces(t *testing.T) {
	spec := Render(cleanTable(t), nil)

	require.Len(t, spec.Data, 4)
	want := []struct {
		name, color, dash, axis string
	}{
		{econdata.NationalDebt, "royalblue", "solid", "y"},
		{econdata.GDP, "forestgreen", "dot", "y"},
		{econdata.FedFundsRate, "crimson", "solid", "y2"},
		{econdata.Inflation, "darkorange", "solid", "y2"},
	}
	for i, w := range want {
		tr := spec.Data[i]
		assert.Equal(t, w.name, tr.Name)
		assert.Equal(t, w.color, tr.Line.Color)
		assert.Equal(t, w.dash, tr.Line.Dash)
		assert.Equal(t, w.axis, tr.YAxis)
		assert.Equal(t, 2.0, tr.Line.Width)
		assert.Len(t, tr.X, econtest.Rows)
		assert.Len(t, tr.Y, econtest.Rows)
	}

	infl := spec.Trace(econdata.Inflation)
	require.NotNil(t, infl)
	assert.Nil(t, infl.Y[0], "leading inflation values are null")
	assert.NotNil(t, infl.Y[econtest.Rows-1])
}

func TestRenderLayout(t *testing.T) {
	l := Render(cleanTable(t), nil).Layout

	assert.Equal(t, "US Economic Indicators (1970-Present)", l.Title.Text)
	assert.Equal(t, "Year", l.XAxis.Title.Text)
	assert.Equal(t, "Debt & GDP (Billions $)", l.YAxis.Title.Text)
	assert.Equal(t, "royalblue", l.YAxis.Title.Font.Color)
	assert.Equal(t, "left", l.YAxis.Side)
	assert.Equal(t, "Interest & Inflation (%)", l.YAxis2.Title.Text)
	assert.Equal(t, "crimson", l.YAxis2.TickFont.Color)
	assert.Equal(t, "right", l.YAxis2.Side)
	assert.Equal(t, "y", l.YAxis2.Overlaying)
	assert.Equal(t, "x unified", l.HoverMode)
	assert.Equal(t, Legend{Orientation: "h", YAnchor: "bottom", Y: 1.02, XAnchor: "right", X: 1}, l.Legend)
	assert.Equal(t, 600, l.Height)
	assert.Equal(t, Margin{L: 50, R: 50, T: 80, B: 50}, l.Margin)
}

func TestRenderCutoffAtLastEqualsNoCutoff(t *testing.T) {
	tbl := cleanTable(t)
	last, _ := tbl.LastDate()

	full, err := json.Marshal(Render(tbl, nil))
	require.NoError(t, err)
	cut, err := json.Marshal(Render(tbl, &last))
	require.NoError(t, err)
	assert.JSONEq(t, string(full), string(cut))
}

func TestRenderCutoffTruncates(t *testing.T) {
	tbl := cleanTable(t)
	cutoff := time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)

	spec := Render(tbl, &cutoff)
	for _, tr := range spec.Data {
		assert.Len(t, tr.X, 6, tr.Name)
		assert.Equal(t, "2022-06-01", tr.X[len(tr.X)-1])
	}
	assert.Equal(t, econtest.Rows, tbl.Len(), "input table untouched")
	assert.Equal(t, Render(tbl, nil).Layout.Shapes, spec.Layout.Shapes)
}

func TestRenderCutoffBeforeFirstGivesEmptyTraces(t *testing.T) {
	cutoff := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	spec := Render(cleanTable(t), &cutoff)

	require.Len(t, spec.Data, 4)
	for _, tr := range spec.Data {
		assert.Empty(t, tr.X)
		assert.Empty(t, tr.Y)
	}

	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"x":[]`)
}

func TestRecessionShapesFullRange(t *testing.T) {
	shapes := Render(wideTable(t), nil).Layout.Shapes
	require.Len(t, shapes, 7)

	assert.Equal(t, "1973-11-01", shapes[0].X0)
	assert.Equal(t, "1975-03-01", shapes[0].X1)
	assert.Equal(t, "2020-04-01", shapes[6].X1)
	for _, s := range shapes {
		assert.Equal(t, "gray", s.FillColor)
		assert.Equal(t, 0.2, s.Opacity)
		assert.Zero(t, s.Line.Width)
		assert.Equal(t, "paper", s.YRef)
	}
}

func TestRecessionShapesClipped(t *testing.T) {
	// 2022-2023 contains no recession
	assert.Empty(t, Render(cleanTable(t), nil).Layout.Shapes)

	tbl := wideTable(t).Between(
		time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	shapes := Render(tbl, nil).Layout.Shapes
	require.Len(t, shapes, 2)
	assert.Equal(t, "2008-01-01", shapes[0].X0, "clipped to first observation")
	assert.Equal(t, "2009-06-01", shapes[0].X1)
	assert.Equal(t, "2020-02-01", shapes[1].X0)
}

func TestRecessionShapesEmptyTable(t *testing.T) {
	empty := &timeseries.Table{Columns: econdata.Names(), Values: make([][]float64, 4)}
	spec := Render(empty, nil)
	assert.Len(t, spec.Layout.Shapes, 7)
	for _, tr := range spec.Data {
		assert.Empty(t, tr.X)
	}
}

func TestRenderJSONNullsNaN(t *testing.T) {
	raw, err := json.Marshal(Render(cleanTable(t), nil))
	require.NoError(t, err)

	var decoded struct {
		Data []struct {
			Name string     `json:"name"`
			Y    []*float64 `json:"y"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded.Data[3].Y[0])
	assert.NotContains(t, string(raw), "NaN")
}

func TestSVG(t *testing.T) {
	out := SVG(Render(wideTable(t), nil), DefaultSVGConfig())

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, "US Economic Indicators (1970-Present)")
	assert.Contains(t, out, "Debt &amp; GDP (Billions $)")
	assert.Contains(t, out, "#4169e1")
	assert.Contains(t, out, `stroke-dasharray="2,4"`)
	assert.Equal(t, 7, strings.Count(out, `fill="#808080"`))
}

func TestSVGEmpty(t *testing.T) {
	cutoff := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	out := SVG(Render(cleanTable(t), &cutoff), SVGConfig{})
	assert.Contains(t, out, "No data points")
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot;", escapeXML(`a & b <c> "d"`))
}
