// Package chart renders the observation table as a dual-axis line chart with
// recession shading. The primary output is a Plotly-compatible figure
// description consumed by the web dashboard; SVG renders the same figure as a
// static image.
package chart

// Spec is a Plotly figure: traces plus layout.
type Spec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one line series. Y holds nil for missing values so that they
// encode as JSON null and break the line.
type Trace struct {
	Type  string     `json:"type"`
	Mode  string     `json:"mode"`
	Name  string     `json:"name"`
	X     []string   `json:"x"`
	Y     []*float64 `json:"y"`
	YAxis string     `json:"yaxis"`
	Line  Line       `json:"line"`
}

// Line is the stroke style of a trace.
type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash"`
}

// Layout is the figure layout.
type Layout struct {
	Title     Text    `json:"title"`
	XAxis     Axis    `json:"xaxis"`
	YAxis     Axis    `json:"yaxis"`
	YAxis2    Axis    `json:"yaxis2"`
	HoverMode string  `json:"hovermode"`
	Legend    Legend  `json:"legend"`
	Height    int     `json:"height"`
	Margin    Margin  `json:"margin"`
	Shapes    []Shape `json:"shapes"`
}

// Text is a titled element with optional font.
type Text struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Font sets text colour.
type Font struct {
	Color string `json:"color"`
}

// Axis configures an x or y axis.
type Axis struct {
	Title      Text   `json:"title"`
	TickFont   *Font  `json:"tickfont,omitempty"`
	Side       string `json:"side,omitempty"`
	Overlaying string `json:"overlaying,omitempty"`
}

// Legend configures the legend position.
type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Shape is a vertical band spanning the full plot height (a Plotly vrect).
type Shape struct {
	Type      string    `json:"type"`
	XRef      string    `json:"xref"`
	YRef      string    `json:"yref"`
	X0        string    `json:"x0"`
	X1        string    `json:"x1"`
	Y0        float64   `json:"y0"`
	Y1        float64   `json:"y1"`
	FillColor string    `json:"fillcolor"`
	Opacity   float64   `json:"opacity"`
	Layer     string    `json:"layer"`
	Line      ShapeLine `json:"line"`
}

// ShapeLine is the outline of a shape.
type ShapeLine struct {
	Width float64 `json:"width"`
}

// Trace returns the trace with the given name, or nil.
func (s *Spec) Trace(name string) *Trace {
	for i := range s.Data {
		if s.Data[i].Name == name {
			return &s.Data[i]
		}
	}
	return nil
}
