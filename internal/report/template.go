package report

// DashboardTemplate is the HTML template for the dashboard page.
// It is embedded as a Go constant. Plotly is
// loaded from its CDN; interactive behaviour lives in /static/dashboard.js.
const DashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.PageTitle}}</title>
<link rel="stylesheet" href="/static/dashboard.css">
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" charset="utf-8"></script>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <h1>{{.Title}}</h1>
  <p>This interactive visualization shows four key US economic metrics in a single chart:</p>
  <ul>
    {{range .Legend}}<li><strong>{{.Name}}</strong> ({{.Axis}})</li>
    {{end}}
  </ul>
</div>

{{if .Error}}
<div class="banner banner-error">Failed to load economic data: {{.Error}}</div>
{{else}}
<div class="banner banner-ok" id="banner">{{.Banner}}</div>
{{end}}

<!-- ═══════ CHART ═══════ -->
<div id="chart" class="chart"></div>

<!-- ═══════ ANIMATION ═══════ -->
<div class="section">
  <h2>Time Animation Controls</h2>
  <div class="controls">
    <button id="play" type="button"{{if .Error}} disabled{{end}}>&#9654;&#65039; Play Animation</button>
    <label for="speed">Speed <span id="speed-value">{{.DefaultSpeed}}</span></label>
    <input id="speed" type="range" min="{{.MinSpeed}}" max="{{.MaxSpeed}}" value="{{.DefaultSpeed}}">
  </div>
  <progress id="progress" max="100" value="0"></progress>
  <div id="complete" class="banner banner-ok" hidden>{{.CompletedMessage}}</div>
  <div class="metrics" id="frame-metrics">
    <div class="metric"><div class="label">National Debt</div><div class="value" data-metric="national_debt">{{.Latest.NationalDebt}}</div></div>
    <div class="metric"><div class="label">Fed Rate</div><div class="value" data-metric="fed_funds_rate">{{.Latest.FedFundsRate}}</div></div>
    <div class="metric"><div class="label">GDP</div><div class="value" data-metric="gdp">{{.Latest.GDP}}</div></div>
    <div class="metric"><div class="label">Inflation</div><div class="value" data-metric="inflation">{{.Latest.Inflation}}</div></div>
  </div>
</div>

<!-- ═══════ OBSERVATIONS ═══════ -->
<div class="section">
  <h2>Key Observations</h2>
  <div class="observations">
    {{range .Observations}}
    <div class="observation">
      <h3>{{.Title}}</h3>
      <ul>{{range .Points}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{end}}
  </div>
</div>

<!-- ═══════ DATA EXPLORATION ═══════ -->
<div class="section">
  <h2>Data Exploration</h2>
  <div class="year-range">
    <span>Select Year Range: <strong id="year-range-label">{{.FromYear}} &ndash; {{.ToYear}}</strong></span>
    <div class="dual-slider">
      <input id="year-from" type="range" min="{{.MinYear}}" max="{{.MaxYear}}" step="1" value="{{.FromYear}}" aria-label="From year">
      <input id="year-to" type="range" min="{{.MinYear}}" max="{{.MaxYear}}" step="1" value="{{.ToYear}}" aria-label="To year">
    </div>
  </div>
  <div class="metrics" id="range-metrics">
    <div class="metric"><div class="label">Current National Debt</div><div class="value" data-metric="national_debt">{{.Range.NationalDebt}}</div></div>
    <div class="metric"><div class="label">Current Fed Rate</div><div class="value" data-metric="fed_funds_rate">{{.Range.FedFundsRate}}</div></div>
    <div class="metric"><div class="label">Current GDP</div><div class="value" data-metric="gdp">{{.Range.GDP}}</div></div>
    <div class="metric"><div class="label">Current Inflation</div><div class="value" data-metric="inflation">{{.Range.Inflation}}</div></div>
  </div>
</div>

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p><strong>Data Source</strong>: {{.Source}}
  {{range .Series}} | <strong>{{.Name}}</strong>: {{.SeriesID}}{{end}}</p>
  <p>Generated on {{.GeneratedAt}}</p>
</div>

<script id="initial-chart" type="application/json">{{.InitialChart}}</script>
<script src="/static/dashboard.js"></script>
</body>
</html>`
