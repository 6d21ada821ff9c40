package web

import "html/template"

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 1rem; background: #f4f5f7; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; }
.error { color: #b00020; }
.notice { color: #8a6d00; }
.ok { color: #1b7f3b; }
iframe.chart { width: 100%; height: 460px; border: 0; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
</style>
</head>
<body>
<aside>
<h3>Instructions</h3>
<ol>
<li>Enter your Groq API key.</li>
<li>Type a stock ticker, e.g. MSFT.</li>
<li>Press Analyze.</li>
</ol>
{{if .KeyConfigured}}<p class="ok">API key configured for this request.</p>{{else}}<p class="notice">Insert your Groq API key to enable AI analysis.</p>{{end}}
<p><a href="/">Home</a> | <a href="/analyze">Analyze</a></p>
</aside>
<main>{{template "content" .}}</main>
</body>
</html>{{end}}`

const homeHTML = `{{define "content"}}
<h1>Day Trade Analytics</h1>
<p>Enter a stock ticker to chart its recent price history and get an AI summary of analyst recommendations and the latest news.</p>
<p>Examples: {{range $i, $t := .Examples}}{{if $i}}, {{end}}<a href="/analyze?ticker={{$t}}">{{$t}}</a>{{end}}</p>
{{end}}`

const analyzeHTML = `{{define "content"}}
<h1>Stock analysis</h1>
<form method="post" action="/analyze">
<label>Ticker <input type="text" name="ticker" value="{{.Ticker}}" placeholder="MSFT"></label>
<label>Groq API key <input type="password" name="api_key" autocomplete="off"></label>
<button type="submit">Analyze</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .Analysis}}<section class="analysis">{{.Analysis}}</section>{{end}}
{{range .Charts}}<iframe class="chart" srcdoc="{{.}}"></iframe>
{{end}}
{{end}}`

var (
	homeTemplate    = template.Must(template.Must(template.New("home").Parse(layoutHTML)).Parse(homeHTML))
	analyzeTemplate = template.Must(template.Must(template.New("analyze").Parse(layoutHTML)).Parse(analyzeHTML))
)
