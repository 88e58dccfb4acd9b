package server

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

// pageView is the data handed to the index template.
type pageView struct {
	HasData            bool
	CurrentAssets      string
	CurrentLiabilities string
	Inventory          string
	CurrentRatio       string
	QuickRatio         string
	LastUpdated        string
	RemainingSeconds   int
	Progress           float64
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="1">
<title>Synthetic Data Generator</title>
<style>
body { font-family: sans-serif; max-width: 42em; margin: 2em auto; }
.metrics { display: flex; gap: 2em; }
.metric { flex: 1; }
.metric .label { color: #666; font-size: 0.85em; }
.metric .value { font-size: 1.5em; }
progress { width: 100%; }
.muted { color: #666; }
</style>
</head>
<body>
<h1>Synthetic Data Generator</h1>
<p class="muted">Writes one fresh record every 30 seconds: current assets, current liabilities, and inventory.</p>
<form method="post" action="/api/generate"><button type="submit">Generate now</button></form>
<h2>Latest Emission</h2>
{{if .HasData}}
<div class="metrics">
<div class="metric"><div class="label">Current Assets (&pound;)</div><div class="value">{{.CurrentAssets}}</div></div>
<div class="metric"><div class="label">Current Liabilities (&pound;)</div><div class="value">{{.CurrentLiabilities}}</div></div>
<div class="metric"><div class="label">Inventory (&pound;)</div><div class="value">{{.Inventory}}</div></div>
</div>
<p>Current ratio: <b>{{.CurrentRatio}}</b> &middot; Quick ratio: <b>{{.QuickRatio}}</b></p>
<p class="muted">Last updated: {{.LastUpdated}} (UTC)</p>
{{else}}
<p>No data yet &mdash; generating the first record...</p>
{{end}}
<p>Next auto-generate in <b>{{.RemainingSeconds}}s</b>.</p>
<progress value="{{.Progress}}" max="1"></progress>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.ReadLatest(r.Context())
	if err != nil {
		log.Printf("[ERROR] read latest: %v", err)
		http.Error(w, "read latest: "+err.Error(), http.StatusBadGateway)
		return
	}

	st := s.emitter.Status()
	view := pageView{
		RemainingSeconds: st.RemainingSeconds,
		Progress:         st.Progress,
	}
	if snap != nil {
		view.HasData = true
		view.CurrentAssets = money(snap.CurrentAssets.InexactFloat64())
		view.CurrentLiabilities = money(snap.CurrentLiabilities.InexactFloat64())
		view.Inventory = money(snap.Inventory.InexactFloat64())
		view.CurrentRatio = snap.CurrentRatio().StringFixed(2)
		view.QuickRatio = snap.QuickRatio().StringFixed(2)
		view.LastUpdated = snap.Timestamp.UTC().Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, view); err != nil {
		log.Printf("[ERROR] render index: %v", err)
	}
}

func money(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}
