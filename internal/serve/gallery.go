package serve

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/scalelab/scalecharts/internal/build"
)

type galleryChart struct {
	Name        string
	Description string
	Fits        []build.Fit
	Links       []galleryLink
	Err         string
}

type galleryLink struct {
	Label string
	Href  string
}

type galleryData struct {
	RunID  string
	Charts []galleryChart
	Watch  bool
}

// handleIndex renders the gallery page from the latest build summary.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	summary := s.summary
	s.mu.RUnlock()

	if summary == nil {
		http.Error(w, "no build available yet", http.StatusServiceUnavailable)
		return
	}

	data := galleryData{RunID: summary.RunID, Watch: s.watch}
	for _, res := range summary.Results {
		gc := galleryChart{Name: res.Chart, Fits: res.Fits}
		if c, ok := build.Lookup(res.Chart); ok {
			gc.Description = c.Description
		}
		if res.Err != nil {
			gc.Err = res.Err.Error()
		}
		for _, a := range res.Artifacts {
			rel, err := filepath.Rel(s.builder.OutDir, a.Path)
			if err != nil {
				continue
			}
			gc.Links = append(gc.Links, galleryLink{
				Label: strings.ToUpper(a.Format),
				Href:  "/charts/" + filepath.ToSlash(rel),
			})
		}
		data.Charts = append(data.Charts, gc)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if err := galleryTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render gallery", "error", err)
	}
}

var galleryTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Scaling Charts</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
         margin: 2rem auto; max-width: 60rem; color: #222; }
  h1 { font-size: 1.5rem; }
  .chart { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
  .chart h2 { font-size: 1.1rem; margin: 0 0 .25rem; }
  .chart p { margin: .25rem 0; color: #555; }
  .fit { font-size: .85rem; color: #666; font-family: monospace; }
  .links a { margin-right: .75rem; }
  .error { color: #b03030; }
  .run { color: #999; font-size: .8rem; }
</style>
</head>
<body>
<h1>Scaling Charts</h1>
<p class="run">run {{.RunID}}</p>
{{range .Charts}}
<div class="chart">
  <h2>{{.Name}}</h2>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{if .Err}}<p class="error">{{.Err}}</p>{{end}}
  {{range .Fits}}
  <p class="fit">{{.Series}} ({{.Kind}}): exponent {{printf "%.3f" .Result.Exponent}},
     r&sup2; {{printf "%.3f" .Result.RSquared}}, outliers {{.Outliers}}</p>
  {{end}}
  <p class="links">
    {{range .Links}}<a href="{{.Href}}">{{.Label}}</a>{{end}}
  </p>
</div>
{{end}}
{{if .Watch}}
<script>
;(function() {
  var es = new EventSource('/__reload');
  es.onmessage = function(e) {
    if (e.data === 'reload') { window.location.reload(); }
  };
  es.onerror = function() {
    setTimeout(function() { window.location.reload(); }, 1000);
  };
})();
</script>
{{end}}
</body>
</html>
`))
