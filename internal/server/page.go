package server

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dagviewer/pkg/buildinfo"
	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/pipeline"
	"github.com/matzehuels/dagviewer/pkg/render"
)

type pageData struct {
	ID          string
	SVG         template.HTML
	Error       string
	Width       int
	Height      int
	Controls    bool
	ResetText   string
	Version     string
}

var pageTmpl = template.Must(template.New("viewer").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>DAG viewer</title>
<style>
html, body { margin: 0; height: 100%; font-family: sans-serif; }
#graph { position: absolute; inset: 0 0 2.5rem 0; overflow: hidden; }
#graph svg { display: block; }
nav { position: absolute; left: 0; right: 0; bottom: 0; height: 2.5rem; display: flex; gap: .25rem; align-items: center; padding: 0 .5rem; background: #f4f4f4; }
nav .version { margin-left: auto; color: #999; font-size: .75rem; }
.error { color: #b00020; padding: 1rem; }
</style>
</head>
<body>
<div id="graph">{{if .Error}}<p class="error">{{.Error}}</p>{{else}}{{.SVG}}{{end}}</div>
<nav>
{{- if .Controls}}
<button data-action="zoom" data-factor="1.25" title="Zoom in">+</button>
<button data-action="zoom" data-factor="0.8" title="Zoom out">&minus;</button>
<button data-action="pan" data-dx="-0.1" data-dy="0" title="Pan left">&larr;</button>
<button data-action="pan" data-dx="0.1" data-dy="0" title="Pan right">&rarr;</button>
<button data-action="pan" data-dx="0" data-dy="-0.1" title="Pan up">&uarr;</button>
<button data-action="pan" data-dx="0" data-dy="0.1" title="Pan down">&darr;</button>
<button data-action="reset">{{.ResetText}}</button>
{{- end}}
<span class="version">dagviewer {{.Version}}</span>
</nav>
<script>
const id = {{.ID}};
const rendered = { width: {{.Width}}, height: {{.Height}} };
const graph = document.getElementById("graph");

async function act(action, body) {
  await fetch("/api/v1/viewers/" + encodeURIComponent(id) + "/" + action, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(body || {}),
  });
  location.reload();
}

document.querySelectorAll("nav button").forEach((b) => {
  b.addEventListener("click", () => {
    const d = b.dataset;
    if (d.action === "zoom") return act("zoom", { factor: Number(d.factor) });
    if (d.action === "pan") return act("pan", { dx: Number(d.dx), dy: Number(d.dy) });
    return act(d.action);
  });
});

let timer;
function reflow() {
  const width = graph.clientWidth, height = graph.clientHeight;
  if (width === rendered.width && height === rendered.height) return;
  clearTimeout(timer);
  timer = setTimeout(() => act("reflow", { width, height }), 150);
}
new ResizeObserver(reflow).observe(graph);
</script>
</body>
</html>
`))

// handlePage serves a self-contained HTML page showing the viewer's current
// frame. Pan, zoom and reset controls are shown when zoom is enabled and
// there is a graph to move.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	frame := v.Frame()

	data := pageData{
		ID:          v.ID(),
		Width:       frame.Width,
		Height:      frame.Height,
		Controls:    frame.ZoomEnabled && !frame.Empty(),
		ResetText:   render.ResetText,
		Version:     buildinfo.Version,
	}
	svg, _, err := s.runner.RenderFrame(r.Context(), frame, pipeline.FormatSVG)
	if err != nil {
		s.logger.Warn("render page", "viewer", v.ID(), "err", err)
		data.Error = errors.UserMessage(err)
	} else {
		data.SVG = template.HTML(svg)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Warn("write page", "err", err)
	}
}
