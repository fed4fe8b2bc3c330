package server

import (
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// landingTmpl renders the command table. Kept deliberately plain: one
// page, no assets, safe to serve from anywhere.
var landingTmpl = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>burrow</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:-apple-system,BlinkMacSystemFont,'Helvetica Neue',sans-serif;color:#333;max-width:900px;margin:0 auto;padding:48px 24px}
header{text-align:center;margin-bottom:48px}
header h1{font-size:1.4em;font-weight:600;margin-bottom:4px}
header p{color:#999;font-size:.8em;font-family:Menlo,Consolas,monospace}
table{width:100%;border-collapse:collapse;font-size:.88em}
th{text-align:left;padding:6px 12px;border-bottom:2px solid #e0e0e0;font-weight:600;color:#666;font-size:.75em;text-transform:uppercase}
td{padding:7px 12px;border-bottom:1px solid #f0f0f0;vertical-align:top}
tr:hover{background:#fafafa}
.cmd{font-family:Menlo,Consolas,monospace;font-weight:600;white-space:nowrap}
.example{font-family:Menlo,Consolas,monospace;color:#999;font-size:.9em}
</style>
</head>
<body>
<header>
<h1>burrow</h1>
<p>{{.DisplayURL}}</p>
</header>
<table>
<thead><tr><th>Command</th><th>Description</th><th>Example</th></tr></thead>
<tbody>
{{range .Commands}}<tr><td class="cmd">{{index .Bindings 0}}</td><td>{{.Description}}</td><td class="example">{{.Example}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>`))

func (s *Server) renderLanding(c *gin.Context) {
	infos := s.resolver.ListCommands()
	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].Bindings[0]) < strings.ToLower(infos[j].Bindings[0])
	})

	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := landingTmpl.Execute(c.Writer, gin.H{
		"DisplayURL": s.cfg.EffectiveDisplayURL(),
		"Commands":   infos,
	}); err != nil {
		s.log.Error().Err(err).Msg("render landing page")
	}
}
