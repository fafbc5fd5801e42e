package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
)

// The printable document opens the browser's print dialog on load.
var printableTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Doc.Headline}}</title>
<style>
@page { size: A4 portrait; margin: 0; }
body { margin: 0; background: #f5f5f4; color: #1c1917; font-family: Georgia, "Noto Serif KR", serif; }
.intro { text-align: center; padding: 32px 0; }
.page { width: 210mm; min-height: 297mm; box-sizing: border-box; padding: 12mm; margin: 0 auto 16px; background: #fff; display: flex; flex-direction: column; page-break-after: always; break-after: page; }
.page header { display: flex; justify-content: space-between; border-bottom: 2px solid #1c1917; padding-bottom: 4mm; margin-bottom: 8mm; }
.page header .conf { text-transform: uppercase; letter-spacing: .2em; font-size: 10px; color: #a8a29e; font-weight: bold; }
.page main { flex: 1; }
.page footer { display: flex; justify-content: space-between; border-top: 1px solid #e7e5e4; padding-top: 6mm; font-size: 10px; color: #a8a29e; }
h1 { font-size: 34px; margin: 0 0 8px; }
h2 { font-size: 26px; margin: 0 0 16px; }
h4 { text-transform: uppercase; font-size: 11px; color: #78716c; margin: 18px 0 6px; font-family: sans-serif; }
p { line-height: 1.7; font-size: 13px; text-align: justify; margin: 0; }
.quote { font-weight: bold; font-size: 16px; color: #881337; }
.photo { display: block; margin: 0 auto 16px; width: 128px; height: 128px; border-radius: 50%; object-fit: cover; border: 4px solid #e7e5e4; }
.row { border: 1px solid #e7e5e4; border-radius: 6px; padding: 8px 12px; margin-bottom: 8px; font-size: 13px; }
@media print { body { background: #fff; } .intro { display: none; } .page { margin: 0; } }
</style>
</head>
<body>
<div class="intro">
<h2>{{.Doc.Headline}}</h2>
<p style="text-align:center">{{.Doc.Subheadline}}</p>
</div>
{{range .Doc.Sections}}
<section class="page" id="page-{{.Number}}">
<header><span class="conf">{{$.HeaderLeft}}</span><span>{{$.HeaderRight}}</span></header>
<main>
{{if .Heading}}<h1>{{.Heading}}</h1><p>{{.Subtitle}}</p><br>{{end}}
<h2>{{.Title}}</h2>
{{if and (eq .Key "persona_layer") $.Photo}}<img class="photo" src="{{$.Photo}}" alt="User Analysis">{{end}}
{{range .Blocks}}
<h4>{{.Label}}</h4>
{{if eq .Kind "quote"}}<p class="quote">&ldquo;{{.Text}}&rdquo;</p>
{{else if eq .Kind "list"}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{else if eq .Kind "numbered"}}{{range $i, $it := .Items}}<p><strong>{{printf "%02d" (inc $i)}}</strong> {{$it}}</p>{{end}}
{{else if eq .Kind "rows"}}{{range .Rows}}<div class="row">{{range .Cells}}<div><strong>{{.Label}}</strong> {{.Text}}</div>{{end}}</div>{{end}}
{{else}}<p>{{.Text}}</p>{{end}}
{{end}}
</main>
<footer><span>{{$.FooterLeft}}</span><span>{{.Footer}}</span></footer>
</section>
{{end}}
<script>window.addEventListener("load", function () { window.print(); });</script>
</body>
</html>
`))

type printableData struct {
	Doc         render.Document
	Photo       template.URL
	HeaderLeft  string
	HeaderRight string
	FooterLeft  string
}

// buildHTML embeds the photo as a data URL so the file prints offline.
func buildHTML(doc render.Document, photo []byte, mime string) ([]byte, error) {
	data := printableData{
		Doc:         doc,
		HeaderLeft:  render.HeaderLeft,
		HeaderRight: render.HeaderRight,
		FooterLeft:  render.FooterLeft,
	}
	if len(photo) > 0 {
		if mime == "" {
			mime = http.DetectContentType(photo)
		}
		data.Photo = template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(photo))
	}
	var buf bytes.Buffer
	if err := printableTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render printable report: %w", err)
	}
	return buf.Bytes(), nil
}
