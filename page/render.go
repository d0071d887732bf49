package page

import (
	"html/template"
	"io"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>{{.Title}}</title>
</head>
<body>
{{- range .Elements}}
<p><span id="{{.ID}}">{{.Text}}</span></p>
{{- end}}
</body>
</html>
`))

type elementView struct {
	ID   string
	Text string
}

type documentView struct {
	Title          string
	RefreshSeconds int
	Elements       []elementView
}

// Render writes the document as HTML. The page asks the browser to reload it
// every refreshSeconds so that the element texts stay current.
func (d *Document) Render(w io.Writer, refreshSeconds int) error {
	view := documentView{
		Title:          d.Title(),
		RefreshSeconds: refreshSeconds,
	}

	for _, e := range d.Elements() {
		view.Elements = append(view.Elements, elementView{
			ID:   e.ID(),
			Text: e.Text(),
		})
	}

	return documentTemplate.Execute(w, view)
}
