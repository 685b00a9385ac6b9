package routes

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/widget"
)

func writePage(w http.ResponseWriter, status int, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("page.write:", err)
	}
}

func renderFormPage(w http.ResponseWriter, status int, form model.Form, p *widget.Payload, opts widget.RenderOptions) {
	var buf bytes.Buffer
	if err := widget.Render(&buf, form, p, opts); err != nil {
		log.WithFields(log.Fields{"code": "page.render", "form_id": form.ID}).Error(err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writePage(w, status, &buf)
}

var accessTemplate = template.Must(template.New("access").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Topic}}</title>
</head>
<body>
<h1>{{.Topic}}</h1>
{{with .Message}}<p class="error">{{.}}</p>{{end}}
<form method="post">
<input type="hidden" name="_open" value="1">
<label for="code">Access code</label>
<input type="password" id="code" name="code" required>
<button type="submit">Open</button>
</form>
</body>
</html>
`))

func renderAccessPage(w http.ResponseWriter, status int, topic, message string) {
	var buf bytes.Buffer
	err := accessTemplate.Execute(&buf, map[string]string{
		"Topic":   topic,
		"Message": message,
	})
	if err != nil {
		log.WithFields(log.Fields{"code": "page.access"}).Error(err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writePage(w, status, &buf)
}
