package widget

import (
	"html/template"
	"io"

	"github.com/mbolis/quick-forms/model"
)

// Control is the renderable state of one field input.
type Control struct {
	ID       string
	Label    string
	Type     model.FieldType
	Required bool
	Disabled bool

	// Input is the HTML input type, or "select" and "list" for selection
	// and array fields.
	Input   string
	Value   string
	Checked bool
	Options []Option

	// Items are the array entries, or the file names of chosen images.
	Items       []string
	Pending     string
	PendingName string
	ItemInput   string
	Placeholder string

	Accept   string
	Multiple bool
}

type Option struct {
	Value    string
	Selected bool
}

type Section struct {
	Category string
	Controls []Control
}

// Sections lays the controls of form out in category order. Categories
// without fields are left out, and so are fields with nothing to render.
func Sections(form model.Form, p *Payload) []Section {
	var sections []Section
	for _, bucket := range model.Group(form) {
		if bucket.Empty() {
			continue
		}
		section := Section{Category: bucket.Category}
		for _, f := range bucket.Fields {
			c, ok := KindOf(f.Type).Control(f, p)
			if !ok {
				continue
			}
			c.ID = f.ID
			c.Label = f.Label
			c.Type = f.Type
			c.Required = f.Required
			section.Controls = append(section.Controls, c)
		}
		if len(section.Controls) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}

type RenderOptions struct {
	// Action is where the form posts to.
	Action string
	// AccessCode is sent back with the submission of a private form.
	AccessCode string
	// Preview disables every input and hides the buttons. Otherwise a
	// hidden plain submit comes first, so that pressing enter never lands
	// on an item's remove button.
	Preview bool
	Message string
	Errors  []string
}

type page struct {
	RenderOptions
	Topic       string
	Description string
	Sections    []Section
}

// Render writes form as an HTML page bound to the values in p.
func Render(w io.Writer, form model.Form, p *Payload, opts RenderOptions) error {
	sections := Sections(form, p)
	if opts.Preview {
		for i := range sections {
			for j := range sections[i].Controls {
				sections[i].Controls[j].Disabled = true
			}
		}
	}
	return pageTemplate.Execute(w, page{
		RenderOptions: opts,
		Topic:         form.Topic,
		Description:   form.Description,
		Sections:      sections,
	})
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `{{define "control" -}}
{{if eq .Input "select" -}}
<select id="{{.ID}}" name="{{.ID}}"{{if .Required}} required{{end}}{{if .Disabled}} disabled{{end}}>
<option value="">Select an option</option>
{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>
{{- else if eq .Input "checkbox" -}}
<input type="hidden" name="{{.ID}}" value="false"{{if .Disabled}} disabled{{end}}>
<input type="checkbox" id="{{.ID}}" name="{{.ID}}" value="true"{{if .Checked}} checked{{end}}{{if .Disabled}} disabled{{end}}> Yes
{{- else if eq .Input "list" -}}
<ul>
{{range $i, $item := .Items}}<li>{{$item}}<input type="hidden" name="{{$.ID}}" value="{{$item}}">
{{- if not $.Disabled}} <button type="submit" name="_remove" value="{{$.ID}}:{{$i}}" formnovalidate>Remove</button>{{end}}</li>
{{end}}</ul>
<input type="{{.ItemInput}}" id="{{.ID}}" name="{{.PendingName}}" value="{{.Pending}}" placeholder="{{.Placeholder}}"{{if .Disabled}} disabled{{end}}>
{{- if not .Disabled}}
<button type="submit" name="_append" value="{{.ID}}" formnovalidate>Add</button>{{end}}
{{- else if eq .Input "file" -}}
<input type="file" id="{{.ID}}" name="{{.ID}}" accept="{{.Accept}}"{{if .Multiple}} multiple{{end}}{{if .Disabled}} disabled{{end}}>
{{- else -}}
<input type="{{.Input}}" id="{{.ID}}" name="{{.ID}}" value="{{.Value}}"{{if .Required}} required{{end}}{{if .Disabled}} disabled{{end}}>
{{- end}}
{{- end}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Topic}}</title>
</head>
<body>
<h1>{{.Topic}}</h1>
<p>{{.Description}}</p>
{{with .Message}}<p class="message">{{.}}</p>
{{end}}{{if .Errors}}<ul class="errors">
{{range .Errors}}<li>{{.}}</li>
{{end}}</ul>
{{end}}<form method="post" action="{{.Action}}" enctype="multipart/form-data">
{{with .AccessCode}}<input type="hidden" name="code" value="{{.}}">
{{end}}{{if not .Preview}}<button type="submit" hidden tabindex="-1"></button>
{{end}}{{range .Sections}}<fieldset>
<legend>{{.Category}}</legend>
{{range .Controls}}<div class="field">
<label for="{{.ID}}">{{.Label}}{{if .Required}} <span class="required">*</span>{{end}}</label>
{{template "control" .}}
</div>
{{end}}</fieldset>
{{end}}{{if not .Preview}}<button type="submit">Submit</button>
<button type="reset">Reset</button>
{{end}}</form>
</body>
</html>
`
