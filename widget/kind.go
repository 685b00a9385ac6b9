// Package widget turns form definitions into input controls, and checks and
// encodes what users enter into them.
//
// Each field type is served by one Kind. KindOf is the only place that looks
// at model.FieldType; everything else goes through the Kind capabilities.
package widget

import (
	"mime/multipart"

	"github.com/mbolis/quick-forms/model"
)

type Kind interface {
	// Control describes the input for f given the values in p. It reports
	// false when the field can't be rendered, such as a selection without
	// options.
	Control(f model.Field, p *Payload) (Control, bool)
	// Missing reports whether v fails to fill a required field.
	Missing(v any) bool
	// Check validates the format of a value that is present.
	Check(f model.Field, v any) error
	// Encode writes v as multipart entries named after the field id.
	Encode(w *multipart.Writer, f model.Field, v any) error
	// Decode reads the value of f back from a parsed multipart form. It
	// reports false when the form holds nothing for f.
	Decode(f model.Field, form *multipart.Form) (any, bool, error)
}

var kinds = map[model.FieldType]Kind{
	model.Text:      scalarKind{input: "text", check: checkString},
	model.Number:    scalarKind{input: "number", check: checkNumber},
	model.Email:     scalarKind{input: "email", check: checkString},
	model.Date:      scalarKind{input: "date", check: checkDate},
	model.Checkbox:  checkboxKind{},
	model.Selection: selectionKind{},
	model.Array:     arrayKind{},
	model.Image:     imageKind{},
}

// KindOf returns the Kind serving t. Unknown types are treated as text.
func KindOf(t model.FieldType) Kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return kinds[model.Text]
}
