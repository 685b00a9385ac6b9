package widget

import (
	"github.com/hashicorp/go-multierror"

	"github.com/mbolis/quick-forms/model"
)

// Validate returns the labels of the required fields p leaves unfilled, in
// field order.
func Validate(form model.Form, p *Payload) []string {
	var missing []string
	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		v, _ := p.Get(f.ID)
		if KindOf(f.Type).Missing(v) {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// Verify is the server-side counterpart of Validate: on top of the required
// check, every value present is checked against its field's format. The
// result is nil or a *multierror.Error of *model.FieldError.
func Verify(form model.Form, p *Payload) error {
	var errs *multierror.Error
	for _, f := range form.Fields {
		kind := KindOf(f.Type)
		v, _ := p.Get(f.ID)
		if kind.Missing(v) {
			if f.Required {
				errs = multierror.Append(errs, &model.FieldError{Label: f.Label, Message: "is required"})
			}
			continue
		}
		if err := kind.Check(f, v); err != nil {
			errs = multierror.Append(errs, &model.FieldError{Label: f.Label, Message: err.Error()})
		}
	}
	return errs.ErrorOrNil()
}
