package widget

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/mbolis/quick-forms/model"
)

// Names of the buttons that edit an array field in place of submitting the
// form. The append button carries the field id, the remove button
// "<field id>:<item index>".
const (
	AppendAction = "_append"
	RemoveAction = "_remove"
)

// PendingName is the input name of the text typed for the next item of an
// array field.
func PendingName(id string) string {
	return id + ".next"
}

// ApplyAction runs the array edit requested by values, if any. It reports
// whether an edit was requested; a rejected append is returned as a
// *Warning and leaves p as it was.
func ApplyAction(form model.Form, p *Payload, values map[string][]string) (bool, error) {
	if vs := values[RemoveAction]; len(vs) > 0 {
		sep := strings.LastIndex(vs[0], ":")
		if sep < 0 {
			return true, nil
		}
		index, err := strconv.Atoi(vs[0][sep+1:])
		if err != nil {
			return true, nil
		}
		p.RemoveItem(vs[0][:sep], index)
		return true, nil
	}

	if vs := values[AppendAction]; len(vs) > 0 {
		f, ok := form.Field(vs[0])
		if !ok || f.Type != model.Array {
			return true, nil
		}
		return true, p.AppendItem(f)
	}

	return false, nil
}

// AppendPending appends the text still typed in the array inputs, so that
// nothing entered is lost on submit. The result is nil or a
// *multierror.Error of *Warning.
func AppendPending(form model.Form, p *Payload) error {
	var errs *multierror.Error
	for _, f := range form.Fields {
		if f.Type != model.Array {
			continue
		}
		if err := p.AppendItem(f); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
