package widget

import (
	"mime/multipart"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/model"
)

// Encode writes the payload as multipart entries: one per scalar value, one
// per array item repeated under the field id, and one file part per image.
// The writer is not closed.
func Encode(w *multipart.Writer, form model.Form, p *Payload) error {
	for _, f := range form.Fields {
		v, ok := p.Get(f.ID)
		if !ok || v == nil {
			continue
		}
		if err := KindOf(f.Type).Encode(w, f, v); err != nil {
			return errors.Wrapf(err, "encode %s", f.Label)
		}
	}
	return nil
}

// Decode rebuilds a payload from a parsed multipart form, pending array
// text included. Entries that don't belong to a field of the form are
// ignored.
func Decode(form model.Form, mf *multipart.Form) (*Payload, error) {
	p := NewPayload()
	for _, f := range form.Fields {
		v, ok, err := KindOf(f.Type).Decode(f, mf)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", f.Label)
		}
		if ok {
			p.Set(f.ID, v)
		}
		if f.Type == model.Array {
			if next := mf.Value[PendingName(f.ID)]; len(next) > 0 {
				p.SetPending(f.ID, next[0])
			}
		}
	}
	return p, nil
}
