package draft

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/model"
)

var ErrNoField = errors.New("no such field")

// Editor applies wizard edits to the draft in a Store. Every edit loads the
// latest snapshot, mutates it and saves it back before returning.
type Editor struct {
	store Store
}

func NewEditor(store Store) *Editor {
	return &Editor{store}
}

func (e *Editor) Form() (model.Form, error) {
	return LoadForm(e.store)
}

func (e *Editor) Publish() (model.PublishSettings, error) {
	return LoadPublish(e.store)
}

func (e *Editor) SetPublish(settings model.PublishSettings) error {
	return SavePublish(e.store, settings)
}

// Replace overwrites the whole definition.
func (e *Editor) Replace(form model.Form) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		*f = form
		return nil
	})
}

func (e *Editor) SetTopic(topic string) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		f.Topic = topic
		return nil
	})
}

func (e *Editor) SetDescription(description string) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		f.Description = description
		return nil
	})
}

// AddCategory declares a category. Blank and already declared names are
// ignored.
func (e *Editor) AddCategory(name string) (model.Form, error) {
	name = strings.TrimSpace(name)
	return e.update(func(f *model.Form) error {
		if name == "" {
			return nil
		}
		for _, c := range f.Categories {
			if c == name {
				return nil
			}
		}
		f.Categories = append(f.Categories, name)
		return nil
	})
}

// RemoveCategory drops a category and moves its fields to Uncategorized.
func (e *Editor) RemoveCategory(name string) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		kept := f.Categories[:0]
		for _, c := range f.Categories {
			if c != name {
				kept = append(kept, c)
			}
		}
		f.Categories = kept
		for i := range f.Fields {
			if f.Fields[i].Category == name {
				f.Fields[i].Category = ""
			}
		}
		return nil
	})
}

// AddField appends a blank text field.
func (e *Editor) AddField() (model.Form, error) {
	return e.update(func(f *model.Form) error {
		f.Fields = append(f.Fields, model.Field{
			Type:        model.Text,
			ArrayConfig: model.DefaultArrayConfig(),
		})
		return nil
	})
}

func (e *Editor) UpdateField(index int, field model.Field) (model.Form, error) {
	return e.updateField(index, func(f *model.Field) error {
		*f = field
		if f.Type == model.Array && f.ArrayConfig == nil {
			f.ArrayConfig = model.DefaultArrayConfig()
		}
		return nil
	})
}

func (e *Editor) RemoveField(index int) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		if index < 0 || index >= len(f.Fields) {
			return errors.Wrapf(ErrNoField, "index %d", index)
		}
		f.Fields = append(f.Fields[:index], f.Fields[index+1:]...)
		return nil
	})
}

// AddOption appends a selection option; blank and repeated options are
// ignored.
func (e *Editor) AddOption(index int, option string) (model.Form, error) {
	option = strings.TrimSpace(option)
	return e.updateField(index, func(f *model.Field) error {
		if option == "" {
			return nil
		}
		for _, o := range f.Selections {
			if o == option {
				return nil
			}
		}
		f.Selections = append(f.Selections, option)
		return nil
	})
}

func (e *Editor) RemoveOption(index int, option string) (model.Form, error) {
	return e.updateField(index, func(f *model.Field) error {
		var kept []string
		for _, o := range f.Selections {
			if o != option {
				kept = append(kept, o)
			}
		}
		f.Selections = kept
		return nil
	})
}

func (e *Editor) UpdateArrayConfig(index int, cfg model.ArrayConfig) (model.Form, error) {
	return e.updateField(index, func(f *model.Field) error {
		f.ArrayConfig = &cfg
		return nil
	})
}

// Reset forgets the draft and its publish settings.
func (e *Editor) Reset() error {
	if err := e.store.Clear(FormKey); err != nil {
		return errors.Wrap(err, "draft.reset.form")
	}
	return errors.Wrap(e.store.Clear(PublishKey), "draft.reset.publish")
}

func (e *Editor) update(edit func(*model.Form) error) (model.Form, error) {
	form, err := LoadForm(e.store)
	if err != nil {
		return model.Form{}, err
	}
	foldOptions(&form)
	if err := edit(&form); err != nil {
		return model.Form{}, err
	}
	foldOptions(&form)
	if err := SaveForm(e.store, form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func (e *Editor) updateField(index int, edit func(*model.Field) error) (model.Form, error) {
	return e.update(func(f *model.Form) error {
		if index < 0 || index >= len(f.Fields) {
			return errors.Wrapf(ErrNoField, "index %d", index)
		}
		return edit(&f.Fields[index])
	})
}

// foldOptions moves the legacy options of every field into its selections,
// which the option edits work on.
func foldOptions(form *model.Form) {
	for i := range form.Fields {
		f := &form.Fields[i]
		if len(f.Options) == 0 {
			continue
		}
		f.Selections = f.Choices()
		f.Options = nil
	}
}
