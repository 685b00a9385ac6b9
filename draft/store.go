// Package draft keeps in-progress authoring state between wizard steps.
//
// A Store holds one snapshot per key and each Save replaces the previous
// snapshot wholesale. Stores assume a single writer per key: one author
// editing one draft at a time.
package draft

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/model"
)

const (
	FormKey    = "form_data"
	PublishKey = "publish_data"
)

type Store interface {
	// Save serializes value and stores it under key, replacing what was there.
	Save(key string, value any) error
	// Load decodes the snapshot under key into value. It reports false, and
	// leaves value untouched, when nothing was saved.
	Load(key string, value any) (bool, error)
	Clear(key string) error
}

type scoped struct {
	Store
	prefix string
}

// Scope namespaces every key of store under owner, so that authors sharing
// one backing store don't see each other's drafts.
func Scope(store Store, owner string) Store {
	return &scoped{store, owner + "/"}
}

func (s *scoped) Save(key string, value any) error {
	return s.Store.Save(s.prefix+key, value)
}

func (s *scoped) Load(key string, value any) (bool, error) {
	return s.Store.Load(s.prefix+key, value)
}

func (s *scoped) Clear(key string) error {
	return s.Store.Clear(s.prefix + key)
}

// LoadForm returns the saved definition, or an empty one.
func LoadForm(s Store) (model.Form, error) {
	form := model.Form{}
	_, err := s.Load(FormKey, &form)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "draft.load_form")
	}
	if form.Categories == nil {
		form.Categories = []string{}
	}
	if form.Fields == nil {
		form.Fields = []model.Field{}
	}
	return form, nil
}

func SaveForm(s Store, form model.Form) error {
	return errors.Wrap(s.Save(FormKey, form), "draft.save_form")
}

// LoadPublish returns the saved publish settings, or the private default.
func LoadPublish(s Store) (model.PublishSettings, error) {
	settings := model.DefaultPublishSettings()
	_, err := s.Load(PublishKey, &settings)
	if err != nil {
		return model.DefaultPublishSettings(), errors.Wrap(err, "draft.load_publish")
	}
	return settings, nil
}

func SavePublish(s Store, settings model.PublishSettings) error {
	return errors.Wrap(s.Save(PublishKey, settings), "draft.save_publish")
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(data []byte, value any) error {
	return json.Unmarshal(data, value)
}
