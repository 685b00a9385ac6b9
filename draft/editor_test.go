package draft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/model"
)

func TestEditorCategories(t *testing.T) {
	e := NewEditor(NewMemoryStore())

	_, err := e.AddCategory(" General ")
	require.NoError(t, err)
	_, err = e.AddCategory("General")
	require.NoError(t, err)
	_, err = e.AddCategory("   ")
	require.NoError(t, err)
	form, err := e.AddCategory("Contact")
	require.NoError(t, err)
	assert.Equal(t, []string{"General", "Contact"}, form.Categories)

	_, err = e.AddField()
	require.NoError(t, err)
	form, err = e.UpdateField(0, model.Field{Label: "Phone", Type: model.Text, Category: "Contact"})
	require.NoError(t, err)
	assert.Equal(t, "Contact", form.Fields[0].Category)

	form, err = e.RemoveCategory("Contact")
	require.NoError(t, err)
	assert.Equal(t, []string{"General"}, form.Categories)
	assert.Equal(t, "", form.Fields[0].Category)

	// persisted, not only returned
	form, err = e.Form()
	require.NoError(t, err)
	assert.Equal(t, []string{"General"}, form.Categories)
}

func TestEditorFields(t *testing.T) {
	e := NewEditor(NewMemoryStore())

	form, err := e.AddField()
	require.NoError(t, err)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, model.Text, form.Fields[0].Type)
	assert.Equal(t, model.DefaultArrayConfig(), form.Fields[0].ArrayConfig)

	_, err = e.UpdateField(0, model.Field{Label: "Colour", Type: model.Selection})
	require.NoError(t, err)
	_, err = e.AddOption(0, " Red ")
	require.NoError(t, err)
	_, err = e.AddOption(0, "Red")
	require.NoError(t, err)
	form, err = e.AddOption(0, "Blue")
	require.NoError(t, err)
	assert.Equal(t, []string{"Red", "Blue"}, form.Fields[0].Selections)

	form, err = e.RemoveOption(0, "Red")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue"}, form.Fields[0].Selections)

	form, err = e.UpdateField(0, model.Field{Label: "Tags", Type: model.Array})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultArrayConfig(), form.Fields[0].ArrayConfig)

	form, err = e.UpdateArrayConfig(0, model.ArrayConfig{ItemType: model.ItemNumber, MinItems: 2, MaxItems: 4})
	require.NoError(t, err)
	assert.Equal(t, &model.ArrayConfig{ItemType: model.ItemNumber, MinItems: 2, MaxItems: 4}, form.Fields[0].ArrayConfig)

	_, err = e.RemoveField(3)
	assert.True(t, errors.Is(err, ErrNoField))

	form, err = e.RemoveField(0)
	require.NoError(t, err)
	assert.Empty(t, form.Fields)
}

func TestEditorLegacyOptions(t *testing.T) {
	e := NewEditor(NewMemoryStore())

	form, err := e.Replace(model.Form{Fields: []model.Field{
		{Label: "Pick", Type: model.Selection, Options: []string{"X", "Y"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, form.Fields[0].Selections)
	assert.Nil(t, form.Fields[0].Options)

	form, err = e.RemoveOption(0, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, form.Fields[0].Selections)

	form, err = e.AddOption(0, "Z")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "Z"}, form.Fields[0].Selections)
	assert.Equal(t, []string{"Y", "Z"}, form.Fields[0].Choices())
}

func TestEditorSelectionsWinOverOptions(t *testing.T) {
	e := NewEditor(NewMemoryStore())

	form, err := e.Replace(model.Form{Fields: []model.Field{
		{Label: "Pick", Type: model.Selection, Options: []string{"old"}, Selections: []string{"new"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, form.Fields[0].Selections)
	assert.Nil(t, form.Fields[0].Options)
}

func TestAddFieldRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			e := NewEditor(s)
			added, err := e.AddField()
			require.NoError(t, err)
			assert.Nil(t, added.Fields[0].Options)
			assert.Nil(t, added.Fields[0].Selections)

			loaded, err := e.Form()
			require.NoError(t, err)
			if diff := cmp.Diff(added, loaded); diff != "" {
				t.Fatalf("form mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEditorReset(t *testing.T) {
	s := NewMemoryStore()
	e := NewEditor(s)

	_, err := e.SetTopic("Feedback")
	require.NoError(t, err)
	require.NoError(t, e.SetPublish(model.PublishSettings{ShareSetting: model.Public}))

	require.NoError(t, e.Reset())

	form, err := e.Form()
	require.NoError(t, err)
	assert.Equal(t, "", form.Topic)
	settings, err := e.Publish()
	require.NoError(t, err)
	assert.Equal(t, model.Private, settings.ShareSetting)
}
