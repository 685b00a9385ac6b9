package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/model"
)

func TestValidateScenario(t *testing.T) {
	form := model.Form{
		Topic:      "Feedback",
		Categories: []string{"General"},
		Fields: []model.Field{
			{ID: "name", Label: "Name", Type: model.Text, Category: "General", Required: true},
		},
	}
	assert.Equal(t, []string{"Name"}, Validate(form, NewPayload()))
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		field   model.Field
		missing []any
		present any
	}{
		{model.Field{Type: model.Text}, []any{nil, ""}, "x"},
		{model.Field{Type: model.Number}, []any{nil, ""}, "0"},
		{model.Field{Type: model.Email}, []any{nil, ""}, "a@b"},
		{model.Field{Type: model.Date}, []any{nil, ""}, "2024-01-31"},
		{model.Field{Type: model.Checkbox}, []any{nil}, false},
		{model.Field{Type: model.Selection, Selections: []string{"A"}}, []any{nil, ""}, "A"},
		{model.Field{Type: model.Array}, []any{nil, []string{}}, []string{"one"}},
		{model.Field{Type: model.Image}, []any{nil, []Image{}}, []Image{{Filename: "a.png", ContentType: "image/png"}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.field.Type), func(t *testing.T) {
			f := tt.field
			f.ID, f.Label, f.Required = "f", "Field", true
			form := model.Form{Fields: []model.Field{f}}

			p := NewPayload()
			assert.Equal(t, []string{"Field"}, Validate(form, p), "absent")
			for _, v := range tt.missing {
				p.Set(f.ID, v)
				assert.Equal(t, []string{"Field"}, Validate(form, p), "%#v", v)
			}

			p.Set(f.ID, tt.present)
			assert.Empty(t, Validate(form, p))
		})
	}
}

func TestValidateOptionalFields(t *testing.T) {
	form := model.Form{Fields: []model.Field{{ID: "f", Label: "Field", Type: model.Array}}}
	assert.Empty(t, Validate(form, NewPayload()))
}

func TestVerify(t *testing.T) {
	form := model.Form{
		Fields: []model.Field{
			{ID: "name", Label: "Name", Type: model.Text, Required: true},
			{ID: "age", Label: "Age", Type: model.Number},
			{ID: "born", Label: "Born", Type: model.Date},
			{ID: "mood", Label: "Mood", Type: model.Selection, Selections: []string{"Good", "Bad"}},
			{ID: "nums", Label: "Numbers", Type: model.Array, ArrayConfig: &model.ArrayConfig{ItemType: model.ItemNumber, MaxItems: 2}},
			{ID: "mails", Label: "Mails", Type: model.Array, ArrayConfig: &model.ArrayConfig{ItemType: model.ItemEmail, MaxItems: 5}},
			{ID: "pics", Label: "Pictures", Type: model.Image},
			{ID: "ok", Label: "OK", Type: model.Checkbox},
		},
	}

	p := NewPayload()
	p.Set("age", "old")
	p.Set("born", "31/01/2024")
	p.Set("mood", "Meh")
	p.Set("nums", []string{"1", "2", "3"})
	p.Set("mails", []string{"a@b", "nope"})
	p.Set("pics", []Image{{Filename: "doc.pdf", ContentType: "application/pdf"}})
	p.Set("ok", "yes")

	err := Verify(form, p)
	require.Error(t, err)
	msgs := model.Messages(err)
	require.Len(t, msgs, 8)
	assert.Equal(t, "Name: is required", msgs[0])
	assert.Contains(t, msgs[1], "Age:")
	assert.Contains(t, msgs[2], "Born:")
	assert.Contains(t, msgs[3], `"Meh" is not one of the options`)
	assert.Contains(t, msgs[4], "at most 2 items")
	assert.Contains(t, msgs[5], "valid email")
	assert.Contains(t, msgs[6], "doc.pdf is not an image")
	assert.Contains(t, msgs[7], "OK:")

	p.Reset()
	p.Set("name", "Ann")
	p.Set("age", "41")
	p.Set("born", "1983-05-02")
	p.Set("mood", "Good")
	p.Set("nums", []string{"1"})
	p.Set("ok", false)
	assert.NoError(t, Verify(form, p))
}
