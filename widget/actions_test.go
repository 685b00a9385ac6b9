package widget

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/model"
)

func scoresForm() model.Form {
	return model.Form{Fields: []model.Field{
		{ID: "name", Label: "Name", Type: model.Text},
		{ID: "scores", Label: "Scores", Type: model.Array,
			ArrayConfig: &model.ArrayConfig{ItemType: model.ItemNumber, MaxItems: 3}},
	}}
}

func TestApplyAction(t *testing.T) {
	form := scoresForm()
	p := NewPayload()
	p.Set("scores", []string{"1", "2"})

	applied, err := ApplyAction(form, p, map[string][]string{"name": {"Ann"}})
	require.NoError(t, err)
	assert.False(t, applied)

	p.SetPending("scores", "many")
	applied, err = ApplyAction(form, p, map[string][]string{AppendAction: {"scores"}})
	assert.True(t, applied)
	var warning *Warning
	require.True(t, errors.As(err, &warning))
	assert.Equal(t, "Scores: Please enter a valid number", warning.Error())
	assert.Equal(t, []string{"1", "2"}, p.Items("scores"))
	assert.Equal(t, "many", p.Pending("scores"))

	applied, err = ApplyAction(form, p, map[string][]string{RemoveAction: {"scores:0"}})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"2"}, p.Items("scores"))

	p.SetPending("scores", "7")
	_, err = ApplyAction(form, p, map[string][]string{AppendAction: {"scores"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "7"}, p.Items("scores"))
	assert.Equal(t, "", p.Pending("scores"))
}

func TestApplyActionIgnoresBadTargets(t *testing.T) {
	form := scoresForm()
	p := NewPayload()
	p.Set("scores", []string{"1"})

	for _, values := range []map[string][]string{
		{AppendAction: {"name"}},
		{AppendAction: {"nope"}},
		{RemoveAction: {"scores"}},
		{RemoveAction: {"scores:x"}},
		{RemoveAction: {"scores:9"}},
	} {
		applied, err := ApplyAction(form, p, values)
		assert.True(t, applied)
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"1"}, p.Items("scores"))
	assert.Equal(t, "", p.Text("name"))
}

func TestAppendPending(t *testing.T) {
	form := scoresForm()

	p := NewPayload()
	p.SetPending("scores", "5")
	require.NoError(t, AppendPending(form, p))
	assert.Equal(t, []string{"5"}, p.Items("scores"))

	p.SetPending("scores", "five")
	err := AppendPending(form, p)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)
	assert.Equal(t, "Scores: Please enter a valid number", merr.Errors[0].Error())
	assert.Equal(t, []string{"5"}, p.Items("scores"))
}
