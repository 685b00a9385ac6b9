package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedbackForm() Form {
	return Form{
		Topic:       "Feedback",
		Description: "Tell us what you think",
		Categories:  []string{"General", "Contact"},
		Fields: []Field{
			{ID: "f1", Label: "Name", Type: Text, Category: "General", Required: true},
			{ID: "f2", Label: "Email", Type: Email, Category: "Contact"},
			{ID: "f3", Label: "Mood", Type: Selection, Selections: []string{"Good", "Bad"}},
			{ID: "f4", Label: "Tags", Type: Array, Category: "Unknown", ArrayConfig: DefaultArrayConfig()},
		},
	}
}

func TestChoicesPrefersSelections(t *testing.T) {
	f := Field{Type: Selection, Selections: []string{"A", "B"}, Options: []string{"X"}}
	assert.Equal(t, []string{"A", "B"}, f.Choices())

	f.Selections = nil
	assert.Equal(t, []string{"X"}, f.Choices())

	f.Options = nil
	assert.Empty(t, f.Choices())
}

func TestGroup(t *testing.T) {
	buckets := Group(feedbackForm())

	require.Len(t, buckets, 3)
	want := []string{Uncategorized, "General", "Contact"}
	for i, b := range buckets {
		assert.Equal(t, want[i], b.Category)
	}

	labels := func(b Bucket) []string {
		var out []string
		for _, f := range b.Fields {
			out = append(out, f.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Mood", "Tags"}, labels(buckets[0]))
	assert.Equal(t, []string{"Name"}, labels(buckets[1]))
	assert.Equal(t, []string{"Email"}, labels(buckets[2]))
}

func TestGroupEveryFieldOnce(t *testing.T) {
	form := feedbackForm()
	form.Categories = append(form.Categories, "Empty")

	buckets := Group(form)
	require.Len(t, buckets, len(form.Categories)+1)
	assert.True(t, buckets[len(buckets)-1].Empty())

	seen := map[string]int{}
	for _, b := range buckets {
		for _, f := range b.Fields {
			seen[f.ID]++
		}
	}
	for _, f := range form.Fields {
		assert.Equal(t, 1, seen[f.ID], f.Label)
	}
}

func TestGroupUncategorizedWithoutCategories(t *testing.T) {
	buckets := Group(Form{})
	require.Len(t, buckets, 1)
	assert.Equal(t, Uncategorized, buckets[0].Category)
	assert.True(t, buckets[0].Empty())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(feedbackForm()))

	form := Form{
		Fields: []Field{
			{Type: Text},
			{Label: "Pick", Type: Selection},
			{Label: "List", Type: Array},
			{Label: "Bounds", Type: Array, ArrayConfig: &ArrayConfig{ItemType: ItemNumber, MinItems: 5, MaxItems: 2}},
		},
	}
	err := Validate(form)
	require.Error(t, err)

	want := []string{
		"Topic is required",
		"Description is required",
		"At least one category is required",
		"Field 1: Label is required",
		"Pick: Selection fields must have at least one option",
		"List: Array fields need an item configuration",
		"Bounds: maximum items (2) is lower than minimum items (5)",
	}
	if diff := cmp.Diff(want, Messages(err)); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateLegacyOptions(t *testing.T) {
	form := feedbackForm()
	form.Fields[2].Selections = nil
	form.Fields[2].Options = []string{"Yes"}
	assert.NoError(t, Validate(form))
}

func TestValidatePublish(t *testing.T) {
	assert.NoError(t, ValidatePublish(PublishSettings{ShareSetting: Public}))
	assert.NoError(t, ValidatePublish(PublishSettings{ShareSetting: Private, AccessCode: "s3cret"}))
	assert.Error(t, ValidatePublish(DefaultPublishSettings()))
	assert.Error(t, ValidatePublish(PublishSettings{ShareSetting: "friends"}))
}

func TestNormalize(t *testing.T) {
	form := Form{
		Categories: []string{" General ", "", "General"},
		Fields: []Field{
			{Label: " Pick ", Type: Selection, Options: []string{"X"}},
			{ID: "kept", Label: "Both", Type: Selection, Selections: []string{"A", "B"}, Options: []string{"X"}},
		},
	}

	got := Normalize(form)
	want := Form{
		Categories: []string{"General"},
		Fields: []Field{
			{ID: "field-0", Label: "Pick", Type: Selection, Selections: []string{"X"}},
			{ID: "kept", Label: "Both", Type: Selection, Selections: []string{"A", "B"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized form mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"X"}, form.Fields[0].Options, "input must not be modified")
}

func TestCategoriesColumn(t *testing.T) {
	assert.Equal(t, []string{}, SplitCategories(""))
	assert.Equal(t, []string{"A", "B"}, SplitCategories(JoinCategories([]string{"A", "B"})))
}
