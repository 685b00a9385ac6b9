package widget

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/mbolis/quick-forms/model"
)

func TestSections(t *testing.T) {
	p := NewPayload()
	p.Set("mood", "Bad")
	p.Set("tags", []string{"red"})
	p.SetPending("tags", "gre")

	sections := Sections(surveyForm(), p)

	var names []string
	for _, s := range sections {
		names = append(names, s.Category)
	}
	assert.Equal(t, []string{model.Uncategorized, "General", "Contact"}, names)

	uncategorized := sections[0].Controls
	var ids []string
	for _, c := range uncategorized {
		ids = append(ids, c.ID)
	}
	// "empty" has no options, "tags" has an undeclared category
	assert.Equal(t, []string{"day", "agree", "mood", "tags", "pics"}, ids)

	mood := uncategorized[2]
	assert.Equal(t, "select", mood.Input)
	assert.Equal(t, []Option{{Value: "Good"}, {Value: "Bad", Selected: true}}, mood.Options)

	tags := uncategorized[3]
	assert.Equal(t, "list", tags.Input)
	assert.Equal(t, []string{"red"}, tags.Items)
	assert.Equal(t, "gre", tags.Pending)
	assert.Equal(t, "Add a Tags", tags.Placeholder)
	assert.Equal(t, "tags.next", tags.PendingName)

	name := sections[1].Controls[0]
	assert.Equal(t, "text", name.Input)
	assert.True(t, name.Required)
}

func TestRender(t *testing.T) {
	p := NewPayload()
	p.Set("name", `Ann <script>alert(1)</script>`)
	p.Set("agree", true)
	p.Set("tags", []string{"red"})

	var buf bytes.Buffer
	err := Render(&buf, surveyForm(), p, RenderOptions{Action: "/api/forms/x/submit", AccessCode: "s3cret"})
	require.NoError(t, err)
	out := buf.String()

	_, err = html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	assert.Contains(t, out, `<h1>Feedback</h1>`)
	assert.Contains(t, out, `<legend>Uncategorized</legend>`)
	assert.NotContains(t, out, `<legend>Nobody</legend>`)
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `<input type="hidden" name="code" value="s3cret">`)
	assert.Contains(t, out, `<input type="checkbox" id="agree" name="agree" value="true" checked>`)
	assert.Contains(t, out, `<input type="hidden" name="agree" value="false">`)
	assert.Contains(t, out, `<input type="hidden" name="tags" value="red"> <button type="submit" name="_remove" value="tags:0" formnovalidate>Remove</button>`)
	assert.Contains(t, out, `name="tags.next"`)
	assert.Contains(t, out, `<button type="submit" name="_append" value="tags" formnovalidate>Add</button>`)
	assert.Contains(t, out, `accept="image/*" multiple`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `<button type="submit">Submit</button>`)
	assert.Less(t, strings.Index(out, `<button type="submit" hidden`), strings.Index(out, `name="_remove"`))
}

func TestRenderPreview(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, surveyForm(), NewPayload(), RenderOptions{Preview: true})
	require.NoError(t, err)
	out := buf.String()

	assert.NotContains(t, out, `<button`)
	assert.Contains(t, out, `<input type="text" id="name" name="name" value="" required disabled>`)
}
