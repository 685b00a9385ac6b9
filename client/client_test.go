package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/widget"
)

func contactForm() model.Form {
	return model.Form{
		ID:         "0f8b",
		Topic:      "Contact",
		Categories: []string{},
		Fields: []model.Field{
			{ID: "name", Label: "Name", Type: model.Text, Required: true},
			{ID: "tags", Label: "Tags", Type: model.Array, ArrayConfig: model.DefaultArrayConfig()},
		},
	}
}

// fakeServer answers like the real one for the form returned by
// contactForm, and only when given the code "open". It counts the
// submissions it receives.
func fakeServer(t *testing.T) (*Client, *int32) {
	var submitted int32
	r := chi.NewRouter()
	r.Get("/api/forms/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != contactForm().ID {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, map[string]string{"message": "Form not found"})
			return
		}
		if r.Header.Get("X-Access-Code") != "open" {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, map[string]string{"message": "Access code required"})
			return
		}
		render.JSON(w, r, contactForm())
	})
	r.Post("/api/forms", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k3n" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		req := model.CreateRequest{}
		if !assert.NoError(t, render.DecodeJSON(r.Body, &req)) {
			return
		}
		assert.Equal(t, "Contact", req.FormData.Topic)
		assert.Equal(t, model.Public, req.PublishData.ShareSetting)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"success": true, "formId": "new-id"})
	})
	r.Post("/api/forms/{id}/submit", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&submitted, 1)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		p, err := widget.Decode(contactForm(), r.MultipartForm)
		if !assert.NoError(t, err) {
			return
		}

		if len(p.Items("tags")) < 2 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"message": "Please correct the following fields", "errors": []string{"Tags"}})
			return
		}
		assert.Equal(t, []string{"a", "b"}, p.Items("tags"))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"success": true, "id": 1, "message": "Thanks, " + p.Text("name")})
	})
	r.Get("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := New(srv.URL + "/")
	c.HTTP = srv.Client()
	return c, &submitted
}

func TestFetchForm(t *testing.T) {
	c, _ := fakeServer(t)
	ctx := context.Background()

	form, err := c.FetchForm(ctx, contactForm().ID, "open")
	require.NoError(t, err)
	assert.Equal(t, contactForm(), form)

	_, err = c.FetchForm(ctx, "missing", "open")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FetchForm(ctx, contactForm().ID, "")
	var failure *Error
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, http.StatusForbidden, failure.Status)
	assert.Equal(t, "Access code required", failure.Message)
}

func TestCreateForm(t *testing.T) {
	c, _ := fakeServer(t)
	ctx := context.Background()

	_, err := c.CreateForm(ctx, contactForm(), model.PublishSettings{ShareSetting: model.Public})
	var failure *Error
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, http.StatusUnauthorized, failure.Status)

	c.Token = "t0k3n"
	id, err := c.CreateForm(ctx, contactForm(), model.PublishSettings{ShareSetting: model.Public})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
}

func TestSubmit(t *testing.T) {
	c, submitted := fakeServer(t)
	ctx := context.Background()
	form := contactForm()

	t.Run("missing required fields are not sent", func(t *testing.T) {
		p := widget.NewPayload()
		p.Set("tags", []string{"a", "b"})

		_, err := c.Submit(ctx, form, p, "")
		var failure *Error
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, 0, failure.Status)
		assert.Equal(t, []string{"Name"}, failure.Errors)
		assert.Equal(t, "Please fill in the following required fields: Name", failure.Error())
		assert.Equal(t, []string{"a", "b"}, p.Items("tags"))
		assert.Equal(t, int32(0), atomic.LoadInt32(submitted))
	})

	t.Run("rejected submissions keep the payload", func(t *testing.T) {
		p := widget.NewPayload()
		p.Set("name", "Ann")
		p.Set("tags", []string{"a"})

		_, err := c.Submit(ctx, form, p, "")
		var failure *Error
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, http.StatusBadRequest, failure.Status)
		assert.Equal(t, "Please correct the following fields: Tags", failure.Error())
		assert.Equal(t, "Ann", p.Text("name"))
		assert.Equal(t, int32(1), atomic.LoadInt32(submitted))
	})

	t.Run("accepted submissions empty the payload", func(t *testing.T) {
		p := widget.NewPayload()
		p.Set("name", "Ann")
		p.Set("tags", []string{"a", "b"})

		msg, err := c.Submit(ctx, form, p, "")
		require.NoError(t, err)
		assert.Equal(t, "Thanks, Ann", msg)
		assert.Equal(t, 0, p.Len())
	})
}

func TestServerError(t *testing.T) {
	c, _ := fakeServer(t)
	req, err := c.newRequest(context.Background(), http.MethodGet, "/api/broken", nil)
	require.NoError(t, err)

	err = c.do(req, http.StatusOK, nil)
	var failure *Error
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "500 Internal Server Error", failure.Message)
}
