package routes

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/draft"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routes/middlewares"
	"github.com/mbolis/quick-forms/widget"
)

// editorFor opens the draft of the author behind r.
func editorFor(app app.App, r *http.Request) *draft.Editor {
	return draft.NewEditor(draft.Scope(app.Drafts, middlewares.Author(r)))
}

// writeDraft answers with the draft after an edit, or with the edit's error.
func writeDraft(w http.ResponseWriter, r *http.Request, code string, form model.Form, err error) {
	if errors.Is(err, draft.ErrNoField) {
		httpx.LogNotFound(w, code, chi.URLParam(r, "index"), "Field not found")
		return
	}
	if err != nil {
		httpx.LogInternalError(w, code, err)
		return
	}
	render.JSON(w, r, form)
}

func fieldIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.index")
		return 0, false
	}
	return index, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
		return false
	}
	return true
}

func GetDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := editorFor(app, r)
		form, err := editor.Form()
		if err != nil {
			httpx.LogInternalError(w, "draft.get_form", err)
			return
		}
		publish, err := editor.Publish()
		if err != nil {
			httpx.LogInternalError(w, "draft.get_publish", err)
			return
		}

		render.JSON(w, r, model.CreateRequest{
			FormData:    form,
			PublishData: publish,
		})
	}
}

func ReplaceDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		if !decodeBody(w, r, &form) {
			return
		}
		form, err := editorFor(app, r).Replace(form)
		writeDraft(w, r, "draft.replace", form, err)
	}
}

type draftDetails struct {
	Topic       *string `json:"topic"`
	Description *string `json:"description"`
}

// UpdateDraftDetails sets the topic and the description, whichever is given.
func UpdateDraftDetails(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details := draftDetails{}
		if !decodeBody(w, r, &details) {
			return
		}

		editor := editorFor(app, r)
		form, err := editor.Form()
		if err == nil && details.Topic != nil {
			form, err = editor.SetTopic(*details.Topic)
		}
		if err == nil && details.Description != nil {
			form, err = editor.SetDescription(*details.Description)
		}
		writeDraft(w, r, "draft.details", form, err)
	}
}

func ClearDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := editorFor(app, r).Reset(); err != nil {
			httpx.LogInternalError(w, "draft.clear", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UpdateDraftPublish(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := model.PublishSettings{}
		if !decodeBody(w, r, &settings) {
			return
		}
		if settings.ShareSetting != model.Public && settings.ShareSetting != model.Private {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "draft.publish_settings",
				"unknown share setting %q", settings.ShareSetting)
			return
		}

		if err := editorFor(app, r).SetPublish(settings); err != nil {
			httpx.LogInternalError(w, "draft.publish_settings", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type categoryBody struct {
	Name string `json:"name"`
}

func AddDraftCategory(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := categoryBody{}
		if !decodeBody(w, r, &body) {
			return
		}
		form, err := editorFor(app, r).AddCategory(httpx.PlainText(body.Name))
		writeDraft(w, r, "draft.add_category", form, err)
	}
}

func RemoveDraftCategory(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.name")
			return
		}
		form, err := editorFor(app, r).RemoveCategory(name)
		writeDraft(w, r, "draft.remove_category", form, err)
	}
}

func AddDraftField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := editorFor(app, r).AddField()
		if err == nil {
			render.Status(r, http.StatusCreated)
		}
		writeDraft(w, r, "draft.add_field", form, err)
	}
}

func UpdateDraftField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := fieldIndex(w, r)
		if !ok {
			return
		}
		field := model.Field{}
		if !decodeBody(w, r, &field) {
			return
		}
		form, err := editorFor(app, r).UpdateField(index, field)
		writeDraft(w, r, "draft.update_field", form, err)
	}
}

func RemoveDraftField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := fieldIndex(w, r)
		if !ok {
			return
		}
		form, err := editorFor(app, r).RemoveField(index)
		writeDraft(w, r, "draft.remove_field", form, err)
	}
}

type optionBody struct {
	Option string `json:"option"`
}

func AddDraftOption(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := fieldIndex(w, r)
		if !ok {
			return
		}
		body := optionBody{}
		if !decodeBody(w, r, &body) {
			return
		}
		form, err := editorFor(app, r).AddOption(index, httpx.PlainText(body.Option))
		writeDraft(w, r, "draft.add_option", form, err)
	}
}

func RemoveDraftOption(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := fieldIndex(w, r)
		if !ok {
			return
		}
		option, err := url.PathUnescape(chi.URLParam(r, "option"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.option")
			return
		}
		form, err := editorFor(app, r).RemoveOption(index, option)
		writeDraft(w, r, "draft.remove_option", form, err)
	}
}

func UpdateDraftArrayConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := fieldIndex(w, r)
		if !ok {
			return
		}
		cfg := model.ArrayConfig{}
		if !decodeBody(w, r, &cfg) {
			return
		}
		form, err := editorFor(app, r).UpdateArrayConfig(index, cfg)
		writeDraft(w, r, "draft.array_config", form, err)
	}
}

// loadDraft reads the author's draft as a publish request.
func loadDraft(editor *draft.Editor) (model.CreateRequest, error) {
	form, err := editor.Form()
	if err != nil {
		return model.CreateRequest{}, err
	}
	publish, err := editor.Publish()
	if err != nil {
		return model.CreateRequest{}, err
	}
	return model.CreateRequest{FormData: form, PublishData: publish}, nil
}

// ReviewDraft shows the draft the way it would be published, along with
// what still keeps it from being published.
func ReviewDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := loadDraft(editorFor(app, r))
		if err != nil {
			httpx.LogInternalError(w, "draft.review", err)
			return
		}

		req, problems := prepareForm(req)
		if problems == nil {
			problems = []string{}
		}
		render.JSON(w, r, map[string]any{
			"form":     req.FormData,
			"sections": model.Group(req.FormData),
			"errors":   problems,
		})
	}
}

// PublishDraft publishes the author's draft and clears it.
func PublishDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor := editorFor(app, r)
		req, err := loadDraft(editor)
		if err != nil {
			httpx.LogInternalError(w, "draft.publish", err)
			return
		}

		if !publishForm(w, r, app, req) {
			return
		}
		if err = editor.Reset(); err != nil {
			log.WithFields(log.Fields{"code": "draft.publish.reset", "author": middlewares.Author(r)}).Warn(err)
		}
	}
}

// PreviewDraft renders the author's draft as its respondents would see it,
// with every input disabled.
func PreviewDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := editorFor(app, r).Form()
		if err != nil {
			httpx.LogInternalError(w, "draft.preview", err)
			return
		}

		renderFormPage(w, http.StatusOK, model.Normalize(form), widget.NewPayload(), widget.RenderOptions{
			Preview: true,
		})
	}
}
