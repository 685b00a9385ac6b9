package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := model.CreateRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Missing required form data")
			return
		}

		publishForm(w, r, app, req)
	}
}

// publishForm validates and stores a definition, then answers with its id.
// It reports whether the form was stored.
func publishForm(w http.ResponseWriter, r *http.Request, app app.App, req model.CreateRequest) bool {
	req, problems := prepareForm(req)
	if len(problems) > 0 {
		httpx.LogInvalid(w, "create_form.validate", "Invalid form definition", problems)
		return false
	}

	formID, err := createForm(r.Context(), app, middlewares.Author(r), req)
	if err != nil {
		httpx.LogInternalError(w, "db.insert_form", err)
		return false
	}
	log.WithFields(log.Fields{"form_id": formID, "author": middlewares.Author(r)}).Info("form published")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Form created successfully",
		"formId":  formID,
	})
	return true
}

func createForm(ctx context.Context, app app.App, author string, req model.CreateRequest) (string, error) {
	tx, err := app.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	formID, err := insertForm(ctx, tx, author, req)
	if err != nil {
		return "", err
	}
	return formID, errors.Wrap(tx.Commit(), "commit")
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT
				id, version, topic, description, categories,
				status, submissions, access_mode, created_at, updated_at
			FROM form
			WHERE author = ?
			ORDER BY created_at DESC`,
			middlewares.Author(r),
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}
		defer rows.Close()

		forms := []model.Form{}
		for rows.Next() {
			f := model.Form{}
			var categories string
			var createdAt, updatedAt time.Time
			err = rows.Scan(
				&f.ID, &f.Version, &f.Topic, &f.Description, &categories,
				&f.Status, &f.Submissions, &f.AccessMode, &createdAt, &updatedAt,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_forms.scan", err)
				return
			}
			f.Categories = model.SplitCategories(categories)
			f.CreatedAt, f.UpdatedAt = &createdAt, &updatedAt

			forms = append(forms, f)
		}
		if err = rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_forms.next", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

// ownForm loads the form named in the URL if it belongs to the caller. It
// answers the request itself and reports false otherwise.
func ownForm(w http.ResponseWriter, r *http.Request, app app.App, code string) (storedForm, bool) {
	formID := chi.URLParam(r, "id")
	sf, err := loadForm(r.Context(), app, formID)
	if errors.Is(err, errFormNotFound) || (err == nil && sf.Author != middlewares.Author(r)) {
		httpx.LogNotFound(w, code, formID, "Form not found")
		return sf, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db."+code, err)
		return sf, false
	}
	return sf, true
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := ownForm(w, r, app, "get_form")
		if !ok {
			return
		}
		render.JSON(w, r, sf.Form)
	}
}

type statusUpdate struct {
	Status  model.Status `json:"status"`
	Version int          `json:"version"`
}

// UpdateFormStatus opens or closes a form for submissions. The definition
// itself can't change once published.
func UpdateFormStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update := statusUpdate{}
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if update.Status != model.Active && update.Status != model.Closed {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "update_form.status", "unknown status %q", update.Status)
			return
		}

		sf, ok := ownForm(w, r, app, "update_form")
		if !ok {
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE form
			SET
				status = ?,
				version = version+1,
				updated_at = ?
			WHERE id = ?
				AND version = ?`,
			update.Status,
			time.Now(),
			sf.ID,
			update.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "db.update_form.verify.conflict",
				"form was modified, reload it and try again")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		// fields and submissions cascade
		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form
			WHERE id = ?
				AND author = ?`,
			formID,
			middlewares.Author(r),
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_form", formID, "Form not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetFormSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := ownForm(w, r, app, "get_submissions")
		if !ok {
			return
		}

		submissions, err := loadSubmissions(r.Context(), app, sf.Form)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}
