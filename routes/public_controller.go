package routes

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/widget"
)

const defaultResponse = "Form submitted successfully!"

// openAction marks the post of the access code page.
const openAction = "_open"

// rejection is a submission refused for a reason the submitter can act on.
type rejection struct {
	status int
	code   string
	msg    string
	errs   []string
}

func (r *rejection) Error() string {
	return r.msg
}

func (r *rejection) messages() []string {
	if len(r.errs) > 0 {
		return r.errs
	}
	return []string{r.msg}
}

func writeRejection(w http.ResponseWriter, err error) {
	var rej *rejection
	if !errors.As(err, &rej) {
		httpx.LogInternalError(w, "db.insert_submission", err)
		return
	}
	if len(rej.errs) > 0 {
		httpx.LogInvalid(w, rej.code, rej.msg, rej.errs)
		return
	}
	httpx.LogStatusMsg(w, rej.status, log.DebugLevel, rej.code, "%s", rej.msg)
}

// accessCode reads the code for a private form from the request. The body
// must already be parsed when it carries the code.
func accessCode(r *http.Request) string {
	if code := r.Header.Get("X-Access-Code"); code != "" {
		return code
	}
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value["code"]; len(vs) > 0 {
			return vs[0]
		}
	}
	if vs := r.Form["code"]; len(vs) > 0 {
		return vs[0]
	}
	return r.URL.Query().Get("code")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func responseMessage(form model.Form) string {
	if form.ResponseDraft != "" {
		return form.ResponseDraft
	}
	return defaultResponse
}

// parseSubmission reads a multipart or urlencoded body into a multipart
// form, bounded by the configured upload size.
func parseSubmission(w http.ResponseWriter, r *http.Request, maxUpload int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return nil, err
		}
		return r.MultipartForm, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &multipart.Form{Value: r.PostForm}, nil
}

// openSubmission parses the body of a submission and checks the access
// code it carries.
func openSubmission(app app.App, sf storedForm, w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	mf, err := parseSubmission(w, r, app.MaxUpload)
	if err != nil {
		log.WithFields(log.Fields{"form_id": sf.ID}).Debug(err)
		return nil, &rejection{http.StatusBadRequest, "request.parse_body", "Invalid submission data", nil}
	}

	if !sf.CanAccess(accessCode(r)) {
		return nil, &rejection{http.StatusForbidden, "submit_form.access_code", "Access code required", nil}
	}
	return mf, nil
}

func decodeSubmission(sf storedForm, mf *multipart.Form) (*widget.Payload, error) {
	if sf.Status == model.Closed {
		return nil, &rejection{http.StatusConflict, "submit_form.closed", "This form is closed", nil}
	}

	p, err := widget.Decode(sf.Form, mf)
	if err != nil {
		log.WithFields(log.Fields{"form_id": sf.ID}).Debug(err)
		return nil, &rejection{http.StatusBadRequest, "submit_form.decode", "Invalid submission data", nil}
	}
	return p, nil
}

// storeSubmission verifies p and records it as a submission of sf.
func storeSubmission(ctx context.Context, app app.App, sf storedForm, p *widget.Payload, ip string) (int, error) {
	if err := widget.Verify(sf.Form, p); err != nil {
		return 0, &rejection{http.StatusBadRequest, "submit_form.validate", "Please correct the following fields", model.Messages(err)}
	}

	tx, err := app.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	submissionID, err := insertSubmission(ctx, tx, sf.Form, p, ip)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit")
	}

	log.WithFields(log.Fields{"form_id": sf.ID, "submission_id": submissionID}).Debug("submission stored")
	return submissionID, nil
}

// submit records one submission of sf from the request body.
func submit(ctx context.Context, app app.App, sf storedForm, w http.ResponseWriter, r *http.Request) (int, error) {
	mf, err := openSubmission(app, sf, w, r)
	if err != nil {
		return 0, err
	}
	p, err := decodeSubmission(sf, mf)
	if err != nil {
		return 0, err
	}
	return storeSubmission(ctx, app, sf, p, clientIP(r))
}

// findForm loads the form named in the URL, answering 404 or 500 itself.
func findForm(w http.ResponseWriter, r *http.Request, app app.App, code string) (storedForm, bool) {
	formID := chi.URLParam(r, "id")
	sf, err := loadForm(r.Context(), app, formID)
	if errors.Is(err, errFormNotFound) {
		httpx.LogNotFound(w, code, formID, "Form not found")
		return sf, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db."+code, err)
		return sf, false
	}
	return sf, true
}

func PublicGetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := findForm(w, r, app, "get_form")
		if !ok {
			return
		}
		if !sf.CanAccess(accessCode(r)) {
			httpx.LogStatusMsg(w, http.StatusForbidden, log.DebugLevel, "get_form.access_code", "Access code required")
			return
		}

		render.JSON(w, r, sf.Form)
	}
}

func PublicSubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := findForm(w, r, app, "submit_form")
		if !ok {
			return
		}

		submissionID, err := submit(r.Context(), app, sf, w, r)
		if err != nil {
			writeRejection(w, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success": true,
			"id":      submissionID,
			"message": responseMessage(sf.Form),
		})
	}
}

// PublicFormPage serves the form as a plain HTML page. Private forms first
// ask for their access code.
func PublicFormPage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := findForm(w, r, app, "form_page")
		if !ok {
			return
		}

		code := accessCode(r)
		if !sf.CanAccess(code) {
			status := http.StatusOK
			var message string
			if code != "" {
				status = http.StatusForbidden
				message = "Wrong access code"
			}
			renderAccessPage(w, status, sf.Topic, message)
			return
		}

		renderFormPage(w, http.StatusOK, sf.Form, widget.NewPayload(), widget.RenderOptions{
			Action:     formAction(sf.ID),
			AccessCode: code,
		})
	}
}

// PublicSubmitPage takes the posts of the HTML page: the access code of a
// private form, the add and remove buttons of array fields, and the
// submission itself. On failure the page is shown again with the errors and
// the values entered so far.
func PublicSubmitPage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf, ok := findForm(w, r, app, "submit_page")
		if !ok {
			return
		}

		opts := widget.RenderOptions{Action: formAction(sf.ID)}
		mf, err := openSubmission(app, sf, w, r)
		if err != nil {
			rejectPage(w, sf, nil, opts, err)
			return
		}
		opts.AccessCode = accessCode(r)

		if _, open := mf.Value[openAction]; open {
			renderFormPage(w, http.StatusOK, sf.Form, widget.NewPayload(), opts)
			return
		}

		p, err := decodeSubmission(sf, mf)
		if err != nil {
			rejectPage(w, sf, nil, opts, err)
			return
		}

		if applied, err := widget.ApplyAction(sf.Form, p, mf.Value); applied {
			status := http.StatusOK
			if err != nil {
				status = http.StatusBadRequest
				opts.Errors = model.Messages(err)
			}
			renderFormPage(w, status, sf.Form, p, opts)
			return
		}

		if err = widget.AppendPending(sf.Form, p); err != nil {
			opts.Errors = model.Messages(err)
			renderFormPage(w, http.StatusBadRequest, sf.Form, p, opts)
			return
		}

		if _, err = storeSubmission(r.Context(), app, sf, p, clientIP(r)); err != nil {
			rejectPage(w, sf, p, opts, err)
			return
		}
		opts.Message = responseMessage(sf.Form)
		renderFormPage(w, http.StatusCreated, sf.Form, widget.NewPayload(), opts)
	}
}

func rejectPage(w http.ResponseWriter, sf storedForm, p *widget.Payload, opts widget.RenderOptions, err error) {
	var rej *rejection
	switch {
	case errors.As(err, &rej) && rej.status == http.StatusForbidden:
		renderAccessPage(w, rej.status, sf.Topic, "Wrong access code")
	case errors.As(err, &rej):
		log.Debugf("%s: %s", rej.code, rej.msg)
		if p == nil {
			p = widget.NewPayload()
		}
		opts.Errors = rej.messages()
		renderFormPage(w, rej.status, sf.Form, p, opts)
	default:
		httpx.LogInternalError(w, "db.insert_submission", err)
	}
}

func formAction(id string) string {
	return fmt.Sprintf("/forms/%s", id)
}
