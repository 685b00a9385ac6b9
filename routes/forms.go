package routes

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/widget"
)

var errFormNotFound = errors.New("form not found")

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// storedForm is a published form with the columns that never leave the
// server.
type storedForm struct {
	model.Form
	Author         string
	AccessCodeHash []byte
}

// CanAccess reports whether code opens the form. Public forms need no code.
func (sf storedForm) CanAccess(code string) bool {
	if sf.AccessMode != model.Private {
		return true
	}
	if len(sf.AccessCodeHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(sf.AccessCodeHash, []byte(code)) == nil
}

func loadForm(ctx context.Context, q queryer, id string) (sf storedForm, err error) {
	var categories string
	var createdAt, updatedAt time.Time
	err = q.QueryRowContext(ctx, `
		SELECT
			id, author, version, topic, description, categories,
			status, submissions, access_mode, access_code_hash, response_draft,
			created_at, updated_at
		FROM form
		WHERE id = ?`,
		id,
	).Scan(
		&sf.ID, &sf.Author, &sf.Version, &sf.Topic, &sf.Description, &categories,
		&sf.Status, &sf.Submissions, &sf.AccessMode, &sf.AccessCodeHash, &sf.ResponseDraft,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sf, errFormNotFound
	}
	if err != nil {
		return sf, errors.Wrap(err, "scan form")
	}
	sf.Categories = model.SplitCategories(categories)
	sf.CreatedAt = &createdAt
	sf.UpdatedAt = &updatedAt

	rows, err := q.QueryContext(ctx, `
		SELECT id, label, type, category, required, options, array_config
		FROM form_field
		WHERE form_id = ?
		ORDER BY position`,
		id,
	)
	if err != nil {
		return sf, errors.Wrap(err, "query fields")
	}
	defer rows.Close()

	sf.Fields = []model.Field{}
	for rows.Next() {
		f := model.Field{}
		var opts, arrayConfig string
		err = rows.Scan(&f.ID, &f.Label, &f.Type, &f.Category, &f.Required, &opts, &arrayConfig)
		if err != nil {
			return sf, errors.Wrap(err, "scan field")
		}

		if opts != "" {
			if err = json.Unmarshal([]byte(opts), &f.Selections); err != nil {
				return sf, errors.Wrapf(err, "parse options of %s", f.ID)
			}
		}
		if arrayConfig != "" {
			f.ArrayConfig = &model.ArrayConfig{}
			if err = json.Unmarshal([]byte(arrayConfig), f.ArrayConfig); err != nil {
				return sf, errors.Wrapf(err, "parse array config of %s", f.ID)
			}
		}

		sf.Fields = append(sf.Fields, f)
	}
	return sf, errors.Wrap(rows.Err(), "read fields")
}

// prepareForm cleans up a publish request and returns the reasons it can't
// be published, if any.
func prepareForm(req model.CreateRequest) (model.CreateRequest, []string) {
	form := model.Normalize(req.FormData)
	form.Topic = httpx.PlainText(form.Topic)
	form.Description = httpx.PlainText(form.Description)
	for i, c := range form.Categories {
		form.Categories[i] = httpx.PlainText(c)
	}
	for i := range form.Fields {
		f := &form.Fields[i]
		f.Label = httpx.PlainText(f.Label)
		f.Category = httpx.PlainText(f.Category)
		for j, s := range f.Selections {
			f.Selections[j] = httpx.PlainText(s)
		}
	}
	req.FormData = form
	req.PublishData.ResponseDraft = httpx.PlainText(req.PublishData.ResponseDraft)

	var problems []string
	problems = append(problems, model.Messages(model.Validate(form))...)
	problems = append(problems, model.Messages(model.ValidatePublish(req.PublishData))...)
	return req, problems
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func insertForm(ctx context.Context, tx *sql.Tx, author string, req model.CreateRequest) (string, error) {
	form, publish := req.FormData, req.PublishData

	var accessCodeHash []byte
	if publish.ShareSetting == model.Private {
		var err error
		accessCodeHash, err = bcrypt.GenerateFromPassword([]byte(publish.AccessCode), bcrypt.DefaultCost)
		if err != nil {
			return "", errors.Wrap(err, "hash access code")
		}
	}

	formID := newID()
	now := time.Now()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO form (
			id, author, topic, description, categories, status,
			access_mode, access_code_hash, response_draft, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formID, author, form.Topic, form.Description, model.JoinCategories(form.Categories), model.Active,
		publish.ShareSetting, accessCodeHash, publish.ResponseDraft, now, now,
	)
	if err != nil {
		return "", errors.Wrap(err, "insert form")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_field (id, form_id, position, label, type, category, required, options, array_config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "prepare fields")
	}
	defer stmt.Close()

	for i, f := range form.Fields {
		var optionsJson, arrayConfigJson []byte
		if choices := f.Choices(); len(choices) > 0 {
			if optionsJson, err = json.Marshal(choices); err != nil {
				return "", errors.Wrap(err, "encode options")
			}
		}
		if f.Type == model.Array && f.ArrayConfig != nil {
			if arrayConfigJson, err = json.Marshal(f.ArrayConfig); err != nil {
				return "", errors.Wrap(err, "encode array config")
			}
		}

		_, err = stmt.ExecContext(ctx,
			newID(), formID, i, f.Label, f.Type, f.Category, f.Required,
			string(optionsJson), string(arrayConfigJson),
		)
		if err != nil {
			return "", errors.Wrapf(err, "insert field %d", i)
		}
	}

	return formID, nil
}

func insertSubmission(ctx context.Context, tx *sql.Tx, form model.Form, p *widget.Payload, ip string) (int, error) {
	var submissionID int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO submission (form_id, time, ip) VALUES (?, ?, ?)
		RETURNING id`,
		form.ID,
		time.Now(),
		ip,
	).Scan(&submissionID)
	if err != nil {
		return 0, errors.Wrap(err, "insert submission")
	}

	fieldStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_field (submission_id, field_id, value)
		VALUES (?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare fields")
	}
	defer fieldStmt.Close()

	imageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_image (submission_id, field_id, filename, content_type, data)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare images")
	}
	defer imageStmt.Close()

	for _, f := range form.Fields {
		v, ok := p.Get(f.ID)
		if !ok || v == nil {
			continue
		}

		if images, ok := v.([]widget.Image); ok {
			for _, img := range images {
				_, err = imageStmt.ExecContext(ctx, submissionID, f.ID, img.Filename, img.ContentType, img.Data)
				if err != nil {
					return 0, errors.Wrapf(err, "insert image of %s", f.ID)
				}
			}
			continue
		}

		valueJson, err := json.Marshal(v)
		if err != nil {
			return 0, errors.Wrapf(err, "encode value of %s", f.ID)
		}
		_, err = fieldStmt.ExecContext(ctx, submissionID, f.ID, string(valueJson))
		if err != nil {
			return 0, errors.Wrapf(err, "insert value of %s", f.ID)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE form SET submissions = submissions + 1
		WHERE id = ?`,
		form.ID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "count submission")
	}

	return submissionID, nil
}

func loadSubmissions(ctx context.Context, q queryer, form model.Form) ([]model.Submission, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			s.id, s.time, s.ip,
			v.field_id, f.label, v.value
		FROM submission s
		LEFT OUTER JOIN submission_field v ON (s.id = v.submission_id)
		LEFT OUTER JOIN form_field f ON (f.id = v.field_id)
		WHERE s.form_id = ?
		ORDER BY s.id`,
		form.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query submissions")
	}
	defer rows.Close()

	submissions := []model.Submission{}
	index := map[int]int{}
	for rows.Next() {
		s := model.Submission{}
		var fieldID, label, value sql.NullString
		err = rows.Scan(&s.ID, &s.Time, &s.IP, &fieldID, &label, &value)
		if err != nil {
			return nil, errors.Wrap(err, "scan submission")
		}

		i, ok := index[s.ID]
		if !ok {
			s.Fields = map[string]model.SubmissionField{}
			i = len(submissions)
			index[s.ID] = i
			submissions = append(submissions, s)
		}
		if !fieldID.Valid {
			continue
		}

		f := model.SubmissionField{ID: fieldID.String, Label: label.String}
		if err = json.Unmarshal([]byte(value.String), &f.Value); err != nil {
			return nil, errors.Wrap(err, "parse value")
		}
		submissions[i].Fields[f.ID] = f
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read submissions")
	}

	images, err := q.QueryContext(ctx, `
		SELECT i.id, i.submission_id, i.field_id, i.filename, i.content_type, length(i.data)
		FROM submission_image i
		INNER JOIN submission s ON (s.id = i.submission_id)
		WHERE s.form_id = ?
		ORDER BY i.id`,
		form.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query images")
	}
	defer images.Close()

	for images.Next() {
		img := model.SubmissionImage{}
		var submissionID int
		err = images.Scan(&img.ID, &submissionID, &img.FieldID, &img.Filename, &img.ContentType, &img.Size)
		if err != nil {
			return nil, errors.Wrap(err, "scan image")
		}
		if i, ok := index[submissionID]; ok {
			submissions[i].Images = append(submissions[i].Images, img)
		}
	}
	return submissions, errors.Wrap(images.Err(), "read images")
}
