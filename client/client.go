// Package client talks to a quick-forms server: it fetches published forms,
// publishes new ones and sends submissions encoded by the widget package.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/widget"
)

var ErrNotFound = errors.New("form not found")

// Error is a request the server turned down, or one never sent because
// required fields were missing (Status is then 0).
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token is the bearer token sent to admin endpoints.
	Token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// Login exchanges author credentials for a bearer token, kept in c.Token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/login", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(username, password)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err = c.do(req, http.StatusOK, &tokens); err != nil {
		return err
	}
	c.Token = tokens.AccessToken
	return nil
}

// FetchForm loads a published form. accessCode may be empty for public
// forms.
func (c *Client) FetchForm(ctx context.Context, id, accessCode string) (model.Form, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/forms/"+id, nil)
	if err != nil {
		return model.Form{}, err
	}
	if accessCode != "" {
		req.Header.Set("X-Access-Code", accessCode)
	}

	form := model.Form{}
	err = c.do(req, http.StatusOK, &form)
	return form, err
}

// CreateForm publishes a definition and returns the id it was given.
func (c *Client) CreateForm(ctx context.Context, form model.Form, settings model.PublishSettings) (string, error) {
	body, err := json.Marshal(model.CreateRequest{FormData: form, PublishData: settings})
	if err != nil {
		return "", errors.Wrap(err, "encode form")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/forms", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var created struct {
		FormID string `json:"formId"`
	}
	if err = c.do(req, http.StatusCreated, &created); err != nil {
		return "", err
	}
	return created.FormID, nil
}

// Submit sends the values in p as a submission of form and returns the
// confirmation message. p is emptied on success and left alone otherwise.
// Missing required fields are reported without contacting the server.
func (c *Client) Submit(ctx context.Context, form model.Form, p *widget.Payload, accessCode string) (string, error) {
	if missing := widget.Validate(form, p); len(missing) > 0 {
		return "", &Error{Message: "Please fill in the following required fields", Errors: missing}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := widget.Encode(mw, form, p); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart body")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/forms/"+form.ID+"/submit", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if accessCode != "" {
		req.Header.Set("X-Access-Code", accessCode)
	}

	var submitted struct {
		Message string `json:"message"`
	}
	if err = c.do(req, http.StatusCreated, &submitted); err != nil {
		return "", err
	}
	p.Reset()
	return submitted.Message, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// do sends req and decodes a response with the expected status into out.
// Any other status becomes ErrNotFound or an *Error.
func (c *Client) do(req *http.Request, expected int, out any) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != expected {
		failure := &Error{Status: resp.StatusCode}
		var body struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			failure.Message = body.Message
			failure.Errors = body.Errors
		} else {
			failure.Message = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return failure
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, out), "decode response")
}
