package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hi there", PlainText(" <b>Hi</b> there<script>alert(1)</script> "))
	assert.Equal(t, "Tom & Jerry", PlainText("Tom & Jerry"))
	assert.Equal(t, "a < b", PlainText("a < b"))
}

func TestLogInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	LogInvalid(rec, "test.invalid", "Invalid form", []string{"Topic is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Message: "Invalid form", Errors: []string{"Topic is required"}}, body)
}

func TestLogNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	LogNotFound(rec, "test.get", "abc", "Form not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Form not found"}`, rec.Body.String())
}

func TestResponseBuffer(t *testing.T) {
	buf := NewResponseBuffer()
	assert.Nil(t, buf.Body())

	buf.Header().Set("X-Test", "yes")
	buf.WriteHeader(http.StatusCreated)
	buf.Write([]byte("hello"))

	rec := httptest.NewRecorder()
	require.NoError(t, buf.Flush(rec))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Test"))
	assert.Equal(t, "hello", rec.Body.String())
}
