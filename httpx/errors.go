package httpx

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mbolis/quick-forms/log"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.WithFields(log.Fields{"code": code}).Error(err)
	writeError(w, http.StatusInternalServerError, ErrorBody{Message: http.StatusText(http.StatusInternalServerError)})
}

// Will log a debug message, and send an HTTP response with status 404 and the given message
func LogNotFound(w http.ResponseWriter, code string, id any, msg string) {
	log.Debugf("%s: not found (%v)", code, id)
	writeError(w, http.StatusNotFound, ErrorBody{Message: msg})
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	writeError(w, status, ErrorBody{Message: http.StatusText(status)})
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	writeError(w, status, ErrorBody{Message: errMsg})
}

// Will log validation failures at debug level, and send an HTTP response
// with status 400, a summary message and one entry per problem
func LogInvalid(w http.ResponseWriter, code string, msg string, errs []string) {
	log.WithFields(log.Fields{"code": code, "errors": errs}).Debug(msg)
	writeError(w, http.StatusBadRequest, ErrorBody{Message: msg, Errors: errs})
}
