package httpx

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/model"
)

const notFoundDetail = "Not found."

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Will log a debug message, and send an HTTP response with status 404 and
// the error payload clients recognise as "resource absent"
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	writeDetail(w, http.StatusNotFound, notFoundDetail)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	writeDetail(w, status, http.StatusText(status))
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	writeDetail(w, status, errMsg)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.APIError{Detail: detail})
}
