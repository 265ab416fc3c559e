package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"
)

// requestID tags every log line for one request, so interleaved requests can be
// told apart.
func requestID() slog.Attr {
	return slog.String("requestId", uuid.NewString())
}

func sendJSON(res http.ResponseWriter, value any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(res).Encode(value); err != nil {
		log.ErrorCause(err, "failed to serialize response")
	}
}

func sendClientError(res http.ResponseWriter, err error, message string) {
	if err != nil {
		if message == "" {
			message = err.Error()
		} else {
			message = wrap.Error(err, message).Error()
		}
	}

	log.Warn(message)
	http.Error(res, message, http.StatusBadRequest)
}

// sendServerError logs the cause but sends the client only the given message,
// to keep internals out of responses.
func sendServerError(res http.ResponseWriter, err error, message string, id slog.Attr) {
	log.ErrorCause(err, message, id)
	http.Error(res, message, http.StatusInternalServerError)
}
