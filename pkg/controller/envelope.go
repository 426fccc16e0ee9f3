package controller

import (
	"net/http"
	"time"

	"footprint/pkg/serrors"

	"github.com/go-faster/jx"
)

// ErrorBody renders the error envelope {"error": msg, "success": false}.
func ErrorBody(msg string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(msg)
	e.FieldStart("success")
	e.Bool(false)
	e.ObjEnd()

	return e.Bytes()
}

// WriteJSON writes body as an application/json response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes err as an error envelope. The status code follows the
// semantic kind of err and only its public message reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, serrors.StatusCode(err), ErrorBody(serrors.PublicMessage(err)))
}

// WithTimeout bounds the time next may spend on a request. Requests running
// longer are answered with a JSON error envelope.
func WithTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	body := string(ErrorBody(serrors.PublicMessage(serrors.With(serrors.ErrTimeout, "request timed out"))))

	return func(next http.Handler) http.Handler {
		h := http.TimeoutHandler(next, timeout, body)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// the timeout response is written without a content type
			w.Header().Set("Content-Type", "application/json")
			h.ServeHTTP(w, r)
		})
	}
}
