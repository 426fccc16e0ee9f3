// Package handler implements the username search endpoint: it decodes the
// request, runs the search and writes the JSON envelope.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"footprint/internal/search"
	"footprint/pkg/controller"
	"footprint/pkg/domain"
	"footprint/pkg/logger"
	"footprint/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds the size of a search request body.
const MaxBodyBytes = 64 << 10

// Allow lists the methods served by the search endpoint.
const Allow = "POST, OPTIONS"

var (
	errInvalidBody      = serrors.With(serrors.ErrBadRequest, "invalid request body")
	errUsernameRequired = serrors.With(serrors.ErrBadRequest, "Username is required")
)

// Deps holds the services the handler depends on.
type Deps struct {
	Searcher search.Searcher
}

// Handler serves the username search endpoint.
type Handler struct {
	deps Deps
}

// New creates a Handler.
func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// ServeHTTP dispatches on the request method. Preflight requests are answered
// with an empty 200; CORS headers are added by controller.WithCORS.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.SearchUsername(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Allow", Allow)
		h.NewError(r.Context(), w, serrors.With(serrors.ErrMethodNotAllowed, "method not allowed"))
	}
}

// SearchUsername decodes {"username": "..."} and answers with the profiles
// found for it.
func (h Handler) SearchUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.NewError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "request body too large"))

			return
		}
		h.NewError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	username, err := DecodeSearchRequest(data)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	report, err := h.deps.Searcher.Search(ctx, username)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	controller.WriteJSON(w, http.StatusOK, EncodeReport(report))
}

// NewError logs err and writes it as an error envelope.
func (h Handler) NewError(ctx context.Context, w http.ResponseWriter, err error) {
	status := serrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "search request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "search request rejected", zap.Error(err), zap.Int("status_code", status))
	}

	controller.WriteError(w, err)
}

// DecodeSearchRequest extracts the username from a request body. Invalid JSON
// is a bad request; a valid body without a non-blank string username is
// reported as a missing username. The username is returned untrimmed.
func DecodeSearchRequest(data []byte) (string, error) {
	if !jx.Valid(data) {
		return "", errInvalidBody
	}

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return "", errUsernameRequired
	}

	var username string
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "username" || d.Next() != jx.String {
			return d.Skip()
		}

		s, err := d.Str()
		username = s

		return err
	}); err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}
	if strings.TrimSpace(username) == "" {
		return "", errUsernameRequired
	}

	return username, nil
}

// EncodeReport renders the success envelope of a search.
func EncodeReport(r *domain.Report) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(r.Identifier)
	e.FieldStart("found_count")
	e.Int(r.FoundCount)
	e.FieldStart("profiles")
	e.ArrStart()
	for _, p := range r.Profiles {
		e.Str(p)
	}
	e.ArrEnd()
	e.FieldStart("success")
	e.Bool(true)
	e.ObjEnd()

	return e.Bytes()
}
