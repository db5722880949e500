package web

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
)

// renderJSON writes data as a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warnf("encode response: %v", err)
	}
}

// renderError maps err to its HTTP status and writes
// {"error": {"code", "message", "status"}}. Internal details are logged,
// never returned.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	cErr := errors.As(err)
	status := cErr.Status
	message := cErr.Message

	if cErr.Code == errors.ErrInternal {
		logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		message = "internal error"
	}

	renderJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    string(cErr.Code),
			"message": message,
			"status":  status,
		},
	})
}

// decodeBody decodes a JSON request body into dst. An empty body leaves dst
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewInvalidRequest("request body too large")
		}
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
