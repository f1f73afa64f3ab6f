package httpapi

import (
	"errors"
	"net/http"

	"github.com/lumen-rp/cadhub/pkg/serrors"
)

// statusByCode maps the stable error codes of the approval workflow taxonomy
// to HTTP status codes. Unknown codes fall back to 500.
var statusByCode = map[string]int{
	"UNAUTHORIZED":            http.StatusUnauthorized,
	"FORBIDDEN":               http.StatusForbidden,
	"REQUEST_NOT_FOUND":       http.StatusNotFound,
	"SUBJECT_NOT_FOUND":       http.StatusNotFound,
	"INVALID_TARGET_STATUS":   http.StatusBadRequest,
	"CONFLICT_ALREADY_LINKED": http.StatusConflict,
	"TRANSITION_CONFLICT":     http.StatusConflict,
	"FIELD_REQUIRED":          http.StatusBadRequest,
	"FIELD_INVALID":           http.StatusBadRequest,
	"INVALID_TOKEN":           http.StatusUnauthorized,
}

// WriteServiceError renders a structured error as a JSON envelope with the
// status code derived from its machine-readable code.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var base *serrors.BaseError
	if !errors.As(err, &base) {
		return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
	status, ok := statusByCode[base.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	meta := map[string]string(nil)
	if base.LocaleKey != "" {
		meta = map[string]string{"key": base.LocaleKey}
	}
	return WriteError(w, status, base.Code, base.Message, meta)
}
