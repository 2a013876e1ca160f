package http

import (
	"net/http"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/llm"
)

// writeDomainError maps service-layer errors onto HTTP status codes. The
// mapping is the single place transport status decisions are made; handlers
// never inspect error types themselves.
//
// NotFoundError covers both missing and not-owned records, so 404 never
// confirms that a record exists.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case note.IsValidationError(err):
		respond.WriteBadRequest(w, err.Error())
	case note.IsConflictError(err):
		respond.WriteConflict(w, err.Error())
	case note.IsNotFoundError(err):
		respond.WriteNotFound(w, err.Error())
	default:
		if ge, ok := llm.IsGenerationError(err); ok {
			if ge.Reason == llm.ReasonTimeout {
				respond.WriteError(w, http.StatusGatewayTimeout, "note generation timed out")
				return
			}
			respond.WriteError(w, http.StatusBadGateway, "note generation failed")
			return
		}
		respond.WriteInternalError(w, "internal error")
	}
}
