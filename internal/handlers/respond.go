package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/files"
	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:   "error",
		Message: message,
	})
}

// respondServiceError maps service errors onto statuses. Validation
// errors surface with their own message so the editor can show them.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGone):
		respondError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrInactive):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		content.ErrTextRequired, content.ErrTextTooLong, content.ErrDescriptionTooLong,
		content.ErrURLRequired, content.ErrURLInvalid, content.ErrLinkTitleTooLong,
		content.ErrFileRequired, content.ErrContactNameRequired, content.ErrContactNameTooLong,
		content.ErrPhoneInvalid, content.ErrEmailInvalid, content.ErrWebsiteInvalid,
		content.ErrCompanyTooLong, content.ErrAddressTooLong, content.ErrNoteTooLong,
		content.ErrUnknownKind,
		files.ErrFileTooLarge, files.ErrFileType,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
