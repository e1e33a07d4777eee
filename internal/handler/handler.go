package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the size of a JSON request body.
const maxBodyBytes = 1 << 20

const internalErrorMessage = "Internal server error"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, model.Response{
		Status:  model.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error envelope for err. Domain errors keep their
// message; anything else is logged and reported as a generic 500.
func RespondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Debug().Err(err).Msg("request failed validation")
		writeJSON(w, http.StatusBadRequest, model.Response{
			Status:  model.StatusError,
			Message: model.ErrValidation.Message,
			Errors:  verr.Fields,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status := StatusForCode(derr.Code)
		logger.Debug().Str("code", derr.Code).Int("status", status).Msg(derr.Message)
		writeJSON(w, status, model.Response{
			Status:  model.StatusError,
			Message: derr.Message,
		})
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeJSON(w, http.StatusInternalServerError, model.Response{
		Status:  model.StatusError,
		Message: internalErrorMessage,
	})
}

// StatusForCode maps a domain error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInsufficientStock:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateResource:
		return http.StatusConflict
	case model.ErrCodeMissingCredential, model.ErrCodeMalformedCredential,
		model.ErrCodeInvalidCredential, model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields, trailing data and oversized bodies are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return model.ErrInvalidBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.ErrInvalidBody
	}
	return nil
}

// parseID reads the {id} path value. An id that is not a UUID cannot name
// any sweet, so it is reported as not found.
func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, model.ErrSweetNotFound
	}
	return id, nil
}
