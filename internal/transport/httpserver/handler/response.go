package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"catalog-admin-go/internal/i18n"
	"catalog-admin-go/internal/transport/httpserver/middleware"
	"catalog-admin-go/internal/validation"
)

const maxBodyBytes = 1 << 20

type messageEnvelope struct {
	Message string `json:"message"`
}

type dataEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type validationEnvelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageEnvelope{Message: message})
}

// readBody returns the request body, or "{}" when it is empty.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

func (h *Handlers) message(r *http.Request, key i18n.Key, entity string) string {
	locale := h.translator.Locale(r.Header.Get("Accept-Language"))
	return h.translator.Message(locale, key, entity)
}

func (h *Handlers) writeInvalidBody(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusBadRequest, h.message(r, i18n.KeyInvalidRequest, ""))
}

// writeDecodeError answers 422 for wrongly typed fields and 400 for any other
// unreadable body.
func (h *Handlers) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		h.writeValidation(w, r, verr.Fields)
		return
	}
	h.writeInvalidBody(w, r)
}

func (h *Handlers) writeInternalError(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusInternalServerError, h.message(r, i18n.KeyInternalError, ""))
}

func (h *Handlers) writeNotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, h.message(r, i18n.KeyNotFound, i18n.EntityAttributeFamily))
}

func (h *Handlers) writeValidation(w http.ResponseWriter, r *http.Request, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, validationEnvelope{
		Message: h.message(r, i18n.KeyValidationError, ""),
		Errors:  fields,
	})
}

func adminID(r *http.Request) string {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		return ""
	}
	return admin.ID
}
