package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var (
	ErrInvalidInput = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
)

// ValidationErrors maps a field name to its failure messages, matching
// the field-keyed detail policy for 400 responses.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field string, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

func respondJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(writer).Encode(body)
	}
}

func respondDetail(writer http.ResponseWriter, status int, detail string) {
	respondJSON(writer, status, map[string]string{"detail": detail})
}

func respondValidationErrors(writer http.ResponseWriter, errs ValidationErrors) {
	respondJSON(writer, http.StatusBadRequest, errs)
}

func respondNotFound(writer http.ResponseWriter) {
	respondDetail(writer, http.StatusNotFound, "Not found.")
}

func respondForbidden(writer http.ResponseWriter) {
	respondDetail(writer, http.StatusForbidden, "You do not have permission to perform this action.")
}

func decodeBody(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return ErrInvalidInput
	}

	return nil
}

func idParam(request *http.Request) (uint, error) {
	raw := chi.URLParam(request, "id")

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, ErrNotFound
	}

	return uint(id), nil
}

// boolParam reads 0/1 query flags; absent or malformed
// values read as false.
func boolParam(request *http.Request, name string) bool {
	value, err := strconv.Atoi(request.URL.Query().Get(name))

	return err == nil && value != 0
}
