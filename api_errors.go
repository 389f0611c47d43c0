package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return e.Detail
}

func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(statusCode int, errorCode, detail string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Detail: detail}
}

var (
	errMissingFile  = newAPIError(http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
	errUploadTooBig = newAPIError(http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "uploaded file is too large")
	errUnknownChart = newAPIError(http.StatusNotFound, "ArtifactNotFound", "unknown chart type")
)

// toAPIError maps ingestion and retrieval errors onto HTTP statuses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return newAPIError(http.StatusBadRequest, string(parseErr.Kind), parseErr.Error())
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return errUploadTooBig
	}
	if errors.Is(err, ErrArtifactNotFound) {
		return newAPIError(http.StatusNotFound, "ArtifactNotFound", ErrArtifactNotFound.Error())
	}
	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "analysis failed: "+err.Error())
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, toAPIError(err))
}
