package rest

import (
	"errors"
	"net/http"
	"strings"
)

// MaxBodySize bounds every JSON request body.
const MaxBodySize = 1 << 20

// IsAPIPath reports whether path is /api or below it.
func IsAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found", r.URL.Path)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" "+r.URL.Path)
}

// LimitBody caps the request body at MaxBodySize. Reads beyond it fail with *http.MaxBytesError.
func LimitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
}

// WriteBodyError answers a failed body read or decode: 413 when the body was too large, 400 otherwise.
func WriteBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", "")
		return
	}
	WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
}
