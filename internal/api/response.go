package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"paasd/internal/domain"
)

// errorResponse is the JSON error envelope shared by every endpoint.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the log, not the response.
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// pageFromQuery extracts the PageRequest from ?page=&page_size=. Negative
// or unparsable values fall back to defaults rather than erroring.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{}
	if v, err := strconv.ParseUint(r.URL.Query().Get("page"), 10, 32); err == nil {
		p.Page = uint(v)
	}
	if v, err := strconv.ParseUint(r.URL.Query().Get("page_size"), 10, 32); err == nil {
		p.PageSize = uint(v)
	}
	return p
}
