package server

import (
	"encoding/json"
	"net/http"

	"wavebox/logger"
)

// apiResponse is the envelope every endpoint replies with.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// newPagination computes the page envelope; Pages is ceil(total/limit).
func newPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// respondData replies with a success envelope carrying data.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

// respondMessage replies with a success envelope carrying only a message.
func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: true, Message: message})
}

// respondError replies with a failure envelope. The message is the generic
// category text; internal detail stays in the server log.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Error: message})
}
