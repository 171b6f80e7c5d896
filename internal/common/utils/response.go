// internal/common/utils/response.go
// Standardized API responses ensure consistency across all endpoints

package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondWithJSON sends a JSON response with the specified status code and payload
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError sends an error response with the specified status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Success: false, Error: message})
}

// RespondWithData sends a success response with data wrapped in the standard format
func RespondWithData(w http.ResponseWriter, code int, data interface{}) {
	RespondWithJSON(w, code, Response{Success: true, Data: data})
}

// RespondWithMessage sends a simple message response
func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Success: true, Message: message})
}
