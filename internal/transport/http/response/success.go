package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the success wrapper every 2xx JSON body uses, matching the
// {"data": ...} shape the gallery frontend consumes.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes v verbatim with the given status. Handlers that need
// the data envelope go through OK or Created instead.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
