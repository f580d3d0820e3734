package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type StatusResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteStatus writes a probe-style body. A non-nil err marks the response as
// a failure and carries its message.
func WriteStatus(w http.ResponseWriter, r *http.Request, code int, status string, err error, details any) {
	resp := StatusResponse{
		Status:    status,
		Details:   details,
		RequestID: chimw.GetReqID(r.Context()),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	WriteJSON(w, code, resp)
}
