package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON renders body as-is with the given status. The body is not wrapped in
// an envelope; clients read top-level fields such as "token".
func JSON(status int, body any) Response {
	return jsonResponse{status: status, body: body}
}

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error renders {"error": message} with the given status.
func Error(status int, message string) Response {
	return jsonResponse{status: status, body: ErrorBody{Error: message}}
}
