package api

import (
	"encoding/json"
	"net/http"
)

// Response — единый формат сообщений API: {"message": "..."}
type Response struct {
	Message string `json:"message"`
}

// JSON сериализует v и пишет его с указанным статусом.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error пишет ошибку в формате {"message": string}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Response{Message: msg})
}
