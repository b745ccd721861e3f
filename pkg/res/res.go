package res

import (
	"encoding/json"
	"net/http"
)

func Json(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, msg string, statusCode int) {
	Json(w, map[string]any{"error": msg}, statusCode)
}

// Fields writes a 400 with one message per invalid field.
func Fields(w http.ResponseWriter, fields map[string]string) {
	Json(w, fields, http.StatusBadRequest)
}

// Message writes {"message": msg, idKey: id}.
func Message(w http.ResponseWriter, msg, idKey string, id int64, statusCode int) {
	Json(w, map[string]any{"message": msg, idKey: id}, statusCode)
}
