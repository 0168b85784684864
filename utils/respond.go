package utils

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes an error body of the form {"msg": "..."}.
func JSONError(w http.ResponseWriter, msg string, status int) {
	JSON(w, status, map[string]string{"msg": msg})
}
