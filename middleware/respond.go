package middleware

import (
	"encoding/json"
	"net/http"

	garmr "github.com/shipdventures/neoma-garmr"
)

// respondError writes the error as a JSON body with the status code the
// garmr error taxonomy maps it to.
func respondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(garmr.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
