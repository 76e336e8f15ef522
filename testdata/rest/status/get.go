package status

import "net/http"

// Get reports service health.
func Get(w http.ResponseWriter, r *http.Request) {}
