package parts

import "net/http"

// api-documents
// Lists the parts of one widget.
func Get(w http.ResponseWriter, r *http.Request) {}
