package widgets

import "net/http"

/*
api-documents
Returns the widget identified by `id`.

| field | type   |
|-------|--------|
| id    | number |
| name  | string |
*/
func Get(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
