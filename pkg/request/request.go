// Package request reads path parameters, pagination and JSON bodies for the
// feature handlers. Each helper writes the 400 response itself and reports
// whether the handler may continue.
package request

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/settleup/pkg/response"
)

// Pagination defaults
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Validator is implemented by request bodies that check their own fields
type Validator interface {
	Validate() error
}

// Page is a requested page of a list
type Page struct {
	Number  int
	PerPage int
}

// Meta builds the response metadata for this page
func (p Page) Meta(total int) *response.Meta {
	return response.NewMeta(p.Number, p.PerPage, total)
}

// Paging reads page and per_page from the query string. Missing or invalid
// values fall back to page 1 and DefaultPerPage; per_page above MaxPerPage
// also falls back.
func Paging(r *http.Request) Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Page{Number: page, PerPage: perPage}
}

// ID parses the chi URL parameter param as a positive int64.
// what names the entity in the error message, e.g. "group".
func ID(w http.ResponseWriter, r *http.Request, param, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

// Decode reads the JSON body into v and runs its Validate method if it has one
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			response.BadRequest(w, err.Error())
			return false
		}
	}
	return true
}
