package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

// Application headers carried on every mutating response. Clients use the
// alert key for toast messages and the params value for interpolation.
const (
	alertHeader  = "X-rentalsApp-alert"
	errorHeader  = "X-rentalsApp-error"
	paramsHeader = "X-rentalsApp-params"

	totalCountHeader = "X-Total-Count"
)

// Machine-readable error keys.
const (
	errKeyIDExists   = "error.idexists"
	errKeyValidation = "error.validation"
)

func setCreationAlert(w http.ResponseWriter, entity string, id int64) {
	w.Header().Set(alertHeader, fmt.Sprintf("rentalsApp.%s.created", entity))
	w.Header().Set(paramsHeader, strconv.FormatInt(id, 10))
}

func setUpdateAlert(w http.ResponseWriter, entity string, id int64) {
	w.Header().Set(alertHeader, fmt.Sprintf("rentalsApp.%s.updated", entity))
	w.Header().Set(paramsHeader, strconv.FormatInt(id, 10))
}

func setDeletionAlert(w http.ResponseWriter, entity string, id int64) {
	w.Header().Set(alertHeader, fmt.Sprintf("rentalsApp.%s.deleted", entity))
	w.Header().Set(paramsHeader, strconv.FormatInt(id, 10))
}

func setErrorAlert(w http.ResponseWriter, key, entity string) {
	w.Header().Set(errorHeader, key)
	w.Header().Set(paramsHeader, entity)
}

// parsePageRequest reads page and size query parameters, falling back to the
// defaults and clamping out-of-range values.
func parsePageRequest(r *http.Request) sharedDomain.PageRequest {
	page := sharedDomain.DefaultPageRequest()
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Size = n
		}
	}
	return page.Normalize()
}

// writePageHeaders writes X-Total-Count and an RFC 5988 Link header with
// first/prev/next/last relations for the current page.
func writePageHeaders(w http.ResponseWriter, r *http.Request, page sharedDomain.PageRequest, totalCount int64) {
	w.Header().Set(totalCountHeader, strconv.FormatInt(totalCount, 10))

	lastPage := 0
	if totalCount > 0 {
		lastPage = int((totalCount - 1) / int64(page.Size))
	}

	links := make([]string, 0, 4)
	if page.Page < lastPage {
		links = append(links, pageLink(r, page.Page+1, page.Size, "next"))
	}
	if page.Page > 0 {
		links = append(links, pageLink(r, page.Page-1, page.Size, "prev"))
	}
	links = append(links,
		pageLink(r, lastPage, page.Size, "last"),
		pageLink(r, 0, page.Size, "first"),
	)

	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(r *http.Request, page, size int, rel string) string {
	values := url.Values{}
	for k, v := range r.URL.Query() {
		if k == "page" || k == "size" {
			continue
		}
		values[k] = v
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	return fmt.Sprintf("<%s?%s>; rel=\"%s\"", r.URL.Path, values.Encode(), rel)
}

// parseIDPath reads the {id} path value as an int64.
func parseIDPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
