package handling

import (
	"net/http"
	"storefront_server/lib"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// URLParamID parses a positive integer path parameter
func URLParamID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, lib.BadRequest("missing %s", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, lib.BadRequest("invalid %s", name)
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter, nil when absent, empty or "null"
func QueryInt(r *http.Request, name string) (*int, error) {
	return optionalInt(r.URL.Query().Get(name), name)
}

// QueryString returns an optional query parameter, nil when absent
func QueryString(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// RequiredQuery returns a mandatory query parameter
func RequiredQuery(r *http.Request, name string) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", lib.BadRequest("missing %s", name)
	}
	return raw, nil
}

// FormInt parses an optional integer multipart form value, same rules as QueryInt
func FormInt(r *http.Request, name string) (*int, error) {
	return optionalInt(r.FormValue(name), name)
}

func optionalInt(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, lib.BadRequest("invalid %s", name)
	}
	return &v, nil
}
