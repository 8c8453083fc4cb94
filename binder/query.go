package binder

import "net/http"

// Query binds URL query parameters into fields tagged `query:"name"`.
// Missing parameters leave the field untouched, so defaults set by the
// caller survive.
//
//	type listRequest struct {
//		Limit int `query:"limit"`
//		From  int `query:"from"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindStruct(v, "query", func(name string) []string { return q[name] }, ErrInvalidQuery)
	}
}
