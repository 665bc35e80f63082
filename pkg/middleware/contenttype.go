package middleware

import (
	"mime"
	"net/http"

	"github.com/DannyJSullivan/card-inventory-api/pkg/httputil"
)

// RequireContentType rejects requests with a body whose media type is not
// one of the allowed types with 415 Unsupported Media Type.
func RequireContentType(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 && r.Header.Get("Content-Type") == "" {
				next.ServeHTTP(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if _, ok := set[mediaType]; err != nil || !ok {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
					Detail: "unsupported content type",
					Code:   "UNSUPPORTED_MEDIA_TYPE",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
