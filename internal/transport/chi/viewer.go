package chi

import (
	"context"
	"net/http"
)

// viewerHeader carries the authenticated user id, set by the gateway in front
// of this service. Authentication itself happens upstream; an absent header
// means an anonymous viewer.
const viewerHeader = "X-User-ID"

type viewerKey struct{}

// ViewerMiddleware extracts the viewer identity into the request context.
func ViewerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get(viewerHeader); id != "" {
				r = r.WithContext(context.WithValue(r.Context(), viewerKey{}, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ViewerFromContext returns the viewer id, "" for anonymous requests.
func ViewerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(viewerKey{}).(string)
	return id
}
