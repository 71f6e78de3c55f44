package middleware

import (
	"net/http"

	"exercisely-backend/pkg/observability"
)

// Tracing opens a trace segment per request. The segment name carries
// the method and path so traces group by route.
func Tracing(tracer *observability.Tracer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, seg := tracer.StartSegment(r.Context(), r.Method+" "+r.URL.Path)
			defer seg.Close(nil)

			tracer.AddAnnotation(ctx, "method", r.Method)
			tracer.AddAnnotation(ctx, "path", r.URL.Path)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
