package limits

import (
	"net/http"
)

// Capacity rejects requests with 503 while count() is at or above limit. A limit
// of zero or less disables the check. onReject, if set, runs for every
// rejected request.
func Capacity(count func() int, limit int, onReject func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if count() >= limit {
				if onReject != nil {
					onReject()
				}
				http.Error(w, "Service Busy", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
