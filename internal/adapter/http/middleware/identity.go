package middleware

import (
	"net/http"
	"strings"

	"github.com/contaledger/contaledger/internal/domain"
)

// UserIDHeader carries the acting user's identifier.
const UserIDHeader = "X-User-ID"

// Identity stores the X-User-ID header value in the request context.
// Requests without the header pass through anonymously.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := strings.TrimSpace(r.Header.Get(UserIDHeader)); userID != "" {
			r = r.WithContext(domain.WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
