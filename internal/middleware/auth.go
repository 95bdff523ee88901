package middleware

import (
	"net/http"
	"strings"

	"github.com/shametoflame/ministry/internal/ctxkeys"
	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
)

// RequireAdmin validates the Bearer token and puts the admin email on the
// request context. Requests without a valid token get 401.
func RequireAdmin(admin *service.AdminService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			email, err := admin.ValidateToken(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithAdminEmail(r.Context(), email)
			next(w, r.WithContext(ctx))
		}
	}
}
