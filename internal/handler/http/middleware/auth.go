package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a valid access token carrying the
// tenant_id and user_id claims every scoped endpoint depends on.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.Unauthorized(w, "Invalid token type")
				return
			}

			if tenantID, ok := claims["tenant_id"].(string); !ok || tenantID == "" {
				response.Unauthorized(w, "Missing tenant claim")
				return
			}

			if userID, ok := claims["user_id"].(string); !ok || userID == "" {
				response.Unauthorized(w, "Missing user claim")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
