package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/handler/http/response"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/jwt"
)

func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			// Logged-out tokens stay invalid until they expire.
			if tokenID, ok := claims["jti"].(string); ok && jwtService.IsTokenRevoked(tokenID) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
