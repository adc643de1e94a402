package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ledovskis/taskkeeper/internal/common"
)

type ctxKey string

const (
	ownerIDKey ctxKey = "ownerID"
	tokenKey   ctxKey = "token"
)

// withAuth resolves the bearer token to its owner and rejects the request with
// 401 otherwise. The owner id and the raw token are stored in the request
// context for the wrapped handler.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			s.writeError(w, r, common.ErrInvalidToken)
			return
		}
		token := strings.TrimPrefix(header, common.BearerPrefix)

		user, err := s.users.CheckToken(r.Context(), token)
		if err != nil {
			s.logger.Warn(r.Context(), "rejected bearer token", "path", r.URL.Path)
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, user.ID)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerID returns the authenticated user id placed by withAuth.
func ownerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey).(string)
	return id
}

// bearerToken returns the raw token placed by withAuth.
func bearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
