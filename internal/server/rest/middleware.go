package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
)

type ctxKey string

const subjectIDKey ctxKey = "subjectID"

// SubjectID extracts the authenticated user id set by requireAuth.
func SubjectID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectIDKey).(string)
	return id, ok && id != ""
}

// requireAuth verifies the bearer token and injects the subject id into the
// request context. Every failure short-circuits with a 401 before any
// handler code runs; the subject id is the only value written and it lives
// no longer than the request.
func (s *RESTServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Missing token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token format")
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
