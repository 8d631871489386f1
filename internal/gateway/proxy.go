package gateway

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"ScanTill/internal/auth"
	"ScanTill/pkg/kit"
)

type ctxKey string

const (
	operatorIDKey   ctxKey = "operator_id"
	operatorRoleKey ctxKey = "operator_role"
)

func OperatorIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorIDKey).(string)
	return v, ok
}

func OperatorRoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorRoleKey).(string)
	return v, ok
}

func AuthJWT(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}
			claims, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), operatorIDKey, claims.OperatorID)
			ctx = context.WithValue(ctx, operatorRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectOperatorHeaders turns verified claims into trusted headers for
// the services behind the gateway. Inbound copies are always stripped
// so a client cannot smuggle an identity past the JWT check.
func InjectOperatorHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del("X-Operator-Id")
		r.Header.Del("X-Operator-Role")

		if id, ok := OperatorIDFromContext(r.Context()); ok && id != "" {
			r.Header.Set("X-Operator-Id", id)
		}
		if role, ok := OperatorRoleFromContext(r.Context()); ok && role != "" {
			r.Header.Set("X-Operator-Role", role)
		}

		next.ServeHTTP(w, r)
	})
}

func NewReverseProxy(target string, log *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if log != nil {
			log.Warn("proxy error",
				zap.Error(err),
				zap.String("target", target),
				zap.String("path", r.URL.Path),
			)
		}
		kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
	}

	return p, nil
}
