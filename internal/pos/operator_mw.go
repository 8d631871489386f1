package pos

import (
	"context"
	"net/http"

	"ScanTill/pkg/kit"
)

type ctxKey string

const operatorKey ctxKey = "operator"

type Operator struct {
	ID   string
	Role string
}

func OperatorFromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey).(Operator)
	return op, ok
}

// RequireOperatorHeaders trusts the identity headers the gateway
// injects after verifying the JWT. The pos service itself never parses
// tokens.
func RequireOperatorHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Operator-Id")
		if id == "" {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing operator identity", nil)
			return
		}

		op := Operator{ID: id, Role: r.Header.Get("X-Operator-Role")}
		ctx := context.WithValue(r.Context(), operatorKey, op)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
