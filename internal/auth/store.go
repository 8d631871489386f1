package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Operator is a back-office account: someone allowed to watch live
// carts, not a shopper.
type Operator struct {
	ID    string
	Email string
	Hash  []byte
	Role  string
}

type Store interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, email, password, role, id string) error
	Verify(ctx context.Context, email, password string) (Operator, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePassword(password string) string {
	return strings.TrimSpace(password)
}
