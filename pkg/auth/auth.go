package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// JWTKey is the HS256 signing key shared with the identity provider.
var JWTKey = []byte("supersecret")

type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

type contextKey int

const (
	contextKeyUserName contextKey = iota + 1
	contextKeyUserRole
)

var ErrNoIdentity = errors.New("no identity in context")

func SetAuthContext(ctx context.Context, userName, role string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserName, userName)
	return context.WithValue(ctx, contextKeyUserRole, role)
}

func GetUserName(ctx context.Context) (string, error) {
	name, ok := ctx.Value(contextKeyUserName).(string)
	if !ok || name == "" {
		return "", ErrNoIdentity
	}
	return name, nil
}

func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(contextKeyUserRole).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetRole(ctx) == RoleAdmin
}
