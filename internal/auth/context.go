package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

type identityKey struct{}

type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
