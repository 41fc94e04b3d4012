package api

import (
	"context"
	"errors"

	"github.com/devcol-labs/devcol-backend/models"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the authenticated caller identity to the context
func ctxWithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// ctxGetIdentity retrieves the authenticated caller identity from the context
func ctxGetIdentity(ctx context.Context) (models.Identity, error) {
	value := ctx.Value(identityKey)
	if value == nil {
		return "", errors.New("identity not found in context")
	}
	id, ok := value.(models.Identity)
	if !ok {
		return "", errors.New("identity value has unexpected type")
	}
	return id, nil
}
