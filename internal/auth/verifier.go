package auth

import (
	"context"
	"errors"

	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
)

var (
	// ErrUnauthenticated means the credential is missing, malformed or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the credential is valid but the account is not approved.
	ErrUnauthorized = errors.New("account not approved")
)

// Verifier resolves a bearer credential to an approved user. It runs
// before any event handler is attached to a realtime connection; a
// connection that fails here is refused outright.
type Verifier struct {
	tokens *TokenManager
	users  repository.UserRepository
}

func NewVerifier(tokens *TokenManager, users repository.UserRepository) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

func (v *Verifier) Authenticate(ctx context.Context, credential string) (*domain.User, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := v.tokens.Parse(credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := v.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !user.Approved {
		return nil, ErrUnauthorized
	}

	return user, nil
}
