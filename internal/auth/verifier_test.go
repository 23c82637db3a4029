package auth

import (
	"context"
	"testing"
	"time"

	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifierHarness(t *testing.T, ttl time.Duration) (*Verifier, *TokenManager, *repository.InMemoryUserRepository) {
	t.Helper()

	users := repository.NewInMemoryUserRepository()
	tokens := NewTokenManager("test-secret", ttl)
	return NewVerifier(tokens, users), tokens, users
}

func approvedUser(t *testing.T, users *repository.InMemoryUserRepository) *domain.User {
	t.Helper()

	user := domain.NewUser("Alice", "alice@example.com", "hash")
	user.Approved = true
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthenticateResolvesApprovedUser(t *testing.T) {
	verifier, tokens, users := newVerifierHarness(t, time.Hour)
	user := approvedUser(t, users)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	got, err := verifier.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Alice", got.FullName)
}

func TestAuthenticateMissingCredential(t *testing.T) {
	verifier, _, _ := newVerifierHarness(t, time.Hour)

	_, err := verifier.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateMalformedCredential(t *testing.T) {
	verifier, _, _ := newVerifierHarness(t, time.Hour)

	_, err := verifier.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateExpiredCredential(t *testing.T) {
	verifier, tokens, users := newVerifierHarness(t, -time.Minute)
	user := approvedUser(t, users)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	verifier, _, users := newVerifierHarness(t, time.Hour)
	user := approvedUser(t, users)

	other := NewTokenManager("other-secret", time.Hour)
	token, err := other.Issue(user)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	verifier, tokens, _ := newVerifierHarness(t, time.Hour)

	ghost := domain.NewUser("Ghost", "ghost@example.com", "hash")
	token, err := tokens.Issue(ghost)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateUnapprovedUser(t *testing.T) {
	verifier, tokens, users := newVerifierHarness(t, time.Hour)

	user := domain.NewUser("Pending", "pending@example.com", "hash")
	require.NoError(t, users.Create(context.Background(), user))

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
