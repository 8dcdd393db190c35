package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec([]byte("test-secret"), 30*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	subject, err := codec.SubjectOfAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.IssueRefresh("user-1")
	require.NoError(t, err)

	// decodes fine as a refresh token
	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	// but never passes the access-type gate
	_, err = codec.SubjectOfAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.IssueAccessTTL("user-1", -1*time.Second)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.SubjectOfAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	codec := newTestCodec()
	other := NewTokenCodec([]byte("other-secret"), 30*time.Minute, 7*24*time.Hour)

	token, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	codec := newTestCodec()

	for _, token := range []string{"", "not a token", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := codec.Decode(token)
		assert.ErrorIsf(t, err, ErrInvalidToken, "token %q must not decode", token)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	codec := newTestCodec()

	first, err := codec.IssueAccess("user-1")
	require.NoError(t, err)
	second, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	// same subject and TTL within the same second still differ via jti
	assert.NotEqual(t, first, second)
}
