package auth

import (
	"testing"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &domain.User{ID: 42, Role: domain.RoleAdmin}

	token, err := GenerateToken("secret", time.Minute, user)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, &domain.User{ID: 1})
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", -time.Minute, &domain.User{ID: 1})
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken("", time.Minute, &domain.User{ID: 1})
	assert.Error(t, err)
}
