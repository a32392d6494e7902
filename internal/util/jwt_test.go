package util

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tokenString, err := GenerateToken(42)
	require.NoError(t, err)

	userID, err := ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateTokenEmpty(t *testing.T) {
	_, err := ValidateToken("")
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	tokenString, err := GenerateToken(7)
	require.NoError(t, err)

	refreshed, err := RefreshToken(tokenString)
	require.NoError(t, err)

	userID, err := ValidateToken(refreshed)
	assert.NoError(t, err)
	assert.Equal(t, 7, userID)
}

// 缺少 user_id 声明的令牌应返回错误而不是崩溃
func TestRefreshTokenMissingUserID(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	require.NoError(t, err)

	_, err = RefreshToken(tokenString)
	assert.Error(t, err)
}
