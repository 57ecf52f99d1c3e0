package lib

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	token, err := GenerateJWT(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, decoded)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	_, err := VerifyJWT("not-a-token")
	assert.Error(t, err)
}

func TestVerifyJWTRejectsWrongKey(t *testing.T) {
	claims := jwt.MapClaims{"userId": primitive.NewObjectID().Hex()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = VerifyJWT(signed)
	assert.Error(t, err)
}

func TestVerifyJWTRejectsMissingUserID(t *testing.T) {
	claims := jwt.MapClaims{"sub": "whatever"}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	require.NoError(t, err)

	_, err = VerifyJWT(signed)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"empty header", "", "", false},
		{"no prefix", "abc123", "", false},
		{"prefix only", "Bearer ", "", false},
		{"wrong scheme", "Basic abc123", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
