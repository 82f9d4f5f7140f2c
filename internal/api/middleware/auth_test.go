package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-streaks/internal/api/middleware"
	apierrors "github.com/feral-file/ff-streaks/internal/api/shared/errors"
)

const testIssuer = "https://auth.feralfile.test"

func generateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func publicKeyPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   "publisher-1",
		Issuer:    testIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestNewAuthenticator(t *testing.T) {
	key := generateRSAKey(t)

	t.Run("pkix key", func(t *testing.T) {
		_, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: publicKeyPEM(t, key)})
		assert.NoError(t, err)
	})

	t.Run("pkcs1 key", func(t *testing.T) {
		pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})
		auth, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: string(pkcs1)})
		require.NoError(t, err)

		principal, err := auth.Authenticate("Bearer " + signToken(t, jwt.SigningMethodRS256, key, validClaims()))
		require.NoError(t, err)
		assert.Equal(t, "publisher-1", principal.Subject)
	})

	t.Run("not a pem block", func(t *testing.T) {
		_, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: "not a key"})
		assert.Error(t, err)
	})

	t.Run("no credentials configured", func(t *testing.T) {
		auth, err := middleware.NewAuthenticator(middleware.AuthConfig{})
		require.NoError(t, err)

		_, err = auth.Authenticate("ApiKey anything")
		assert.ErrorIs(t, err, middleware.ErrAPIKeysDisabled)

		_, err = auth.Authenticate("Bearer anything")
		assert.ErrorIs(t, err, middleware.ErrJWTDisabled)
	})
}

func TestAuthenticate_JWT(t *testing.T) {
	key := generateRSAKey(t)
	otherKey := generateRSAKey(t)

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: publicKeyPEM(t, key),
		JWTIssuer:    testIssuer,
	})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		principal, err := auth.Authenticate("Bearer " + signToken(t, jwt.SigningMethodRS256, key, validClaims()))
		require.NoError(t, err)
		assert.Equal(t, middleware.AuthTypeJWT, principal.AuthType)
		assert.Equal(t, "publisher-1", principal.Subject)
		require.NotNil(t, principal.Claims)
		assert.Equal(t, testIssuer, principal.Claims.Issuer)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		_, err := auth.Authenticate("bearer " + signToken(t, jwt.SigningMethodRS512, key, validClaims()))
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name: "expired",
			token: func() string {
				claims := validClaims()
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signToken(t, jwt.SigningMethodRS256, key, claims)
			},
			wantErr: jwt.ErrTokenExpired,
		},
		{
			name: "not yet valid",
			token: func() string {
				claims := validClaims()
				claims.NotBefore = jwt.NewNumericDate(time.Now().Add(30 * time.Minute))
				return signToken(t, jwt.SigningMethodRS256, key, claims)
			},
			wantErr: jwt.ErrTokenNotValidYet,
		},
		{
			name: "without expiry",
			token: func() string {
				claims := validClaims()
				claims.ExpiresAt = nil
				return signToken(t, jwt.SigningMethodRS256, key, claims)
			},
			wantErr: jwt.ErrTokenRequiredClaimMissing,
		},
		{
			name: "signed by another key",
			token: func() string {
				return signToken(t, jwt.SigningMethodRS256, otherKey, validClaims())
			},
			wantErr: jwt.ErrTokenSignatureInvalid,
		},
		{
			name: "hmac signed",
			token: func() string {
				return signToken(t, jwt.SigningMethodHS256, []byte(publicKeyPEM(t, key)), validClaims())
			},
			wantErr: jwt.ErrTokenSignatureInvalid,
		},
		{
			name: "other issuer",
			token: func() string {
				claims := validClaims()
				claims.Issuer = "https://elsewhere.test"
				return signToken(t, jwt.SigningMethodRS256, key, claims)
			},
			wantErr: jwt.ErrTokenInvalidIssuer,
		},
		{
			name:    "garbage",
			token:   func() string { return "a.b.c" },
			wantErr: jwt.ErrTokenMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := auth.Authenticate("Bearer " + tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, principal)
		})
	}
}

func TestAuthenticate_APIKey(t *testing.T) {
	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{"", "key-1", "key-2"}})
	require.NoError(t, err)

	principal, err := auth.Authenticate("ApiKey key-2")
	require.NoError(t, err)
	assert.Equal(t, middleware.AuthTypeAPIKey, principal.AuthType)
	assert.Empty(t, principal.Subject)

	_, err = auth.Authenticate("ApiKey key-3")
	assert.ErrorIs(t, err, middleware.ErrInvalidAPIKey)

	_, err = auth.Authenticate("")
	assert.ErrorIs(t, err, middleware.ErrMissingCredentials)

	_, err = auth.Authenticate("key-1")
	assert.ErrorIs(t, err, middleware.ErrMalformedHeader)

	_, err = auth.Authenticate("ApiKey ")
	assert.ErrorIs(t, err, middleware.ErrMalformedHeader)

	_, err = auth.Authenticate("Basic a2V5LTE=")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key := generateRSAKey(t)

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: publicKeyPEM(t, key)})
	require.NoError(t, err)

	router := gin.New()
	router.POST("/submit", auth.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"type":    c.GetString(middleware.AuthTypeKey),
			"subject": c.GetString(middleware.AuthSubjectKey),
		})
	})

	send := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("authenticated subject reaches the handler", func(t *testing.T) {
		w := send("Bearer " + signToken(t, jwt.SigningMethodRS256, key, validClaims()))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"type":"jwt","subject":"publisher-1"}`, w.Body.String())
	})

	t.Run("expired token is rejected with the error envelope", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		w := send("Bearer " + signToken(t, jwt.SigningMethodRS256, key, claims))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		var resp apierrors.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, apierrors.ErrCodeUnauthorized, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "expired")
	})

	t.Run("missing header", func(t *testing.T) {
		w := send("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
