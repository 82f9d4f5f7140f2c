package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-streaks/internal/api/shared/errors"
	"github.com/feral-file/ff-streaks/internal/logger"
)

// Gin context keys set for authenticated submitters
const (
	AuthTypeKey    = "auth_type"
	AuthSubjectKey = "auth_subject"
	JWTClaimsKey   = "jwt_claims"
)

const (
	AuthTypeJWT    = "jwt"
	AuthTypeAPIKey = "apikey"
)

var (
	ErrMissingCredentials = errors.New("missing Authorization header")
	ErrMalformedHeader    = errors.New("invalid Authorization header format")
	ErrJWTDisabled        = errors.New("JWT public key not configured")
	ErrAPIKeysDisabled    = errors.New("no API keys configured")
	ErrInvalidAPIKey      = errors.New("invalid API key")
)

// AuthConfig holds authentication configuration for bundle submission
type AuthConfig struct {
	// JWTPublicKey is an RSA public key in PEM form (PKIX or PKCS1); empty disables Bearer tokens
	JWTPublicKey string
	// JWTIssuer, when set, must match the iss claim
	JWTIssuer string
	APIKeys   []string
}

// Principal describes an authenticated submitter
type Principal struct {
	AuthType string
	Subject  string
	Claims   *jwt.RegisteredClaims
}

// Authenticator checks "Bearer <jwt>" and "ApiKey <key>" credentials.
// Bearer tokens must be RSA signed by the configured key and carry an expiry.
type Authenticator struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
	apiKeys   [][]byte
}

// NewAuthenticator parses the configured public key once so a bad key fails at startup
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{}

	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}

	if cfg.JWTPublicKey == "" {
		return a, nil
	}

	publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	a.publicKey = publicKey

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	a.parser = jwt.NewParser(opts...)

	return a, nil
}

// Authenticate validates an Authorization header value
func (a *Authenticator) Authenticate(authHeader string) (*Principal, error) {
	if authHeader == "" {
		return nil, ErrMissingCredentials
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || credentials == "" {
		return nil, ErrMalformedHeader
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			return nil, err
		}
		return &Principal{AuthType: AuthTypeJWT, Subject: claims.Subject, Claims: claims}, nil

	case "apikey":
		if err := a.validateAPIKey(credentials); err != nil {
			return nil, err
		}
		return &Principal{AuthType: AuthTypeAPIKey}, nil
	}

	return nil, fmt.Errorf("unsupported authorization type: %s", scheme)
}

// Middleware rejects unauthenticated requests with a 401 error envelope
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.ErrorResponse{
				Error: apierrors.NewUnauthorizedError("Authentication failed", err.Error()),
			})
			return
		}

		c.Set(AuthTypeKey, principal.AuthType)
		if principal.Claims != nil {
			c.Set(JWTClaimsKey, principal.Claims)
		}
		if principal.Subject != "" {
			c.Set(AuthSubjectKey, principal.Subject)
		}
		logger.DebugCtx(c.Request.Context(), "Authenticated submitter",
			zap.String("auth_type", principal.AuthType),
			zap.String("subject", principal.Subject),
			zap.String("path", c.Request.URL.Path),
		)

		c.Next()
	}
}

func (a *Authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.parser == nil {
		return nil, ErrJWTDisabled
	}

	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return claims, nil
}

func (a *Authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return ErrAPIKeysDisabled
	}

	for _, key := range a.apiKeys {
		if subtle.ConstantTimeCompare(key, []byte(apiKey)) == 1 {
			return nil
		}
	}
	return ErrInvalidAPIKey
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
