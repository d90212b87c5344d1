package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"

	"github.com/fastfood-planner/planner-api/env"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/util"
)

// JWTManager contains the secret loaded from the environment
type JWTManager struct {
	Auth   *jwtauth.JWTAuth
	secret []byte
}

// Claims contains the data used to store a JWT's associated session info.
// SessionID points at the server-side session that holds the user's
// upstream token and in-progress meal
type Claims struct {
	Username     string    `json:"sub"`
	SessionID    string    `json:"planner:sid"`
	IssuedAt     time.Time `json:"iat"`
	ExpiresAfter *int64    `json:"planner:exa"`
}

// NewClaims builds the claims for a session
func NewClaims(session types.Session) *Claims {
	return &Claims{
		Username:     session.Username,
		SessionID:    session.SessionID,
		IssuedAt:     session.IssuedAt,
		ExpiresAfter: session.ExpiresAfter,
	}
}

// Session extracts the types.Session value from the JWT claims
func (c *Claims) Session() *types.Session {
	return &types.Session{
		Username:     c.Username,
		SessionID:    c.SessionID,
		IssuedAt:     c.IssuedAt,
		ExpiresAfter: c.ExpiresAfter,
	}
}

// Valid determines if the claims struct is valid by ensuring it names a
// username and a session, and that it has not passed its expiration
func (c *Claims) Valid() error {
	if c.Username == "" {
		return errors.New("claims cannot have empty username")
	}

	if c.SessionID == "" {
		return errors.New("claims cannot have empty session id")
	}

	// Make sure the claim has not expired
	if c.ExpiresAfter != nil {
		expiresAt := c.IssuedAt.Add(time.Duration(*c.ExpiresAfter) * time.Hour)
		if time.Now().After(expiresAt) {
			return errors.New("claims are expired")
		}
	}

	return nil
}

// NewJWTManager creates a new JWTManager
// and loads the secret from the environment
func NewJWTManager() (*JWTManager, error) {
	jwtSecretStr, err := env.GetEnv("auth JWT secret key", "AUTH_JWT_SECRET")
	if err != nil {
		return nil, err
	}

	// Parse the string into bytes
	encoding := base64.StdEncoding.WithPadding(base64.StdPadding)
	secretBytes, err := encoding.DecodeString(jwtSecretStr)
	if err != nil {
		return nil, err
	}

	// Create the instance of the auth used for middleware
	tokenAuth := jwtauth.New("HS256", secretBytes, nil)

	return &JWTManager{
		Auth:   tokenAuth,
		secret: secretBytes,
	}, nil
}

// IssueJWT creates and signs a new JWT for the given session
func (m *JWTManager) IssueJWT(session types.Session) *jwt.Token {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims(session))
}

// SignToken signs a JWT using the internal secret
func (m *JWTManager) SignToken(token *jwt.Token) (string, error) {
	// Sign and get the complete encoded token as a string
	// using the secret
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return tokenString, err
}

// Authenticated handles seeking, verifying, and validating JWT tokens,
// sending appropriate status codes upon failure.
func (m *JWTManager) Authenticated() func(http.Handler) http.Handler {
	// Seek, verify and validate JWT tokens
	verifier := jwtauth.Verify(m.Auth, jwtauth.TokenFromHeader)
	return func(next http.Handler) http.Handler {
		// Compose the verifier and authenticator functions
		return verifier(authenticator(next))
	}
}

// FromContext extracts the token and claims from the context
func FromContext(ctx context.Context) (*jwt.Token, *Claims, error) {
	token, _ := ctx.Value(jwtauth.TokenCtxKey).(*jwt.Token)
	err, _ := ctx.Value(jwtauth.ErrorCtxKey).(error)

	var claims *Claims = nil
	if token != nil {
		switch tokenClaims := token.Claims.(type) {
		case *Claims:
			claims = tokenClaims
		case jwt.MapClaims:
			// The verifier middleware parses into a claims map,
			// so rebuild the typed struct from it
			claims = claimsFromMap(tokenClaims)
		default:
			err = errors.New("invalid claim type")
		}
	}

	return token, claims, err
}

// claimsFromMap rebuilds a Claims struct from the generic claims map
// produced by the jwtauth verifier
func claimsFromMap(m jwt.MapClaims) *Claims {
	claims := &Claims{}

	if username, ok := m["sub"].(string); ok {
		claims.Username = username
	}
	if sessionID, ok := m["planner:sid"].(string); ok {
		claims.SessionID = sessionID
	}
	if issuedAt, ok := m["iat"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, issuedAt); err == nil {
			claims.IssuedAt = parsed
		}
	}
	if expiresAfter, ok := m["planner:exa"].(float64); ok {
		asInt64 := int64(expiresAfter)
		claims.ExpiresAfter = &asInt64
	}

	return claims
}

// authenticator sends an error response if token validation failed
func authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := FromContext(r.Context())

		if err != nil {
			unauthorized(w)
			return
		}

		if token == nil || !token.Valid {
			unauthorized(w)
			return
		}

		// The verifier only checks the registered JWT claims,
		// so the custom expiration has to be enforced here
		if claims == nil || claims.Valid() != nil {
			unauthorized(w)
			return
		}

		// Token is authenticated, pass it through
		next.ServeHTTP(w, r)
	})
}

// unauthorized sends a response message in the case that validation fails
func unauthorized(w http.ResponseWriter) {
	util.ErrorWithCode(w, errors.New("user is not authorized to access resource"),
		http.StatusUnauthorized)
}
