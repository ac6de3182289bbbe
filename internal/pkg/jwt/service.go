package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	Issuer = "placeprep"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the caller's role on access tokens only. A refresh token
// names the user, who is reloaded before a new access token is minted.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateAccessToken(tokenString string) (Claims, error)
	ValidateRefreshToken(tokenString string) (Claims, error)
}

// key is the signing secret and lifetime of one token type.
type key struct {
	secret []byte
	ttl    time.Duration
}

func (k key) usable() bool { return len(k.secret) > 0 && k.ttl > 0 }

// HMACService signs both token types with HS256 under separate secrets, so
// a refresh token never validates as an access token.
type HMACService struct {
	access  key
	refresh key
	now     func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *HMACService {
	return &HMACService{
		access:  key{secret: []byte(accessSecret), ttl: accessTTL},
		refresh: key{secret: []byte(refreshSecret), ttl: refreshTTL},
		now:     time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email, role string) (string, error) {
	return s.sign(s.access, Claims{UserID: userID, Email: email, Role: role, TokenType: TokenTypeAccess})
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(s.refresh, Claims{UserID: userID, TokenType: TokenTypeRefresh})
}

func (s *HMACService) ValidateAccessToken(tokenString string) (Claims, error) {
	return s.parse(s.access, tokenString, TokenTypeAccess)
}

func (s *HMACService) ValidateRefreshToken(tokenString string) (Claims, error) {
	return s.parse(s.refresh, tokenString, TokenTypeRefresh)
}

func (s *HMACService) sign(k key, c Claims) (string, error) {
	if !k.usable() || c.UserID == uuid.Nil {
		return "", ErrTokenInvalid
	}
	issued := s.now().UTC()
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    Issuer,
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(issued),
		ExpiresAt: jwtlib.NewNumericDate(issued.Add(k.ttl)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(k.secret)
}

func (s *HMACService) parse(k key, tokenString, wantType string) (Claims, error) {
	if tokenString == "" || len(k.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	_, err := parser.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return k.secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, ErrTokenInvalid
	case c.TokenType != wantType || c.UserID == uuid.Nil:
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
