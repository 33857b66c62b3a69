package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. Access tokens authenticate requests; refresh tokens may only be
// exchanged for a new access token.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// ErrInvalidToken covers bad signature, malformed input, expiry, and kind mismatch.
var ErrInvalidToken = errors.New("invalid token")

// Issuer mints and verifies signed tokens. It holds no state beyond the
// signing secret and the two lifetimes, all set at construction.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

type claims struct {
	UserID int    `json:"user_id"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// IssueAccess mints a short-lived access token for the user.
func (i *Issuer) IssueAccess(userID int) (string, error) {
	return i.issue(userID, KindAccess, i.accessTTL)
}

// IssueRefresh mints a longer-lived refresh token for the user.
func (i *Issuer) IssueRefresh(userID int) (string, error) {
	return i.issue(userID, KindRefresh, i.refreshTTL)
}

func (i *Issuer) issue(userID int, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

// Verify checks signature, expiry, and that the token carries the expected
// kind, returning the user id it was issued for.
func (i *Issuer) Verify(tokenStr, expectedKind string) (int, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if c.Kind != expectedKind || c.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return c.UserID, nil
}
