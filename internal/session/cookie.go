package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the browser cookie carrying the signed session reference.
const CookieName = "clinic_session"

// CookieCodec signs session ids into the browser cookie as HMAC JWTs, so a
// stolen or fabricated cookie value cannot be used to probe session keys.
// This is advisory client-side gating only; the clinic API must authorize
// every request independently.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// Encode wraps a session id in a signed token.
func (c *CookieCodec) Encode(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return signed, nil
}

// Decode validates a cookie value and returns the session id inside it.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("session: invalid cookie")
	}
	return claims.Subject, nil
}

// SetCookie writes the signed session cookie on a response.
func (c *CookieCodec) SetCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on a response.
func (c *CookieCodec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SIDFromRequest extracts and validates the session id from a request's
// cookie. Absence or an invalid signature both read as "no session".
func (c *CookieCodec) SIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	sid, err := c.Decode(cookie.Value)
	if err != nil {
		return "", false
	}
	return sid, true
}
