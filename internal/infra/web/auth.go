package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

type SessionConfig struct {
	HMACSecret   []byte
	CookieName   string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

// SessionManager resolves the authenticated identity from request cookies or
// headers. Tokens are minted by the auth system with the same HMAC secret;
// the profile id travels in the subject claim. Client-supplied identifiers
// outside the signed token are never trusted.
type SessionManager struct{ cfg SessionConfig }

func NewSessionManager(secret string, secure bool, domain, cookieName string, ttl time.Duration) *SessionManager {
	if cookieName == "" {
		cookieName = "ngo_session"
	}
	return &SessionManager{cfg: SessionConfig{
		HMACSecret:   []byte(secret),
		CookieName:   cookieName,
		CookieDomain: domain, // "" is fine if you want host-only cookie
		SecureCookie: secure, // true in prod (TLS)
		TTL:          ttl,
	}}
}

type SessionClaims struct {
	jwt.RegisteredClaims
}

// Mint issues a session cookie for the given profile id. Used by dev tooling
// and tests; production tokens come from the auth system.
func (m *SessionManager) Mint(w http.ResponseWriter, profileID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
			Subject:   profileID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.cfg.HMACSecret)
	if err != nil {
		return "", err
	}

	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     m.cfg.CookieName,
			Value:    signed,
			Path:     "/",
			Domain:   m.cfg.CookieDomain,
			MaxAge:   int(m.cfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   m.cfg.SecureCookie,
			SameSite: http.SameSiteStrictMode,
		})
	}
	return signed, nil
}

// ProfileID resolves the current session's identity, or an error when there
// is no valid session.
func (m *SessionManager) ProfileID(r *http.Request) (string, error) {
	claims, err := m.parseFromRequest(r)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token missing subject")
	}
	return claims.Subject, nil
}

func (m *SessionManager) parseFromRequest(r *http.Request) (*SessionClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return m.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	// Cookie
	if c, err := r.Cookie(m.cfg.CookieName); err == nil {
		return m.parse(c.Value)
	}
	return nil, errors.New("missing token")
}

func (m *SessionManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return m.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
