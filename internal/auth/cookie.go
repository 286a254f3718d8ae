// AngelaMos | 2026
// cookie.go

package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/delivery-admin/internal/config"
	"github.com/carterperez-dev/delivery-admin/internal/core"
)

const cookieIssuer = "delivery-admin"

// CookieCodec wraps the opaque session id in an HS256 signed token so a
// forged or truncated cookie is rejected before Redis is consulted. The
// token carries nothing but the session id and its validity window.
type CookieCodec struct {
	secret []byte
	cfg    config.SessionConfig
	now    func() time.Time
}

func NewCookieCodec(cfg config.SessionConfig) (*CookieCodec, error) {
	if len(cfg.Secret) < config.MinSessionSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes", config.MinSessionSecretLen)
	}

	return &CookieCodec{
		secret: []byte(cfg.Secret),
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

func (c *CookieCodec) Encode(sessionID string) (string, error) {
	now := c.now()

	token, err := jwt.NewBuilder().
		JwtID(sessionID).
		Issuer(cookieIssuer).
		IssuedAt(now).
		Expiration(now.Add(c.cfg.TTL)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), c.secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return string(signed), nil
}

// Decode returns the session id, or core.ErrUnauthorized for anything that
// does not verify.
func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.Parse(
		[]byte(value),
		jwt.WithKey(jwa.HS256(), c.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		return "", fmt.Errorf("decode session cookie: %w", core.ErrUnauthorized)
	}

	sessionID, ok := token.JwtID()
	if !ok || sessionID == "" {
		return "", fmt.Errorf("decode session cookie: missing id: %w", core.ErrUnauthorized)
	}

	return sessionID, nil
}

func (c *CookieCodec) Cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   c.cfg.Domain,
		MaxAge:   int(c.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: sameSite(c.cfg.SameSite),
	}
}

func (c *CookieCodec) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: sameSite(c.cfg.SameSite),
	}
}

func (c *CookieCodec) Name() string {
	return c.cfg.CookieName
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
