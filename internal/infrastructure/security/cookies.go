package security

import (
	"net/http"
	"time"
)

// RefreshCookieName matches the name both frontends already expect.
const RefreshCookieName = "refreshToken"

// SetRefreshToken installs the refresh token cookie. In production the
// cookie is Secure, SameSite=Strict and __Host- prefixed; in dev it stays
// Lax so the local frontends on another port can send it.
func SetRefreshToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	name := RefreshCookieName
	sameSite := http.SameSiteLaxMode
	if secure {
		name = "__Host-" + RefreshCookieName
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearRefreshToken(w http.ResponseWriter, secure bool) {
	name := RefreshCookieName
	sameSite := http.SameSiteLaxMode
	if secure {
		name = "__Host-" + RefreshCookieName
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

func ReadRefreshToken(r *http.Request) (string, error) {
	if c, err := r.Cookie("__Host-" + RefreshCookieName); err == nil {
		return c.Value, nil
	}
	// fallback for local non-HTTPS development
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
